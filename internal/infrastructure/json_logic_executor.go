package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/interfaces"
	"github.com/diegoholiveira/jsonlogic/v3"
	"github.com/spf13/cast"
)

const defaultGuardMessage = "Guard condition matched"

// JsonLogicGuardExecutor runs guard rules against a generated payload. A rule
// that evaluates to true is a violation.
//
// Rules see the payload under "payload" and, because amounts are rendered as
// "0.00" strings, a numeric copy of it under "numbers".
type JsonLogicGuardExecutor struct{}

func NewJsonLogicGuardExecutor() interfaces.GuardExecutor {
	return &JsonLogicGuardExecutor{}
}

func (j *JsonLogicGuardExecutor) Execute(ctx context.Context, guard domain.GuardRule, payload map[string]any) (*domain.GuardViolation, error) {
	ruleJSON, err := json.Marshal(guard.Logic)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrGuardExecutionFailed, guard.ID, err)
	}
	dataJSON, err := guardData(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrGuardExecutionFailed, guard.ID, err)
	}

	var result bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(ruleJSON), bytes.NewReader(dataJSON), &result); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrGuardExecutionFailed, guard.ID, err)
	}

	var out any
	if result.Len() > 0 {
		if err := json.Unmarshal(result.Bytes(), &out); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrGuardExecutionFailed, guard.ID, err)
		}
	}
	if hit, ok := out.(bool); !ok || !hit {
		return nil, nil
	}

	msg := guard.ErrorMessage
	if msg == "" {
		msg = defaultGuardMessage
	}
	return &domain.GuardViolation{
		RuleID:  guard.ID,
		Reason:  "Violation Detected",
		Context: msg,
	}, nil
}

func guardData(payload map[string]any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{"payload": generic, "numbers": numericView(generic)})
}

// numericView mirrors the payload keeping only values that parse as numbers.
func numericView(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if n := numericView(item); n != nil {
				out[k] = n
			}
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, numericView(item))
		}
		return out
	case string:
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return nil
		}
		return f
	case bool, nil:
		return nil
	default:
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return nil
		}
		return f
	}
}
