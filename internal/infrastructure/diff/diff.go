package diff

import (
	"encoding/json"
	"fmt"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

type Differ struct{}

func NewDiffer() *Differ {
	return &Differ{}
}

// Diagnostics matches diagnostics by id and message. Order follows the input lists.
func (d *Differ) Diagnostics(before, after []domain.ValidationError) domain.DiagnosticsDelta {
	delta := domain.DiagnosticsDelta{
		Added:    []domain.ValidationError{},
		Resolved: []domain.ValidationError{},
	}
	prev := index(before)
	next := index(after)
	for _, v := range after {
		if !prev[key(v)] {
			delta.Added = append(delta.Added, v)
		}
	}
	for _, v := range before {
		if !next[key(v)] {
			delta.Resolved = append(delta.Resolved, v)
		}
	}
	return delta
}

// Payload returns the JSON merge patch that turns expected into actual. An
// empty object means both payloads are equivalent.
func (d *Differ) Payload(expected, actual map[string]any) (json.RawMessage, error) {
	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		return nil, fmt.Errorf("failed to encode expected payload: %w", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	patch, err := jsonpatch.CreateMergePatch(expectedJSON, actualJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to diff payloads: %w", err)
	}
	return patch, nil
}

func key(v domain.ValidationError) string {
	return v.ID + "\x00" + v.Message
}

func index(list []domain.ValidationError) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, v := range list {
		out[key(v)] = true
	}
	return out
}
