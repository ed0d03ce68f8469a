package infrastructure

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyRecordPatch applies an RFC 6902 patch to the JSON form of a record and
// normalizes the result. The original record is left untouched.
func ApplyRecordPatch(original *model.OrderRecord, patchData []byte, now time.Time) (*model.OrderRecord, error) {
	if original == nil {
		original = &model.OrderRecord{}
	}
	originalJSON, err := json.Marshal(original)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	patch, err := jsonpatch.DecodePatch(patchData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode patch: %w", err)
	}

	modifiedJSON, err := patch.Apply(originalJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to apply patch: %w", err)
	}

	var updated model.OrderRecord
	if err := json.Unmarshal(modifiedJSON, &updated); err != nil {
		return nil, fmt.Errorf("patched record is invalid: %w", err)
	}
	return model.NormalizeRecord(&updated, now), nil
}
