package mappers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// decodeMeta decodes a JSON object column. Numbers stay json.Number so that
// byte counters above 2^53 survive the round trip.
func decodeMeta(raw datatypes.JSON) (map[string]interface{}, error) {
	meta := make(map[string]interface{})
	if len(raw) == 0 || string(raw) == "null" {
		return meta, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meta: %w", err)
	}
	return meta, nil
}

func encodeMeta(meta map[string]interface{}) (datatypes.JSON, error) {
	if len(meta) == 0 {
		return datatypes.JSON("{}"), nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meta: %w", err)
	}
	return datatypes.JSON(data), nil
}
