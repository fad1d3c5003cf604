package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DateLayout is the wire and SQL text format of date-only columns.
const DateLayout = "2006-01-02"

// scanJSON decodes a jsonb column into dst.
func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
}

func valueJSON(v interface{}) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
