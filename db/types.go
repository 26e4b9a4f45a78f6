package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata represents a flexible key-value store for structured log context, stored as JSON in the database.
// It implements the sql.Scanner and driver.Valuer interfaces to handle database serialization.
type Metadata map[string]any

// Scan implements the sql.Scanner interface, allowing Metadata to be read from the database.
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = make(Metadata)
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T", v)
	}

	if err := json.Unmarshal(raw, m); err != nil {
		return fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return nil
}

// Value implements the driver.Valuer interface, allowing Metadata to be written to the database.
func (m Metadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}
