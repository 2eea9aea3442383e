package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonbStrings mapea una columna JSONB con un array de strings.
type jsonbStrings []string

func (j jsonbStrings) Value() (driver.Value, error) {
	if j == nil {
		j = jsonbStrings{}
	}
	b, err := json.Marshal([]string(j))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *jsonbStrings) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil || raw == nil {
		*j = jsonbStrings{}
		return err
	}
	return json.Unmarshal(raw, (*[]string)(j))
}

// jsonbObject mapea una columna JSONB con un objeto.
type jsonbObject map[string]any

func (j jsonbObject) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]any(j))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *jsonbObject) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil || raw == nil {
		*j = jsonbObject{}
		return err
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	*j = m
	return nil
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("jsonb: unsupported source type %T", src)
	}
}
