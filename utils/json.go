package utils

import (
	"encoding/json"
	"strings"
)

// EncodeJSONColumn renders v for a text column.
func EncodeJSONColumn[T any](v T) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeJSONColumn reads a text column into out, a blank column leaves out untouched.
func DecodeJSONColumn[T any](raw string, out *T) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}
