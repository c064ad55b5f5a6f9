package utils

import (
	"encoding/json"
)

// MarshalToPrettyJSON renders input the way exports and CLIs print it.
func MarshalToPrettyJSON[T any](input T) ([]byte, error) {
	return json.MarshalIndent(input, "", "  ")
}
