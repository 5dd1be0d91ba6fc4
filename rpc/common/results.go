package common

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// --------------------------------------------------------------------------
// Result encodings of the store commands
// --------------------------------------------------------------------------

// Results are opaque bytes on the wire. The store commands use these
// encodings, so both sides agree on them:
//   - Get: the raw value
//   - Put: no result
//   - Remove, Contains: "true" or "false"
//   - Keys: a JSON array of strings
//   - Size, Ping: decimal number / node name

// EncodeBool encodes a boolean result
func EncodeBool(b bool) []byte {
	return []byte(strconv.FormatBool(b))
}

// DecodeBool decodes a boolean result
func DecodeBool(result []byte) (bool, error) {
	b, err := strconv.ParseBool(string(result))
	if err != nil {
		return false, fmt.Errorf("invalid boolean result %q: %w", result, err)
	}
	return b, nil
}

// EncodeSize encodes a size result
func EncodeSize(n int) []byte {
	return []byte(strconv.Itoa(n))
}

// DecodeSize decodes a size result
func DecodeSize(result []byte) (int, error) {
	n, err := strconv.Atoi(string(result))
	if err != nil {
		return 0, fmt.Errorf("invalid size result %q: %w", result, err)
	}
	return n, nil
}

// EncodeKeys encodes a key list result
func EncodeKeys(keys []string) ([]byte, error) {
	if keys == nil {
		keys = []string{}
	}
	return json.Marshal(keys)
}

// DecodeKeys decodes a key list result
func DecodeKeys(result []byte) ([]string, error) {
	var keys []string
	if err := json.Unmarshal(result, &keys); err != nil {
		return nil, fmt.Errorf("invalid keys result: %w", err)
	}
	return keys, nil
}
