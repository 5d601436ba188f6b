package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// encodeObject writes a JSON object whose keys appear in the given order
func encodeObject(n int, entry func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, value := entry(i)
		keyData, err := marshalPlain(key)
		if err != nil {
			return nil, err
		}
		valueData, err := marshalPlain(value)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", key, err)
		}
		buf.Write(keyData)
		buf.WriteByte(':')
		buf.Write(valueData)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalPlain is json.Marshal without HTML escaping, so "&" in section
// names stays literal
func marshalPlain(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// decodeObject walks a JSON object in key order, handing each value's
// decoder to member. It reports false for a JSON null.
func decodeObject(data []byte, member func(key string, dec *json.Decoder) error) (bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return false, err
	}
	if tok == nil {
		return false, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return false, fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return false, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return false, fmt.Errorf("expected string key, got %v", keyTok)
		}
		if err := member(key, dec); err != nil {
			return false, fmt.Errorf("%s: %w", key, err)
		}
	}

	if _, err := dec.Token(); err != nil {
		return false, err
	}
	return true, nil
}
