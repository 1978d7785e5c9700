package toml

import (
	"bytes"
)

// Marshaler is the interface implemented by types that can marshal
// themselves into a valid TOML value.
type Marshaler interface {
	MarshalTOML() ([]byte, error)
}

// Unmarshaler is the interface implemented by types that can
// unmarshal a TOML value of themselves.
type Unmarshaler interface {
	UnmarshalTOML([]byte) error
}

// Marshal returns the TOML encoding of v.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder(&buf, opts...)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the TOML-encoded data and stores the result in the
// value pointed to by v.
func Unmarshal(data []byte, v any, opts ...Option) error {
	d := NewDecoder(bytes.NewReader(data), opts...)
	return d.Decode(v)
}
