package shape

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/amazon-ion/ion-go/ion"
)

// ToJSON returns JSON text of v. Object keys of maps come out sorted.
func ToJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("unable to encode json: %w", err)
	}
	return string(data), nil
}

// DecodeJSON decodes JSON text into a value of type T. Unknown fields are
// rejected.
func DecodeJSON[T any](data []byte) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("unable to decode json: %w", err)
	}
	return v, nil
}

// FromJSON decodes JSON text into the shape registered under name.
func FromJSON(name string, data []byte) (Shape, error) {
	s, err := newShape(name)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("unable to decode %s from json: %w", name, err)
	}
	return s, nil
}

// ToIon returns Amazon Ion text of v.
func ToIon(v any) (string, error) {
	data, err := ion.MarshalText(v)
	if err != nil {
		return "", fmt.Errorf("unable to encode ion: %w", err)
	}
	return string(data), nil
}

// FromIon decodes Ion text or binary into the shape registered under name.
func FromIon(name string, data []byte) (Shape, error) {
	s, err := newShape(name)
	if err != nil {
		return nil, err
	}
	if err := ion.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("unable to decode %s from ion: %w", name, err)
	}
	return s, nil
}
