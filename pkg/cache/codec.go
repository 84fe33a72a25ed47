package cache

import (
	"encoding/json"
	"errors"
)

// Codec serializes cached values to the textual form sent to the store
// and parses them back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSON is the default codec. It round-trips objects, arrays, strings,
// numbers, booleans and null.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrSerialization, err)
	}
	return data, nil
}

func (JSON) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Join(ErrSerialization, err)
	}
	return nil
}

// serializationError tags errors from custom codecs with ErrSerialization.
func serializationError(err error) error {
	if errors.Is(err, ErrSerialization) {
		return err
	}
	return errors.Join(ErrSerialization, err)
}

var _ Codec = JSON{}
