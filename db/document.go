package db

import (
	"encoding/json"
	"fmt"
)

// ToDocument converts a typed value into a Document via its JSON form.
func ToDocument(v any) (Document, error) {
	var doc Document
	if err := roundTrip(v, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ToValue converts a typed value into its JSON-shaped generic form, for use as a
// field inside a Document.
func ToValue(v any) (any, error) {
	var out any
	if err := roundTrip(v, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeValue fills out from a generic value produced by a store.
func DecodeValue(v any, out any) error {
	return roundTrip(v, out)
}

func roundTrip(in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}
