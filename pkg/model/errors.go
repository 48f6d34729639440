package model

import "errors"

// ErrMalformedJSON is returned when payment JSON cannot be decoded or lacks a required field.
var ErrMalformedJSON = errors.New("malformed payment JSON")

// ErrMissingField is returned when a required bundle key is absent.
var ErrMissingField = errors.New("missing required field")
