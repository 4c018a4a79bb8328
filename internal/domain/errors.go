package domain

import "errors"

// ErrUnauthorized is returned by the probe client when the API responds with HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUnexpectedStatus is returned when a probe endpoint answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// ErrMalformedPayload is returned when a probe response is missing a required field.
var ErrMalformedPayload = errors.New("malformed payload")

// ErrUnknownStage is returned for stage keys that have no check registered.
var ErrUnknownStage = errors.New("unknown stage")
