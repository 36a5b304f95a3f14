package protocol

import (
	"encoding/json"
	"fmt"
)

// DecodeError reports a payload that could not be interpreted against
// the wire schema. The message is dropped; the stream stays usable.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode: %s: %v", e.Reason, e.Err)
	}

	return "decode: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type validator interface {
	validate() error
}

// Decode unmarshals data into msg and enforces the schema's required
// fields. Fields the schema does not know are ignored, so clients may
// send more than the server understands.
func Decode(data []byte, msg any) error {
	if err := json.Unmarshal(data, msg); err != nil {
		return &DecodeError{Reason: "malformed JSON", Err: err}
	}

	if v, ok := msg.(validator); ok {
		if err := v.validate(); err != nil {
			return err
		}
	}

	return nil
}

func missingField(name string) error {
	return &DecodeError{Reason: fmt.Sprintf("missing required field %q", name)}
}
