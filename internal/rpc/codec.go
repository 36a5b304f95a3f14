package rpc

import (
	"encoding/json"
	"fmt"
)

// EncodeMessage frames a JSON payload for the wire. The Content-Length
// header counts payload bytes, not characters.
func EncodeMessage(payload []byte) []byte {
	header := fmt.Sprintf("%s%d%s", contentLengthPrefix, len(payload), headerSeparator)

	framed := make([]byte, 0, len(header)+len(payload))
	framed = append(framed, header...)
	framed = append(framed, payload...)

	return framed
}

// Encode marshals msg and frames it for the wire.
func Encode(msg any) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}

	return EncodeMessage(payload), nil
}
