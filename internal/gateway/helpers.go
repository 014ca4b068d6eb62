package gateway

import (
	goccyjson "github.com/goccy/go-json"

	"github.com/bodycontrol/someip-gateway/internal/taxonomy"
)

// jsonUnmarshal decodes a normalized request body. goccy/go-json is used
// throughout the gateway in place of encoding/json for request/response
// bodies, matching the teacher's preference for a drop-in faster decoder
// over large JSON payloads.
func jsonUnmarshal(data []byte, v interface{}) error {
	if err := goccyjson.Unmarshal(data, v); err != nil {
		return taxonomy.Wrap(taxonomy.KindMalformedMessage, err, "failed to decode request body")
	}
	return nil
}

// invalidPathArgument builds an InvalidArgument error for a malformed URL
// path parameter (e.g. a non-numeric or out-of-range door id), and for a
// body value checked outside struct-tag validation (the light command).
func invalidPathArgument(message string) error {
	return taxonomy.New(taxonomy.KindInvalidArgument, message)
}
