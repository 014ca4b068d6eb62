package gateway

import (
	"github.com/buger/jsonparser"
	"github.com/iancoleman/strcase"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/bodycontrol/someip-gateway/internal/taxonomy"
)

// normalizeJSONKeys rewrites every top-level key of a JSON object to
// snake_case, so a request body using either convention (`doorID` or
// `door_id`) decodes into the same Go struct tags.
func normalizeJSONKeys(body []byte) ([]byte, error) {
	if len(body) == 0 {
		return []byte("{}"), nil
	}
	if !gjson.ValidBytes(body) {
		return nil, taxonomy.New(taxonomy.KindMalformedMessage, "request body is not valid JSON")
	}

	out := []byte("{}")
	var setErr error
	gjson.ParseBytes(body).ForEach(func(key, value gjson.Result) bool {
		snake := strcase.ToSnake(key.String())
		out, setErr = sjson.SetBytes(out, snake, value.Value())
		return setErr == nil
	})
	if setErr != nil {
		return nil, taxonomy.Wrap(taxonomy.KindMalformedMessage, setErr, "failed to normalize request body keys")
	}
	return out, nil
}

// hasField reports whether key is present at the top level of body — used
// by handlers that need to distinguish "field omitted" from "field present
// with its zero value" before falling back to a default.
func hasField(body []byte, key string) bool {
	_, _, _, err := jsonparser.Get(body, key)
	return err == nil
}
