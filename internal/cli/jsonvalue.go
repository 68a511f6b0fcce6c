package cli

import (
	"encoding/json"
	"fmt"
	"io"

	toon "github.com/thedataquarry/toon-go"
)

// decodeOrderedJSON parses a JSON document preserving object key order, so
// JSON-to-TOON conversion emits fields as the author wrote them. Numbers stay
// json.Number; the normalizer decides int versus float.
func decodeOrderedJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	value, err := readJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected trailing content in JSON input")
	}
	return value, nil
}

func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		var obj toon.Object
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			value, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Fields = append(obj.Fields, toon.Field{Key: key, Value: value})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		values := []any{}
		for dec.More() {
			value, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return values, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}
