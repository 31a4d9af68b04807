// Package flatten converts nested JSON records into flat key/value rows.
// Nested object keys join with "/", and the first-seen key order of the
// record is preserved, which encoding/json's map decoding would lose.
package flatten

import (
	"encoding/json"
	"fmt"
	"io"
)

// Separator joins nested object keys in flattened form.
const Separator = "/"

// Pair is one flattened key and its scalar value: float64, string or bool.
type Pair struct {
	Key   string
	Value any
}

// Decode reads the next JSON object from dec and returns its flattened
// pairs in first-seen order. Arrays are preserved as their compact JSON
// text and nulls drop their key. Decode returns io.EOF once the stream is
// exhausted, so it can drive a newline-delimited JSON loop directly.
func Decode(dec *json.Decoder) ([]Pair, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("read record: %w", err)
	}

	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var pairs []Pair

	err = object(dec, "", &pairs)
	if err != nil {
		return nil, err
	}

	return pairs, nil
}

// object consumes the members and closing brace of an already-opened object.
func object(dec *json.Decoder, prefix string, out *[]Pair) error {
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}

		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("non-string key %v", keyTok)
		}

		full := key
		if prefix != "" {
			full = prefix + Separator + key
		}

		err = value(dec, full, out)
		if err != nil {
			return err
		}
	}

	_, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read object end: %w", err)
	}

	return nil
}

func value(dec *json.Decoder, key string, out *[]Pair) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read value of %s: %w", key, err)
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return object(dec, key, out)
		case '[':
			items, arrErr := array(dec)
			if arrErr != nil {
				return fmt.Errorf("read array %s: %w", key, arrErr)
			}

			text, marshalErr := json.Marshal(items)
			if marshalErr != nil {
				return fmt.Errorf("rewrite array %s: %w", key, marshalErr)
			}

			*out = append(*out, Pair{Key: key, Value: string(text)})

			return nil
		}

		return fmt.Errorf("unexpected delimiter %v at %s", v, key)

	case float64, string, bool:
		*out = append(*out, Pair{Key: key, Value: v})

	case nil:
		// null carries no scalar; the key is dropped.

	default:
		return fmt.Errorf("unsupported value %T at %s", tok, key)
	}

	return nil
}

// array consumes the items and closing bracket of an already-opened array,
// rebuilding it as a generic value tree.
func array(dec *json.Decoder) ([]any, error) {
	items := []any{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				m, objErr := objectTree(dec)
				if objErr != nil {
					return nil, objErr
				}

				items = append(items, m)
			case '[':
				inner, arrErr := array(dec)
				if arrErr != nil {
					return nil, arrErr
				}

				items = append(items, inner)
			}
		default:
			items = append(items, v)
		}
	}

	_, err := dec.Token()
	if err != nil {
		return nil, err
	}

	return items, nil
}

// objectTree consumes an already-opened object into a generic map. Only
// reached inside arrays, where flattening does not apply.
func objectTree(dec *json.Decoder) (map[string]any, error) {
	m := make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("non-string key %v", keyTok)
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				inner, objErr := objectTree(dec)
				if objErr != nil {
					return nil, objErr
				}

				m[key] = inner
			case '[':
				inner, arrErr := array(dec)
				if arrErr != nil {
					return nil, arrErr
				}

				m[key] = inner
			}
		default:
			m[key] = v
		}
	}

	_, err := dec.Token()
	if err != nil {
		return nil, err
	}

	return m, nil
}
