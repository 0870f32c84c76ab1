package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	JSON = "json"
	EDN  = "edn"
	YAML = "yaml"
)

// Formats lists the accepted --format values.
func Formats() []string { return []string{JSON, EDN, YAML} }

// Normalize maps user input (case-insensitive, "yml" alias, empty) to a known format.
func Normalize(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", JSON:
		return JSON, nil
	case EDN:
		return EDN, nil
	case YAML, "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown format: %s (want one of %s)", format, strings.Join(Formats(), ", "))
	}
}

// Write writes v in the requested format. All formats derive field names from json tags.
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := Normalize(format)
	if err != nil {
		return err
	}
	switch f {
	case EDN:
		return WriteEDN(w, v, pretty)
	case YAML:
		return WriteYAML(w, v)
	default:
		return WriteJSON(w, v, pretty)
	}
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML writes v as a YAML document. YAML is always indented, so there is no pretty flag.
func WriteYAML(w io.Writer, v any) error {
	plain, err := toPlain(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(plain); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// toPlain converts v into maps, slices and scalars by way of its JSON encoding, so every
// writer honours the same json tags. Numbers stay json.Number to keep integers integral.
func toPlain(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return numbersToNative(out), nil
}

func numbersToNative(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = numbersToNative(t[i])
		}
		return t
	case map[string]any:
		for k, x := range t {
			t[k] = numbersToNative(x)
		}
		return t
	default:
		return v
	}
}
