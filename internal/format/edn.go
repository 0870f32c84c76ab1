package format

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// WriteEDN writes an EDN representation of v.
//
// Only the subset produced by JSON-tagged values is covered: maps, vectors, strings, integers,
// floats, booleans and nil. Map keys become kebab-case keywords (columnId -> :column-id) and
// RFC 3339 timestamps become #inst literals.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	plain, err := toPlain(v)
	if err != nil {
		return err
	}
	var sb strings.Builder
	enc := ednEncoder{sb: &sb, pretty: pretty}
	enc.value(plain, 0)
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return err
}

type ednEncoder struct {
	sb     *strings.Builder
	pretty bool
}

func (e ednEncoder) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.sb.WriteString("nil")
	case bool:
		e.sb.WriteString(strconv.FormatBool(t))
	case int64:
		e.sb.WriteString(strconv.FormatInt(t, 10))
	case float64:
		e.sb.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, t); err == nil && looksLikeTimestamp(t) {
			e.sb.WriteString(`#inst "`)
			e.sb.WriteString(ts.UTC().Format("2006-01-02T15:04:05.000Z"))
			e.sb.WriteByte('"')
			return
		}
		e.sb.WriteString(strconv.Quote(t))
	case []any:
		e.open('[', len(t) == 0)
		for i, x := range t {
			e.sep(i, depth+1)
			e.value(x, depth+1)
		}
		e.close(']', len(t) == 0, depth)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.open('{', len(keys) == 0)
		for i, k := range keys {
			e.sep(i, depth+1)
			e.sb.WriteString(Keyword(k))
			e.sb.WriteByte(' ')
			e.value(t[k], depth+1)
		}
		e.close('}', len(keys) == 0, depth)
	default:
		e.sb.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

func (e ednEncoder) open(c byte, empty bool) {
	e.sb.WriteByte(c)
	if e.pretty && !empty {
		e.sb.WriteByte('\n')
	}
}

func (e ednEncoder) sep(i, depth int) {
	if e.pretty {
		if i > 0 {
			e.sb.WriteByte('\n')
		}
		e.sb.WriteString(strings.Repeat("  ", depth))
		return
	}
	if i > 0 {
		e.sb.WriteByte(' ')
	}
}

func (e ednEncoder) close(c byte, empty bool, depth int) {
	if e.pretty && !empty {
		e.sb.WriteByte('\n')
		e.sb.WriteString(strings.Repeat("  ", depth))
	}
	e.sb.WriteByte(c)
}

// Keyword turns a JSON field name into an EDN keyword: camelCase and spaces become kebab-case.
func Keyword(name string) string {
	var b strings.Builder
	b.WriteByte(':')
	prevLower := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}

// looksLikeTimestamp requires the full date-time shape before a string is treated as an instant.
func looksLikeTimestamp(s string) bool {
	return len(s) >= len("2006-01-02T15:04:05Z") && s[4] == '-' && s[10] == 'T'
}
