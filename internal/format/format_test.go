package format

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

type sample struct {
	ID        string    `json:"id"`
	ColumnID  string    `json:"columnId"`
	Order     int       `json:"order"`
	Done      bool      `json:"done"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	Parent    *sample   `json:"parent,omitempty"`
}

func sampleValue() sample {
	return sample{
		ID:        "crd-1",
		ColumnID:  "col-1",
		Order:     2,
		Tags:      []string{},
		CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestWriteEDN_Compact(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := WriteEDN(&buf, sampleValue(), false); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := `{:column-id "col-1" :created-at #inst "2024-05-01T09:30:00.000Z" :done false :id "crd-1" :order 2 :tags []}` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected edn:\nwant %s\ngot  %s", want, got)
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	v := map[string]any{"items": []any{1, "x"}, "empty": map[string]any{}}
	if err := WriteEDN(&buf, v, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :empty {}\n  :items [\n    1\n    \"x\"\n  ]\n}\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected edn:\nwant %q\ngot  %q", want, got)
	}
}

func TestKeyword(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"id":             ":id",
		"columnId":       ":column-id",
		"movedCardIds":   ":moved-card-ids",
		"current_id":     ":current-id",
		"a b":            ":a-b",
		"completedCount": ":completed-count",
	}
	for in, want := range cases {
		if got := Keyword(in); got != want {
			t.Fatalf("Keyword(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteYAML_UsesJSONNames(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := Write(&buf, sampleValue(), "YML", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "columnId: col-1") || !strings.Contains(out, "order: 2") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}

	var back map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if back["order"] != 2 {
		t.Fatalf("expected integer order, got %#v", back["order"])
	}
}

func TestWrite_FormatSelection(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := Write(&buf, map[string]int{"n": 1}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "{\"n\":1}\n" {
		t.Fatalf("unexpected json: %q", buf.String())
	}
	if err := Write(&buf, 1, "xml", false); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
