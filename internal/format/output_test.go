package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

func TestWriteJSON_CompactAndPretty(t *testing.T) {
	v := map[string]any{"data": sample{ID: 1, Name: "Greeting", Text: "hi", Tags: []string{"a"}}}

	var buf bytes.Buffer
	if err := Write(&buf, v, "json", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, want := buf.String(), `{"data":{"id":1,"name":"Greeting","text":"hi","tags":["a"]}}`+"\n"; got != want {
		t.Fatalf("compact json:\n got %q\nwant %q", got, want)
	}

	buf.Reset()
	if err := Write(&buf, v, "", true); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"data\": {\n") {
		t.Fatalf("expected indented json, got:\n%s", buf.String())
	}
}

func TestWriteYAML_UsesJSONKeys(t *testing.T) {
	v := map[string]any{"data": sample{ID: 7, Name: "Sig", Text: "Best,\nMe", Tags: []string{}}}

	var buf bytes.Buffer
	if err := Write(&buf, v, "yaml", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := buf.String()
	for _, want := range []string{"data:\n", "  id: 7\n", "  name: Sig\n", "  tags: []\n", "  text: |-\n    Best,\n    Me\n"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in yaml output:\n%s", want, got)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, 1, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if Valid("edn") || !Valid("yaml") || !Valid("") {
		t.Fatalf("Valid disagrees with Write")
	}
}
