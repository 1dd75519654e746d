package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID      string   `json:"id"`
	Working string   `json:"workingDirectory"`
	Models  []string `json:"models"`
}

func TestWrite(t *testing.T) {
	v := sample{ID: "s1", Working: "/w/one", Models: []string{"a"}}

	tests := []struct {
		format string
		pretty bool
		want   string
	}{
		{"", false, `{"id":"s1","workingDirectory":"/w/one","models":["a"]}` + "\n"},
		{"json", true, "{\n  \"id\": \"s1\",\n  \"workingDirectory\": \"/w/one\",\n  \"models\": [\n    \"a\"\n  ]\n}\n"},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		if err := Write(&buf, v, tc.format, tc.pretty); err != nil {
			t.Fatalf("%s: %v", tc.format, err)
		}
		if buf.String() != tc.want {
			t.Fatalf("%s output:\n%s\nwant:\n%s", tc.format, buf.String(), tc.want)
		}
	}
}

func TestWriteYAML_UsesJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample{ID: "s1", Working: "/w/one", Models: []string{"a"}}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"id: s1\n", "workingDirectory: /w/one\n", "- a\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("yaml output missing %q:\n%s", want, out)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, 1, "edn", false)
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}
