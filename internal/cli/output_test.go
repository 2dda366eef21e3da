package cli

import (
	"strings"
	"testing"
)

type sampleRow struct {
	Name    string   `json:"name"`
	Tags    []string `json:"tags"`
	Count   int
	private string
}

func TestTableFormatter(t *testing.T) {
	f := NewFormatter("TABLE")

	out := f.Format([]sampleRow{{Name: "a", Tags: []string{"x", "y"}, Count: 2, private: "hidden"}, {Count: 0}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines=%q", lines)
	}
	if fields := strings.Fields(lines[0]); strings.Join(fields, " ") != "NAME TAGS COUNT" {
		t.Errorf("header=%q", lines[0])
	}
	if fields := strings.Fields(lines[1]); strings.Join(fields, " ") != "a x,y 2" {
		t.Errorf("row=%q", lines[1])
	}
	if fields := strings.Fields(lines[2]); strings.Join(fields, " ") != "- - 0" {
		t.Errorf("empty row=%q", lines[2])
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("unexported field rendered: %s", out)
	}

	if got := f.Format([]sampleRow{}); got != "No resources found.\n" {
		t.Errorf("empty slice=%q", got)
	}
	if got := f.Format(sampleRow{Name: "solo"}); !strings.Contains(got, "NAME:") || !strings.Contains(got, "solo") {
		t.Errorf("struct=%q", got)
	}
}

func TestStructuredFormatters(t *testing.T) {
	row := sampleRow{Name: "a", Count: 1}

	if got := NewFormatter("json").Format(row); !strings.Contains(got, `"name": "a"`) {
		t.Errorf("json=%s", got)
	}
	if got := NewFormatter(" yaml ").Format(row); !strings.Contains(got, "name: a") {
		t.Errorf("yaml=%s", got)
	}
	if _, ok := NewFormatter("xml").(TableFormatter); !ok {
		t.Error("unknown format should fall back to table")
	}
}
