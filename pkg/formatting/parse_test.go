package formatting_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/casetrail/casetrail/pkg/formatting"
)

type entity struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

func TestParseDirect(t *testing.T) {
	got, err := formatting.Parse[entity](`{"name": "acme", "amount": 50000}`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got.Name != "acme" || got.Amount != 50000 {
		t.Errorf("Parse = %+v, want {acme 50000}", got)
	}
}

func TestParseFenced(t *testing.T) {
	content := "```json\n{\"name\": \"acme\", \"amount\": 7}\n```"
	got, err := formatting.Parse[entity](content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got.Name != "acme" || got.Amount != 7 {
		t.Errorf("Parse = %+v, want {acme 7}", got)
	}
}

func TestParseFencedNoLanguage(t *testing.T) {
	content := "```\n{\"name\": \"bare\"}\n```"
	got, err := formatting.Parse[entity](content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got.Name != "bare" {
		t.Errorf("Parse = %+v, want name bare", got)
	}
}

func TestParseFencedWithPreamble(t *testing.T) {
	content := "Here is the result:\n```json\n{\"name\": \"acme\"}\n```\nLet me know if you need anything else."
	got, err := formatting.Parse[entity](content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got.Name != "acme" {
		t.Errorf("Parse = %+v, want name acme", got)
	}
}

func TestParseFailure(t *testing.T) {
	raw := "I could not produce JSON for this request."
	_, err := formatting.Parse[entity](raw)
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Fatalf("Parse error = %v, want ErrParseFailed", err)
	}
	if !strings.Contains(err.Error(), raw) {
		t.Errorf("error should carry the original content, got %q", err.Error())
	}
}

func TestParseIntoMap(t *testing.T) {
	got, err := formatting.Parse[map[string]any](`{"supplier_name": null, "invoice_amount": 50000}`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if v, ok := got["supplier_name"]; !ok || v != nil {
		t.Errorf("supplier_name = %v, want explicit null", v)
	}
}

func TestParseBytes(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"512", 512},
		{"1KB", 1024},
		{"50MB", 50 * 1024 * 1024},
		{"2 GB", 2 * 1024 * 1024 * 1024},
		{"1.5KB", 1536},
	}

	for _, tc := range cases {
		got, err := formatting.ParseBytes(tc.in)
		if err != nil {
			t.Errorf("ParseBytes(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseBytes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseBytesInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "10XB"} {
		if _, err := formatting.ParseBytes(in); err == nil {
			t.Errorf("ParseBytes(%q) should fail", in)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatting.FormatBytes(0, 2); got != "0 B" {
		t.Errorf("FormatBytes(0) = %q, want 0 B", got)
	}
	if got := formatting.FormatBytes(1536, 1); got != "1.5 KB" {
		t.Errorf("FormatBytes(1536) = %q, want 1.5 KB", got)
	}
}
