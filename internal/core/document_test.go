package core

import (
	"errors"
	"testing"
)

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"name": "left-pad", "version": "1.3.0"}`))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if doc.str("name") != "left-pad" {
		t.Errorf("expected name 'left-pad', got %q", doc.str("name"))
	}
	if doc.str("version") != "1.3.0" {
		t.Errorf("expected version '1.3.0', got %q", doc.str("version"))
	}
}

func TestParseDocumentInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated", `{"name": "left-pad"`},
		{"empty", ``},
		{"null", `null`},
		{"array", `[1, 2, 3]`},
		{"scalar", `"just a string"`},
		{"garbage", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.input))
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("expected ErrInvalidFormat, got %v", err)
			}

			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Errorf("expected *FormatError, got %T", err)
			}
		})
	}
}

func TestDocumentAccessors(t *testing.T) {
	doc, err := ParseDocument([]byte(`{
		"name": "pkg",
		"private": true,
		"publishConfig": {"registry": "https://npm.corp.example"},
		"dist-tags": {"latest": "2.0.0"},
		"count": 7,
		"wrong": [1]
	}`))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if !doc.boolean("private") {
		t.Error("expected private to be true")
	}
	if got := doc.object("publishConfig").str("registry"); got != "https://npm.corp.example" {
		t.Errorf("unexpected registry: %q", got)
	}
	if got := doc.stringMap("dist-tags")["latest"]; got != "2.0.0" {
		t.Errorf("expected latest '2.0.0', got %q", got)
	}

	// Mismatched shapes degrade to zero values rather than failing.
	if got := doc.str("count"); got != "" {
		t.Errorf("expected empty string for numeric field, got %q", got)
	}
	if doc.boolean("name") {
		t.Error("expected false for string field read as bool")
	}
	if doc.object("wrong") != nil {
		t.Error("expected nil object for array field")
	}
	if doc.str("missing") != "" {
		t.Error("expected empty string for missing field")
	}
}
