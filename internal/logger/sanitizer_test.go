package logger

import (
	"errors"
	"testing"
)

func TestSanitizer_Sanitize(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"unix home path", "skipped /home/john/.cache", "skipped /home/***/.cache"},
		{"macos home path", "/Users/jane/Documents/a.txt", "/Users/***/Documents/a.txt"},
		{"windows user path", `C:\Users\john\file.txt`, `***:\Users\***\file.txt`},
		{"token", "url token=abc123", "url token=***"},
		{"no sensitive data", "/var/log/syslog", "/var/log/syslog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSanitizer_SanitizeArgs(t *testing.T) {
	s := NewSanitizer()

	args := []any{
		"path", "/home/john/x",
		"password", "hunter22secret",
		"error", errors.New("open /home/john/y: permission denied"),
		"depth", 3,
	}
	got := s.SanitizeArgs(args)

	if got[1] != "/home/***/x" {
		t.Errorf("path not sanitized: %v", got[1])
	}
	if got[3] != "h***t" {
		t.Errorf("password not masked: %v", got[3])
	}
	if got[5] != "open /home/***/y: permission denied" {
		t.Errorf("error not sanitized: %v", got[5])
	}
	if got[7] != 3 {
		t.Errorf("non-string value changed: %v", got[7])
	}
	if args[1] != "/home/john/x" {
		t.Error("input slice was modified")
	}
}

func TestSanitizer_AddRule(t *testing.T) {
	s := NewSanitizer()
	if err := s.AddRule(`secret-\d+`, "secret-N"); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}
	if got := s.Sanitize("id secret-42"); got != "id secret-N" {
		t.Errorf("custom rule not applied: %s", got)
	}
	if err := s.AddRule(`(`, ""); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestMaskValue(t *testing.T) {
	tests := map[string]string{
		"ab":          "***",
		"abcdef":      "a***",
		"abcdefghijk": "a***k",
	}
	for in, want := range tests {
		if got := maskValue(in); got != want {
			t.Errorf("maskValue(%q) = %q, want %q", in, got, want)
		}
	}
}
