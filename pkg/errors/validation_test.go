package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "graph1", false},
		{"with dashes", "my-graph-2", false},
		{"with dots", "graph.v2", false},
		{"uuid style", "550e8400-e29b-41d4-a716-446655440000", false},
		{"empty", "", true},
		{"path traversal", "../etc/passwd", true},
		{"forward slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"null byte", "a\x00b", true},
		{"control char", "a\tb", true},
		{"too long", strings.Repeat("a", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.id, GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative file", "graphs/sample.json", false},
		{"absolute file", "/tmp/sample.json", false},
		{"empty", "", true},
		{"traversal", "a/../../b", true},
		{"null byte", "a\x00b", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
