package graphio

import (
	"testing"

	"github.com/ocasazza/graphlayouts/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{" csv ", FormatCSV, false},
		{"dot", FormatDOT, false},
		{"gv", FormatDOT, false},
		{"svg", FormatSVG, false},
		{"yaml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"graph.json", FormatJSON, false},
		{"/tmp/dir/graph.DOT", FormatDOT, false},
		{"nodes.gv", FormatDOT, false},
		{"out.svg", FormatSVG, false},
		{"noext", "", true},
		{"graph.xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectFormat(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
