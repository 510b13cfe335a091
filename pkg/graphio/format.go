package graphio

import (
	"path/filepath"
	"strings"

	"github.com/ocasazza/graphlayouts/pkg/errors"
)

// Format identifies a graph interchange format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatDOT  Format = "dot"

	// FormatSVG is export-only: graphs render to SVG but cannot be read
	// back from it.
	FormatSVG Format = "svg"
)

// ParseFormat normalizes a user-supplied format name. The Graphviz "gv"
// extension is an alias for dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "dot", "gv":
		return FormatDOT, nil
	case "svg":
		return FormatSVG, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", s)
}

// DetectFormat infers the format from a path's file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot detect format of %q: no file extension", path)
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot detect format of %q: unknown extension %q", path, ext)
	}
	return f, nil
}
