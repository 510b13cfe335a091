package graphio

import (
	"fmt"
	"strings"
)

// A minimal DOT token stream. Quoted strings arrive unquoted; -> and --
// are single edge-op tokens.
type dotToken struct {
	kind dotTokenKind
	text string
}

type dotTokenKind int

const (
	tokAtom dotTokenKind = iota
	tokPunct
	tokEdgeOp
)

func scanDOT(src string) ([]dotToken, error) {
	var toks []dotToken
	i, n := 0, len(src)
	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '#':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, fmt.Errorf("unterminated comment")
			}
			i += 2 + end + 2
		case c == '"':
			text, rest, err := scanDotString(src[i:])
			if err != nil {
				return nil, err
			}
			toks = append(toks, dotToken{tokAtom, text})
			i += rest
		case c == '-' && i+1 < n && (src[i+1] == '>' || src[i+1] == '-'):
			toks = append(toks, dotToken{tokEdgeOp, src[i : i+2]})
			i += 2
		case strings.IndexByte("{}[];,=:", c) >= 0:
			toks = append(toks, dotToken{tokPunct, string(c)})
			i++
		default:
			j := i
			for j < n {
				if src[j] == '-' && j+1 < n && (src[j+1] == '>' || src[j+1] == '-') {
					break
				}
				if !isDotAtomChar(src[j]) {
					break
				}
				j++
			}
			if j == i {
				return nil, fmt.Errorf("unexpected character %q", c)
			}
			toks = append(toks, dotToken{tokAtom, src[i:j]})
			i = j
		}
	}
	return toks, nil
}

// scanDotString consumes a double-quoted string starting at src[0],
// returning the unquoted text and the number of bytes consumed. DOT only
// escapes the quote itself; other backslash pairs pass through verbatim.
func scanDotString(src string) (string, int, error) {
	var sb strings.Builder
	j := 1
	for j < len(src) {
		switch {
		case src[j] == '\\' && j+1 < len(src):
			if src[j+1] == '"' {
				sb.WriteByte('"')
			} else {
				sb.WriteByte(src[j])
				sb.WriteByte(src[j+1])
			}
			j += 2
		case src[j] == '"':
			return sb.String(), j + 1, nil
		default:
			sb.WriteByte(src[j])
			j++
		}
	}
	return "", 0, fmt.Errorf("unterminated string")
}

func isDotAtomChar(c byte) bool {
	return c == '_' || c == '.' || c == '-' || c == '+' ||
		(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		c >= 0x80
}
