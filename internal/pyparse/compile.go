package pyparse

import (
	"context"
	"strings"
)

// CompileResult classifies a speculative compilation attempt.
type CompileResult int

const (
	// CompileComplete means the text parses as valid Python.
	CompileComplete CompileResult = iota
	// CompileIncomplete means the text looks like the prefix of a valid
	// statement and more input could complete it.
	CompileIncomplete
	// CompileInvalid means no amount of further input can make the text
	// valid Python.
	CompileInvalid
)

// CompileCommand speculatively compiles accumulated docstring text to
// decide whether it is Python code. It mirrors the behavior of an
// interactive interpreter prompt: an open bracket, a trailing colon, a
// line continuation, or an unterminated string all mean "keep typing".
func CompileCommand(src string) (CompileResult, error) {
	if pendingContinuation(src) {
		return CompileIncomplete, nil
	}

	p := NewParser()
	root, err := p.Parse(context.Background(), []byte(src))
	if err != nil {
		return CompileInvalid, err
	}
	if root.HasError() {
		return CompileInvalid, nil
	}
	return CompileComplete, nil
}

// pendingContinuation reports whether src ends mid-construct: inside an
// open bracket pair or string literal, after a backslash continuation,
// or on a block-opening colon.
func pendingContinuation(src string) bool {
	depth := 0
	i := 0
	n := len(src)
	lastSignificant := byte(0)
	for i < n {
		c := src[i]
		switch c {
		case '#':
			// Comment runs to end of line.
			for i < n && src[i] != '\n' {
				i++
			}
			continue
		case '\'', '"':
			quote := c
			triple := i+2 < n && src[i+1] == quote && src[i+2] == quote
			if triple {
				i += 3
				end := strings.Index(src[i:], strings.Repeat(string(quote), 3))
				if end < 0 {
					return true
				}
				i += end + 3
			} else {
				i++
				closed := false
				for i < n {
					if src[i] == '\\' {
						i += 2
						continue
					}
					if src[i] == quote {
						closed = true
						i++
						break
					}
					if src[i] == '\n' {
						break
					}
					i++
				}
				if !closed {
					return true
				}
			}
			lastSignificant = quote
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			lastSignificant = c
		}
		i++
	}
	if depth > 0 {
		return true
	}
	return lastSignificant == ':' || lastSignificant == '\\'
}
