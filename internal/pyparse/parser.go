// Package pyparse wraps tree-sitter for Python source parsing.
package pyparse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser wraps a tree-sitter parser configured for Python.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new Python parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses Python source and returns the AST root node.
func (p *Parser) Parse(ctx context.Context, source []byte) (*sitter.Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return tree.RootNode(), nil
}

// NodeName returns the name field of a definition node, or "" when absent.
func NodeName(node *sitter.Node, source []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return string(source[nameNode.StartByte():nameNode.EndByte()])
}

// HasDocstring reports whether a module, class_definition, or
// function_definition node opens with a string expression statement.
func HasDocstring(node *sitter.Node) bool {
	body := node
	if node.Type() != "module" {
		body = node.ChildByFieldName("body")
		if body == nil {
			return false
		}
	}

	var first *sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child != nil && child.Type() != "comment" {
			first = child
			break
		}
	}
	if first == nil || first.Type() != "expression_statement" {
		return false
	}
	expr := first.NamedChild(0)
	return expr != nil && expr.Type() == "string"
}
