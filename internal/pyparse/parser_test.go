package pyparse

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

const sampleSource = `"""Module docstring."""


class Greeter(object):
    """A greeter."""

    def greet(self, name):
        """Say hello."""
        return "Hello " + name


def main():
    print(Greeter().greet("world"))
`

func parseSample(t *testing.T) (*sitter.Node, []byte) {
	t.Helper()
	p := NewParser()
	source := []byte(sampleSource)
	root, err := p.Parse(context.Background(), source)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return root, source
}

func TestParse(t *testing.T) {
	root, _ := parseSample(t)
	if root.Type() != "module" {
		t.Errorf("root type = %q, want %q", root.Type(), "module")
	}
	if root.HasError() {
		t.Error("sample source should parse without errors")
	}
}

func TestNodeName(t *testing.T) {
	root, source := parseSample(t)

	var classNode, funcNode *sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "class_definition":
			classNode = child
		case "function_definition":
			funcNode = child
		}
	}

	if classNode == nil || funcNode == nil {
		t.Fatal("sample source should contain a class and a function")
	}
	if got := NodeName(classNode, source); got != "Greeter" {
		t.Errorf("class name = %q, want %q", got, "Greeter")
	}
	if got := NodeName(funcNode, source); got != "main" {
		t.Errorf("function name = %q, want %q", got, "main")
	}
}

func TestHasDocstring(t *testing.T) {
	root, _ := parseSample(t)

	if !HasDocstring(root) {
		t.Error("module should have a docstring")
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "class_definition":
			if !HasDocstring(child) {
				t.Error("class should have a docstring")
			}
		case "function_definition":
			if HasDocstring(child) {
				t.Error("main should not have a docstring")
			}
		}
	}
}
