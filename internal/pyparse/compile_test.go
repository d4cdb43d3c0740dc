package pyparse

import "testing"

func TestCompileCommand(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want CompileResult
	}{
		{"simple assignment", "x = 1", CompileComplete},
		{"call", "print('hello')", CompileComplete},
		{"multi line statement", "x = [1,\n2]", CompileComplete},
		{"full block", "for x in range(3):\n    print(x)", CompileComplete},
		{"open def", "def f():", CompileIncomplete},
		{"open bracket", "x = [1,", CompileIncomplete},
		{"open paren", "function(1,", CompileIncomplete},
		{"backslash continuation", "x = 1 + \\", CompileIncomplete},
		{"open triple quote", "'''still going", CompileIncomplete},
		{"open single quote", "x = 'oops", CompileIncomplete},
		{"prose", "the quick brown fox jumped", CompileInvalid},
		{"prose with punctuation", "However, it sends out a friendly greeting.", CompileInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompileCommand(tt.src)
			if err != nil {
				t.Fatalf("CompileCommand(%q) error = %v", tt.src, err)
			}
			if got != tt.want {
				t.Errorf("CompileCommand(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestPendingContinuation(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"x = {('a'): [1]}", false},
		{"x = {'a': 1,", true},
		{"# just a comment with ( and :", false},
		{"s = ')' + '('", false},
		{"if x:", true},
	}

	for _, tt := range tests {
		if got := pendingContinuation(tt.src); got != tt.want {
			t.Errorf("pendingContinuation(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}
