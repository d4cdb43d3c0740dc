package rewrite

import (
	"strings"

	"pydoxy/internal/patterns"
	"pydoxy/internal/pyparse"
)

// Resume points for the code/prose checker. The checker keeps its
// position between lines so an incomplete statement can be grown across
// submissions until it compiles or provably fails.
const (
	resumeStart = iota
	resumeAmbiguous
	resumeAccumulate
)

// codeProseChecker decides whether free docstring text is runnable code
// or prose by speculatively compiling it. It runs two directions: a
// checker started outside a code block hunts for the start of code, one
// started inside hunts for the return to prose. Verdicts are recorded by
// appending @code/@endcode markers to the pending line the candidate
// statement began after, so the emitted line count never changes.
type codeProseChecker struct {
	inCodeBlock bool
	resume      int
	testLine    string
	testLineNum int
}

func newCodeProseChecker(inCodeBlock bool) *codeProseChecker {
	return &codeProseChecker{inCodeBlock: inCodeBlock}
}

// submit feeds one raw docstring line. pending is the rewriter's
// unflushed output buffer and offset is the line's position relative to
// the start of that buffer.
func (c *codeProseChecker) submit(line string, pending []string, offset int) {
	switch c.resume {
	case resumeStart:
		c.testLine = strings.TrimSpace(line)
		c.testLineNum = 1
	case resumeAmbiguous:
		c.testLine = strings.TrimSpace(line)
	case resumeAccumulate:
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, ">>> ") {
			// A fresh doctest prompt settles the accumulated text.
			c.conclude(true, pending, offset)
			return
		}
		c.testLine = strings.TrimSpace(c.testLine + "\n" + stripped)
		c.testLineNum++
	}

	trial := c.testLine
	if trial == "" || trial == "..." || patterns.ErrorLine.MatchString(trial) {
		// Blank lines, ellipsis continuations, and traceback output
		// prove nothing either way.
		c.resume = resumeAmbiguous
		return
	}
	if strings.HasPrefix(trial, ">>> ") {
		c.conclude(true, pending, offset)
		return
	}

	result, err := pyparse.CompileCommand(trial)
	if err != nil {
		c.resume = resumeAmbiguous
		return
	}
	switch result {
	case pyparse.CompileInvalid:
		c.conclude(false, pending, offset)
	case pyparse.CompileComplete:
		anchor := offset - c.testLineNum
		if anchor >= 0 && anchor < len(pending) &&
			strings.HasPrefix(strings.TrimSpace(pending[anchor]), "#") {
			c.conclude(true, pending, offset)
			return
		}
		// Compiles on its own but may still be the head of a longer
		// statement; keep growing before deciding.
		c.resume = resumeAccumulate
	case pyparse.CompileIncomplete:
		c.resume = resumeAccumulate
	}
}

// conclude records a definite verdict. The marker lands on the pending
// line the tested text started after, as an embedded continuation so
// the buffer's line count is preserved.
func (c *codeProseChecker) conclude(isCode bool, pending []string, offset int) {
	anchor := offset - c.testLineNum
	c.resume = resumeStart
	if anchor < 0 {
		anchor += len(pending)
	}
	switch {
	case !c.inCodeBlock && isCode:
		c.inCodeBlock = true
		if anchor >= 0 && anchor < len(pending) {
			pending[anchor] += "\n# @code\n"
		}
	case c.inCodeBlock && !isCode:
		c.inCodeBlock = false
		if anchor >= 0 && anchor < len(pending) {
			pending[anchor] += "\n# @endcode\n"
		}
	}
}
