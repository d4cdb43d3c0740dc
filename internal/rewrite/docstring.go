package rewrite

import (
	"strings"

	"pydoxy/internal/config"
	"pydoxy/internal/patterns"
)

// docRewriter consumes a docstring one line at a time and rewrites
// Google/reST style headings into Doxygen directives. Finished batches
// go to the block writer; lines may stay buffered across submissions
// because later input (a section heading, a code verdict) can still
// amend them.
type docRewriter struct {
	opts   *config.Options
	tail   string
	docLen int
	writer *blockWriter

	lines        []string
	timeToSend   bool
	inCodeBlock  bool
	inSection    bool
	prefix       string
	firstLineNum int

	sectionHeadingIndent int

	codeChecker  *codeProseChecker
	proseChecker *codeProseChecker
}

func newDocRewriter(opts *config.Options, tail string, docLen int, writer *blockWriter) *docRewriter {
	return &docRewriter{
		opts:         opts,
		tail:         tail,
		docLen:       docLen,
		writer:       writer,
		firstLineNum: -1,
		codeChecker:  newCodeProseChecker(false),
		proseChecker: newCodeProseChecker(true),
	}
}

// endCode closes an open code block by prepending the end marker to the
// last buffered line.
func (r *docRewriter) endCode() {
	if !r.inCodeBlock {
		return
	}
	r.inCodeBlock = false
	if len(r.lines) > 0 {
		r.lines[len(r.lines)-1] = "# @endcode\n" + rstrip(r.lines[len(r.lines)-1])
	}
}

func (r *docRewriter) flush(lastLineNum int) {
	r.endCode()
	r.writer.apply(rewriteBatch{r.firstLineNum, lastLineNum, r.lines})
	r.lines = nil
	r.firstLineNum = -1
	r.timeToSend = false
}

func (r *docRewriter) lastLine() string {
	if len(r.lines) == 0 {
		return ""
	}
	return r.lines[len(r.lines)-1]
}

// submit feeds the next docstring line. lineNum is its position within
// the docstring block.
func (r *docRewriter) submit(lineNum int, line string) {
	if r.firstLineNum < 0 {
		r.firstLineNum = lineNum
	}

	if r.opts.Autobrief {
		for _, tag := range patterns.SingleLineTags {
			match := tag.Re.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			// A simple one-line directive; everything before it can go
			// out as its own batch.
			r.endCode()
			r.writer.apply(rewriteBatch{r.firstLineNum, lineNum - 1, r.lines})
			r.lines = nil
			r.firstLineNum = lineNum
			line = strings.ReplaceAll(line, match[1], tag.Tag)
			r.timeToSend = true
		}

		if r.inSection && !patterns.BlankLine.MatchString(line) {
			// Does this line still belong to the open section?
			if indentWidth(line, r.opts.TabLength) <= r.sectionHeadingIndent {
				r.inSection = false
			} else if r.lastLine() == "#" {
				// An empty line inside a section starts a new paragraph.
				r.lines[len(r.lines)-1] = "# @par"
			}
		}

		if m := patterns.ReturnsStart.FindString(line); m != "" {
			line = rstrip(strings.Replace(line, m, " @return\t", 1))
			r.prefix = "@return\t"
		} else if m := patterns.ArgsStart.FindStringSubmatch(line); m != nil {
			line = rstrip(strings.Replace(line, m[0], "", 1))
			if strings.Contains(strings.ToLower(m[0]), "attr") {
				r.prefix = "@property\t"
			} else {
				r.prefix = "@param\t"
			}
			r.endCode()
			r.lines = append(r.lines, "#"+line)
			return
		} else if m := patterns.Args.FindStringSubmatch(line); m != nil && !r.inCodeBlock {
			name := patterns.Group(patterns.Args, m, "name")
			desc := patterns.Group(patterns.Args, m, "desc")
			if strings.Contains(r.prefix, "property") {
				line = "# " + r.prefix + "\t" + name + "\n# " + desc
			} else {
				line = " " + r.prefix + "\t" + name + "\t" + desc
			}
		} else if m := patterns.RaisesStart.FindStringSubmatch(line); m != nil {
			line = rstrip(strings.Replace(line, m[0], "", 1))
			if strings.Contains(strings.ToLower(m[1]), "see") {
				r.prefix = "@sa\t"
			} else {
				r.prefix = "@exception\t"
			}
			r.endCode()
			r.lines = append(r.lines, "#"+line)
			return
		} else if m := patterns.List.FindString(line); m != "" && !r.inCodeBlock {
			var items strings.Builder
			for _, item := range patterns.ListItem.FindAllStringSubmatch(stripOutAnds(m), -1) {
				items.WriteString("# " + r.prefix + "\t" + item[1] + "\n")
			}
			if items.Len() > 0 {
				line = items.String()[1:]
			}
		} else if m := patterns.ExamplesStart.FindString(line); m != "" &&
			strings.TrimSpace(r.lastLine()) == "#" && r.opts.Autocode {
			r.inCodeBlock = true
			line = strings.Replace(line, m, " @b Examples\n# @code", 1)
		} else if m := patterns.SectionStart.FindStringSubmatch(line); m != nil {
			r.prefix = ""
			r.inSection = true
			r.sectionHeadingIndent = indentWidth(line, r.opts.TabLength)
			line = strings.Replace(line, m[0], " @par "+m[1], 1)
			if r.lastLine() == "# @par" {
				r.lines[len(r.lines)-1] = "#"
			}
			r.endCode()
			r.lines = append(r.lines, "#"+line)
			return
		} else if r.prefix != "" {
			if m := patterns.SingleListItem.FindString(line); m != "" && !r.inCodeBlock {
				line = " " + r.prefix + "\t" + m
			} else if r.opts.Autocode && r.inCodeBlock {
				r.proseChecker.submit(line, r.lines, lineNum-r.firstLineNum)
			} else if r.opts.Autocode {
				r.codeChecker.submit(line, r.lines, lineNum-r.firstLineNum)
			}
		}
	}

	// A tail only attaches to items that actually have a docstring.
	if r.tail != "" && lineNum == r.docLen-1 {
		line = rstrip(line) + "\n# " + r.tail
	}

	line = "#" + rstrip(line)
	if lineNum == 0 {
		// The opening line carries the Doxygen double comment.
		line = "#" + line
	}
	r.lines = append(r.lines, strings.ReplaceAll(line, " \n", "\n"))

	if r.timeToSend {
		r.flush(lineNum)
	}
}

// close flushes whatever is still buffered once the docstring ends.
// A fully flushed rewriter closes without writing.
func (r *docRewriter) close(lastLineNum int) {
	if r.firstLineNum < 0 && len(r.lines) == 0 {
		return
	}
	if r.firstLineNum < 0 {
		r.firstLineNum = lastLineNum
	}
	r.flush(lastLineNum)
}
