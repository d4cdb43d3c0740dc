package rewrite

// rewriteBatch is the atomic replacement unit handed from the docstring
// rewriter to the block writer: a contiguous line span plus its
// replacement text.
type rewriteBatch struct {
	first int
	last  int
	lines []string
}

// blockWriter splices rewritten batches back into a docstring buffer.
// A batch is padded with empty lines until it covers its original span,
// so applying it never invalidates line numbers recorded for text below
// the replaced region.
type blockWriter struct {
	doc *[]string
}

func (w *blockWriter) apply(b rewriteBatch) {
	doc := *w.doc
	if b.first < 0 || b.first > len(doc) {
		return
	}

	want := b.last - b.first + 1
	lines := b.lines
	for len(lines) < want {
		lines = append(lines, "")
	}

	end := b.last + 1
	if end < b.first {
		end = b.first
	}
	if end > len(doc) {
		end = len(doc)
	}

	out := make([]string, 0, len(doc)-(end-b.first)+len(lines))
	out = append(out, doc[:b.first]...)
	out = append(out, lines...)
	out = append(out, doc[end:]...)
	*w.doc = out
}
