// Package rewrite turns Python docstrings into Doxygen comment blocks.
//
// The walker traverses the syntax tree while editing a parallel line
// buffer of the original source. Every edit either preserves the buffer
// element count or happens strictly above the rows still to be visited,
// so node positions recorded by the parser stay valid for the whole
// walk.
package rewrite

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pydoxy/internal/config"
	"pydoxy/internal/errors"
	"pydoxy/internal/logging"
	"pydoxy/internal/patterns"
	"pydoxy/internal/pyparse"
)

type nodeKind string

const (
	kindModule    nodeKind = "module"
	kindClass     nodeKind = "class"
	kindInterface nodeKind = "interface"
	kindFunction  nodeKind = "function"
)

// pathEntry is one step in the containment hierarchy of the node
// currently being visited.
type pathEntry struct {
	name string
	kind nodeKind
}

// Walker applies Doxygen annotations to Python source.
type Walker struct {
	lines  []string
	source []byte
	opts   *config.Options
	logger *logging.Logger
	parser *pyparse.Parser
	path   []pathEntry
}

// NewWalker prepares a walker over the given source.
func NewWalker(source []byte, opts *config.Options, logger *logging.Logger) *Walker {
	lines := strings.Split(string(source), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return &Walker{
		lines:  lines,
		source: source,
		opts:   opts,
		logger: logger,
		parser: pyparse.NewParser(),
	}
}

// Run annotates source in one shot and returns the rewritten text.
func Run(ctx context.Context, source []byte, opts *config.Options, logger *logging.Logger) (string, error) {
	w := NewWalker(source, opts, logger)
	if err := w.ParseLines(ctx); err != nil {
		return "", err
	}
	return w.Lines(), nil
}

// ParseLines parses the source and annotates the line buffer.
func (w *Walker) ParseLines(ctx context.Context) error {
	root, err := w.parser.Parse(ctx, w.source)
	if err != nil {
		return errors.Wrap(errors.ParseFailed, "cannot parse input", err)
	}
	if root.HasError() {
		return errors.New(errors.ParseFailed, "input is not valid Python")
	}
	w.visitModule(root)
	return nil
}

// Lines returns the annotated source as a single string.
func (w *Walker) Lines() string {
	out := make([]string, len(w.lines))
	for i, line := range w.lines {
		out[i] = rstrip(line)
	}
	return strings.Join(out, "\n")
}

func (w *Walker) visitModule(root *sitter.Node) {
	w.logger.Debug("visiting module", map[string]interface{}{
		"namespace": w.opts.FullPathNamespace,
	})
	if pyparse.HasDocstring(root) {
		w.processDocstring(root, "", kindModule)
	}
	w.visitChildren(root)
}

func (w *Walker) visit(node *sitter.Node) {
	switch node.Type() {
	case "class_definition":
		w.visitClass(node)
	case "function_definition":
		w.visitFunction(node)
	case "assignment":
		w.visitAssign(node)
		w.visitChildren(node)
	case "call":
		w.visitCall(node)
		w.visitChildren(node)
	default:
		w.visitChildren(node)
	}
}

func (w *Walker) visitChildren(node *sitter.Node) {
	for i := uint32(0); i < node.ChildCount(); i++ {
		if child := node.Child(int(i)); child != nil {
			w.visit(child)
		}
	}
}

// fullPath is the containment hierarchy rooted at the module namespace,
// including the node currently on top of the path stack.
func (w *Walker) fullPath() []pathEntry {
	full := make([]pathEntry, 0, len(w.path)+1)
	full = append(full, pathEntry{w.opts.FullPathNamespace, kindModule})
	return append(full, w.path...)
}

func (w *Walker) contextTag() string {
	names := make([]string, 0, len(w.path)+1)
	for _, entry := range w.fullPath() {
		names = append(names, entry.name)
	}
	return strings.Join(names, ".")
}

// visibilityOf classifies a member name by its leading underscores.
// Name-mangled members are private, single-underscore members are
// treated as protected by convention, dunders are left alone.
func visibilityOf(name string) string {
	if strings.HasSuffix(name, "__") {
		return ""
	}
	if strings.HasPrefix(name, "__") {
		return "private"
	}
	if strings.HasPrefix(name, "_") {
		return "protected"
	}
	return ""
}

// applyVisibility appends a visibility directive to a context tag when
// the member name calls for one.
func applyVisibility(name, contextTag string) string {
	if level := visibilityOf(name); level != "" {
		return contextTag + "\n# @" + level
	}
	return contextTag
}

func (w *Walker) visitFunction(node *sitter.Node) {
	name := pyparse.NodeName(node, w.source)
	w.logger.Debug("visiting function", map[string]interface{}{"name": name})
	w.path = append(w.path, pathEntry{name, kindFunction})

	var tail string
	if w.opts.TopLevelNamespace != "" {
		tail = "@namespace " + applyVisibility(name, w.contextTag())
	} else {
		tail = applyVisibility(name, "")
	}
	if pyparse.HasDocstring(node) {
		w.processDocstring(node, tail, kindFunction)
	}
	w.visitChildren(node)
	w.path = w.path[:len(w.path)-1]
}

func (w *Walker) visitClass(node *sitter.Node) {
	name := pyparse.NodeName(node, w.source)
	row := int(node.StartPoint().Row)
	var defLine string
	if row < len(w.lines) {
		defLine = w.lines[row]
	}
	// A class whose sole base is a Zope-style Interface marker is an
	// interface definition, not a class.
	ifaceMatch := patterns.Interface.FindStringSubmatch(defLine)
	kind := kindClass
	if ifaceMatch != nil {
		kind = kindInterface
	}
	w.logger.Debug("visiting class", map[string]interface{}{
		"name": name,
		"kind": string(kind),
	})
	w.path = append(w.path, pathEntry{name, kind})

	var tail string
	if w.opts.TopLevelNamespace != "" {
		tail = "@namespace " + w.contextTag()
	}
	contextTag := tail
	if ifaceMatch != nil {
		contextTag = tail + "\n# @interface " + ifaceMatch[1]
	}
	contextTag = applyVisibility(name, contextTag)
	if pyparse.HasDocstring(node) {
		w.processDocstring(node, contextTag, kindClass)
	}
	w.visitChildren(node)
	w.path = w.path[:len(w.path)-1]
}

// visitAssign labels interface attribute declarations and
// private/protected variables.
func (w *Walker) visitAssign(node *sitter.Node) {
	row := int(node.StartPoint().Row)
	if row >= len(w.lines) {
		return
	}
	if m := patterns.Attribute.FindStringSubmatch(w.lines[row]); m != nil {
		indent, name, desc := m[1], m[2], m[3]
		w.logger.Debug("attribute declaration", map[string]interface{}{"name": name})
		w.lines[row] = indent + "## @property " + name + "\n" +
			indent + "# " + desc + "\n" +
			indent + "# @hideinitializer\n" +
			rstrip(w.lines[row]) + "\n"
	}

	target := node.ChildByFieldName("left")
	if target == nil || target.Type() != "identifier" {
		return
	}
	name := string(w.source[target.StartByte():target.EndByte()])
	level := visibilityOf(name)
	if level == "" {
		return
	}
	indent := ""
	if m := patterns.Indent.FindStringSubmatch(w.lines[row]); m != nil {
		indent = m[1]
	}
	w.lines[row] = indent + "## @var " + name + "\n" +
		indent + "# @hideinitializer\n" +
		indent + "# @" + level + "\n" +
		rstrip(w.lines[row]) + "\n"
}

// visitCall labels Zope-style interface implementation declarations.
func (w *Walker) visitCall(node *sitter.Node) {
	row := int(node.StartPoint().Row)
	if row >= len(w.lines) {
		return
	}
	m := patterns.Implements.FindStringSubmatch(w.lines[row])
	if m == nil {
		return
	}
	w.logger.Debug("interface implementation", map[string]interface{}{
		"interface": m[2],
	})
	w.lines[row] = m[1] + "## @implements " + m[2] + "\n" +
		m[1] + rstrip(w.lines[row]) + "\n"
}

// processDocstring locates a node's docstring in the line buffer,
// rewrites it into a Doxygen comment block, and splices the block back
// in above the declaration.
func (w *Walker) processDocstring(node *sitter.Node, tail string, kind nodeKind) {
	startLineNum := 0
	if kind != kindModule {
		startLineNum = int(node.StartPoint().Row)
	}

	// Find the opening docstring marker below the declaration.
	curLineNum := startLineNum
	var line string
	var marker []string
	for curLineNum < len(w.lines) {
		line = w.lines[curLineNum]
		if marker = patterns.DocstrMarkerStart.FindStringSubmatch(line); marker != nil {
			break
		}
		curLineNum++
	}
	if marker == nil {
		return
	}
	docstringStart := curLineNum

	// Find the closing marker, unless the docstring is one line.
	if !patterns.DocstrOneLine.MatchString(line) {
		curLineNum++
		for curLineNum < len(w.lines) {
			if strings.Contains(w.lines[curLineNum], marker[1]) {
				break
			}
			curLineNum++
		}
	}
	endLineNum := curLineNum + 1
	if endLineNum > len(w.lines) {
		endLineNum = len(w.lines)
	}

	defLines := append([]string(nil), w.lines[startLineNum:docstringStart]...)
	doc := append([]string(nil), w.lines[docstringStart:endLineNum]...)

	if len(doc) > 0 {
		doc[0] = patterns.DocstrMarker.ReplaceAllString(doc[0], "")
		doc[len(doc)-1] = patterns.DocstrMarker.ReplaceAllString(doc[len(doc)-1], "")
		doc = w.rewriteBlock(doc, tail)
	}

	// A single-line description becomes a @brief. Rotate leading blank
	// comment lines to the back first so the brief text leads.
	if w.opts.Autobrief {
		safety := 0
		for len(doc) > 0 && strings.TrimSpace(strings.TrimLeft(doc[0], "#")) == "" {
			doc = append(doc[1:], "")
			safety++
			if safety >= len(doc) {
				break
			}
		}
		stripHash := func(s string) string {
			return strings.Trim(s, pythonWhitespace+"#")
		}
		if len(doc) == 1 || (len(doc) >= 2 &&
			(stripHash(doc[1]) == "" || strings.HasPrefix(stripHash(doc[1]), "@"))) {
			doc[0] = "## @brief " + strings.TrimLeft(doc[0], "#")
			if len(doc) > 1 && doc[1] == "# @par" {
				doc[1] = "#"
			}
		}
	}

	// Re-indent the comment block to the declaration's indentation.
	if len(defLines) > 0 {
		indentStr := ""
		if m := patterns.Indent.FindStringSubmatch(defLines[0]); m != nil {
			indentStr = m[1]
		}
		for i, docLine := range doc {
			doc[i] = patterns.Newline.ReplaceAllString(docLine, indentStr+"#")
		}
	}

	if kind != kindModule {
		indentStr := ""
		if docstringStart < len(w.lines) {
			if m := patterns.Indent.FindStringSubmatch(w.lines[docstringStart]); m != nil {
				indentStr = m[1]
			}
		}
		full := w.fullPath()
		var parentKind nodeKind
		if len(full) >= 2 {
			parentKind = full[len(full)-2].kind
		}
		selfKind := full[len(full)-1].kind
		if (parentKind == kindInterface && kind == kindFunction) || selfKind == kindInterface {
			// Hoisting the docstring out of an interface method can
			// leave an empty body behind; a pass statement keeps the
			// output valid Python.
			if len(defLines) > 0 {
				defLines[len(defLines)-1] += "\n" + indentStr + "pass"
			}
		} else if w.opts.Autobrief && kind == kindClass {
			doc, defLines = w.hoistProperties(doc, defLines, endLineNum)
		}
	}

	// Classes and functions get the comment block above the declaration;
	// the module docstring stays below any shebang or coding line.
	if kind != kindModule {
		w.spliceLines(startLineNum, endLineNum, append(doc, defLines...))
	} else {
		w.spliceLines(startLineNum, endLineNum, append(defLines, doc...))
	}
}

// rewriteBlock runs a docstring block through the rewriter and returns
// the transformed block.
func (w *Walker) rewriteBlock(doc []string, tail string) []string {
	writer := &blockWriter{doc: &doc}
	rewriter := newDocRewriter(w.opts, tail, len(doc), writer)
	snapshot := append([]string(nil), doc...)
	for lineNum, line := range snapshot {
		rewriter.submit(lineNum, line)
	}
	rewriter.close(len(snapshot) - 1)
	return doc
}

// hoistProperties moves @property lines out of a class docstring and
// attaches them to the declaration so Doxygen associates them with the
// class body.
func (w *Walker) hoistProperties(doc, defLines []string, endLineNum int) ([]string, []string) {
	firstVar := -1
	for i, docLine := range doc {
		if strings.Contains(docLine, "@property\t") {
			firstVar = i
			break
		}
	}
	if firstVar < 0 {
		return doc, defLines
	}
	lastVar := len(doc)
	for lastVar > firstVar {
		lastVar--
		if strings.Contains(doc[lastVar], "@property\t") {
			break
		}
	}
	lastVar++

	// Property lines inherit the indentation of the first body
	// statement after the docstring.
	indentStr := ""
	indentLineNum := endLineNum
	for indentStr == "" && indentLineNum < len(w.lines) {
		if m := patterns.Indent.FindStringSubmatch(w.lines[indentLineNum]); m != nil {
			indentStr = m[1]
		}
		indentLineNum++
	}

	for _, docLine := range doc[firstVar:lastVar] {
		defLines = append(defLines, strings.ReplaceAll("\n"+docLine, "\n", "\n"+indentStr))
	}
	doc = append(doc[:firstVar], doc[lastVar:]...)

	// The property shuffle may have dragged namespace information out
	// of the docstring; move it back.
	if len(defLines) > 0 && len(doc) > 0 {
		last := len(defLines) - 1
		if loc := strings.Index(defLines[last], "\n# @namespace"); loc >= 0 {
			doc[len(doc)-1] += defLines[last][loc:]
			defLines[last] = defLines[last][:loc]
		}
	}
	return doc, defLines
}

func (w *Walker) spliceLines(start, end int, repl []string) {
	out := make([]string, 0, len(w.lines)-(end-start)+len(repl))
	out = append(out, w.lines[:start]...)
	out = append(out, repl...)
	out = append(out, w.lines[end:]...)
	w.lines = out
}
