// Package patterns holds the regular expression table used to classify
// source and docstring lines. The rest of the system treats it as a
// black-box classifier producing named matches.
package patterns

import "regexp"

var (
	// Indent captures the leading whitespace of a non-blank line.
	Indent = regexp.MustCompile(`^(\s*)\S`)

	// Newline matches the comment marker at the start of each embedded line.
	Newline = regexp.MustCompile(`(?m)^#`)

	// BlankLine matches a line of pure whitespace.
	BlankLine = regexp.MustCompile(`^\s*$`)

	// DocstrMarker matches a triple-quoted string delimiter with optional
	// string prefix characters. Group 1 is the quote run itself.
	DocstrMarker = regexp.MustCompile(`\s*[uUbB]*[rR]?('''|""")`)

	// DocstrMarkerStart is the anchored form used to find the opening
	// delimiter of a docstring.
	DocstrMarkerStart = regexp.MustCompile(`^\s*[uUbB]*[rR]?('''|""")`)

	// DocstrOneLine matches a docstring opened and closed on one line.
	DocstrOneLine = regexp.MustCompile(`^\s*[uUbB]*[rR]?('''.+'''|""".+""")`)

	// Implements matches Zope-style interface implementation declarations.
	Implements = regexp.MustCompile(`(?i)^(\s*)(?:zope\.)?(?:interface\.)?` +
		`(?:module|class|directly)?` +
		`(?:Provides|Implements)\(\s*(.+)\s*\)`)

	// Interface matches a class definition whose sole base is a Zope-style
	// Interface marker.
	Interface = regexp.MustCompile(`(?i)^\s*class\s+(\S+)\s*\(\s*(?:zope\.)?` +
		`(?:interface\.)?` +
		`Interface\s*\)\s*:`)

	// Attribute matches a Zope-style declared attribute assignment.
	// Groups: 1 indent, 2 attribute name, 3 description string.
	Attribute = regexp.MustCompile(`(?i)^(\s*)(\S+)\s*=\s*(?:zope\.)?` +
		`(?:interface\.)?` +
		`Attribute\s*\(['"]{1,3}(.*)['"]{1,3}\)`)

	// ArgsStart matches an Arguments/Attributes section heading.
	ArgsStart = regexp.MustCompile(`(?i)^(\s*(?:(?:Keyword\s+)?` +
		`(?:A|Kwa)rg(?:ument)?|Attribute)s?` +
		`\s*:\s*)$`)

	// Args matches a name/description pair, optionally typed:
	// "name (type): description" or "name - description".
	Args = regexp.MustCompile(`^\s*(?P<name>\w+)\s*(?P<type>\(?\S*\)?)?\s*` +
		`(?:-|:)+\s+(?P<desc>.+)$`)

	// ReturnsStart matches a Returns/Yields section heading.
	ReturnsStart = regexp.MustCompile(`(?i)^\s*(?:Return|Yield)s:\s*$`)

	// RaisesStart matches a Raises/Exceptions/See Also section heading.
	RaisesStart = regexp.MustCompile(`(?i)^\s*(Raises|Exceptions|See Also):\s*$`)

	// List matches a comma (or "and") joined list of bare identifiers.
	List = regexp.MustCompile(`^\s*(([\w\.]+),\s*)+(&|and)?\s*([\w\.]+)$`)

	// SingleListItem matches a lone identifier line.
	SingleListItem = regexp.MustCompile(`^\s*([\w\.]+)\s*$`)

	// ListItem extracts the individual items of a List match.
	ListItem = regexp.MustCompile(`([\w\.]+),?\s*`)

	// ExamplesStart matches an Examples/Doctests section heading.
	ExamplesStart = regexp.MustCompile(`(?i)^\s*(?:Example|Doctest)s?:\s*$`)

	// SectionStart matches an arbitrary "Word:" or "Word Word:" heading.
	SectionStart = regexp.MustCompile(`^\s*(([A-Z]\w* ?){1,2}):\s*$`)

	// ErrorLine matches traceback lines, error exception lines, and single
	// word lines, all of which are ambiguous for code detection.
	ErrorLine = regexp.MustCompile(`(?i)^\s*((?:\S+Error|Traceback.*):?\s*(.*)|@?[\w.]+)\s*$`)
)

// SingleLineTag pairs a one-line Doxygen directive with the heading
// pattern that produces it.
type SingleLineTag struct {
	Tag string
	Re  *regexp.Regexp
}

// SingleLineTags lists the fixed one-line headings (author, copyright,
// date, file, version, note, warning) in a stable order. Group 1 of each
// pattern is the heading label to be replaced by the directive.
var SingleLineTags = []SingleLineTag{
	{" @author: ", regexp.MustCompile(`(?i)^(\s*Authors?:\s*)(.*)$`)},
	{" @copyright ", regexp.MustCompile(`(?i)^(\s*Copyright:\s*)(.*)$`)},
	{" @date ", regexp.MustCompile(`(?i)^(\s*Date:\s*)(.*)$`)},
	{" @file ", regexp.MustCompile(`(?i)^(\s*File:\s*)(.*)$`)},
	{" @version: ", regexp.MustCompile(`(?i)^(\s*Version:\s*)(.*)$`)},
	{" @note ", regexp.MustCompile(`(?i)^(\s*Note:\s*)(.*)$`)},
	{" @warning ", regexp.MustCompile(`(?i)^(\s*Warning:\s*)(.*)$`)},
}

// Group returns the named capture group from a match of re against s,
// or the empty string when the group is absent.
func Group(re *regexp.Regexp, match []string, name string) string {
	for i, n := range re.SubexpNames() {
		if n == name && i < len(match) {
			return match[i]
		}
	}
	return ""
}
