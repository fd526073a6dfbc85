// Package outline holds the hierarchical content model rendered by the reader:
// an Outline is a forest of titled sections with bodies, as returned by the
// content generator. Outlines are immutable once received and are replaced
// wholesale, never patched in place.
package outline

// Verbosity levels accepted by the generator.
const (
	VerbosityShort  = "short"
	VerbosityMedium = "medium"
	VerbosityLong   = "long"
)

const (
	DefaultVerbosity = VerbosityMedium
	DefaultLanguage  = "en"
)

// Verbosities lists the accepted verbosity levels in display order.
var Verbosities = []string{VerbosityShort, VerbosityMedium, VerbosityLong}

// IsVerbosity reports whether v is one of the accepted verbosity levels.
func IsVerbosity(v string) bool {
	for _, known := range Verbosities {
		if v == known {
			return true
		}
	}
	return false
}

// Node is one section of an outline. Children is optional.
type Node struct {
	ID       string  `json:"id" yaml:"id" jsonschema:"description=Identifier unique within the outline"`
	Title    string  `json:"title" yaml:"title" jsonschema:"description=Short one-line heading"`
	Body     string  `json:"body" yaml:"body" jsonschema:"description=Plain text body"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Outline is the generator's response document.
type Outline struct {
	Language  string  `json:"language" yaml:"language"`
	Verbosity string  `json:"verbosity" yaml:"verbosity"`
	Sections  []*Node `json:"sections" yaml:"sections"`
}

// FlatEntry is the depth-agnostic view of a Node used for navigation.
type FlatEntry struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// Entries flattens the outline's sections. A nil outline has no entries.
func (o *Outline) Entries() []FlatEntry {
	if o == nil {
		return []FlatEntry{}
	}
	return Flatten(o.Sections)
}

// Count returns the total number of nodes in the outline.
func (o *Outline) Count() int {
	if o == nil {
		return 0
	}
	n := 0
	Walk(o.Sections, func(*Node) { n++ })
	return n
}
