// Package scope models nesting contexts: the sub-document a query or
// aggregation fragment is evaluated in, identified by a dotted field path.
package scope

import "strings"

const separator = "."

// Path is a dotted field path. Root is the top-level document.
type Path string

// Root is the top-level document scope.
const Root Path = ""

// IsRoot reports whether p is the document root.
func (p Path) IsRoot() bool { return p == Root }

// Segments splits the path into its dotted parts. Root has none.
func (p Path) Segments() []string {
	if p.IsRoot() {
		return nil
	}
	return strings.Split(string(p), separator)
}

// Depth returns the number of segments.
func (p Path) Depth() int { return len(p.Segments()) }

// Child appends a relative field path to p.
func (p Path) Child(field string) Path {
	field = strings.Trim(field, separator)
	if field == "" {
		return p
	}
	if p.IsRoot() {
		return Path(field)
	}
	return Path(string(p) + separator + field)
}

func (p Path) String() string { return string(p) }

// SharedPrefix returns the longest leading run of whole segments a and b share.
func SharedPrefix(a, b Path) Path {
	as, bs := a.Segments(), b.Segments()
	n := 0
	for n < len(as) && n < len(bs) && as[n] == bs[n] {
		n++
	}
	return Path(strings.Join(as[:n], separator))
}

// Exits reports whether moving from the inherited scope to target requires
// leaving the inherited scope, i.e. their shared prefix is shallower.
func Exits(inherited, target Path) bool {
	return SharedPrefix(target, inherited).Depth() < inherited.Depth()
}
