// Package scanner finds recognized DOE sections with no body content in
// raw wikitext and computes where the placeholder template belongs.
package scanner

import (
	"regexp"
	"strings"
)

// titlePattern matches a full wikitext heading line: a run of '=' markers,
// the heading text, a closing run of '=' markers, optional trailing blanks.
var titlePattern = regexp.MustCompile(`^(=+)([^=]*)(=+)[ \t]*$`)

// Rules holds the normalized set of recognized DOE section names. Built once
// at startup from configuration and never mutated afterwards.
type Rules struct {
	names map[string]struct{}
}

// NewRules normalizes the given section names (trimmed, lower-cased) into a
// recognition set.
func NewRules(names []string) Rules {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
	return Rules{names: set}
}

// IsHeader reports whether the line is any wikitext heading.
func (r Rules) IsHeader(line string) bool {
	return titlePattern.MatchString(line)
}

// IsDOEHeader reports whether the line is a heading whose normalized name is
// one of the recognized DOE section names. The heading level is the shorter
// of the two marker runs, so any surplus '=' from the longer side stays part
// of the name and disqualifies it.
func (r Rules) IsDOEHeader(line string) bool {
	m := titlePattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	level := len(m[1])
	if len(m[3]) < level {
		level = len(m[3])
	}
	heading := m[1] + m[2] + m[3]
	return r.IsRecognizedName(heading[level : len(heading)-level])
}

// IsRecognizedName reports whether a bare heading name, normalized, is in
// the recognized set. Used directly when the name has already been split
// out of its markup, e.g. from rendered HTML.
func (r Rules) IsRecognizedName(name string) bool {
	_, ok := r.names[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Scan walks the page lines in order and returns the indices of the header
// lines that close an empty DOE section, ascending. Indices refer to the
// original line numbering. Blank lines do not count as content. A section
// only closes on a later header line, so a DOE section that runs to the end
// of the page is never reported.
func (r Rules) Scan(lines []string) []int {
	var points []int
	inSection := false
	hasContent := false

	for i, line := range lines {
		if !inSection {
			if r.IsDOEHeader(line) {
				inSection = true
				hasContent = false
			}
			continue
		}
		if r.IsHeader(line) {
			// Any header ends the current section.
			if !hasContent {
				points = append(points, i)
			}
			if r.IsDOEHeader(line) {
				hasContent = false
			} else {
				inSection = false
			}
			continue
		}
		if strings.TrimSpace(line) != "" {
			hasContent = true
		}
	}
	return points
}

// Insert splices the placeholder directly above each insertion point.
// Points are original-line indices in ascending order; the k-th insertion
// lands at points[k]+k in the growing slice, which matches inserting from
// lowest to highest into a live copy.
func Insert(lines []string, points []int, placeholder string) []string {
	out := make([]string, len(lines), len(lines)+len(points))
	copy(out, lines)
	for k, idx := range points {
		pos := idx + k
		out = append(out, "")
		copy(out[pos+1:], out[pos:])
		out[pos] = placeholder
	}
	return out
}
