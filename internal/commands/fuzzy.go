package commands

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// FuzzyMatch returns true if query fuzzy-matches target.
// Matching is case-insensitive and succeeds on substring match or if
// the query characters appear as a subsequence in the target.
func FuzzyMatch(target, query string) bool {
	if query == "" {
		return true
	}
	t := strings.ToLower(target)
	q := strings.ToLower(query)
	if strings.Contains(t, q) {
		return true
	}
	// subsequence match (rune-aware)
	qr := []rune(q)
	i := 0
	for _, ch := range t {
		if i < len(qr) && qr[i] == ch {
			i++
			if i >= len(qr) {
				return true
			}
		}
	}
	return false
}

// matchesRecord checks name, command, detail and group.
func matchesRecord(r Record, query string) bool {
	return FuzzyMatch(r.Name, query) ||
		FuzzyMatch(r.Command, query) ||
		FuzzyMatch(r.Detail, query) ||
		FuzzyMatch(r.Group, query)
}

// Filter keeps the records matching query and drops groups left empty.
// Group and record order are preserved.
func Filter(groups []Group, query string) []Group {
	query = strings.TrimSpace(query)
	if query == "" {
		return groups
	}
	var out []Group
	for _, g := range groups {
		var keep []Record
		for _, r := range g.Commands {
			if matchesRecord(r, query) {
				keep = append(keep, r)
			}
		}
		if len(keep) > 0 {
			out = append(out, Group{Name: g.Name, Source: g.Source, Commands: keep})
		}
	}
	return out
}

type recordSource []Record

func (s recordSource) String(i int) string { return s[i].Group + " " + s[i].Name }
func (s recordSource) Len() int            { return len(s) }

// Rank orders the records matching query by fuzzy score, best first.
func Rank(records []Record, query string) []Record {
	if strings.TrimSpace(query) == "" {
		return records
	}
	matches := fuzzy.FindFrom(query, recordSource(records))
	out := make([]Record, 0, len(matches))
	for _, m := range matches {
		out = append(out, records[m.Index])
	}
	return out
}

// Flatten returns the records of groups in display order.
func Flatten(groups []Group) []Record {
	var out []Record
	for _, g := range groups {
		out = append(out, g.Commands...)
	}
	return out
}
