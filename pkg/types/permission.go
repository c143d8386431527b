package types

import "strings"

// PermissionRule is a dotted, hierarchical permission name with an
// optional trailing wildcard segment ("a.b.*" grants every permission
// whose name begins with "a.b."; "a.b" grants exactly "a.b").
type PermissionRule string

// Matches reports whether this rule grants the given permission name.
// Matching is done segment-by-segment on "."; a "*" segment matches
// all remaining segments of the query, wherever it appears but only
// as the rule's final segment (per spec, wildcard is always a suffix).
func (r PermissionRule) Matches(query string) bool {
	ruleSegs := strings.Split(string(r), ".")
	querySegs := strings.Split(query, ".")

	if n := len(ruleSegs); n > 0 && ruleSegs[n-1] == "*" {
		prefix := ruleSegs[:n-1]
		// "a.b.*" grants names beginning with "a.b.", i.e. query must
		// have strictly more segments than the fixed prefix.
		if len(querySegs) <= len(prefix) {
			return false
		}
		for i, seg := range prefix {
			if querySegs[i] != seg {
				return false
			}
		}
		return true
	}

	if len(ruleSegs) != len(querySegs) {
		return false
	}
	for i, seg := range ruleSegs {
		if querySegs[i] != seg {
			return false
		}
	}
	return true
}

// PermissionSet is an accumulated, deduplicated-by-accumulation set of
// permission rules gathered by the role engine for one user.
type PermissionSet []PermissionRule

// Has reports whether any rule in the set grants the query permission.
func (s PermissionSet) Has(query string) bool {
	for _, rule := range s {
		if rule.Matches(query) {
			return true
		}
	}
	return false
}
