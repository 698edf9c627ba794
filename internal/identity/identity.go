// Package identity canonicalizes user-supplied identity strings into the
// single key form the verification store writes under, plus the legacy key
// variants older records may still be stored under.
package identity

import "strings"

// Normalize converts a raw identity into its canonical key: trimmed,
// lowercased, all "@" sigils stripped, exactly one "@" prefix re-added.
// Total over any input; Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "@", "")
	return "@" + s
}

// LookupCandidates returns the ordered key sequence a read should probe:
// the canonical key first, then legacy variants kept for records written
// before normalization was tightened (underscores stripped, underscores
// replaced with hyphens). Duplicates are removed preserving first-seen
// order, so the result length varies with the key's shape.
func LookupCandidates(key string) []string {
	variants := []string{
		key,
		strings.ToLower(key),
		strings.ReplaceAll(key, "_", ""),
		strings.ReplaceAll(key, "_", "-"),
	}

	seen := make(map[string]struct{}, len(variants))
	candidates := make([]string, 0, len(variants))
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		candidates = append(candidates, v)
	}
	return candidates
}
