package similarity

// TrigramSet shingles s into the set of every contiguous 3-rune substring of
// "  " + s + "  ". Duplicates collapse; the two-space padding means even a
// single-character string yields trigrams, so short texts still compare.
func TrigramSet(s string) map[string]struct{} {
	runes := []rune("  " + s + "  ")
	set := make(map[string]struct{}, len(runes))
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b|. Two empty sets score 0, not 1: with no
// evidence on either side we refuse to call the texts similar.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
