package show

// KnownSet is the set of canonical lines persisted by the last successful run
type KnownSet map[string]struct{}

// NewKnownSet builds a KnownSet from canonical lines. Blank lines are ignored.
func NewKnownSet(lines []string) KnownSet {
	known := make(KnownSet, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		known[line] = struct{}{}
	}
	return known
}

// Contains reports whether the show's canonical line is already known
func (k KnownSet) Contains(s Show) bool {
	_, ok := k[s.CanonicalLine()]
	return ok
}

// Len returns the number of known lines
func (k KnownSet) Len() int {
	return len(k)
}

// DiffResult partitions the current listing against the known set
type DiffResult struct {
	All []Show // every current show, persisted at the end of a run
	New []Show // shows whose canonical line was not known
}

// Diff compares the sorted current shows against the known set. Both result
// slices preserve the input order. A nil or empty known set marks every show
// as new. Shows sharing a canonical line collapse to their first occurrence.
func Diff(known KnownSet, current []Show) *DiffResult {
	result := &DiffResult{
		All: make([]Show, 0, len(current)),
		New: make([]Show, 0),
	}

	seen := make(map[string]bool, len(current))
	for _, s := range current {
		line := s.CanonicalLine()
		if seen[line] {
			continue
		}
		seen[line] = true

		result.All = append(result.All, s)
		if _, exists := known[line]; !exists {
			result.New = append(result.New, s)
		}
	}

	return result
}
