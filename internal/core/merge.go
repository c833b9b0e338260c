package core

// Rename records an incoming account stored under a suffixed name
type Rename struct {
	From string
	To   string
}

// MergeResult summarizes a merge
type MergeResult struct {
	Added     []string // names copied as-is
	Identical []string // names already present with the same secret
	Renamed   []Rename // conflicting names stored under a suffixed name
}

// MergeFrom copies every account of other into s.
//
// A name absent from s is added unchanged. A name present with the same
// secret is skipped. A name present with a different secret is added as
// name_<suffix>; the existing entry is left untouched.
func (s *Store) MergeFrom(other *Store) MergeResult {
	var result MergeResult

	for _, e := range other.Entries() {
		existing, ok := s.Get(e.Name)
		switch {
		case !ok:
			s.Add(e.Name, e.Secret)
			result.Added = append(result.Added, e.Name)
		case existing == e.Secret:
			result.Identical = append(result.Identical, e.Name)
		default:
			target := s.uniqueName(e.Name)
			s.Add(target, e.Secret)
			result.Renamed = append(result.Renamed, Rename{From: e.Name, To: target})
		}
	}

	return result
}
