package core

import (
	"github.com/illarion/spam/internal/codec"
)

// ImportResult summarizes an import
type ImportResult struct {
	Added     []string
	Renamed   []Rename
	Malformed []codec.MalformedLine
}

// Import adds the accounts of a plaintext name=secret payload.
// Unlike MergeFrom, any name collision is suffixed even when the secrets
// match, including collisions with lines earlier in the same payload.
func (s *Store) Import(payload []byte) ImportResult {
	entries, malformed := codec.Parse(payload)
	result := ImportResult{Malformed: malformed}

	for _, e := range entries {
		if !s.Exists(e.Name) {
			s.Add(e.Name, e.Secret)
			result.Added = append(result.Added, e.Name)
			continue
		}
		target := s.uniqueName(e.Name)
		s.Add(target, e.Secret)
		result.Renamed = append(result.Renamed, Rename{From: e.Name, To: target})
	}

	return result
}
