package core

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// maxSuffixDraws bounds how often a Suffixer is asked before falling back
// to a numeric counter.
const maxSuffixDraws = 16

// Suffixer returns a fresh token used to rename colliding accounts
type Suffixer func() string

// UUIDSuffix returns the first eight hex digits of a random UUID
func UUIDSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// uniqueName returns name + "_" + suffix that is not yet present in the store
func (s *Store) uniqueName(name string) string {
	var candidate string
	for i := 0; i < maxSuffixDraws; i++ {
		candidate = name + "_" + s.suffix()
		if !s.Exists(candidate) {
			return candidate
		}
	}

	// The suffixer keeps repeating itself; count upwards from its last answer.
	for n := 2; ; n++ {
		numbered := candidate + "_" + strconv.Itoa(n)
		if !s.Exists(numbered) {
			return numbered
		}
	}
}
