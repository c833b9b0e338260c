package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/illarion/spam/internal/codec"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// GenerateUnifiedDiff compares the store with a plaintext payload.
// Both sides are normalized to sorted name=secret lines first; lines only in
// the vault are prefixed with '-', lines only in the payload with '+'.
// Returns an empty string when they match.
func GenerateUnifiedDiff(s *Store, label string, payload []byte) string {
	entries, _ := codec.Parse(payload)

	vaultData := codec.Serialize(sortEntries(s.Entries()))
	otherData := codec.Serialize(sortEntries(entries))
	if bytes.Equal(vaultData, otherData) {
		return ""
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	vaultStr, otherStr := string(vaultData), string(otherData)
	a, b, lineArray := dmp.DiffLinesToChars(vaultStr, otherStr)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var result strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			result.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
		}
	}
	if result.Len() == 0 {
		return ""
	}

	return fmt.Sprintf("--- a/vault\n+++ b/%s\n", label) + result.String()
}

func sortEntries(entries []codec.Entry) []codec.Entry {
	names := make([]string, len(entries))
	byName := make(map[string][]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
		byName[e.Name] = append(byName[e.Name], e.Secret)
	}
	sortNames(names)

	sorted := make([]codec.Entry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		for _, secret := range byName[name] {
			sorted = append(sorted, codec.Entry{Name: name, Secret: secret})
		}
	}
	return sorted
}
