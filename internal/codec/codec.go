// Package codec reads and writes the plaintext account payload: one
// name=secret pair per line, split on the first '='.
//
// The same format is used as the encryption plaintext and for
// dump/import files. Names and secrets containing '=' in the name or a
// newline anywhere are not representable.
package codec

import (
	"bytes"
	"strings"
)

const (
	Separator = "="
	LineEnd   = "\n"
)

// Entry is a single account line
type Entry struct {
	Name   string
	Secret string
}

// MalformedLine is a non-blank line without a usable '=' delimiter
type MalformedLine struct {
	Number  int // 1-based line number
	Content string
}

// Serialize writes entries in the given order, each followed by a newline.
// No entries produce an empty payload.
func Serialize(entries []Entry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(e.Name)
		buf.WriteString(Separator)
		buf.WriteString(e.Secret)
		buf.WriteString(LineEnd)
	}
	return buf.Bytes()
}

// Parse splits a payload into entries. Blank lines are skipped; lines whose
// first '=' is missing or leading are reported as malformed and dropped.
// Repeated names are all returned in payload order.
func Parse(data []byte) ([]Entry, []MalformedLine) {
	var (
		entries   []Entry
		malformed []MalformedLine
	)

	for i, line := range strings.Split(string(data), LineEnd) {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, ok := ParseLine(line)
		if !ok {
			malformed = append(malformed, MalformedLine{Number: i + 1, Content: line})
			continue
		}
		entries = append(entries, entry)
	}

	return entries, malformed
}

// ParseLine parses a single non-blank line
func ParseLine(line string) (Entry, bool) {
	idx := strings.Index(line, Separator)
	if idx <= 0 {
		return Entry{}, false
	}
	return Entry{Name: line[:idx], Secret: line[idx+1:]}, true
}
