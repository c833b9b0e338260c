package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSuffix(s string) Suffixer {
	return func() string { return s }
}

func sequenceSuffix() Suffixer {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
}

func TestMergeFrom_AddsMissingAndSkipsIdentical(t *testing.T) {
	self := NewStore(WithSuffixer(fixedSuffix("123")))
	self.Add("acct1", "secret1")

	other := NewStore()
	other.Add("acct1", "secret1")
	other.Add("acct2", "secret2")

	result := self.MergeFrom(other)

	assert.Equal(t, 2, self.Len())
	assert.Equal(t, []string{"acct2"}, result.Added)
	assert.Equal(t, []string{"acct1"}, result.Identical)
	assert.Empty(t, result.Renamed)
	got, _ := self.Get("acct2")
	assert.Equal(t, "secret2", got)
}

func TestMergeFrom_SuffixesConflicts(t *testing.T) {
	self := NewStore(WithSuffixer(fixedSuffix("123")))
	self.Add("acct1", "secret1")

	other := NewStore()
	other.Add("acct1", "secret9")

	result := self.MergeFrom(other)

	assert.Equal(t, 2, self.Len())
	got, _ := self.Get("acct1")
	assert.Equal(t, "secret1", got)
	got, _ = self.Get("acct1_123")
	assert.Equal(t, "secret9", got)
	assert.Equal(t, []Rename{{From: "acct1", To: "acct1_123"}}, result.Renamed)
}

func TestMergeFrom_Mixed(t *testing.T) {
	self := NewStore(WithSuffixer(fixedSuffix("123")))
	self.Add("acct1", "secret1")
	self.Add("acct2", "secret2")
	self.Add("acct3", "secret3")

	other := NewStore()
	other.Add("acct4", "secret4")
	other.Add("acct2", "secret2")
	other.Add("acct3", "secret5")

	self.MergeFrom(other)

	assert.Equal(t, 5, self.Len())
	for name, want := range map[string]string{
		"acct1":     "secret1",
		"acct2":     "secret2",
		"acct3":     "secret3",
		"acct4":     "secret4",
		"acct3_123": "secret5",
	} {
		got, ok := self.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}

func TestMergeFrom_SuffixNeverReused(t *testing.T) {
	self := NewStore(WithSuffixer(fixedSuffix("dup")))
	self.Add("a", "1")
	self.Add("a_dup", "taken")

	other := NewStore()
	other.Add("a", "2")

	result := self.MergeFrom(other)

	require.Len(t, result.Renamed, 1)
	to := result.Renamed[0].To
	assert.True(t, strings.HasPrefix(to, "a_dup_"), to)
	got, _ := self.Get("a_dup")
	assert.Equal(t, "taken", got)
	got, _ = self.Get(to)
	assert.Equal(t, "2", got)
}

func TestMergeFrom_Empty(t *testing.T) {
	self := NewStore()
	self.Add("a", "1")

	result := self.MergeFrom(NewStore())
	assert.Empty(t, result.Added)
	assert.Equal(t, 1, self.Len())
}

func TestUUIDSuffix(t *testing.T) {
	a, b := UUIDSuffix(), UUIDSuffix()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}
