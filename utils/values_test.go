package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYesNo(t *testing.T) {
	assert.Equal(t, "Yes", YesNo(true))
	assert.Equal(t, "No", YesNo(false))
}

func TestFilterMapUnique(t *testing.T) {
	keys := []string{"2026.xlsx", "_draft.xlsx", "notes.txt", "2026.csv"}
	kept := Filter(keys, func(k string) bool { return !strings.HasPrefix(k, "_") })
	assert.Equal(t, []string{"2026.xlsx", "notes.txt", "2026.csv"}, kept)
	assert.Empty(t, Filter([]int(nil), func(int) bool { return true }))

	assert.Equal(t, []int{1, 2, 3}, Map([]string{"a", "bb", "ccc"}, func(s string) int { return len(s) }))

	assert.Equal(t, []string{"a@x.io", "b@x.io"}, Unique([]string{"a@x.io", "b@x.io", "a@x.io"}))

	p := Ptr(42)
	assert.Equal(t, 42, *p)
}
