package libatrail_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdos-dna/erdos/libatrail"
)

func TestCheckpointEncodeParse(t *testing.T) {
	ck := &libatrail.Checkpoint{
		Stack:  []int{0, 2, 5},
		Cursor: 5,
		Choice: 1,
		Color:  1,
		Branch: 3,
	}
	line := ck.Encode()
	assert.Equal(t, "0 2 5 | 5 1 1 3", line)

	parsed, err := libatrail.ParseCheckpoint(line)
	require.NoError(t, err)
	assert.Equal(t, ck, parsed)
}

func TestParseCheckpointEmptyStack(t *testing.T) {
	parsed, err := libatrail.ParseCheckpoint("| 4 0 0 0")
	require.NoError(t, err)
	assert.Empty(t, parsed.Stack)
	assert.Equal(t, 4, parsed.Cursor)
	assert.Equal(t, 0, parsed.Choice)
}

func TestParseCheckpointRejectsMalformed(t *testing.T) {
	for _, line := range []string{
		"",
		"1 2 3",              // no separator
		"1 2 | 3 1",          // too few fields
		"1 2 | 3 1 0 0 9",    // too many fields
		"x | 3 0 0 0",        // bad stack entry
		"2 1 | 3 0 0 0",      // stack not ascending
		"1 2 | 3 7 0 0",      // choice out of range
		"1 2 | 3 0 5 0",      // color out of range
		"1 2 | 3 0 0 -1",     // bad branch
		"1 4 | 3 0 0 0",      // stack beyond cursor
		"1 2 | 3 1 0 0",      // include without cursor on top
	} {
		_, err := libatrail.ParseCheckpoint(line)
		assert.Errorf(t, err, "line %q", line)
	}
}

func TestCheckpointSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "w.checkpoint")

	ck := &libatrail.Checkpoint{Stack: []int{1, 3}, Cursor: 4, Choice: 0, Color: 0, Branch: 1}
	require.NoError(t, ck.Save(path))

	loaded, err := libatrail.LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, ck, loaded)

	_, err = libatrail.LoadCheckpoint(filepath.Join(dir, "missing.checkpoint"))
	assert.Error(t, err)
}
