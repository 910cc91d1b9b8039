package libatrail

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/erdos-dna/erdos/erdos"
)

// Checkpoint is one worker's serialized search position: the vertex stack
// (as indices into the BFS vertex ordering), the cursor, the last
// include/exclude choice, the target color, and the branch id.
//
// Wire format is a single line:
//
//	s0 s1 ... s_{k-1} | i choice color branch_id
type Checkpoint struct {
	Stack  []int
	Cursor int
	Choice int
	Color  int
	Branch int
}

// Encode renders the checkpoint line.
func (ck *Checkpoint) Encode() string {
	var b strings.Builder
	for _, s := range ck.Stack {
		fmt.Fprintf(&b, "%d ", s)
	}
	fmt.Fprintf(&b, "| %d %d %d %d", ck.Cursor, ck.Choice, ck.Color, ck.Branch)
	return b.String()
}

// ParseCheckpoint decodes a checkpoint line.
func ParseCheckpoint(line string) (*Checkpoint, error) {
	fields := strings.Fields(line)
	bar := -1
	for i, f := range fields {
		if f == "|" {
			bar = i
			break
		}
	}
	if bar < 0 || len(fields) != bar+5 {
		return nil, errors.Wrapf(erdos.ErrBadCheckpoint, "want `stack... | i choice color branch`, got %q", line)
	}

	ck := &Checkpoint{}
	for _, f := range fields[:bar] {
		s, err := strconv.Atoi(f)
		if err != nil || s < 0 {
			return nil, errors.Wrapf(erdos.ErrBadCheckpoint, "bad stack entry %q", f)
		}
		if n := len(ck.Stack); n > 0 && ck.Stack[n-1] >= s {
			return nil, errors.Wrapf(erdos.ErrBadCheckpoint, "stack not strictly ascending at %q", f)
		}
		ck.Stack = append(ck.Stack, s)
	}

	tail := fields[bar+1:]
	ints := make([]int, 4)
	for i, f := range tail {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(erdos.ErrBadCheckpoint, "bad field %q", f)
		}
		ints[i] = v
	}
	ck.Cursor, ck.Choice, ck.Color, ck.Branch = ints[0], ints[1], ints[2], ints[3]

	if ck.Choice != 0 && ck.Choice != 1 {
		return nil, errors.Wrapf(erdos.ErrBadCheckpoint, "choice %d out of range", ck.Choice)
	}
	if ck.Color != erdos.Blue && ck.Color != erdos.Red {
		return nil, errors.Wrapf(erdos.ErrBadCheckpoint, "color %d out of range", ck.Color)
	}
	if ck.Branch < 0 {
		return nil, errors.Wrapf(erdos.ErrBadCheckpoint, "branch %d out of range", ck.Branch)
	}
	if n := len(ck.Stack); n > 0 && ck.Stack[n-1] > ck.Cursor {
		return nil, errors.Wrapf(erdos.ErrBadCheckpoint, "stack top %d beyond cursor %d", ck.Stack[n-1], ck.Cursor)
	}
	if ck.Choice == 1 && (len(ck.Stack) == 0 || ck.Stack[len(ck.Stack)-1] != ck.Cursor) {
		return nil, errors.Wrapf(erdos.ErrBadCheckpoint, "include checkpoint must have cursor %d on top of stack", ck.Cursor)
	}
	return ck, nil
}

// Save writes the checkpoint file, replacing any previous one.
func (ck *Checkpoint) Save(pathname string) error {
	return os.WriteFile(pathname, []byte(ck.Encode()+"\n"), 0o644)
}

// LoadCheckpoint reads and decodes a checkpoint file.
func LoadCheckpoint(pathname string) (*Checkpoint, error) {
	data, err := os.ReadFile(pathname)
	if err != nil {
		return nil, errors.Wrapf(erdos.ErrBadCheckpoint, "%s: %v", pathname, err)
	}
	return ParseCheckpoint(strings.TrimSpace(string(data)))
}
