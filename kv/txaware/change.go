package txaware

import (
	"bytes"
	"sort"
)

// ActionChange records one mutated coordinate. It is a comparable value: two changes over the same bytes are equal
// and collapse to one entry of a ChangeSet.
type ActionChange struct {
	row          string
	family       string
	qualifier    string
	hasQualifier bool
}

// NewRowChange returns a change without a qualifier.
func NewRowChange(row, family []byte) ActionChange {
	return ActionChange{row: string(row), family: string(family)}
}

// NewColumnChange returns a change of a single column. A nil qualifier is treated as absent.
func NewColumnChange(row, family, qualifier []byte) ActionChange {
	if qualifier == nil {
		return NewRowChange(row, family)
	}
	return ActionChange{row: string(row), family: string(family), qualifier: string(qualifier), hasQualifier: true}
}

func (c ActionChange) Row() []byte { return []byte(c.row) }

func (c ActionChange) Family() []byte { return []byte(c.family) }

// Qualifier returns nil when the change has no qualifier.
func (c ActionChange) Qualifier() []byte {
	if !c.hasQualifier {
		return nil
	}
	return []byte(c.qualifier)
}

func (c ActionChange) HasQualifier() bool { return c.hasQualifier }

func (c ActionChange) less(o ActionChange) bool {
	if c.row != o.row {
		return c.row < o.row
	}
	if c.family != o.family {
		return c.family < o.family
	}
	if c.hasQualifier != o.hasQualifier {
		return !c.hasQualifier
	}
	return c.qualifier < o.qualifier
}

// ChangeSet is the set of changes made under one write pointer.
type ChangeSet map[ActionChange]struct{}

func (s ChangeSet) Add(c ActionChange) {
	s[c] = struct{}{}
}

func (s ChangeSet) Contains(c ActionChange) bool {
	_, ok := s[c]
	return ok
}

// RollbackTarget is a (row, family) pair a compensating delete is issued against on rollback.
type RollbackTarget struct {
	Row    []byte
	Family []byte
}

func sortChanges(changes []ActionChange) {
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].less(changes[j])
	})
}

func sortTargets(targets []RollbackTarget) {
	sort.Slice(targets, func(i, j int) bool {
		if c := bytes.Compare(targets[i].Row, targets[j].Row); c != 0 {
			return c < 0
		}
		return bytes.Compare(targets[i].Family, targets[j].Family) < 0
	})
}
