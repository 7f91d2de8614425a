package txaware

// ChangeSetTracker accumulates the changes of every write pointer seen since the last Reset. Under ROW and NONE the
// qualifier is dropped.
type ChangeSetTracker struct {
	level      ConflictDetection
	changeSets map[uint64]ChangeSet
}

func NewChangeSetTracker(level ConflictDetection) *ChangeSetTracker {
	return &ChangeSetTracker{
		level:      level,
		changeSets: make(map[uint64]ChangeSet),
	}
}

// Record adds a mutated coordinate to the change set of tx's write pointer.
func (t *ChangeSetTracker) Record(tx Transaction, row, family, qualifier []byte) error {
	if tx == nil {
		return ErrNoActiveTransaction
	}
	writePointer := tx.WritePointer()
	changeSet, ok := t.changeSets[writePointer]
	if !ok {
		changeSet = make(ChangeSet)
		t.changeSets[writePointer] = changeSet
	}
	switch t.level {
	case ConflictDetectionColumn:
		changeSet.Add(NewColumnChange(row, family, qualifier))
	default:
		changeSet.Add(NewRowChange(row, family))
	}
	recordCounter.WithLabelValues(t.level.String()).Inc()
	return nil
}

// ChangeSet returns the changes recorded under writePointer, or nil.
func (t *ChangeSetTracker) ChangeSet(writePointer uint64) ChangeSet {
	return t.changeSets[writePointer]
}

// AllChanges flattens every change set, ordered by row, family and qualifier.
func (t *ChangeSetTracker) AllChanges() []ActionChange {
	changes := make([]ActionChange, 0, t.Len())
	for _, changeSet := range t.changeSets {
		for change := range changeSet {
			changes = append(changes, change)
		}
	}
	sortChanges(changes)
	return changes
}

// RollbackTargets returns the distinct (row, family) pairs over all changes, ordered by row then family.
func (t *ChangeSetTracker) RollbackTargets() []RollbackTarget {
	seen := make(map[ActionChange]struct{})
	var targets []RollbackTarget
	for _, changeSet := range t.changeSets {
		for change := range changeSet {
			key := ActionChange{row: change.row, family: change.family}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			targets = append(targets, RollbackTarget{Row: change.Row(), Family: change.Family()})
		}
	}
	sortTargets(targets)
	return targets
}

// Len is the number of changes over all write pointers.
func (t *ChangeSetTracker) Len() int {
	n := 0
	for _, changeSet := range t.changeSets {
		n += len(changeSet)
	}
	return n
}

// WritePointers is the number of write pointers with a change set.
func (t *ChangeSetTracker) WritePointers() int {
	return len(t.changeSets)
}

// Reset drops every change set.
func (t *ChangeSetTracker) Reset() {
	t.changeSets = make(map[uint64]ChangeSet)
}
