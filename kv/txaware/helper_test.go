package txaware

import (
	"github.com/pingcap/errors"
)

type testTx uint64

func (tx testTx) WritePointer() uint64 { return uint64(tx) }

type cell struct {
	row, family, qualifier string
}

// fakeStore records every call made by the table and lifecycle. Failures are injected with flushErr and
// failDeleteAt (the 1-based DeleteFamily call that fails).
type fakeStore struct {
	tableKey     []byte
	puts         []cell
	deletes      []cell
	flushes      int
	familyDels   []RollbackTarget
	clears       []RollbackTarget
	resets       int
	flushErr     error
	failDeleteAt int
	deleteCalls  int
}

func newFakeStore(tableKey string) *fakeStore {
	return &fakeStore{tableKey: []byte(tableKey)}
}

func (s *fakeStore) TableKey() []byte { return s.tableKey }

func (s *fakeStore) Flush() error {
	s.flushes++
	return s.flushErr
}

func (s *fakeStore) DeleteFamily(row, family []byte) error {
	s.deleteCalls++
	if s.failDeleteAt > 0 && s.deleteCalls == s.failDeleteAt {
		return errors.New("region unavailable")
	}
	s.familyDels = append(s.familyDels, RollbackTarget{Row: row, Family: family})
	return nil
}

func (s *fakeStore) ClearFamily(row, family []byte) error {
	s.clears = append(s.clears, RollbackTarget{Row: row, Family: family})
	return nil
}

func (s *fakeStore) ResetTx() {
	s.resets++
}

func (s *fakeStore) Put(row, family, qualifier, value []byte) error {
	s.puts = append(s.puts, cell{string(row), string(family), string(qualifier)})
	return nil
}

func (s *fakeStore) Delete(row, family, qualifier []byte) error {
	s.deletes = append(s.deletes, cell{string(row), string(family), string(qualifier)})
	return nil
}

func (s *fakeStore) Get(row, family, qualifier []byte) ([]byte, error) {
	return nil, nil
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
