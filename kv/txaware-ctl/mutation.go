package main

import (
	"strings"

	"github.com/pingcap/errors"
)

// mutation is a command line cell written as row:family[:qualifier][=value].
type mutation struct {
	row       []byte
	family    []byte
	qualifier []byte
	value     []byte
	hasValue  bool
}

func parseMutation(arg string) (mutation, error) {
	var m mutation
	coord := arg
	if idx := strings.IndexByte(arg, '='); idx >= 0 {
		coord = arg[:idx]
		m.value = []byte(arg[idx+1:])
		m.hasValue = true
	}
	parts := strings.SplitN(coord, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return m, errors.Errorf("bad mutation %q, expected row:family[:qualifier][=value]", arg)
	}
	m.row = []byte(parts[0])
	m.family = []byte(parts[1])
	if len(parts) == 3 {
		m.qualifier = []byte(parts[2])
	}
	return m, nil
}

func parseMutations(args []string) ([]mutation, error) {
	mutations := make([]mutation, 0, len(args))
	for _, arg := range args {
		m, err := parseMutation(arg)
		if err != nil {
			return nil, err
		}
		mutations = append(mutations, m)
	}
	return mutations, nil
}

type writePointer uint64

func (wp writePointer) WritePointer() uint64 { return uint64(wp) }
