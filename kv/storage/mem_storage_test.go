package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func put(cf, key, value string) Modify {
	return Modify{Data: Put{Cf: cf, Key: []byte(key), Value: []byte(value)}}
}

func TestMemStorageReadWrite(t *testing.T) {
	s := NewMemStorage()
	require.Nil(t, s.Start())
	defer s.Stop()

	require.Nil(t, s.Write([]Modify{
		put("f", "a", "1"),
		put("f", "b", "2"),
		put("g", "a", "3"),
		{Data: Delete{Cf: "f", Key: []byte("b")}},
		{Data: Delete{Cf: "missing", Key: []byte("b")}},
	}))
	assert.Equal(t, 1, s.Len("f"))
	assert.Equal(t, 1, s.Len("g"))
	assert.Equal(t, 0, s.Len("missing"))

	r, err := s.Reader()
	require.Nil(t, err)
	defer r.Close()
	val, err := r.GetCF("f", []byte("a"))
	require.Nil(t, err)
	assert.Equal(t, []byte("1"), val)
	val, err = r.GetCF("f", []byte("b"))
	require.Nil(t, err)
	assert.Nil(t, val)
	val, err = r.GetCF("unknown", []byte("a"))
	require.Nil(t, err)
	assert.Nil(t, val)
}

func TestMemStorageEmptyValue(t *testing.T) {
	s := NewMemStorage()
	require.Nil(t, s.Write([]Modify{put("f", "a", "")}))

	r, _ := s.Reader()
	defer r.Close()
	val, err := r.GetCF("f", []byte("a"))
	require.Nil(t, err)
	assert.NotNil(t, val)
	assert.Len(t, val, 0)
	val, err = r.GetCF("f", []byte("b"))
	require.Nil(t, err)
	assert.Nil(t, val)
}

func TestMemStorageDeletePrefixWithinBatch(t *testing.T) {
	s := NewMemStorage()
	require.Nil(t, s.Write([]Modify{
		put("f", "r1/a", "1"),
		{Data: DeletePrefix{Cf: "f", Prefix: []byte("r1/")}},
		put("f", "r1/b", "2"),
	}))
	r, _ := s.Reader()
	defer r.Close()
	val, err := r.GetCF("f", []byte("r1/a"))
	require.Nil(t, err)
	assert.Nil(t, val)
	val, err = r.GetCF("f", []byte("r1/b"))
	require.Nil(t, err)
	assert.Equal(t, []byte("2"), val)
}

func TestMemStorageIterAndPrefixDelete(t *testing.T) {
	s := NewMemStorage()
	require.Nil(t, s.Write([]Modify{
		put("f", "r1/a", "1"),
		put("f", "r1/b", "2"),
		put("f", "r2/a", "3"),
		put("f", "r3/a", "4"),
	}))
	require.Nil(t, s.Write([]Modify{{Data: DeletePrefix{Cf: "f", Prefix: []byte("r1/")}}}))

	r, _ := s.Reader()
	iter := r.IterCF("f")
	defer iter.Close()
	var keys []string
	for ; iter.Valid(); iter.Next() {
		keys = append(keys, string(iter.Item().Key()))
	}
	assert.Equal(t, []string{"r2/a", "r3/a"}, keys)

	iter.Seek([]byte("r3"))
	require.True(t, iter.Valid())
	val, err := iter.Item().Value()
	require.Nil(t, err)
	assert.Equal(t, []byte("4"), val)

	empty := r.IterCF("nothing")
	assert.False(t, empty.Valid())
}

func TestModifyAccessors(t *testing.T) {
	m := put("f", "k", "v")
	assert.Equal(t, []byte("k"), m.Key())
	assert.Equal(t, []byte("v"), m.Value())
	assert.Equal(t, "f", m.Cf())

	m = Modify{Data: DeletePrefix{Cf: "g", Prefix: []byte("p")}}
	assert.Equal(t, []byte("p"), m.Key())
	assert.Nil(t, m.Value())
	assert.Equal(t, "g", m.Cf())
}
