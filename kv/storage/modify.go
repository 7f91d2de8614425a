package storage

// Modify is a single modification to the underlying storage.
type Modify struct {
	Data interface{}
}

type Put struct {
	Key   []byte
	Value []byte
	Cf    string
}

type Delete struct {
	Key []byte
	Cf  string
}

// DeletePrefix removes every key of Cf that starts with Prefix, including keys put earlier in the same batch. Puts
// later in the batch are kept.
type DeletePrefix struct {
	Prefix []byte
	Cf     string
}

func (m *Modify) Key() []byte {
	switch data := m.Data.(type) {
	case Put:
		return data.Key
	case Delete:
		return data.Key
	case DeletePrefix:
		return data.Prefix
	}
	return nil
}

func (m *Modify) Value() []byte {
	if putData, ok := m.Data.(Put); ok {
		return putData.Value
	}

	return nil
}

func (m *Modify) Cf() string {
	switch data := m.Data.(type) {
	case Put:
		return data.Cf
	case Delete:
		return data.Cf
	case DeletePrefix:
		return data.Cf
	}
	return ""
}
