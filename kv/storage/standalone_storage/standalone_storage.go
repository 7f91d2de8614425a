package standalone_storage

import (
	"bytes"

	"github.com/Connor1996/badger"
	"github.com/pingcap-incubator/txaware/kv/config"
	"github.com/pingcap-incubator/txaware/kv/storage"
	"github.com/pingcap-incubator/txaware/kv/util"
	"github.com/pingcap-incubator/txaware/kv/util/engine_util"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// StandAloneStorage is an implementation of `Storage` backed by a single local badger instance.
type StandAloneStorage struct {
	conf *config.Config
	db   *badger.DB
}

func NewStandAloneStorage(conf *config.Config) *StandAloneStorage {
	return &StandAloneStorage{conf: conf}
}

func (s *StandAloneStorage) Start() error {
	if s.db != nil {
		return nil
	}
	created, err := util.EnsureDir(s.conf.DBPath)
	if err != nil {
		return err
	}
	if created {
		log.Info("created data directory", zap.String("path", s.conf.DBPath))
	}
	opts := badger.DefaultOptions
	opts.Dir = s.conf.DBPath
	opts.ValueDir = s.conf.DBPath
	db, err := badger.Open(opts)
	if err != nil {
		return errors.Annotatef(err, "open badger at %s", s.conf.DBPath)
	}
	s.db = db
	log.Info("standalone storage started", zap.String("path", s.conf.DBPath))
	return nil
}

func (s *StandAloneStorage) Stop() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	log.Info("standalone storage stopped", zap.String("path", s.conf.DBPath))
	return errors.WithStack(err)
}

func (s *StandAloneStorage) Reader() (storage.StorageReader, error) {
	if s.db == nil {
		return nil, errors.New("standalone storage is not started")
	}
	return NewStandAloneReader(s.db.NewTransaction(false)), nil
}

func (s *StandAloneStorage) Write(batch []storage.Modify) error {
	if s.db == nil {
		return errors.New("standalone storage is not started")
	}
	wb := new(engine_util.WriteBatch)
	txn := s.db.NewTransaction(false)
	defer txn.Discard()
	for i, m := range batch {
		switch data := m.Data.(type) {
		case storage.Put:
			wb.SetCF(data.Cf, data.Key, data.Value)
		case storage.Delete:
			wb.DeleteCF(data.Cf, data.Key)
		case storage.DeletePrefix:
			// txn only sees what was stored before this batch; puts earlier in the batch are deleted explicitly.
			engine_util.CollectPrefixDeletes(txn, wb, data.Cf, data.Prefix)
			for _, prev := range batch[:i] {
				if put, ok := prev.Data.(storage.Put); ok && put.Cf == data.Cf && bytes.HasPrefix(put.Key, data.Prefix) {
					wb.DeleteCF(put.Cf, put.Key)
				}
			}
		default:
			return errors.Errorf("unsupported modify %T", m.Data)
		}
	}
	return wb.WriteToDB(s.db)
}

type StandAloneReader struct {
	txn *badger.Txn
}

func NewStandAloneReader(txn *badger.Txn) *StandAloneReader {
	return &StandAloneReader{txn}
}

func (r *StandAloneReader) GetCF(cf string, key []byte) ([]byte, error) {
	val, err := engine_util.GetCFFromTxn(r.txn, cf, key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	return val, err
}

func (r *StandAloneReader) IterCF(cf string) engine_util.DBIterator {
	return engine_util.NewCFIterator(cf, r.txn)
}

func (r *StandAloneReader) Close() {
	r.txn.Discard()
}
