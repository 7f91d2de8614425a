package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/pingcap-incubator/txaware/kv/config"
	"github.com/pingcap-incubator/txaware/kv/storage"
	"github.com/pingcap-incubator/txaware/kv/storage/standalone_storage"
	"github.com/pingcap-incubator/txaware/kv/table"
	"github.com/pingcap-incubator/txaware/kv/txaware"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	writePointerArg uint64
	abortArg        bool
)

func newKeysCommand() *cobra.Command {
	m := &cobra.Command{
		Use:   "keys row:family[:qualifier]...",
		Short: "Print the change keys the given mutations produce",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runKeysCommandFunc,
	}
	m.Flags().Uint64Var(&writePointerArg, "write-pointer", 1, "write pointer of the transaction")
	return m
}

func newApplyCommand() *cobra.Command {
	m := &cobra.Command{
		Use:   "apply row:family:qualifier=value...",
		Short: "Write the given cells in one transaction, then commit or roll back",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runApplyCommandFunc,
	}
	m.Flags().Uint64Var(&writePointerArg, "write-pointer", 1, "write pointer of the transaction")
	m.Flags().BoolVar(&abortArg, "abort", false, "roll the transaction back instead of committing it")
	return m
}

func runKeysCommandFunc(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	mutations, err := parseMutations(args)
	if err != nil {
		return err
	}
	tbl, err := table.NewTable([]byte(conf.Table), storage.NewMemStorage())
	if err != nil {
		return err
	}
	txTable, err := txaware.NewTransactionAwareTable(tbl, conf.Options())
	if err != nil {
		return err
	}
	if err := txTable.StartTx(writePointer(writePointerArg)); err != nil {
		return err
	}
	for _, m := range mutations {
		if err := txTable.Put(m.row, m.family, m.qualifier, m.value); err != nil {
			return err
		}
	}
	defer txTable.Reset()
	return printChangeKeys(cmd.OutOrStdout(), txTable)
}

func runApplyCommandFunc(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	mutations, err := parseMutations(args)
	if err != nil {
		return err
	}

	s := newStorage(conf)
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Stop()

	tbl, err := table.NewTable([]byte(conf.Table), s)
	if err != nil {
		return err
	}
	txTable, err := txaware.NewTransactionAwareTable(tbl, conf.Options())
	if err != nil {
		return err
	}
	return applyMutations(cmd.OutOrStdout(), txTable, writePointer(writePointerArg), mutations, abortArg)
}

func newStorage(conf *config.Config) storage.Storage {
	if conf.Engine == config.EngineBadger {
		return standalone_storage.NewStandAloneStorage(conf)
	}
	return storage.NewMemStorage()
}

// applyMutations runs one transaction over txTable: delete mutations have no value. The transaction is committed,
// or rolled back when abort is set or the commit fails.
func applyMutations(w io.Writer, txTable *txaware.TransactionAwareTable, tx txaware.Transaction, mutations []mutation, abort bool) error {
	if err := txTable.StartTx(tx); err != nil {
		return err
	}
	defer txTable.Reset()

	for _, m := range mutations {
		var err error
		switch {
		case m.hasValue:
			err = txTable.Put(m.row, m.family, m.qualifier, m.value)
		case m.qualifier == nil:
			err = txTable.DeleteFamily(m.row, m.family)
		default:
			err = txTable.Delete(m.row, m.family, m.qualifier)
		}
		if err != nil {
			return err
		}
	}
	if err := printChangeKeys(w, txTable); err != nil {
		return err
	}

	if !abort {
		err := txTable.CommitTx()
		if err == nil {
			txTable.PostTxCommit()
			fmt.Fprintln(w, "committed")
			return nil
		}
		log.Warn("commit failed, rolling back", zap.Error(err))
	}
	if err := txTable.RollbackTx(); err != nil {
		return errors.Annotate(err, "roll back")
	}
	fmt.Fprintln(w, "rolled back")
	return nil
}

func printChangeKeys(w io.Writer, txTable *txaware.TransactionAwareTable) error {
	keys, err := txTable.TxChanges()
	if err != nil {
		return err
	}
	for _, key := range keys {
		fmt.Fprintln(w, hex.EncodeToString(key))
	}
	return nil
}
