package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pingcap-incubator/txaware/kv/txaware"
	"github.com/pingcap/errors"
)

const (
	EngineMemory = "memory"
	EngineBadger = "badger"
)

type Config struct {
	LogLevel string `toml:"log-level"`
	// Engine is the storage engine tables are written to: "memory" or "badger".
	Engine string `toml:"engine"`
	DBPath string `toml:"db-path"` // Directory to store the data in. Should exist and be writable.
	// Table is the identity of the wrapped table. It prefixes every change key, so it must not contain a zero byte.
	Table string `toml:"table"`

	TxAware TxAware `toml:"txaware"`
}

type TxAware struct {
	// ConflictDetection is one of "none", "row" or "column".
	ConflictDetection string `toml:"conflict-detection"`
	// Also report the pre-separator change keys so older clients can still be compared against.
	LegacyChangeKeyFormat bool `toml:"legacy-change-key-format"`
	// Forward mutations issued outside a transaction instead of rejecting them.
	AllowNonTransactional bool `toml:"allow-non-transactional"`
}

func (c *Config) Validate() error {
	switch c.Engine {
	case EngineMemory:
	case EngineBadger:
		if c.DBPath == "" {
			return errors.New("db-path must be set for the badger engine")
		}
	default:
		return errors.Errorf("unknown engine %q", c.Engine)
	}

	if err := txaware.ValidateTableKey([]byte(c.Table)); err != nil {
		return err
	}

	if _, err := txaware.ParseConflictDetection(c.TxAware.ConflictDetection); err != nil {
		return err
	}

	return nil
}

// Options converts the txaware section into table options. It assumes Validate passed.
func (c *Config) Options() txaware.Options {
	level, _ := txaware.ParseConflictDetection(c.TxAware.ConflictDetection)
	return txaware.Options{
		ConflictDetection:     level,
		LegacyChangeKeyFormat: c.TxAware.LegacyChangeKeyFormat,
		AllowNonTransactional: c.TxAware.AllowNonTransactional,
	}
}

// LoadConfig reads a TOML file on top of the default configuration.
func LoadConfig(path string) (*Config, error) {
	conf := NewDefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, conf); err != nil {
			return nil, errors.Annotatef(err, "load config %s", path)
		}
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func getLogLevel() (logLevel string) {
	logLevel = "info"
	if l := os.Getenv("LOG_LEVEL"); len(l) != 0 {
		logLevel = l
	}
	return
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: getLogLevel(),
		Engine:   EngineMemory,
		DBPath:   "/tmp/txaware",
		Table:    "default",
		TxAware: TxAware{
			ConflictDetection: "row",
		},
	}
}

func NewTestConfig() *Config {
	return &Config{
		LogLevel: getLogLevel(),
		Engine:   EngineMemory,
		DBPath:   "/tmp/txaware-test",
		Table:    "test",
		TxAware: TxAware{
			ConflictDetection: "column",
		},
	}
}
