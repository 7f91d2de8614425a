package main

import (
	"fmt"
	"os"

	"github.com/pingcap-incubator/txaware/kv/config"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "txaware-ctl",
		Short:        "Inspect and apply transaction-aware table changes",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the config file")

	rootCmd.AddCommand(
		newKeysCommand(),
		newApplyCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and sets up the global logger.
func loadConfig() (*config.Config, error) {
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		conf.LogLevel = logLevel
	}
	lg, props, err := log.InitLogger(&log.Config{Level: conf.LogLevel})
	if err != nil {
		return nil, err
	}
	log.ReplaceGlobals(lg, props)
	log.Debug("loaded config", zap.String("path", configPath), zap.String("engine", conf.Engine),
		zap.String("table", conf.Table), zap.String("conflict-detection", conf.TxAware.ConflictDetection))
	return conf, nil
}
