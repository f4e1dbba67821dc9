package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lexicon/logger"
)

type baseConfiguration struct {
	// HomeDir holds the configuration files and the default data directory.
	HomeDir string
	// CfgFile is relative to HomeDir unless absolute.
	CfgFile    string
	LogCfgFile string

	log       *slog.Logger
	logCloser io.Closer
}

const (
	// The prefix for configuration keys inside environment.
	envPrefix = "LEXICON"

	defaultConfigFile       = "config.props"
	defaultHomeDir          = ".lexicon"
	defaultLoggerConfigFile = "logger-config.yaml"

	keyHome   = "home"
	keyConfig = "config"

	flagNameLoggerCfgFile = "logger-config"
	flagNameLogOutputFile = "log-file"
	flagNameLogLevel      = "log-level"
	flagNameLogFormat     = "log-format"
)

func (r *baseConfiguration) addConfigurationFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&r.HomeDir, keyHome, "", fmt.Sprintf("set the %s_HOME for this invocation (default is %s)", envPrefix, lexiconHomeDir()))
	cmd.PersistentFlags().StringVar(&r.CfgFile, keyConfig, "", fmt.Sprintf("config file URL (default is $%s_HOME/%s)", envPrefix, defaultConfigFile))

	cmd.PersistentFlags().StringVar(&r.LogCfgFile, flagNameLoggerCfgFile, defaultLoggerConfigFile, "logger config file URL. Considered absolute if starts with '/'. Otherwise relative from the home directory.")
	// no defaults here, an unset flag leaves the value from the logger config file alone
	cmd.PersistentFlags().String(flagNameLogOutputFile, "", "log file path or one of the special values: stdout, stderr, discard")
	cmd.PersistentFlags().String(flagNameLogLevel, "", "logging level, one of: TRACE, DEBUG, INFO, WARN, ERROR, NONE")
	cmd.PersistentFlags().String(flagNameLogFormat, "", "log format, one of: text, json")
}

func (r *baseConfiguration) initConfigFileLocation() {
	if r.HomeDir == "" {
		r.HomeDir = os.Getenv(envKey(keyHome))
		if r.HomeDir == "" {
			r.HomeDir = lexiconHomeDir()
		}
	}
	if r.CfgFile == "" {
		r.CfgFile = os.Getenv(envKey(keyConfig))
		if r.CfgFile == "" {
			r.CfgFile = defaultConfigFile
		}
	}
	if !filepath.IsAbs(r.CfgFile) {
		r.CfgFile = filepath.Join(r.HomeDir, r.CfgFile)
	}
}

func (r *baseConfiguration) configFileExists() bool {
	_, err := os.Stat(r.CfgFile)
	return err == nil
}

func (r *baseConfiguration) loggerCfgFilename() string {
	if !filepath.IsAbs(r.LogCfgFile) {
		return filepath.Join(r.HomeDir, r.LogCfgFile)
	}
	return r.LogCfgFile
}

// initLogger builds the logger from the logger config file, with the log
// flags taking precedence. A missing default config file is fine.
func (r *baseConfiguration) initLogger(cmd *cobra.Command) error {
	cfg := &logger.LogConfiguration{}

	cfgFile := filepath.Clean(r.loggerCfgFilename())
	if f, err := os.Open(cfgFile); err != nil {
		if !(errors.Is(err, os.ErrNotExist) && cfgFile == filepath.Join(r.HomeDir, defaultLoggerConfigFile)) {
			return fmt.Errorf("opening logger configuration file: %w", err)
		}
	} else {
		defer f.Close()
		if cfg, err = logger.LoadConfiguration(f); err != nil {
			return fmt.Errorf("%s: %w", cfgFile, err)
		}
	}

	getFlagValueIfSet := func(flagName string, value *string) error {
		if cmd.Flags().Changed(flagName) {
			var err error
			if *value, err = cmd.Flags().GetString(flagName); err != nil {
				return fmt.Errorf("failed to read %s flag value: %w", flagName, err)
			}
		}
		return nil
	}
	if err := errors.Join(
		getFlagValueIfSet(flagNameLogLevel, &cfg.Level),
		getFlagValueIfSet(flagNameLogFormat, &cfg.Format),
		getFlagValueIfSet(flagNameLogOutputFile, &cfg.OutputPath),
	); err != nil {
		return err
	}

	l, closer, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	r.log, r.logCloser = l, closer
	return nil
}

func (r *baseConfiguration) close() error {
	if r.logCloser == nil {
		return nil
	}
	return r.logCloser.Close()
}

func lexiconHomeDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		panic("default user home dir not defined: " + err.Error())
	}
	return filepath.Join(dir, defaultHomeDir)
}

func envKey(key string) string {
	return fmt.Sprintf("%s_%s", envPrefix, strings.ToUpper(key))
}
