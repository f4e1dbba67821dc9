package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type lexiconApp struct {
	baseCmd    *cobra.Command
	baseConfig *baseConfiguration
}

func newApp(in io.Reader, out io.Writer) *lexiconApp {
	baseCmd, baseConfig := newBaseCmd()
	baseCmd.SetIn(in)
	baseCmd.SetOut(out)
	return &lexiconApp{baseCmd: baseCmd, baseConfig: baseConfig}
}

// Execute adds all child commands and runs the application.
func (a *lexiconApp) Execute(ctx context.Context) (err error) {
	defer func() { err = errors.Join(err, a.baseConfig.close()) }()

	a.baseCmd.AddCommand(newServeCmd(a.baseConfig))
	a.baseCmd.AddCommand(newReplCmd(a.baseConfig))
	a.baseCmd.AddCommand(newStatsCmd(a.baseConfig))
	return a.baseCmd.ExecuteContext(ctx)
}

func newBaseCmd() (*cobra.Command, *baseConfiguration) {
	config := &baseConfiguration{}
	baseCmd := &cobra.Command{
		Use:           "lexicon",
		Short:         "Red-black tree dictionary and spell checker",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(cmd, config); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			return nil
		},
	}
	config.addConfigurationFlags(baseCmd)
	return baseCmd, config
}

func initializeConfig(cmd *cobra.Command, config *baseConfiguration) error {
	var errs []error
	if err := config.initializeConfig(cmd); err != nil {
		errs = append(errs, fmt.Errorf("reading configuration: %w", err))
	}
	if err := config.initLogger(cmd); err != nil {
		errs = append(errs, fmt.Errorf("initializing logger: %w", err))
	}
	return errors.Join(errs...)
}

// initializeConfig layers the config file and LEXICON_* environment variables
// under the command line flags.
func (config *baseConfiguration) initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	config.initConfigFileLocation()
	if config.configFileExists() {
		v.SetConfigFile(config.CfgFile)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := bindFlags(cmd, v); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// bindFlags sets every flag the user did not pass from viper, if viper has a
// value for it.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindFlagErr []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == keyHome || f.Name == keyConfig {
			return
		}

		// --grpc-addr is read from LEXICON_GRPC_ADDR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				bindFlagErr = append(bindFlagErr, fmt.Errorf("binding env to flag %q: %w", f.Name, err))
				return
			}
		}

		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				bindFlagErr = append(bindFlagErr, fmt.Errorf("setting flag %q value: %w", f.Name, err))
			}
		}
	})
	return errors.Join(bindFlagErr...)
}
