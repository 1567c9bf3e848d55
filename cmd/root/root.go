// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/stmt-categorizer/internal/config"
	"fjacquet/stmt-categorizer/internal/container"
	"fjacquet/stmt-categorizer/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "stmt-categorizer",
		Short: "Import bank statements and categorize their transactions.",
		Long: `stmt-categorizer reads bank statements in CSV, Excel or JSON form,
recognizes their columns whatever the bank called them, and assigns a spending
category to every transaction using your corrections, merchant codes, keyword
rules and an optional pre-trained model.`,
		SilenceUsage:      true,
		PersistentPreRunE: initialize,
	}

	// SharedFlags holds -i/-o; commands give them their own meaning.
	SharedFlags = CommonFlags{}

	// ConfigFile is an explicit config file path.
	ConfigFile string
	// LogLevel overrides log.level when set.
	LogLevel string

	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory")
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default $HOME/.stmt-categorizer/config.yaml)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// Execute runs the root command and closes the container afterwards,
// whether or not the command failed.
func Execute() error {
	defer Shutdown()
	return Cmd.Execute()
}

// Shutdown closes the container, if any, and forgets it.
func Shutdown() {
	if appContainer == nil {
		return
	}
	if err := appContainer.Close(); err != nil {
		appContainer.GetLogger().WithError(err).Warn("Failed to close container")
	}
	appContainer = nil
}

func initialize(cmd *cobra.Command, args []string) error {
	if appContainer != nil {
		return nil
	}

	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return err
	}
	if LogLevel != "" {
		cfg.Log.Level = LogLevel
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	appContainer = c
	return nil
}

// GetContainer returns the container built for the running command.
func GetContainer() *container.Container {
	return appContainer
}

// SetContainer installs c as the command container. Commands run with a
// preset container skip configuration loading.
func SetContainer(c *container.Container) {
	appContainer = c
}

// GetLogger returns the container logger, or a default one before
// initialization.
func GetLogger() logging.Logger {
	if appContainer == nil {
		return logging.OrDefault(nil)
	}
	return appContainer.GetLogger()
}
