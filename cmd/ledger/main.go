package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/salary-ledger/internal/cli"
	"github.com/Veraticus/salary-ledger/internal/common"
	"github.com/Veraticus/salary-ledger/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries state shared by the commands of one invocation.
type app struct {
	v        *viper.Viper
	logFile  io.Closer
	cfgFile  string
	settings config.Settings
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	rootCmd := &cobra.Command{
		Use:   "ledger",
		Short: "💶 Salary and expense calculator",
		Long: `ledger: enter a salary and a list of expenses, and see what is left.

Run without a subcommand to open the interactive calculator.`,
		PersistentPreRunE:  a.initConfig,
		PersistentPostRunE: a.closeLog,
		RunE:               a.runTUI,
		Annotations:        map[string]string{annotationInteractive: "true"},
		SilenceUsage:       true,
		SilenceErrors:      true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/ledger/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("locale", "", "locale used to format amounts (default fr-FR)")
	flags.String("currency", "", "ISO 4217 currency code (default: the locale's currency)")

	// Bind flags to viper
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
	_ = a.v.BindPFlag(config.KeyCurrencyLocale, flags.Lookup("locale"))
	_ = a.v.BindPFlag(config.KeyCurrencyCode, flags.Lookup("currency"))

	addOFXFlag(rootCmd)

	rootCmd.AddCommand(tuiCmd(a))
	rootCmd.AddCommand(calcCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx, stop := interrupts.HandleInterrupts(context.Background())

	err := newRootCmd().ExecuteContext(ctx)
	stop() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	// Set up config file
	if a.cfgFile != "" {
		a.v.SetConfigFile(config.ExpandPath(a.cfgFile))
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "ledger"))
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	// Environment variables
	a.v.SetEnvPrefix("LEDGER")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	// Read config file
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	settings, err := config.Load(a.v)
	if err != nil {
		return common.NewUserError("Invalid configuration", err)
	}
	a.settings = settings

	if err := a.setupLogging(cmd); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	common.LogDebug("Configuration loaded", common.Fields{
		"config_file": a.v.ConfigFileUsed(),
		"locale":      settings.Currency.Locale,
		"currency":    settings.Currency.Code,
		"theme":       settings.UI.Theme,
	})

	return nil
}

// setupLogging sends logs to the configured file, or to stderr for
// line-oriented commands. Full screen commands discard logs without a file.
func (a *app) setupLogging(cmd *cobra.Command) error {
	level, err := common.ParseLevel(a.settings.Logging.Level)
	if err != nil {
		return err
	}
	format := a.settings.Logging.Format

	if path := a.settings.Logging.File; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // #nosec G304 - path comes from user configuration
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		return common.SetupLogger(level, format, f)
	}

	if cmd.Annotations[annotationInteractive] == "true" {
		common.DiscardLogger()
		return nil
	}

	return common.SetupLogger(level, format, cmd.ErrOrStderr())
}

func (a *app) closeLog(_ *cobra.Command, _ []string) error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ledger %s\n", version)
		},
	}
}
