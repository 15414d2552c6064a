package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cfgcmd "github.com/Iron-Ham/medic/internal/cmd/config"
	"github.com/Iron-Ham/medic/internal/config"
	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/logging"
	"github.com/Iron-Ham/medic/internal/probe"
	"github.com/Iron-Ham/medic/internal/tui/keymap"
	"github.com/Iron-Ham/medic/internal/tui/styles"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "medic",
	Short: "System diagnostic and health monitor",
	Long: `medic inspects the host it runs on: system information, disk health,
installed toolchains, storage throughput, input devices and network
connectivity. Results are shown in a scrollable viewer and can be saved
as a plain-text report.

Without a subcommand the interactive menu is started.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// newRegistry builds the probe set; tests replace it.
var newRegistry = probe.NewDefaultRegistry

// Execute runs the root command and prints the error it returns, if any.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// printError writes err to w. Classified errors are prefixed by severity
// and, when retryable, followed by a hint to run the command again.
func printError(w io.Writer, err error) {
	if !errors.IsUserFacing(err) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	prefix := "Error"
	if errors.GetSeverity(err) < errors.SeverityError {
		prefix = "Warning"
	}
	fmt.Fprintf(w, "%s: %v\n", prefix, err)
	if errors.IsRetryable(err) {
		fmt.Fprintln(w, "This may be temporary; run the command again.")
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/medic/config.yaml)")
	rootCmd.PersistentFlags().String("theme", "", "color theme: "+strings.Join(styles.BuiltinThemes(), ", "))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("tui.theme", rootCmd.PersistentFlags().Lookup("theme"))

	rootCmd.Version = Version
	cfgcmd.Register(rootCmd)
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("MEDIC")
	// Replace dots with underscores for nested keys in env vars
	// e.g., MEDIC_VIEWER_VISIBLE_ROWS for viewer.visible_rows
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// loadConfig reads and validates the configuration and applies the theme.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	styles.SetTheme(styles.ThemeName(cfg.TUI.Theme))
	return cfg, nil
}

// createLogger creates a logger if logging is enabled in config.
// Returns a NopLogger if logging is disabled or if creation fails.
func createLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}

	rotationConfig := logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	}

	logger, err := logging.NewLoggerWithRotation(cfg.Logging.ResolveDir(), cfg.Logging.Level, rotationConfig)
	if err != nil {
		// Log creation failure shouldn't prevent the application from starting
		fmt.Fprintf(os.Stderr, "Warning: failed to create logger: %v\n", err)
		return logging.NopLogger()
	}
	return logger
}

// loadKeymap returns the default bindings overlaid with the configured file.
func loadKeymap(cfg *config.Config) (*keymap.Keymap, error) {
	return keymap.LoadFile(cfg.Viewer.KeymapFile)
}
