package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evolute-studio/mage-duel-docs/internal/config"
	"github.com/evolute-studio/mage-duel-docs/internal/log"
	"github.com/evolute-studio/mage-duel-docs/internal/sidebar"
	"github.com/evolute-studio/mage-duel-docs/internal/site"
)

var cfgFile string
var appConfig config.Config

var rootCmd = &cobra.Command{
	Use:   "mage-duel-docs",
	Short: "Builds the Mage Duel documentation site",
	Long: `mage-duel-docs reads the site and sidebar declarations together with the
Markdown content tree, checks every reference between them, and renders the
static documentation site.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// exitError ends the process with code after the command has already
// reported the failure itself.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console or json)")
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	for key, value := range config.Defaults {
		v.SetDefault(key, value)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("DOCS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlag("logLevel", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return err
	}
	if err := v.BindPFlag("logFormat", cmd.Root().PersistentFlags().Lookup("log-format")); err != nil {
		return err
	}

	configFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		configFound = false
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if configFound {
		appConfig = appConfig.Resolve(filepath.Dir(v.ConfigFileUsed()))
	}

	log.Configure(log.Config{
		Level:  appConfig.LogLevel,
		Format: appConfig.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	logger := log.WithComponent("cli")
	if configFound {
		logger.Debug().Str("config", v.ConfigFileUsed()).Msg("using config file")
	} else {
		logger.Debug().Msg("no config file found, using defaults and environment")
	}
	return nil
}

// loadDeclarations reads and validates the site metadata and the sidebars.
func loadDeclarations() (*site.Config, sidebar.Sidebars, error) {
	siteCfg, err := site.Load(appConfig.SiteFile)
	if err != nil {
		return nil, nil, err
	}
	if appConfig.BaseURL != "" {
		siteCfg.BaseURL = appConfig.BaseURL
	}
	if err := siteCfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid site file %s: %w", appConfig.SiteFile, err)
	}

	sb, err := sidebar.Load(appConfig.SidebarsFile)
	if err != nil {
		return nil, nil, err
	}
	if err := sb.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid sidebars file %s: %w", appConfig.SidebarsFile, err)
	}
	return siteCfg, sb, nil
}
