package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/unit-converter/internal/domain"
	"github.com/couchcryptid/unit-converter/internal/history"
	"github.com/couchcryptid/unit-converter/internal/observability"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config keys. Values come from flags, then the environment, then the .env
// file, then the defaults below.
const (
	keySiteURLDev  = "site_url_dev"
	keySiteURLPrd  = "site_url_prd"
	keyStaticDir   = "static_dir"
	keyHistoryPath = "history_path"
	keyReportDir   = "report_dir"
	keyLogLevel    = "log_level"
)

// app carries the state shared by every subcommand.
type app struct {
	v         *viper.Viper
	converter *domain.Converter
	logger    *slog.Logger
}

func newApp() *app {
	v := viper.New()
	v.SetDefault(keySiteURLDev, "http://localhost:8080/")
	v.SetDefault(keyStaticDir, "public")
	v.SetDefault(keyHistoryPath, defaultHistoryPath())
	v.SetDefault(keyReportDir, "reports")
	v.SetDefault(keyLogLevel, "warn")

	return &app{
		v:         v,
		converter: domain.NewConverter(domain.DefaultCatalog()),
		logger:    observability.DiscardLogger(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "unitconv",
		Short:         "Convert units and maintain the converter site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd, envFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file with SITE_URL_DEV, SITE_URL_PRD, STATIC_DIR, HISTORY_PATH")
	flags.String("history", "", "history database directory (env HISTORY_PATH)")
	flags.String("log-level", "", "log level: debug|info|warn|error (env LOG_LEVEL)")
	bindFlag(a.v, keyHistoryPath, flags.Lookup("history"))
	bindFlag(a.v, keyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		newConvertCmd(a),
		newCategoriesCmd(a),
		newHistoryCmd(a),
		newFavoriteCmd(a),
		newFavoritesCmd(a),
		newPagesCmd(a),
		newSitemapCmd(a),
		newCleanupCmd(a),
		newAuditCmd(a),
	)
	return root
}

// loadConfig reads the optional dotenv file, enables environment overrides,
// and builds the stderr logger.
func (a *app) loadConfig(cmd *cobra.Command, envFile string) error {
	if envFile != "" {
		a.v.SetConfigFile(envFile)
		a.v.SetConfigType("env")
		if err := a.v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	a.v.AutomaticEnv()

	a.logger = observability.NewCLILogger(cmd.ErrOrStderr(), a.v.GetString(keyLogLevel))
	return nil
}

// siteURL returns the configured site root for mode dev or prd.
func (a *app) siteURL(mode string) (string, error) {
	var key string
	switch mode {
	case "dev":
		key = keySiteURLDev
	case "prd":
		key = keySiteURLPrd
	default:
		return "", fmt.Errorf("invalid mode %q: expected dev or prd", mode)
	}
	u := a.v.GetString(key)
	if u == "" {
		return "", fmt.Errorf("site url for mode %s is not set (%s)", mode, envName(key))
	}
	return u, nil
}

func (a *app) openStore() (*history.Store, error) {
	return history.Open(a.v.GetString(keyHistoryPath), a.logger)
}

// bindFlag binds a flag to a config key. Lookup never returns nil for the
// flags defined here, so a failure is a programming error.
func bindFlag(v *viper.Viper, key string, f *pflag.Flag) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

// bindLocal binds one of cmd's own flags. Several commands share a key, so
// binding happens when the command runs rather than at construction.
func (a *app) bindLocal(cmd *cobra.Command, key, flag string) {
	bindFlag(a.v, key, cmd.Flags().Lookup(flag))
}

func envName(key string) string {
	return strings.ToUpper(key)
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".unitconv", "history")
	}
	return filepath.Join(dir, "unitconv", "history")
}
