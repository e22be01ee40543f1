package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrSchemasDiffer is returned by compare --fail-on-diff when the result is
// not all SAME. Execute turns it into exit status 2.
var ErrSchemasDiffer = errors.New("schemas differ")

var (
	cfgFile        string
	tables         []string
	exclude        []string
	noProgress     bool
	normalizeTypes bool
)

var RootCmd = &cobra.Command{
	Use:   "db-compare",
	Short: "Compare the table and column structure of two databases",
	Long: `
  ____  ____     ____ ___  __  __ ____   _    ____  _____
 |  _ \| __ )   / ___/ _ \|  \/  |  _ \ / \  |  _ \| ____|
 | | | |  _ \  | |  | | | | |\/| | |_) / _ \ | |_) |  _|
 | |_| | |_) | | |__| |_| | |  | |  __/ ___ \|  _ <| |___
 |____/|____/   \____\___/|_|  |_|_| /_/   \_\_| \_\_____|

DB COMPARE 🔍 - Schema Diff for MySQL, PostgreSQL, SQL Server, Oracle and SQLite
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := RootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	stop()
	if errors.Is(err, ErrSchemasDiffer) {
		os.Exit(2)
	}
	os.Exit(1)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./db-compare.yaml)")
	flags.StringSliceVarP(&tables, "tables", "t", []string{}, "Only these tables (comma-separated, overrides config)")
	flags.StringSliceVarP(&exclude, "exclude", "x", []string{}, "Skip these tables (comma-separated, overrides config)")
	flags.StringP("format", "f", "text", "Output format: text or json")
	flags.Duration("timeout", time.Minute, "Give up on introspection after this long (0 = never)")
	flags.BoolVar(&normalizeTypes, "normalize-types", false, "Map vendor type names onto a shared vocabulary before comparing")
	flags.BoolVar(&noProgress, "no-progress", false, "Disable the progress bars")

	viper.BindPFlag("settings.format", flags.Lookup("format"))
	viper.BindPFlag("settings.timeout", flags.Lookup("timeout"))
	viper.BindPFlag("settings.normalize_types", flags.Lookup("normalize-types"))
}

// initConfig reads .env, the config file and DBCOMPARE_* environment variables.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-compare")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DBCOMPARE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		log.Printf("Warning: failed to read config %s: %v", cfgFile, err)
	}
}

// commandContext applies settings.timeout to the command's context.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d := viper.GetDuration("settings.timeout"); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
