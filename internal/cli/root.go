// Package cli implements the toon CLI commands using Cobra. The tool
// converts between JSON and TOON and reports shape statistics for existing
// TOON documents.
package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thedataquarry/toon-go/internal/ui"
)

// Build-time version information, set via SetVersionInfo from main.go.
var (
	appVersion = "dev"
	appCommit  = "none"
)

// Persistent flag values accessible to all subcommands.
var (
	cfgFile string
	verbose bool
)

var (
	out *ui.Output
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "toon",
	Short: "Convert between JSON and TOON",
	Long: `toon converts JSON documents to Token-Oriented Object Notation and back.

TOON is a compact, indent-structured serialization format that reduces token
counts when structured data is passed into and out of language models while
remaining unambiguous enough to round-trip through a strict parser.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (env: TOON_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output (env: TOON_VERBOSE)")
}

// initConfig wires viper: explicit flag, then TOON_* environment, then a
// .toon config file in the working directory or home.
func initConfig() error {
	viper.SetDefault("indent", 2)
	viper.SetDefault("delimiter", "comma")
	viper.SetDefault("strict", true)

	if cfgFile == "" {
		cfgFile = os.Getenv("TOON_CONFIG")
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".toon")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("TOON")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return err
		}
	}
	verbose = verbose || viper.GetBool("verbose")

	out = ui.NewOutput().WithVerbose(verbose)
	level := zerolog.Disabled
	if verbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug().Str("config", used).Msg("loaded configuration")
	}
	return nil
}

// Execute runs the root command. This is the main entry point called from
// main.go.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo records build metadata for the version command.
func SetVersionInfo(version, commit string) {
	appVersion = version
	appCommit = commit
}
