// Package main implements the lawnote command-line interface: a recursive
// statute-note generator over the e-Gov law API v2.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coolbeans/lawnote/pkg/crawl"
	"github.com/coolbeans/lawnote/pkg/dict"
	"github.com/coolbeans/lawnote/pkg/egov"
)

var version = "0.1.0"

func main() {
	// Load .env early so environment variables are visible to viper.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootCmd builds the root command. All options are also readable from the
// environment with the LAWNOTE_ prefix (e.g. LAWNOTE_API_BASE_URL).
func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lawnote [law-title]",
		Short: "Recursive statute-note generator for the e-Gov law API",
		Long: `lawnote fetches a statute from the e-Gov law API v2, converts it into a
cross-linked Markdown note, and follows statute references breadth-first up
to a bounded depth. Statute names learned along the way are kept in a local
dictionary so later runs resolve them without the network.`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE:    run,
	}

	flags := cmd.Flags()
	flags.String("output-dir", crawl.DefaultOutputDir, "directory notes are written into")
	flags.Int("max-depth", crawl.DefaultMaxDepth, "maximum reference-following depth")
	flags.Bool("no-overwrite", false, "fail instead of overwriting an existing note")
	flags.String("api-base-url", egov.DefaultBaseURL, "e-Gov law API origin")
	flags.Bool("non-interactive", false, "never prompt; ambiguous candidates fail")
	flags.String("dict-path", crawl.DefaultDictPath, "statute name dictionary file")
	flags.String("unresolved-path", crawl.DefaultUnresolvedPath, "unresolved-reference store file")
	flags.Bool("refresh-dictionary", false, "update the dictionary from the full statute listing before crawling")
	flags.Bool("build-dictionary", false, "clear and rebuild the dictionary from the full statute listing")
	flags.Bool("debug", false, "enable debug logging")

	viper.SetEnvPrefix("LAWNOTE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	cobra.CheckErr(viper.BindPFlags(flags))

	return cmd
}

// run wires the client, dictionary, and engine together and executes one run.
func run(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	client := egov.NewClient(egov.ClientConfig{BaseURL: viper.GetString("api-base-url")})
	dictPath := viper.GetString("dict-path")

	dictionary, err := dict.Load(dictPath)
	if err != nil {
		return err
	}

	buildDictionary := viper.GetBool("build-dictionary")
	if buildDictionary || viper.GetBool("refresh-dictionary") {
		if buildDictionary {
			dictionary.Clear()
		}
		logger.Info("updating dictionary from full statute listing")
		inserted, err := dictionary.Populate(cmd.Context(), client)
		if err != nil {
			return err
		}
		logger.Info("dictionary updated", zap.Int("inserted", inserted), zap.Int("size", dictionary.Len()))
		if err := dictionary.Save(dictPath); err != nil {
			return err
		}
	}

	if len(args) == 0 {
		if buildDictionary {
			return nil
		}
		return fmt.Errorf("a statute title is required (use --build-dictionary for a dictionary-only run)")
	}

	config := crawl.Config{
		OutputDir:      viper.GetString("output-dir"),
		MaxDepth:       viper.GetInt("max-depth"),
		NoOverwrite:    viper.GetBool("no-overwrite"),
		NonInteractive: viper.GetBool("non-interactive"),
		DictPath:       dictPath,
		UnresolvedPath: viper.GetString("unresolved-path"),
	}
	selector := &crawl.TerminalSelector{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}

	engine := crawl.NewEngine(config, client, dictionary, selector, logger)
	report, err := engine.Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	logger.Info("crawl finished",
		zap.Int("notes_written", report.NotesWritten),
		zap.Int("pruned", report.Pruned),
		zap.Int("unresolved_events", report.UnresolvedEvents),
		zap.Int("max_depth_reached", report.MaxDepthReached))
	return nil
}

// newLogger builds a console logger on stderr, keeping stdout free for the
// interactive candidate prompt.
func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
