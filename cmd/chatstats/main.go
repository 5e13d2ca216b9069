// chatstats renders the chart set for a chat export: load the message-level
// and word-level record files, run each selected grapher, write one PNG per
// chart into the output directory.
//
// Chart failures are independent: a failed chart is logged and its siblings
// still render; the process exits non-zero if any chart failed.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pmelanson/chatstats/src/graphers"
	"github.com/pmelanson/chatstats/src/records"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "chatstats:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "chatstats",
		Short:         "Render statistical charts from chat message records",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	fl := cmd.Flags()
	fl.String("messages", "", "path to the message-level records JSONL file")
	fl.String("words", "", "path to the word-level records JSONL file")
	fl.String("out", "output", "directory chart images are written to")
	fl.String("assets", ".", "parent directory sticker images are looked up under")
	fl.String("word-list", "word_lists/common.txt", "common-words exclusion list for the word count chart")
	fl.String("symbol-font", "", "TTF font with symbol glyph coverage, required by the emoji chart")
	fl.String("charts", "default", "comma-separated chart names, or 'default' / 'all'")
	fl.String("log-level", "info", "log level (debug, info, warn, error)")
	fl.String("config", "", "optional config file (defaults to ./chatstats.yaml when present)")

	viper.SetEnvPrefix("CHATSTATS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(fl); err != nil {
		panic(err)
	}
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if lvl, err := zerolog.ParseLevel(viper.GetString("log-level")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		viper.SetConfigName("chatstats")
		viper.AddConfigPath(".")
		if err := viper.ReadInConfig(); err == nil {
			log.Debug().Str("file", viper.ConfigFileUsed()).Msg("config file loaded")
		}
	}

	cfg := graphers.Config{
		WordListPath: viper.GetString("word-list"),
	}
	if fontPath := viper.GetString("symbol-font"); fontPath != "" {
		f, err := graphers.LoadSymbolFont(fontPath)
		if err != nil {
			return err
		}
		cfg.SymbolFont = f
	}

	msgGraphers, wordGraphers, err := selectGraphers(cfg, viper.GetString("charts"))
	if err != nil {
		return err
	}

	outDir := viper.GetString("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	assetDir := viper.GetString("assets")

	failed := 0
	if len(msgGraphers) > 0 {
		msgs, err := loadInput(viper.GetString("messages"), "--messages")
		if err != nil {
			return err
		}
		failed += graphers.RenderSet(msgGraphers, msgs, outDir, assetDir)
	}
	if len(wordGraphers) > 0 {
		words, err := loadInput(viper.GetString("words"), "--words")
		if err != nil {
			return err
		}
		failed += graphers.RenderSet(wordGraphers, words, outDir, assetDir)
	}
	if failed > 0 {
		return fmt.Errorf("%d chart(s) failed", failed)
	}
	return nil
}

func loadInput(path, flagName string) ([]records.Record, error) {
	if path == "" {
		return nil, fmt.Errorf("%s is required for the selected charts", flagName)
	}
	return records.Load(path)
}

// selectGraphers resolves the --charts selection into the two collections.
// "default" is the standard set; "all" adds the optional charts; otherwise the
// value is a comma-separated list of chart names.
func selectGraphers(cfg graphers.Config, selection string) (msg, word []graphers.Grapher, err error) {
	defaultMsg := graphers.MessageGraphers(cfg)
	defaultWord := graphers.WordGraphers(cfg)
	extraMsg := graphers.ExtraMessageGraphers(cfg)
	extraWord := graphers.ExtraWordGraphers(cfg)

	switch strings.ToLower(strings.TrimSpace(selection)) {
	case "", "default":
		return defaultMsg, defaultWord, nil
	case "all":
		return append(defaultMsg, extraMsg...), append(defaultWord, extraWord...), nil
	}

	msgByName := map[string]graphers.Grapher{}
	for _, g := range append(defaultMsg, extraMsg...) {
		msgByName[g.Name()] = g
	}
	wordByName := map[string]graphers.Grapher{}
	for _, g := range append(defaultWord, extraWord...) {
		wordByName[g.Name()] = g
	}
	for _, name := range strings.Split(selection, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if g, ok := msgByName[name]; ok {
			msg = append(msg, g)
			continue
		}
		if g, ok := wordByName[name]; ok {
			word = append(word, g)
			continue
		}
		return nil, nil, fmt.Errorf("unknown chart %q", name)
	}
	return msg, word, nil
}
