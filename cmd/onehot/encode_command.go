package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cognicore/onehot/pkg/onehot"
	"github.com/cognicore/onehot/pkg/onehot/config"
	"github.com/cognicore/onehot/pkg/onehot/table"
)

type encodeFlags struct {
	records       string
	vocabulary    string
	output        string
	column        string
	vocabColumn   string
	encoding      string
	delimiter     string
	prefix        string
	mode          string
	tableName     string
	preview       int
	stripMarkup   bool
	showUnmatched int
}

func newEncodeCommand(ctx *commandContext) *cobra.Command {
	var flags encodeFlags

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Normalize the records and write the one-hot table",
		Long: "Reads the vocabulary and the records, normalizes the phrase column of every\n" +
			"record, and writes the records with that column replaced by one 0/1 column\n" +
			"per vocabulary phrase. Outputs ending in .db, .sqlite or .sqlite3 are written\n" +
			"to SQLite; anything else is written as CSV.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.runConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runEncode(cmd, &cfg, flags.showUnmatched)
		},
	}

	cmd.Flags().StringVarP(&flags.records, "records", "r", "", "Records file (CSV/TSV)")
	cmd.Flags().StringVarP(&flags.vocabulary, "vocabulary", "v", "", "Vocabulary file listing one phrase per row")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (.csv or .db/.sqlite)")
	cmd.Flags().StringVar(&flags.column, "column", "", "Records column holding the raw phrases")
	cmd.Flags().StringVar(&flags.vocabColumn, "vocab-column", "", "Vocabulary column holding the phrases")
	cmd.Flags().StringVar(&flags.encoding, "encoding", "", "Records text encoding (latin1, utf-8, cp1252, ...)")
	cmd.Flags().StringVar(&flags.delimiter, "delimiter", "", "Records field delimiter (default by extension)")
	cmd.Flags().StringVar(&flags.prefix, "prefix", "", "Prefix for phrase column names")
	cmd.Flags().StringVar(&flags.mode, "mode", "", "Encoding mode: binary or count")
	cmd.Flags().StringVar(&flags.tableName, "table", "", "Table name for SQLite output")
	cmd.Flags().IntVar(&flags.preview, "preview", 0, "Rows to preview after encoding (0 disables)")
	cmd.Flags().BoolVar(&flags.stripMarkup, "strip-markup", false, "Extract text from HTML in the phrase column")
	cmd.Flags().IntVar(&flags.showUnmatched, "show-unmatched", 0, "List the N most common phrases outside the vocabulary")

	return cmd
}

// apply overrides config values with the flags the user actually set.
func (f *encodeFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("records") {
		cfg.Records.Path = f.records
	}
	if set("vocabulary") {
		cfg.Vocabulary.Path = f.vocabulary
	}
	if set("output") {
		cfg.Output.Path = f.output
	}
	if set("column") {
		cfg.Records.Column = f.column
	}
	if set("vocab-column") {
		cfg.Vocabulary.Column = f.vocabColumn
	}
	if set("encoding") {
		cfg.Records.Encoding = f.encoding
	}
	if set("delimiter") {
		cfg.Records.Delimiter = f.delimiter
	}
	if set("prefix") {
		cfg.Output.Prefix = f.prefix
	}
	if set("mode") {
		cfg.Output.Mode = f.mode
	}
	if set("table") {
		cfg.Output.Table = f.tableName
	}
	if set("preview") {
		cfg.Output.Preview = f.preview
	}
	if set("strip-markup") {
		cfg.Records.StripMarkup = f.stripMarkup
	}
}

func runEncode(cmd *cobra.Command, cfg *config.Config, showUnmatched int) error {
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	comp, err := (&config.Loader{Config: cfg}).Load()
	if err != nil {
		return explainLoadError("vocabulary", cfg.Vocabulary.Path, err)
	}
	if skipped := comp.Vocabulary.Skipped(); len(skipped) > 0 {
		logger.Warn("vocabulary entries skipped", "count", len(skipped))
	}

	records, err := readRecords(cfg)
	if err != nil {
		return explainLoadError("records", cfg.Records.Path, err)
	}
	logger.Info("records loaded", "path", cfg.Records.Path, "rows", records.Len(), "columns", records.Width())

	enc := onehot.New(onehot.Options{
		Pipeline:  comp.Pipeline,
		RawColumn: cfg.Records.Column,
		Prefix:    cfg.Output.Prefix,
		Logger:    logger,
	})
	out, summary, err := enc.Encode(records)
	if err != nil {
		return err
	}

	// The sink is opened only once encoding succeeded so a failed run leaves
	// no output behind.
	sink, err := onehot.OpenSink(cmd.Context(), cfg.Output.Path)
	if err != nil {
		return err
	}
	defer sink.Close()
	if err := sink.WriteTable(cmd.Context(), cfg.Output.Table, out); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output.Path, err)
	}
	logger.Info("output written", "run_id", summary.RunID, "path", cfg.Output.Path)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "One-hot encoded data saved to %s\n", cfg.Output.Path)
	fmt.Fprintf(w, "Records: %d  Columns: %d  Phrases: %d  Coverage: %.1f%%  Run: %s\n",
		summary.Records, summary.Columns, summary.Vocabulary, 100*summary.Coverage.Ratio(), summary.RunID)

	if cfg.Output.Preview > 0 {
		head := out.Head(cfg.Output.Preview)
		fmt.Fprintln(w, renderTable(head.Columns, head.Rows, previewAlignments(head), shouldColorize(w)))
	}
	if showUnmatched > 0 && len(summary.Coverage.UnmatchedPhrases) > 0 {
		unmatched := summary.Coverage.UnmatchedPhrases
		if len(unmatched) > showUnmatched {
			unmatched = unmatched[:showUnmatched]
		}
		rows := make([][]string, len(unmatched))
		for i, ps := range unmatched {
			rows[i] = []string{ps.Phrase, strconv.FormatInt(ps.Records, 10), strconv.FormatInt(ps.Occurrences, 10)}
		}
		fmt.Fprintln(w, renderTable([]string{"Unmatched phrase", "Records", "Occurrences"}, rows,
			[]columnAlignment{alignLeft, alignRight, alignRight}, shouldColorize(w)))
	}
	return nil
}

func readRecords(cfg *config.Config) (*table.Table, error) {
	comma, err := config.ParseDelimiter(cfg.Records.Delimiter)
	if err != nil {
		return nil, err
	}
	return table.ReadCSV(cfg.Records.Path, table.ReadOptions{
		Encoding: cfg.Records.Encoding,
		Comma:    comma,
	})
}

func previewAlignments(t *table.Table) []columnAlignment {
	aligns := make([]columnAlignment, t.Width())
	for i := range aligns {
		if t.TypeOf(i) == table.TypeInteger {
			aligns[i] = alignRight
		}
	}
	return aligns
}
