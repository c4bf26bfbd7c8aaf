package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/onehot/pkg/onehot/analytics"
	"github.com/cognicore/onehot/pkg/onehot/config"
	"github.com/cognicore/onehot/pkg/onehot/ingest"
	"github.com/cognicore/onehot/pkg/onehot/table"
)

func newVocabCommand(ctx *commandContext) *cobra.Command {
	var (
		records    string
		column     string
		encoding   string
		output     string
		order      string
		minRecords int64
		suggest    int
		minPMI     float64
	)

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Derive a phrase vocabulary from the records",
		Long: "Normalizes the phrase column of every record and lists the distinct phrases.\n" +
			"The result is a starting point for a curated vocabulary file. With --suggest,\n" +
			"adjacent phrases that usually occur together are listed as candidates for the\n" +
			"protected phrase list.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.runConfig()
			if err != nil {
				return err
			}
			set := cmd.Flags().Changed
			if set("records") {
				cfg.Records.Path = records
			}
			if set("column") {
				cfg.Records.Column = column
			}
			if set("encoding") {
				cfg.Records.Encoding = encoding
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			vocabOrder := analytics.Order(strings.ToLower(strings.TrimSpace(order)))
			switch vocabOrder {
			case analytics.OrderFirstSeen, analytics.OrderFrequency, analytics.OrderAlpha:
			default:
				return fmt.Errorf("unknown order %q (want first-seen, frequency or alpha)", order)
			}

			stats, err := collectStats(&cfg)
			if err != nil {
				return err
			}
			phrases := stats.Vocabulary(vocabOrder, minRecords)

			w := cmd.OutOrStdout()
			if output == "" {
				for _, p := range phrases {
					fmt.Fprintln(w, p)
				}
			} else {
				out := table.New([]string{cfg.Vocabulary.Column})
				for _, p := range phrases {
					out.Rows = append(out.Rows, []string{p})
				}
				if err := table.WriteCSV(output, out); err != nil {
					return fmt.Errorf("write vocabulary: %w", err)
				}
				fmt.Fprintf(w, "Wrote %d phrases from %d records to %s\n", len(phrases), stats.TotalRecords, output)
			}

			if suggest > 0 {
				pairs := stats.TopPairs(suggest, minPMI)
				if len(pairs) == 0 {
					fmt.Fprintln(w, "No protected phrase candidates found")
					return nil
				}
				rows := make([][]string, len(pairs))
				for i, p := range pairs {
					rows[i] = []string{
						p.A + " " + p.B,
						strconv.FormatInt(p.BigramFreq, 10),
						strconv.FormatFloat(p.PMI, 'f', 3, 64),
					}
				}
				fmt.Fprintln(w, renderTable([]string{"Candidate phrase", "Adjacent", "PMI"}, rows,
					[]columnAlignment{alignLeft, alignRight, alignRight}, shouldColorize(w)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&records, "records", "r", "", "Records file (CSV/TSV)")
	cmd.Flags().StringVar(&column, "column", "", "Records column holding the raw phrases")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Records text encoding")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the vocabulary CSV here instead of printing it")
	cmd.Flags().StringVar(&order, "order", string(analytics.OrderFirstSeen), "Phrase order: first-seen, frequency or alpha")
	cmd.Flags().Int64Var(&minRecords, "min-records", 1, "Keep phrases found in at least this many records")
	cmd.Flags().IntVar(&suggest, "suggest", 0, "List up to N protected phrase candidates")
	cmd.Flags().Float64Var(&minPMI, "min-pmi", 0, "Minimum PMI for protected phrase candidates")

	return cmd
}

// collectStats normalizes the configured phrase column without a vocabulary.
func collectStats(cfg *config.Config) (analytics.Stats, error) {
	normalizer, err := ingest.NewNormalizer(cfg.NormalizerConfig())
	if err != nil {
		return analytics.Stats{}, err
	}
	records, err := readRecords(cfg)
	if err != nil {
		return analytics.Stats{}, explainLoadError("records", cfg.Records.Path, err)
	}
	col := records.ColumnIndex(cfg.Records.Column)
	if col < 0 {
		return analytics.Stats{}, fmt.Errorf("records file %s has no column %q", cfg.Records.Path, cfg.Records.Column)
	}

	analyzer := analytics.NewAnalyzer()
	for r := 0; r < records.Len(); r++ {
		in := records.Cell(r, col)
		if cfg.Records.StripMarkup && in.Present() {
			in = ingest.Text(ingest.StripMarkup(in.String()))
		}
		analyzer.Process(normalizer.Normalize(in))
	}
	return analyzer.Snapshot(), nil
}
