package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/onehot/pkg/onehot/ingest"
)

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Print the phrase list for each argument (or stdin line)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.runConfig()
			if err != nil {
				return err
			}
			normalizer, err := ingest.NewNormalizer(cfg.NormalizerConfig())
			if err != nil {
				return err
			}

			inputs := args
			if len(inputs) == 0 {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					inputs = append(inputs, scanner.Text())
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			w := cmd.OutOrStdout()
			enc := json.NewEncoder(w)
			for _, in := range inputs {
				text := in
				if cfg.Records.StripMarkup {
					text = ingest.StripMarkup(text)
				}
				tokens := normalizer.NormalizeString(text)
				if asJSON {
					if err := enc.Encode(tokens); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintln(w, strings.Join(tokens, "; "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print each phrase list as a JSON array")
	return cmd
}
