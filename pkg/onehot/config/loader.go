package config

import (
	"fmt"
	"strings"

	"github.com/cognicore/onehot/pkg/onehot/ingest"
	"github.com/cognicore/onehot/pkg/onehot/internalerr"
	"github.com/cognicore/onehot/pkg/onehot/table"
)

// Loader builds the processing components a Config describes.
type Loader struct {
	Config *Config
}

// Components holds all loaded processing components
type Components struct {
	Normalizer *ingest.Normalizer
	Vocabulary *ingest.Vocabulary
	Pipeline   *ingest.Pipeline
}

// Load reads the vocabulary file and returns initialized components.
func (l *Loader) Load() (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		def := Default()
		cfg = &def
	}

	normalizer, err := ingest.NewNormalizer(cfg.NormalizerConfig())
	if err != nil {
		return nil, fmt.Errorf("build normalizer: %w", err)
	}

	vocab, err := LoadVocabulary(cfg.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	mode, err := ingest.ParseMode(cfg.Output.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	return &Components{
		Normalizer: normalizer,
		Vocabulary: vocab,
		Pipeline: ingest.NewPipeline(normalizer, vocab,
			ingest.WithMode(mode),
			ingest.WithMarkupStripping(cfg.Records.StripMarkup),
		),
	}, nil
}

// LoadVocabulary reads the vocabulary table. The phrases come from the
// configured column, or from the only column when the file has one. Cells
// are taken verbatim; blanks and repeats end up in Vocabulary.Skipped.
func LoadVocabulary(src Vocabulary) (*ingest.Vocabulary, error) {
	tbl, err := table.ReadCSV(src.Path, table.ReadOptions{Encoding: src.Encoding})
	if err != nil {
		return nil, err
	}

	col := -1
	if strings.TrimSpace(src.Column) != "" {
		col = tbl.ColumnIndex(src.Column)
	}
	if col < 0 {
		if tbl.Width() != 1 {
			return nil, fmt.Errorf("%w: %q in %s", internalerr.ErrMissingColumn, src.Column, src.Path)
		}
		col = 0
	}

	phrases := make([]string, 0, tbl.Len())
	for r := 0; r < tbl.Len(); r++ {
		phrases = append(phrases, tbl.Value(r, col))
	}

	vocab := ingest.NewVocabulary(phrases)
	if vocab.Len() == 0 {
		return nil, fmt.Errorf("%w: %s lists no phrases", internalerr.ErrInvalidInput, src.Path)
	}
	return vocab, nil
}
