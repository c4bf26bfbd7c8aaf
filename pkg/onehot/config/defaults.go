package config

import (
	"strings"

	"github.com/cognicore/onehot/pkg/onehot/ingest"
	"github.com/cognicore/onehot/pkg/onehot/store/sqlite"
	"github.com/cognicore/onehot/pkg/onehot/table"
)

const (
	defaultRecordsPath      = "group_employment.csv"
	defaultRecordsColumn    = "Employment"
	defaultVocabularyPath   = "unique_employment_phrases_final_refined_v2.csv"
	defaultVocabularyColumn = "Unique_Employment_Phrases"
	defaultOutputPath       = "group_employment_one_hot_encoded.csv"
	defaultPreview          = 5
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
)

// Default returns a Config reproducing the survey pipeline's file layout.
func Default() Config {
	return Config{
		Records: Records{
			Path:     defaultRecordsPath,
			Encoding: table.EncodingLatin1,
			Column:   defaultRecordsColumn,
		},
		Vocabulary: Vocabulary{
			Path:     defaultVocabularyPath,
			Encoding: table.EncodingUTF8,
			Column:   defaultVocabularyColumn,
		},
		Output: Output{
			Path:    defaultOutputPath,
			Table:   sqlite.DefaultTable,
			Mode:    string(ingest.ModeBinary),
			Preview: defaultPreview,
		},
		Normalizer: Normalizer{
			ProtectedPhrases: ingest.DefaultProtectedPhrases(),
			Placeholder:      ingest.DefaultPlaceholder,
		},
		Log: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// ApplyDefaults fills blank settings. Paths are left alone so a caller can
// tell an unset path from a default one only before this runs.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Records.Encoding) == "" {
		c.Records.Encoding = table.EncodingLatin1
	}
	if strings.TrimSpace(c.Records.Column) == "" {
		c.Records.Column = defaultRecordsColumn
	}
	if strings.TrimSpace(c.Vocabulary.Encoding) == "" {
		c.Vocabulary.Encoding = table.EncodingUTF8
	}
	if strings.TrimSpace(c.Output.Table) == "" {
		c.Output.Table = sqlite.DefaultTable
	}
	if strings.TrimSpace(c.Output.Mode) == "" {
		c.Output.Mode = string(ingest.ModeBinary)
	}
	if c.Normalizer.ProtectedPhrases == nil {
		c.Normalizer.ProtectedPhrases = ingest.DefaultProtectedPhrases()
	}
	if c.Normalizer.Placeholder == "" {
		c.Normalizer.Placeholder = ingest.DefaultPlaceholder
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Log.Format) == "" {
		c.Log.Format = defaultLogFormat
	}
}

// NormalizerConfig converts the normalizer section.
func (c *Config) NormalizerConfig() ingest.NormalizerConfig {
	phrases := c.Normalizer.ProtectedPhrases
	if phrases == nil {
		phrases = ingest.DefaultProtectedPhrases()
	}
	return ingest.NormalizerConfig{
		ProtectedPhrases: append([]string(nil), phrases...),
		Placeholder:      c.Normalizer.Placeholder,
	}
}
