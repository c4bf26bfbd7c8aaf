package ingest

import (
	"fmt"
	"strings"
)

// Mode selects what an encoded cell records.
type Mode string

const (
	// ModeBinary sets a column to 1 when its phrase occurs at least once.
	ModeBinary Mode = "binary"
	// ModeCount records how many times the phrase occurs in the record.
	ModeCount Mode = "count"
)

// ParseMode accepts "binary", "count" or "" (binary).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeBinary:
		return ModeBinary, nil
	case ModeCount:
		return ModeCount, nil
	default:
		return "", fmt.Errorf("unknown encoding mode %q", s)
	}
}

// Vocabulary is the ordered set of canonical phrases that become output
// columns. Order drives column layout; membership drives encoding.
type Vocabulary struct {
	phrases []string
	index   map[string]int
	skipped []string
}

// NewVocabulary keeps the first occurrence of every non-blank phrase.
// Blank entries and repeats are recorded in Skipped.
func NewVocabulary(phrases []string) *Vocabulary {
	v := &Vocabulary{
		phrases: make([]string, 0, len(phrases)),
		index:   make(map[string]int, len(phrases)),
	}
	for _, p := range phrases {
		if strings.TrimSpace(p) == "" {
			v.skipped = append(v.skipped, p)
			continue
		}
		if _, dup := v.index[p]; dup {
			v.skipped = append(v.skipped, p)
			continue
		}
		v.index[p] = len(v.phrases)
		v.phrases = append(v.phrases, p)
	}
	return v
}

// Phrases returns a copy of the phrases in column order.
func (v *Vocabulary) Phrases() []string {
	out := make([]string, len(v.phrases))
	copy(out, v.phrases)
	return out
}

// Len returns the number of columns the vocabulary produces.
func (v *Vocabulary) Len() int {
	return len(v.phrases)
}

// Index returns the column position of phrase, or -1.
func (v *Vocabulary) Index(phrase string) int {
	if i, ok := v.index[phrase]; ok {
		return i
	}
	return -1
}

// Contains reports whether phrase is a canonical phrase.
func (v *Vocabulary) Contains(phrase string) bool {
	_, ok := v.index[phrase]
	return ok
}

// Skipped returns the blank or repeated entries dropped at construction.
func (v *Vocabulary) Skipped() []string {
	return v.skipped
}

// EncodedRow holds one value per vocabulary phrase, in vocabulary order.
type EncodedRow struct {
	vocab  *Vocabulary
	values []int
}

// Values returns the cell values in column order.
func (r EncodedRow) Values() []int {
	return r.values
}

// Get returns the value for phrase; phrases outside the vocabulary read as 0.
func (r EncodedRow) Get(phrase string) int {
	if r.vocab == nil {
		return 0
	}
	i := r.vocab.Index(phrase)
	if i < 0 {
		return 0
	}
	return r.values[i]
}

// Encode builds the row for one TokenList. Tokens that are not canonical
// phrases are ignored.
func (v *Vocabulary) Encode(tokens TokenList, mode Mode) EncodedRow {
	row := EncodedRow{vocab: v, values: make([]int, len(v.phrases))}
	for _, tok := range tokens {
		i, ok := v.index[tok]
		if !ok {
			continue
		}
		if mode == ModeCount {
			row.values[i]++
		} else {
			row.values[i] = 1
		}
	}
	return row
}

// Unmatched lists the tokens with no column, in encounter order.
func (v *Vocabulary) Unmatched(tokens TokenList) []string {
	var out []string
	for _, tok := range tokens {
		if _, ok := v.index[tok]; !ok {
			out = append(out, tok)
		}
	}
	return out
}
