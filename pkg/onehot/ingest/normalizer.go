package ingest

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cognicore/onehot/pkg/onehot/internalerr"
)

// DefaultPlaceholder masks the spaces of protected phrases during tokenization.
const DefaultPlaceholder = "___TEMP_SPACE___"

// TokenList is the normalized form of one record: cleaned phrases in
// encounter order, duplicates kept.
type TokenList = []string

// DefaultProtectedPhrases returns the built-in multi-word phrases, in the
// order they are masked.
func DefaultProtectedPhrases() []string {
	return []string{
		"and not looking for work",
		"independent contractor",
		"looking for work",
		"not employed",
		"i prefer not to say",
	}
}

// NormalizerConfig holds everything the normalizer needs. It is built once
// and handed to NewNormalizer.
type NormalizerConfig struct {
	ProtectedPhrases []string
	Placeholder      string
}

// DefaultNormalizerConfig returns the built-in phrase set and placeholder.
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		ProtectedPhrases: DefaultProtectedPhrases(),
		Placeholder:      DefaultPlaceholder,
	}
}

// Validate checks the placeholder can survive delimiter and whitespace
// splitting and that no protected phrase is blank.
func (c NormalizerConfig) Validate() error {
	if c.Placeholder == "" {
		return fmt.Errorf("%w: placeholder is empty", internalerr.ErrInvalidConfig)
	}
	if strings.ContainsAny(c.Placeholder, ",;") {
		return fmt.Errorf("%w: placeholder %q contains a delimiter", internalerr.ErrInvalidConfig, c.Placeholder)
	}
	if strings.IndexFunc(c.Placeholder, isSpace) >= 0 {
		return fmt.Errorf("%w: placeholder %q contains whitespace", internalerr.ErrInvalidConfig, c.Placeholder)
	}
	for i, p := range c.ProtectedPhrases {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: protected phrase %d is blank", internalerr.ErrInvalidConfig, i)
		}
	}
	return nil
}

// Normalizer turns a raw multi-valued field into a TokenList.
// It holds no mutable state and may be shared.
type Normalizer struct {
	mask phraseMask
	keep map[rune]struct{}
}

// NewNormalizer validates cfg and builds a Normalizer.
func NewNormalizer(cfg NormalizerConfig) (*Normalizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Every rune of the placeholder is allowed through cleaning, not just the
	// placeholder as a whole. With the default marker this lets '_' survive.
	keep := make(map[rune]struct{})
	for _, r := range cfg.Placeholder {
		keep[r] = struct{}{}
	}
	return &Normalizer{
		mask: newPhraseMask(cfg.ProtectedPhrases, cfg.Placeholder, lower),
		keep: keep,
	}, nil
}

// Normalize produces the TokenList for one raw value. It never fails;
// absent or blank input yields an empty list.
func (n *Normalizer) Normalize(in Input) TokenList {
	tokens := TokenList{}
	if in.Blank() {
		return tokens
	}

	text := n.mask.Apply(lower(in.String()))
	text = strings.ReplaceAll(text, ",", ";")

	for _, segment := range strings.Split(text, ";") {
		for _, raw := range strings.FieldsFunc(segment, isSpace) {
			cleaned := strings.TrimFunc(n.clean(raw), isSpace)
			if cleaned == "" {
				continue
			}
			tokens = append(tokens, n.mask.Restore(cleaned))
		}
	}
	return tokens
}

// NormalizeString is Normalize for plain text.
func (n *Normalizer) NormalizeString(s string) TokenList {
	return n.Normalize(Text(s))
}

// clean drops every rune outside a-z, 0-9, '-' and the placeholder runes.
func (n *Normalizer) clean(token string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		}
		if _, ok := n.keep[r]; ok {
			return r
		}
		return -1
	}, token)
}

// lower applies full Unicode lowercasing. A Caser is not safe for
// concurrent use, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// isSpace matches Unicode white space plus the ASCII information separators
// U+001C..U+001F, which survey exports occasionally carry.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
