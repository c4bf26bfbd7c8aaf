package ingest

import "strings"

// protectedPhrase is a multi-word phrase together with its masked form.
type protectedPhrase struct {
	text   string
	masked string
}

// phraseMask hides the interior spaces of protected phrases behind a
// placeholder so whitespace splitting keeps each phrase as one token.
type phraseMask struct {
	phrases     []protectedPhrase
	placeholder string
}

func newPhraseMask(phrases []string, placeholder string, lower func(string) string) phraseMask {
	m := phraseMask{
		phrases:     make([]protectedPhrase, 0, len(phrases)),
		placeholder: placeholder,
	}
	for _, p := range phrases {
		text := lower(p)
		m.phrases = append(m.phrases, protectedPhrase{
			text:   text,
			masked: strings.ReplaceAll(text, " ", placeholder),
		})
	}
	return m
}

// Apply replaces every occurrence of each phrase, in configured order.
// Matching is plain substring replacement, so "not employed" inside
// "knot employed" is masked as well. Later phrases see the output of
// earlier ones: once "and not looking for work" is masked,
// "looking for work" no longer matches inside it.
func (m phraseMask) Apply(text string) string {
	for _, p := range m.phrases {
		if p.text == "" {
			continue
		}
		text = strings.ReplaceAll(text, p.text, p.masked)
	}
	return text
}

// Restore turns placeholders back into spaces.
func (m phraseMask) Restore(token string) string {
	return strings.ReplaceAll(token, m.placeholder, " ")
}
