package ingest

import (
	"database/sql"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/onehot/pkg/onehot/internalerr"
)

func newDefaultNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(DefaultNormalizerConfig())
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	return n
}

func TestNormalizeProtectedPhraseRoundTrip(t *testing.T) {
	n := newDefaultNormalizer(t)

	got := n.NormalizeString("Independent contractor, not looking for work")
	want := []string{"independent contractor", "not", "looking for work"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNormalizeDelimiterEquivalence(t *testing.T) {
	n := newDefaultNormalizer(t)

	comma := n.NormalizeString("Employed, full-time;Student")
	semi := n.NormalizeString("Employed;full-time;Student")

	want := []string{"employed", "full-time", "student"}
	if !reflect.DeepEqual(comma, want) {
		t.Errorf("Comma form: expected %v, got %v", want, comma)
	}
	if !reflect.DeepEqual(comma, semi) {
		t.Errorf("Comma and semicolon forms differ: %v vs %v", comma, semi)
	}
}

func TestNormalizeStripsPunctuation(t *testing.T) {
	n := newDefaultNormalizer(t)

	got := n.NormalizeString("I prefer not to say!")
	want := []string{"i prefer not to say"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	got = n.NormalizeString("Retired/semi-retired. Don't know")
	want = []string{"retiredsemi-retired", "dont", "know"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNormalizeEmptyInputs(t *testing.T) {
	n := newDefaultNormalizer(t)

	inputs := map[string]Input{
		"empty":      Text(""),
		"whitespace": Text("   \t\n "),
		"absent":     Absent(),
		"nil":        From(nil),
		"delimiters": Text(" ; , ;; "),
		"punct-only": Text("!!! ??? ..."),
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			got := n.Normalize(in)
			if got == nil {
				t.Fatal("Normalize should return an empty list, not nil")
			}
			if len(got) != 0 {
				t.Errorf("Expected no tokens, got %v", got)
			}
		})
	}
}

func TestNormalizeSubstringQuirk(t *testing.T) {
	n := newDefaultNormalizer(t)

	// "not employed" is matched inside the longer word "knot".
	got := n.NormalizeString("knot employed")
	want := []string{"knot employed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected partial-word match %v, got %v", want, got)
	}

	// Masking runs on the whole text before delimiters are unified.
	got = n.NormalizeString("Freelance,independent contractor")
	want = []string{"freelance", "independent contractor"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNormalizePhraseOrder(t *testing.T) {
	n := newDefaultNormalizer(t)

	// The longer phrase is masked first and swallows "looking for work".
	got := n.NormalizeString("Not employed, and not looking for work")
	want := []string{"not employed", "and not looking for work"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	reversed, err := NewNormalizer(NormalizerConfig{
		ProtectedPhrases: []string{"looking for work", "and not looking for work"},
		Placeholder:      DefaultPlaceholder,
	})
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	got = reversed.NormalizeString("and not looking for work")
	want = []string{"and", "not", "looking for work"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reversed order: expected %v, got %v", want, got)
	}
}

func TestNormalizeKeepsDuplicates(t *testing.T) {
	n := newDefaultNormalizer(t)

	got := n.NormalizeString("Student; student, STUDENT")
	want := []string{"student", "student", "student"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNormalizePlaceholderCharacterClass(t *testing.T) {
	n := newDefaultNormalizer(t)

	// Every rune of the placeholder is kept, so underscores survive.
	got := n.NormalizeString("self_employed")
	want := []string{"self_employed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	custom, err := NewNormalizer(NormalizerConfig{
		ProtectedPhrases: []string{"not employed"},
		Placeholder:      "\u2063",
	})
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	got = custom.NormalizeString("self_employed, Not employed")
	want = []string{"selfemployed", "not employed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Custom placeholder: expected %v, got %v", want, got)
	}
}

func TestNormalizeExtendedLatin(t *testing.T) {
	n := newDefaultNormalizer(t)

	got := n.NormalizeString("Employé à temps plein; Étudiant")
	want := []string{"employ", "temps", "plein", "tudiant"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNormalizeWhitespaceVariants(t *testing.T) {
	n := newDefaultNormalizer(t)

	got := n.NormalizeString("student \tretired\x1frecent-grad")
	want := []string{"student", "retired", "recent-grad"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := newDefaultNormalizer(t)

	inputs := []string{
		"Independent contractor, freelancer, or self-employed;Employed, full-time",
		"Not employed, but looking for work;Student, part-time",
		"I prefer not to say",
		"Retired; Not employed, and not looking for work",
		"Employed, part-time;Other (please specify):",
	}
	for _, in := range inputs {
		first := n.NormalizeString(in)
		second := n.NormalizeString(strings.Join(first, ";"))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Normalization of %q not stable: %v then %v", in, first, second)
		}
	}
}

func TestNormalizeTokenShape(t *testing.T) {
	n := newDefaultNormalizer(t)

	inputs := []string{
		"Employed, full-time;Student, full-time",
		"  ;;Café owner (part-time!), 2 jobs; ",
		"Independent contractor, freelancer, or self-employed",
		"I PREFER NOT TO SAY???",
		"Other: \"see notes\" / n.a.",
	}
	for _, in := range inputs {
		for _, tok := range n.NormalizeString(in) {
			if tok == "" {
				t.Errorf("Empty token from %q", in)
			}
			if strings.HasPrefix(tok, " ") || strings.HasSuffix(tok, " ") || strings.Contains(tok, "  ") {
				t.Errorf("Token %q from %q has stray spaces", tok, in)
			}
			for _, r := range tok {
				if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == ' ') {
					t.Errorf("Token %q from %q has unexpected rune %q", tok, in, r)
				}
			}
		}
	}
}

func TestNormalizeCoercesNonStrings(t *testing.T) {
	n := newDefaultNormalizer(t)

	if got := n.Normalize(From(42)); !reflect.DeepEqual(got, []string{"42"}) {
		t.Errorf("Expected [42], got %v", got)
	}
	if got := n.Normalize(From(3.5)); !reflect.DeepEqual(got, []string{"35"}) {
		t.Errorf("Expected [35], got %v", got)
	}
	if got := n.Normalize(From([]byte("Student"))); !reflect.DeepEqual(got, []string{"student"}) {
		t.Errorf("Expected [student], got %v", got)
	}
	if got := n.Normalize(From(sql.NullString{})); len(got) != 0 {
		t.Errorf("Null string should normalize to nothing, got %v", got)
	}
	if got := n.Normalize(From(sql.NullString{String: "Retired", Valid: true})); !reflect.DeepEqual(got, []string{"retired"}) {
		t.Errorf("Expected [retired], got %v", got)
	}
}

func TestNormalizerConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  NormalizerConfig
	}{
		{"empty placeholder", NormalizerConfig{Placeholder: ""}},
		{"comma placeholder", NormalizerConfig{Placeholder: "__,__"}},
		{"semicolon placeholder", NormalizerConfig{Placeholder: "__;__"}},
		{"space placeholder", NormalizerConfig{Placeholder: "__ __"}},
		{"blank phrase", NormalizerConfig{Placeholder: "__", ProtectedPhrases: []string{"  "}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewNormalizer(tc.cfg)
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if err := DefaultNormalizerConfig().Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestNormalizerUppercasePhrases(t *testing.T) {
	n, err := NewNormalizer(NormalizerConfig{
		ProtectedPhrases: []string{"Not Employed"},
		Placeholder:      DefaultPlaceholder,
	})
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}

	got := n.NormalizeString("NOT EMPLOYED")
	if !reflect.DeepEqual(got, []string{"not employed"}) {
		t.Errorf("Configured phrases should be lowercased, got %v", got)
	}
}
