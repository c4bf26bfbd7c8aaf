package analytics

import (
	"math"
	"sort"
)

// Analyzer aggregates record-level phrase statistics over a batch of
// TokenLists. It backs vocabulary derivation, coverage reports and
// protected-phrase suggestions.
type Analyzer struct {
	totalRecords int64
	emptyRecords int64
	phraseDF     map[string]int64 // records containing the phrase
	phraseCount  map[string]int64 // total occurrences
	firstSeen    map[string]int64 // record index of first occurrence
	order        []string         // phrases in first-encounter order
	pairCounts   map[pair]int64   // record-level co-occurrence
	bigramCounts map[pair]int64   // adjacent phrases within a record
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		phraseDF:     make(map[string]int64),
		phraseCount:  make(map[string]int64),
		firstSeen:    make(map[string]int64),
		pairCounts:   make(map[pair]int64),
		bigramCounts: make(map[pair]int64),
	}
}

// Process consumes one record's TokenList.
func (a *Analyzer) Process(tokens []string) {
	index := a.totalRecords
	a.totalRecords++

	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		a.phraseCount[tok]++
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		a.phraseDF[tok]++
		if _, ok := a.firstSeen[tok]; !ok {
			a.firstSeen[tok] = index
			a.order = append(a.order, tok)
		}
	}
	if len(seen) == 0 {
		a.emptyRecords++
		return
	}

	// Record-level pair counts (all unique phrases in the record)
	unique := make([]string, 0, len(seen))
	for tok := range seen {
		unique = append(unique, tok)
	}
	sort.Strings(unique)
	for i := 0; i < len(unique); i++ {
		for j := i + 1; j < len(unique); j++ {
			a.pairCounts[newPair(unique[i], unique[j])]++
		}
	}

	// Bigram counts (adjacent tokens only, preserving order)
	for i := 0; i < len(tokens)-1; i++ {
		if tokens[i] == "" || tokens[i+1] == "" || tokens[i] == tokens[i+1] {
			continue
		}
		a.bigramCounts[pair{A: tokens[i], B: tokens[i+1]}]++
	}
}

// PhraseStat describes one phrase across the batch.
type PhraseStat struct {
	Phrase      string
	Records     int64 // records containing the phrase at least once
	Occurrences int64
	FirstSeen   int64 // zero-based record index
}

// Stats exposes the aggregated counts.
type Stats struct {
	TotalRecords int64
	EmptyRecords int64
	Phrases      []PhraseStat // first-encounter order
	PairCounts   map[pair]int64
	BigramCounts map[pair]int64
}

// Snapshot returns a copy of the accumulated statistics.
func (a *Analyzer) Snapshot() Stats {
	phrases := make([]PhraseStat, len(a.order))
	for i, p := range a.order {
		phrases[i] = PhraseStat{
			Phrase:      p,
			Records:     a.phraseDF[p],
			Occurrences: a.phraseCount[p],
			FirstSeen:   a.firstSeen[p],
		}
	}
	copyPairs := make(map[pair]int64, len(a.pairCounts))
	for p, count := range a.pairCounts {
		copyPairs[p] = count
	}
	copyBigrams := make(map[pair]int64, len(a.bigramCounts))
	for p, count := range a.bigramCounts {
		copyBigrams[p] = count
	}
	return Stats{
		TotalRecords: a.totalRecords,
		EmptyRecords: a.emptyRecords,
		Phrases:      phrases,
		PairCounts:   copyPairs,
		BigramCounts: copyBigrams,
	}
}

// Order selects how a derived vocabulary is sorted.
type Order string

const (
	// OrderFirstSeen keeps phrases in the order they first appear.
	OrderFirstSeen Order = "first-seen"
	// OrderFrequency sorts by record count, then phrase.
	OrderFrequency Order = "frequency"
	// OrderAlpha sorts phrases lexically.
	OrderAlpha Order = "alpha"
)

// Vocabulary lists the phrases seen in at least minRecords records.
func (s Stats) Vocabulary(order Order, minRecords int64) []string {
	kept := make([]PhraseStat, 0, len(s.Phrases))
	for _, ps := range s.Phrases {
		if ps.Records >= minRecords {
			kept = append(kept, ps)
		}
	}
	switch order {
	case OrderFrequency:
		sort.SliceStable(kept, func(i, j int) bool {
			if kept[i].Records == kept[j].Records {
				return kept[i].Phrase < kept[j].Phrase
			}
			return kept[i].Records > kept[j].Records
		})
	case OrderAlpha:
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].Phrase < kept[j].Phrase
		})
	}
	out := make([]string, len(kept))
	for i, ps := range kept {
		out[i] = ps.Phrase
	}
	return out
}

// Phrase looks up the statistics for one phrase.
func (s Stats) Phrase(phrase string) (PhraseStat, bool) {
	for _, ps := range s.Phrases {
		if ps.Phrase == phrase {
			return ps, true
		}
	}
	return PhraseStat{}, false
}

// PairStat describes two phrases that sit next to each other in records.
type PairStat struct {
	A           string
	B           string
	PMI         float64 // record-level association
	BigramFreq  int64   // how often B directly follows A
	Support     int64   // records containing both
	PhraseScore float64 // BigramFreq * PMI
}

// TopPairs ranks adjacent phrase pairs that behave like one multi-word
// phrase split apart on whitespace. They are candidates for the protected
// phrase list. Pairs below minPMI are dropped.
func (s Stats) TopPairs(limit int, minPMI float64) []PairStat {
	if s.TotalRecords == 0 {
		return nil
	}
	df := make(map[string]int64, len(s.Phrases))
	for _, ps := range s.Phrases {
		df[ps.Phrase] = ps.Records
	}

	var stats []PairStat
	for p, bigramCount := range s.BigramCounts {
		if bigramCount == 0 {
			continue
		}
		dfA, dfB := df[p.A], df[p.B]
		if dfA == 0 || dfB == 0 {
			continue
		}
		// PairCounts uses sorted pairs, so normalize the lookup
		support := s.PairCounts[newPair(p.A, p.B)]
		if support == 0 {
			continue
		}
		pmi := computePMI(support, dfA, dfB, s.TotalRecords)
		if pmi < minPMI {
			continue
		}
		stats = append(stats, PairStat{
			A:           p.A,
			B:           p.B,
			PMI:         pmi,
			BigramFreq:  bigramCount,
			Support:     support,
			PhraseScore: float64(bigramCount) * pmi,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].PhraseScore == stats[j].PhraseScore {
			if stats[i].BigramFreq == stats[j].BigramFreq {
				return stats[i].A+" "+stats[i].B < stats[j].A+" "+stats[j].B
			}
			return stats[i].BigramFreq > stats[j].BigramFreq
		}
		return stats[i].PhraseScore > stats[j].PhraseScore
	})

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

func computePMI(pairCount, dfA, dfB, total int64) float64 {
	if dfA == 0 || dfB == 0 || total == 0 {
		return 0
	}
	smooth := 1.0
	numerator := (float64(pairCount) + smooth) / float64(total)
	denominator := ((float64(dfA) + smooth) / float64(total)) * ((float64(dfB) + smooth) / float64(total))
	return math.Log(numerator / denominator)
}

type pair struct {
	A string
	B string
}

func newPair(a, b string) pair {
	if a < b {
		return pair{A: a, B: b}
	}
	return pair{A: b, B: a}
}
