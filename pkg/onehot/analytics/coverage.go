package analytics

import "sort"

// Membership is the part of a vocabulary coverage needs.
type Membership interface {
	Contains(phrase string) bool
	Phrases() []string
}

// CoverageReport summarizes how much of the normalized text the vocabulary
// captures. Unmatched phrases are dropped from the encoding; this report is
// the only place they surface.
type CoverageReport struct {
	Matched          int64        // occurrences with a column
	Unmatched        int64        // occurrences without a column
	UnmatchedPhrases []PhraseStat // by record count, descending
	UnusedVocabulary []string     // vocabulary phrases never seen
	TotalRecords     int64
	EmptyRecords     int64
}

// Coverage compares batch statistics with a vocabulary.
func Coverage(stats Stats, vocab Membership) CoverageReport {
	report := CoverageReport{
		TotalRecords: stats.TotalRecords,
		EmptyRecords: stats.EmptyRecords,
	}
	seen := make(map[string]struct{}, len(stats.Phrases))
	for _, ps := range stats.Phrases {
		seen[ps.Phrase] = struct{}{}
		if vocab.Contains(ps.Phrase) {
			report.Matched += ps.Occurrences
			continue
		}
		report.Unmatched += ps.Occurrences
		report.UnmatchedPhrases = append(report.UnmatchedPhrases, ps)
	}
	sort.SliceStable(report.UnmatchedPhrases, func(i, j int) bool {
		return report.UnmatchedPhrases[i].Records > report.UnmatchedPhrases[j].Records
	})
	for _, p := range vocab.Phrases() {
		if _, ok := seen[p]; !ok {
			report.UnusedVocabulary = append(report.UnusedVocabulary, p)
		}
	}
	return report
}

// Ratio returns the share of phrase occurrences that were encoded.
func (r CoverageReport) Ratio() float64 {
	total := r.Matched + r.Unmatched
	if total == 0 {
		return 0
	}
	return float64(r.Matched) / float64(total)
}
