package services

import (
	"fuel-trip-service/internal/domain"
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/sync/errgroup"
)

// MatchThreshold is the minimum similarity score (0-100) for a name match.
const MatchThreshold = 90

const defaultMatchWorkers = 8

// StopMatcher matches candidate stops against the price reference table.
//
// Locality is an exact partition key (after normalization); only names are
// compared approximately. The table is never written, so a StopMatcher is safe
// for concurrent use.
type StopMatcher struct {
	table   *domain.PriceTable
	workers int
}

func NewStopMatcher(table *domain.PriceTable, workers int) *StopMatcher {
	if workers < 1 {
		workers = defaultMatchWorkers
	}
	return &StopMatcher{table: table, workers: workers}
}

// Similarity returns a 0-100 score derived from the Levenshtein distance
// relative to the longer string.
func Similarity(a, b string) int {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}

	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}

// Match finds the best reference entry for stop within its locality.
// It returns the entry, its score and whether the score reached MatchThreshold.
func (m *StopMatcher) Match(stop domain.CandidateStop) (domain.PriceEntry, int, bool) {
	locality := domain.Normalize(stop.Locality)
	name := domain.Normalize(stop.Name)
	if locality == "" || name == "" {
		return domain.PriceEntry{}, 0, false
	}

	entries := m.table.Locality(locality)
	if len(entries) == 0 {
		return domain.PriceEntry{}, 0, false
	}

	best := -1
	bestScore := -1
	for i, e := range entries {
		// Strict comparison keeps the first-loaded entry on ties.
		if score := Similarity(name, e.StopName); score > bestScore {
			best = i
			bestScore = score
		}
	}

	if bestScore < MatchThreshold {
		return domain.PriceEntry{}, bestScore, false
	}
	return entries[best], bestScore, true
}

// Annotate returns stop with its match result attached.
func (m *StopMatcher) Annotate(stop domain.CandidateStop) domain.MatchedStop {
	out := domain.MatchedStop{CandidateStop: stop}

	entry, score, ok := m.Match(stop)
	out.Score = score
	if ok {
		price := entry.PricePerUnit
		out.MatchedName = entry.StopName
		out.MatchedPrice = &price
	}
	return out
}

// MatchAll annotates every stop on a bounded worker pool.
// Each task writes only its own slot, so the output order equals the input order.
func (m *StopMatcher) MatchAll(stops []domain.CandidateStop) []domain.MatchedStop {
	out := make([]domain.MatchedStop, len(stops))
	if len(stops) == 0 {
		return out
	}

	var g errgroup.Group
	g.SetLimit(m.workers)
	for i := range stops {
		g.Go(func() error {
			out[i] = m.Annotate(stops[i])
			return nil
		})
	}
	_ = g.Wait()

	return out
}
