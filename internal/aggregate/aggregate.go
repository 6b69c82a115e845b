// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate rolls publications up into per-category, per-year
// summary buckets.
package aggregate

import (
	"sort"
	"strings"

	"github.com/pdiddy/bibrun/pkg/types"
)

type bucketKey struct {
	category types.Category
	year     int
}

// accumulator holds the running sums for one bucket until finalization.
type accumulator struct {
	bucket        types.SummaryBucket
	nihSum        float64
	quartileSum   float64
	percentileSum float64
	authors       map[string]struct{}
}

// Aggregate returns one bucket per (category, year), categories ordered by
// Categories and years running over the full observed range. Every bucket
// exists even when no publication falls in it.
func Aggregate(pubs []*types.Publication, order []types.Category) []types.SummaryBucket {
	minYear, maxYear, ok := YearRange(pubs)
	if !ok {
		return nil
	}
	categories := Categories(pubs, order)

	acc := make(map[bucketKey]*accumulator, len(categories)*(maxYear-minYear+1))
	for _, cat := range categories {
		for yr := minYear; yr <= maxYear; yr++ {
			acc[bucketKey{cat, yr}] = &accumulator{
				bucket: types.SummaryBucket{
					Category: cat,
					Year:     yr,
					Social:   make(map[string]int, len(types.SocialMetrics)),
				},
				authors: make(map[string]struct{}),
			}
		}
	}

	// firstSeen records, per category ledger, the earliest year each
	// author key appears.
	firstSeen := make(map[types.Category]map[string]int, len(categories))
	for _, cat := range categories {
		firstSeen[cat] = make(map[string]int)
	}

	for _, pub := range pubs {
		if pub.Year <= 0 {
			continue
		}
		targets := []types.Category{types.Total}
		if pub.Category != types.Total {
			targets = append(targets, pub.Category)
		}
		for _, cat := range targets {
			a := acc[bucketKey{cat, pub.Year}]
			a.add(pub)

			ledger := firstSeen[cat]
			for _, name := range pub.Authors {
				key := AuthorKey(name)
				if key == "" {
					continue
				}
				if yr, ok := ledger[key]; !ok || pub.Year < yr {
					ledger[key] = pub.Year
				}
			}
		}
	}

	newAuthors := make(map[bucketKey]int)
	for cat, ledger := range firstSeen {
		for _, yr := range ledger {
			newAuthors[bucketKey{cat, yr}]++
		}
	}

	buckets := make([]types.SummaryBucket, 0, len(acc))
	for _, cat := range categories {
		for yr := minYear; yr <= maxYear; yr++ {
			key := bucketKey{cat, yr}
			a := acc[key]
			a.bucket.NewAuthors = newAuthors[key]
			buckets = append(buckets, a.finalize())
		}
	}
	return buckets
}

func (a *accumulator) add(pub *types.Publication) {
	b := &a.bucket
	b.Count++
	if pub.RCR != nil {
		b.WeightedRCR += *pub.RCR
	}
	if pub.NIHPercentile != nil {
		a.nihSum += *pub.NIHPercentile
	}
	q := pub.JIFQuartile()
	if q == 1 {
		b.Q1Count++
	}
	a.quartileSum += float64(q)
	b.SumJIF += pub.JIF
	a.percentileSum += pub.JIFPercentile

	for _, m := range types.SocialMetrics {
		if v, ok := pub.Attention[m.Key]; ok {
			b.Social[m.Key] += v
		}
	}

	for _, name := range pub.Authors {
		if key := AuthorKey(name); key != "" {
			a.authors[key] = struct{}{}
		}
	}
}

// finalize computes the means. Empty buckets keep zero means.
func (a *accumulator) finalize() types.SummaryBucket {
	b := a.bucket
	b.UniqueAuthors = len(a.authors)
	if b.Count == 0 {
		return b
	}
	n := float64(b.Count)
	b.MeanRCR = b.WeightedRCR / n
	b.MeanNIHPercentile = a.nihSum / n
	b.Q1Fraction = float64(b.Q1Count) / n
	b.MeanJIFQuartile = a.quartileSum / n
	b.MeanJIF = b.SumJIF / n
	b.MeanJIFPercentile = a.percentileSum / n
	return b
}

// YearRange returns the minimum and maximum publication year, or ok=false
// when no publication has a positive year. Records without a year are
// ignored.
func YearRange(pubs []*types.Publication) (minYear, maxYear int, ok bool) {
	for _, p := range pubs {
		if p.Year <= 0 {
			continue
		}
		if !ok || p.Year < minYear {
			minYear = p.Year
		}
		if !ok || p.Year > maxYear {
			maxYear = p.Year
		}
		ok = true
	}
	return minYear, maxYear, ok
}

// Categories returns the observed categories in summary order: those named
// in order first, then any others sorted, then Total.
func Categories(pubs []*types.Publication, order []types.Category) []types.Category {
	observed := make(map[types.Category]bool)
	for _, p := range pubs {
		observed[p.Category] = true
	}

	var out []types.Category
	for _, c := range order {
		if observed[c] {
			out = append(out, c)
			delete(observed, c)
		}
	}
	delete(observed, types.Total)

	rest := make([]types.Category, 0, len(observed))
	for c := range observed {
		rest = append(rest, c)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })

	out = append(out, rest...)
	return append(out, types.Total)
}

// AuthorKey returns the approximate identity of an author name: the last
// whitespace-delimited token plus the first character. "Jane Doe" and
// "J Doe" share a key; "Jane Doe" and "John Doe" do as well.
func AuthorKey(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	initial := []rune(fields[0])[0]
	return fields[len(fields)-1] + "|" + string(initial)
}
