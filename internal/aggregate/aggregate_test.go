// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibrun/pkg/types"
)

func f(v float64) *float64 { return &v }

func find(t *testing.T, buckets []types.SummaryBucket, cat types.Category, year int) types.SummaryBucket {
	t.Helper()
	for _, b := range buckets {
		if b.Category == cat && b.Year == year {
			return b
		}
	}
	t.Fatalf("no bucket (%s, %d)", cat, year)
	return types.SummaryBucket{}
}

func TestAggregate_RCRWithMissingValue(t *testing.T) {
	pubs := []*types.Publication{
		{PMID: 1, Year: 2020, Category: "A", RCR: f(2.0)},
		{PMID: 2, Year: 2020, Category: "A"},
	}
	buckets := Aggregate(pubs, nil)

	b := find(t, buckets, "A", 2020)
	assert.Equal(t, 2, b.Count)
	assert.Equal(t, 2.0, b.WeightedRCR)
	assert.Equal(t, 1.0, b.MeanRCR)
}

func TestAggregate_BucketGrid(t *testing.T) {
	pubs := []*types.Publication{
		{PMID: 1, Year: 2016, Category: "2"},
		{PMID: 2, Year: 2018, Category: "1"},
		{PMID: 3, Year: 2018, Category: "c"},
	}
	buckets := Aggregate(pubs, []types.Category{"1", "2", "3", "c", "n"})

	// Categories 1, 2, c, Total across 2016..2018.
	require.Len(t, buckets, 4*3)

	var order []types.Category
	for i := 0; i < len(buckets); i += 3 {
		order = append(order, buckets[i].Category)
		assert.Equal(t, 2016, buckets[i].Year)
		assert.Equal(t, 2017, buckets[i+1].Year)
		assert.Equal(t, 2018, buckets[i+2].Year)
	}
	assert.Equal(t, []types.Category{"1", "2", "c", types.Total}, order)

	empty := find(t, buckets, "1", 2017)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.MeanRCR)
	assert.Zero(t, empty.MeanJIF)
	assert.Zero(t, empty.Q1Fraction)
}

func TestAggregate_TotalIsSumOfCategories(t *testing.T) {
	pubs := []*types.Publication{
		{PMID: 1, Year: 2019, Category: "1", RCR: f(1.5)},
		{PMID: 2, Year: 2019, Category: "2", RCR: f(0.5)},
		{PMID: 3, Year: 2019, Category: "2"},
		{PMID: 4, Year: 2020, Category: "3", RCR: f(3.0)},
	}
	buckets := Aggregate(pubs, nil)

	for _, yr := range []int{2019, 2020} {
		sum := 0
		for _, b := range buckets {
			if b.Year == yr && b.Category != types.Total {
				sum += b.Count
			}
		}
		assert.Equal(t, sum, find(t, buckets, types.Total, yr).Count, "year %d", yr)
	}

	for _, b := range buckets {
		if b.Count > 0 {
			assert.InDelta(t, b.WeightedRCR, b.MeanRCR*float64(b.Count), 1e-9)
		} else {
			assert.Zero(t, b.MeanRCR)
		}
	}
}

func TestAggregate_PercentileAndJIFStats(t *testing.T) {
	pubs := []*types.Publication{
		{PMID: 1, Year: 2020, Category: "A", NIHPercentile: f(80), JIF: 10, JIFPercentile: 90},
		{PMID: 2, Year: 2020, Category: "A", NIHPercentile: f(40), JIF: 2, JIFPercentile: 60},
		{PMID: 3, Year: 2020, Category: "A"},
		{PMID: 4, Year: 2020, Category: "A", JIF: 4, JIFPercentile: 75},
	}
	b := find(t, Aggregate(pubs, nil), "A", 2020)

	assert.Equal(t, 4, b.Count)
	assert.InDelta(t, 30.0, b.MeanNIHPercentile, 1e-9, "missing percentiles count in the denominator")
	assert.Equal(t, 2, b.Q1Count)
	assert.InDelta(t, 0.5, b.Q1Fraction, 1e-9)
	assert.InDelta(t, (1.0+2.0+4.0+1.0)/4, b.MeanJIFQuartile, 1e-9)
	assert.InDelta(t, 16.0, b.SumJIF, 1e-9)
	assert.InDelta(t, 4.0, b.MeanJIF, 1e-9)
	assert.InDelta(t, (90.0+60+0+75)/4, b.MeanJIFPercentile, 1e-9)
}

func TestAggregate_SocialTotals(t *testing.T) {
	pubs := []*types.Publication{
		{PMID: 1, Year: 2020, Category: "A", Attention: map[string]int{
			"cited_by_tweeters_count": 5,
			"cited_by_msm_count":      1,
			"cited_by_something_new":  99,
		}},
		{PMID: 2, Year: 2020, Category: "A", Attention: map[string]int{"cited_by_tweeters_count": 2}},
		{PMID: 3, Year: 2020, Category: "A"},
	}
	b := find(t, Aggregate(pubs, nil), "A", 2020)

	assert.Equal(t, 7, b.Social["cited_by_tweeters_count"])
	assert.Equal(t, 1, b.Social["cited_by_msm_count"])
	assert.Zero(t, b.Social["cited_by_wikipedia_count"])
	assert.NotContains(t, b.Social, "cited_by_something_new")
}

func TestAggregate_UniqueAndNewAuthors(t *testing.T) {
	pubs := []*types.Publication{
		{PMID: 1, Year: 2019, Category: "A", Authors: []string{"Jane Doe"}},
		{PMID: 2, Year: 2020, Category: "A", Authors: []string{"Jane Doe"}},
	}
	buckets := Aggregate(pubs, nil)

	b2019 := find(t, buckets, "A", 2019)
	assert.Equal(t, 1, b2019.UniqueAuthors)
	assert.Equal(t, 1, b2019.NewAuthors)

	b2020 := find(t, buckets, "A", 2020)
	assert.Equal(t, 1, b2020.UniqueAuthors)
	assert.Equal(t, 0, b2020.NewAuthors)
}

func TestAggregate_AuthorIdentityIsApproximate(t *testing.T) {
	pubs := []*types.Publication{
		{PMID: 1, Year: 2018, Category: "A", Authors: []string{"Jane Doe", "J Doe", "John Smith"}},
		{PMID: 2, Year: 2018, Category: "B", Authors: []string{"Jane Q Doe", "Mary Major"}},
		{PMID: 3, Year: 2019, Category: "B", Authors: []string{"John Smith", "Mary Major"}},
	}
	buckets := Aggregate(pubs, nil)

	assert.Equal(t, 2, find(t, buckets, "A", 2018).UniqueAuthors)
	assert.Equal(t, 3, find(t, buckets, types.Total, 2018).UniqueAuthors)

	// John Smith is new to B in 2019 even though he appeared under A.
	assert.Equal(t, 1, find(t, buckets, "B", 2019).NewAuthors)
	// Across all categories nobody in 2019 is new.
	assert.Equal(t, 0, find(t, buckets, types.Total, 2019).NewAuthors)
}

func TestAggregate_MinYearNewEqualsUnique(t *testing.T) {
	pubs := []*types.Publication{
		{PMID: 1, Year: 2015, Category: "A", Authors: []string{"Ann Lee", "Bo Chen"}},
		{PMID: 2, Year: 2015, Category: "B", Authors: []string{"Ann Lee", "Cy Park"}},
		{PMID: 3, Year: 2017, Category: "A", Authors: []string{"Dee Ross"}},
	}
	buckets := Aggregate(pubs, nil)

	for _, cat := range []types.Category{"A", "B", types.Total} {
		b := find(t, buckets, cat, 2015)
		assert.Equal(t, b.UniqueAuthors, b.NewAuthors, "category %s", cat)
	}
}

func TestAggregate_AuthorReturningAfterGap(t *testing.T) {
	pubs := []*types.Publication{
		{PMID: 1, Year: 2015, Category: "A", Authors: []string{"Ann Lee"}},
		{PMID: 2, Year: 2017, Category: "A", Authors: []string{"Ann Lee", "Bo Chen"}},
	}
	b := find(t, Aggregate(pubs, nil), "A", 2017)
	assert.Equal(t, 2, b.UniqueAuthors)
	assert.Equal(t, 1, b.NewAuthors)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Nil(t, Aggregate(nil, nil))
}

func TestAggregate_IgnoresMissingYear(t *testing.T) {
	pubs := []*types.Publication{
		{PMID: 1, Year: 2019, Category: "A"},
		{PMID: 2, Year: 2020, Category: "B"},
		{PMID: 3, Category: "A"},
	}
	buckets := Aggregate(pubs, nil)

	// A, B, Total over 2019-2020 only.
	require.Len(t, buckets, 6)
	assert.Equal(t, 1, find(t, buckets, types.Total, 2019).Count)
	assert.Equal(t, 1, find(t, buckets, types.Total, 2020).Count)

	minYear, maxYear, ok := YearRange(pubs)
	require.True(t, ok)
	assert.Equal(t, 2019, minYear)
	assert.Equal(t, 2020, maxYear)

	_, _, ok = YearRange([]*types.Publication{{PMID: 4}})
	assert.False(t, ok)
}

func TestCategories(t *testing.T) {
	pubs := []*types.Publication{
		{Category: "n"}, {Category: "zeta"}, {Category: "1"}, {Category: types.Unclassified}, {Category: "alpha"},
	}
	got := Categories(pubs, []types.Category{"1", "2", "3", "c", "n"})
	assert.Equal(t, []types.Category{"1", "n", "alpha", types.Unclassified, "zeta", types.Total}, got)
}

func TestAuthorKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Jane Doe", "Doe|J"},
		{"  Jane   Q  Doe ", "Doe|J"},
		{"Doe", "Doe|D"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AuthorKey(tt.name), "AuthorKey(%q)", tt.name)
	}
}
