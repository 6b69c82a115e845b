// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SocialMetric pairs an Altmetric counter with its summary column name.
type SocialMetric struct {
	Key    string
	Column string
}

// SocialMetrics is the fixed, ordered set of attention counters totalled
// in every summary bucket.
var SocialMetrics = []SocialMetric{
	{"cited_by_accounts_count", "Social Media Account Shares"},
	{"cited_by_fbwalls_count", "Facebook Posts"},
	{"cited_by_feeds_count", "Blog Posts"},
	{"cited_by_gplus_count", "Google Plus Posts"},
	{"cited_by_msm_count", "News Articles"},
	{"cited_by_peer_review_sites_count", "Peer Review Site Posts"},
	{"cited_by_posts_count", "Total Social Media Posts"},
	{"cited_by_qna_count", "QNA Posts"},
	{"cited_by_rdts_count", "Reddit Posts"},
	{"cited_by_tweeters_count", "Tweets"},
	{"cited_by_wikipedia_count", "Wikipedia Mentions"},
}

// SummaryBucket holds the rollup for one (category, year) pair.
type SummaryBucket struct {
	Category Category
	Year     int

	Count             int
	WeightedRCR       float64
	MeanRCR           float64
	MeanNIHPercentile float64
	Q1Count           int
	Q1Fraction        float64
	MeanJIFQuartile   float64
	MeanJIF           float64
	SumJIF            float64
	MeanJIFPercentile float64

	// Social totals keyed by SocialMetric.Key.
	Social map[string]int

	UniqueAuthors int
	NewAuthors    int
}

// SummaryColumns returns the fixed column order of the summary sheet.
func SummaryColumns() []string {
	cols := []string{
		"TR&D", "Year", "Count", "Weighted RCR", "Mean RCR",
		"Average NIH Percentile", "Num in JIF Q1", "Percent in JIF Q1",
		"Average JIF Quartile", "Average JIF", "Sum JIF",
		"Average JIF Percentile",
	}
	for _, m := range SocialMetrics {
		cols = append(cols, m.Column)
	}
	return append(cols, "Unique Authors", "New Authors")
}

// Row returns the bucket's values in SummaryColumns order.
func (b SummaryBucket) Row() []any {
	row := []any{
		string(b.Category), b.Year, b.Count, b.WeightedRCR, b.MeanRCR,
		b.MeanNIHPercentile, b.Q1Count, b.Q1Fraction,
		b.MeanJIFQuartile, b.MeanJIF, b.SumJIF,
		b.MeanJIFPercentile,
	}
	for _, m := range SocialMetrics {
		row = append(row, b.Social[m.Key])
	}
	return append(row, b.UniqueAuthors, b.NewAuthors)
}
