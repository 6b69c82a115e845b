// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// JournalRecord is one row of the journal impact-factor ranking table.
// Records are immutable once the table is loaded. Titles are not unique in
// the source data; lookups take the first record with a given title.
type JournalRecord struct {
	// Rank is the table rank; always positive for loaded records.
	Rank int `json:"rank" yaml:"rank"`

	// FullTitle is the display form shown to the operator.
	FullTitle string `json:"full_title" yaml:"full_title"`

	// Title is the abbreviated form used for matching.
	Title string `json:"title" yaml:"title"`

	// JIF is the journal impact factor.
	JIF float64 `json:"jif" yaml:"jif"`

	// Percentile is the journal's impact percentile (0-100).
	Percentile float64 `json:"percentile" yaml:"percentile"`
}

// Quartile maps an impact percentile to its quartile, 1 being the top.
// Unmatched publications (percentile 0) land in quartile 4.
func Quartile(percentile float64) int {
	switch {
	case percentile >= 75:
		return 1
	case percentile >= 50:
		return 2
	case percentile >= 25:
		return 3
	default:
		return 4
	}
}
