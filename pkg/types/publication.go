// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the bibrun pipeline:
// publications, journal ranking records, summary buckets, and configuration.
package types

import (
	"strconv"
	"strings"
)

// Category is a research-program (TR&D) classification tag.
type Category string

const (
	// Unclassified marks a publication that no rule matched and no
	// operator resolved.
	Unclassified Category = "needs classification"

	// Total is the synthetic summary category meaning "any category".
	Total Category = "Total"
)

// Column keys added to a publication's detail row by the pipeline, alongside
// the raw fields returned by the bibliometric source.
const (
	ColumnCategory      = "TR&D"
	ColumnJIF           = "JIF"
	ColumnJIFPercentile = "JIF Percentile"
	ColumnJIFQuartile   = "JIF Quartile"
)

// Publication holds one publication's bibliometric record as it moves
// through the pipeline.
type Publication struct {
	// PMID is the PubMed identifier.
	PMID int `json:"pmid" yaml:"pmid"`

	// Title is the article title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Journal is the free-text journal abbreviation from the source.
	Journal string `json:"journal" yaml:"journal"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Authors lists author names ("First Last") in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// RCR is the relative citation ratio, nil when the source has none.
	RCR *float64 `json:"relative_citation_ratio,omitempty" yaml:"relative_citation_ratio,omitempty"`

	// NIHPercentile is the NIH percentile rank (0-100), nil when absent.
	NIHPercentile *float64 `json:"nih_percentile,omitempty" yaml:"nih_percentile,omitempty"`

	Category Category `json:"category" yaml:"category"`

	// JIF is the matched journal impact factor; 0 means unmatched.
	JIF float64 `json:"jif" yaml:"jif"`

	// JIFPercentile is the matched journal's impact percentile (0-100).
	JIFPercentile float64 `json:"jif_percentile" yaml:"jif_percentile"`

	// Attention holds social-attention counters keyed by Altmetric field
	// name. Nil when the attention source had no record.
	Attention map[string]int `json:"attention,omitempty" yaml:"attention,omitempty"`

	// Extra keeps every other field the bibliometric source returned so
	// the detail sheet carries one column per observed field.
	Extra map[string]any `json:"-" yaml:"-"`
}

// JIFQuartile derives the impact quartile from JIFPercentile.
func (p *Publication) JIFQuartile() int {
	return Quartile(p.JIFPercentile)
}

// Fields returns the publication's detail row keyed by column name. Raw
// source fields come first and are overridden by the typed fields and the
// pipeline-derived columns.
func (p *Publication) Fields() map[string]any {
	fields := make(map[string]any, len(p.Extra)+len(p.Attention)+12)
	for k, v := range p.Extra {
		fields[k] = v
	}
	fields["pmid"] = p.PMID
	fields["title"] = p.Title
	fields["journal"] = p.Journal
	fields["year"] = p.Year
	if len(p.Authors) > 0 {
		fields["authors"] = strings.Join(p.Authors, ", ")
	}
	if p.RCR != nil {
		fields["relative_citation_ratio"] = *p.RCR
	} else {
		delete(fields, "relative_citation_ratio")
	}
	if p.NIHPercentile != nil {
		fields["nih_percentile"] = *p.NIHPercentile
	} else {
		delete(fields, "nih_percentile")
	}

	fields[ColumnCategory] = string(p.Category)
	fields[ColumnJIF] = p.JIF
	fields[ColumnJIFPercentile] = p.JIFPercentile
	fields[ColumnJIFQuartile] = p.JIFQuartile()

	for k, v := range p.Attention {
		fields[k] = v
	}
	return fields
}

// PMIDString returns the identifier in the decimal form the APIs expect.
func (p *Publication) PMIDString() string {
	return strconv.Itoa(p.PMID)
}
