// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/pdiddy/bibrun/pkg/types"
)

const (
	// MinSimilarity is the lowest Ratio a fuzzy candidate may have.
	MinSimilarity = 0.70

	// MaxCandidates bounds how many fuzzy candidates the operator sees.
	MaxCandidates = 3
)

// Candidate is a ranking-table record offered for operator confirmation.
type Candidate struct {
	Record     types.JournalRecord
	Similarity float64
}

// Resolver asks the operator to confirm a fuzzy match. Candidates arrive in
// descending similarity order; the resolver returns the confirmed one, or
// ok=false when the operator accepts none.
type Resolver interface {
	ConfirmJournal(ctx context.Context, journal string, candidates []Candidate) (choice Candidate, ok bool, err error)
}

// Source reports how a match was resolved.
type Source string

const (
	SourceAlias     Source = "alias"
	SourceExact     Source = "exact"
	SourceFuzzy     Source = "fuzzy"
	SourceUnmatched Source = "unmatched"
)

// Match is the outcome of resolving one journal name.
type Match struct {
	// Name is the normalized journal name.
	Name string

	// Record is the matched table record; zero when unmatched.
	Record types.JournalRecord

	Source Source
}

// JIF returns the matched impact factor, 0 when unmatched.
func (m Match) JIF() float64 { return m.Record.JIF }

// Percentile returns the matched impact percentile, 0 when unmatched.
func (m Match) Percentile() float64 { return m.Record.Percentile }

// Matched reports whether a table record was found.
func (m Match) Matched() bool { return m.Source != SourceUnmatched }

// Matcher resolves journal names against a ranking table.
type Matcher struct {
	table       *Table
	aliases     *AliasTable
	unmatchable map[string]bool
	resolver    Resolver
	log         *zap.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithResolver enables operator confirmation of fuzzy candidates.
func WithResolver(r Resolver) Option {
	return func(m *Matcher) { m.resolver = r }
}

// WithUnmatchable replaces the list of journals that never prompt.
func WithUnmatchable(names []string) Option {
	return func(m *Matcher) {
		m.unmatchable = make(map[string]bool, len(names))
		for _, n := range names {
			m.unmatchable[NormalizeName(n)] = true
		}
	}
}

// WithLogger sets the logger; the default is zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) { m.log = l }
}

// NewMatcher creates a matcher over table. Aliases bound during matching
// are written to aliases, which the caller may persist.
func NewMatcher(table *Table, aliases *AliasTable, opts ...Option) *Matcher {
	if aliases == nil {
		aliases = NewAliasTable()
	}
	m := &Matcher{
		table:   table,
		aliases: aliases,
		log:     zap.L(),
	}
	WithUnmatchable(DefaultUnmatchable())(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Aliases returns the matcher's alias table.
func (m *Matcher) Aliases() *AliasTable {
	return m.aliases
}

// Match resolves a journal name: alias table first, then exact title, then
// operator-confirmed fuzzy candidates. Declines and names without
// candidates resolve to an unmatched Match with zero scores.
func (m *Matcher) Match(ctx context.Context, journal string) (Match, error) {
	name := NormalizeName(journal)
	unmatched := Match{Name: name, Source: SourceUnmatched}

	if title, ok := m.aliases.Lookup(name); ok {
		if rec, found := m.table.Lookup(title); found {
			return Match{Name: name, Record: rec, Source: SourceAlias}, nil
		}
		m.log.Warn("alias points at a title missing from the journal table",
			zap.String("journal", name),
			zap.String("title", title),
		)
	}
	if m.aliases.Declined(name) {
		return unmatched, nil
	}

	if rec, ok := m.table.Lookup(name); ok {
		m.aliases.Bind(name, rec.Title)
		return Match{Name: name, Record: rec, Source: SourceExact}, nil
	}

	if m.unmatchable[name] {
		return unmatched, nil
	}

	candidates := m.Candidates(name)
	if len(candidates) == 0 || m.resolver == nil {
		m.log.Debug("journal unmatched",
			zap.String("journal", name),
			zap.Int("candidates", len(candidates)),
		)
		return unmatched, nil
	}

	choice, ok, err := m.resolver.ConfirmJournal(ctx, name, candidates)
	if err != nil {
		return unmatched, err
	}
	if !ok {
		m.aliases.Decline(name)
		return unmatched, nil
	}
	m.aliases.Bind(name, choice.Record.Title)
	m.log.Info("journal alias confirmed",
		zap.String("journal", name),
		zap.String("title", choice.Record.Title),
		zap.Float64("similarity", choice.Similarity),
	)
	return Match{Name: name, Record: choice.Record, Source: SourceFuzzy}, nil
}

// Candidates returns up to MaxCandidates records whose title shares the
// name's first character and has Ratio >= MinSimilarity, best first. Each
// title appears once, represented by its first record.
func (m *Matcher) Candidates(name string) []Candidate {
	name = NormalizeName(name)
	if name == "" {
		return nil
	}
	first := []rune(name)[0]

	seen := make(map[string]bool)
	var out []Candidate
	for _, rec := range m.table.Records() {
		if seen[rec.Title] || rec.Title == "" || []rune(rec.Title)[0] != first {
			continue
		}
		seen[rec.Title] = true
		sim := Ratio(name, rec.Title)
		if sim < MinSimilarity {
			continue
		}
		out = append(out, Candidate{Record: rec, Similarity: sim})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out
}

// Apply matches pub's journal and stores the impact factor and percentile
// on it.
func (m *Matcher) Apply(ctx context.Context, pub *types.Publication) (Match, error) {
	match, err := m.Match(ctx, pub.Journal)
	if err != nil {
		return match, err
	}
	pub.JIF = match.JIF()
	pub.JIFPercentile = match.Percentile()
	return match, nil
}
