// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one bibliometric assessment end to end: identifier
// discovery, record fetch, classification, journal matching, attention
// lookup, aggregation, and workbook output.
package pipeline

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/bibrun/internal/aggregate"
	"github.com/pdiddy/bibrun/internal/altmetric"
	"github.com/pdiddy/bibrun/internal/journal"
	"github.com/pdiddy/bibrun/pkg/types"
)

// Discoverer turns a search expression into PMIDs.
type Discoverer interface {
	Search(ctx context.Context, expr string) ([]int, error)
}

// RecordSource fetches bibliometric records for PMIDs.
type RecordSource interface {
	Fetch(ctx context.Context, pmids []int) ([]*types.Publication, error)
}

// AttentionSource attaches social-attention counters to publications.
type AttentionSource interface {
	Annotate(ctx context.Context, pubs []*types.Publication) (altmetric.Report, error)
}

// Classifier assigns each publication a category.
type Classifier interface {
	Classify(ctx context.Context, pub *types.Publication) error
	Categories() []types.Category
}

// JournalMatcher attaches impact-factor data to a publication.
type JournalMatcher interface {
	Apply(ctx context.Context, pub *types.Publication) (journal.Match, error)
}

// Sink receives the finished detail rows and summary buckets.
type Sink interface {
	Write(pubs []*types.Publication, buckets []types.SummaryBucket) error
}

// Input selects the publications to assess. PMIDs, when non-empty, skip
// discovery.
type Input struct {
	Search string
	PMIDs  []int
}

// Result describes a completed run.
type Result struct {
	RunID        string
	Publications []*types.Publication
	Buckets      []types.SummaryBucket

	// Unmatched lists the distinct normalized journal names left without
	// an impact factor, sorted.
	Unmatched []string

	// Unclassified counts publications still marked as needing
	// classification.
	Unclassified int

	Attention altmetric.Report
}

// Run holds the collaborators for one assessment. Attention may be nil to
// skip the attention stage; every other collaborator is required.
type Run struct {
	ID         string
	Discoverer Discoverer
	Records    RecordSource
	Attention  AttentionSource
	Classifier Classifier
	Matcher    JournalMatcher
	Sink       Sink

	log *zap.Logger
}

// NewRun returns a Run with a fresh run ID.
func NewRun() *Run {
	return &Run{ID: uuid.NewString()}
}

func (r *Run) validate() error {
	switch {
	case r.Records == nil:
		return eris.New("pipeline: no record source")
	case r.Classifier == nil:
		return eris.New("pipeline: no classifier")
	case r.Matcher == nil:
		return eris.New("pipeline: no journal matcher")
	case r.Sink == nil:
		return eris.New("pipeline: no sink")
	}
	return nil
}

// Execute runs every stage in order. Any stage error aborts the run and is
// wrapped with the stage name.
func (r *Run) Execute(ctx context.Context, in Input) (*Result, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.log = zap.L().With(zap.String("run_id", r.ID))
	res := &Result{RunID: r.ID}

	pmids, err := r.discover(ctx, in)
	if err != nil {
		return nil, eris.Wrap(err, "identifier discovery")
	}
	r.log.Info("pubmed ids obtained", zap.Int("count", len(pmids)))

	pubs, err := r.Records.Fetch(ctx, pmids)
	if err != nil {
		return nil, eris.Wrap(err, "record fetch")
	}
	if len(pubs) == 0 {
		return nil, eris.Wrap(eris.New("no publication records"), "record fetch")
	}
	res.Publications = pubs

	if err := r.classify(ctx, res); err != nil {
		return nil, eris.Wrap(err, "classification")
	}

	if err := r.matchJournals(ctx, res); err != nil {
		return nil, eris.Wrap(err, "journal matching")
	}

	if r.Attention != nil {
		rep, err := r.Attention.Annotate(ctx, pubs)
		if err != nil {
			return nil, eris.Wrap(err, "attention lookup")
		}
		res.Attention = rep
	}

	res.Buckets = aggregate.Aggregate(pubs, r.Classifier.Categories())

	if err := r.Sink.Write(pubs, res.Buckets); err != nil {
		return nil, eris.Wrap(err, "output")
	}

	r.log.Info("bibliometric assessment complete",
		zap.Int("publications", len(pubs)),
		zap.Int("summary_rows", len(res.Buckets)),
		zap.Int("unmatched_journals", len(res.Unmatched)),
		zap.Int("unclassified", res.Unclassified),
	)
	return res, nil
}

func (r *Run) discover(ctx context.Context, in Input) ([]int, error) {
	if len(in.PMIDs) > 0 {
		return in.PMIDs, nil
	}
	if in.Search == "" {
		return nil, eris.New("no search expression or PMID list")
	}
	if r.Discoverer == nil {
		return nil, eris.New("no identifier discoverer configured")
	}
	pmids, err := r.Discoverer.Search(ctx, in.Search)
	if err != nil {
		return nil, err
	}
	if len(pmids) == 0 {
		return nil, eris.Errorf("search %q matched no publications", in.Search)
	}
	return pmids, nil
}

func (r *Run) classify(ctx context.Context, res *Result) error {
	for _, pub := range res.Publications {
		if err := r.Classifier.Classify(ctx, pub); err != nil {
			return err
		}
		if pub.Category == types.Unclassified {
			res.Unclassified++
		}
	}
	r.log.Info("publications classified",
		zap.Int("count", len(res.Publications)),
		zap.Int("unclassified", res.Unclassified),
	)
	return nil
}

func (r *Run) matchJournals(ctx context.Context, res *Result) error {
	unmatched := make(map[string]bool)
	for _, pub := range res.Publications {
		m, err := r.Matcher.Apply(ctx, pub)
		if err != nil {
			return err
		}
		if !m.Matched() {
			unmatched[m.Name] = true
		}
	}
	for name := range unmatched {
		res.Unmatched = append(res.Unmatched, name)
	}
	sort.Strings(res.Unmatched)

	if len(res.Unmatched) > 0 {
		r.log.Warn("journals without impact factor",
			zap.Strings("journals", res.Unmatched),
		)
	}
	r.log.Info("journal impact factor information added")
	return nil
}
