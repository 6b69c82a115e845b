// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns research-program categories to publications from
// an ordered keyword rule list, falling back to the operator.
package classify

import (
	"context"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/bibrun/pkg/types"
)

// Resolver asks the operator to categorize a publication no rule matched.
// The returned category must be one of allowed; ok=false leaves the
// publication unclassified.
type Resolver interface {
	ChooseCategory(ctx context.Context, title string, allowed []types.Category) (category types.Category, ok bool, err error)
}

// DefaultCategories returns the built-in TR&D tags in summary order.
func DefaultCategories() []types.Category {
	return []types.Category{"1", "2", "3", "c", "n"}
}

// DefaultRules returns the built-in keyword rules for the three TR&D
// programs.
func DefaultRules() []types.ClassifyRule {
	return []types.ClassifyRule{
		{Category: "1", Keywords: [][]string{
			{"spinal cord injury"}, {"plasticity"}, {"h-reflex"},
			{"operant conditioning"}, {"rats"},
		}},
		{Category: "2", Keywords: [][]string{
			{"brain", "computer", "interface"}, {"bci"}, {"eeg"}, {"p300"},
		}},
		{Category: "3", Keywords: [][]string{
			{"cortical"}, {"electrocorticography"}, {"ecog"}, {"cortex"},
			{"electrocorticographic"}, {"epilepsy"},
		}},
	}
}

// Classifier applies rules in order; the first match wins.
type Classifier struct {
	rules    []types.ClassifyRule
	allowed  []types.Category
	resolver Resolver
}

// New creates a classifier. Empty rules or categories select the defaults.
// A nil resolver leaves unmatched publications unclassified.
func New(rules []types.ClassifyRule, allowed []types.Category, resolver Resolver) (*Classifier, error) {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	if len(allowed) == 0 {
		allowed = DefaultCategories()
	}
	for i, r := range rules {
		if r.Category == "" {
			return nil, eris.Errorf("classify: rule %d has no category", i)
		}
		if r.Category == types.Total || r.Category == types.Unclassified {
			return nil, eris.Errorf("classify: rule %d uses reserved category %q", i, r.Category)
		}
		if len(r.Keywords) == 0 {
			return nil, eris.Errorf("classify: rule %d (%s) has no keywords", i, r.Category)
		}
	}
	return &Classifier{rules: rules, allowed: allowed, resolver: resolver}, nil
}

// Categories returns the operator-selectable categories in summary order.
func (c *Classifier) Categories() []types.Category {
	return c.allowed
}

// Match returns the category of the first rule matching title.
func (c *Classifier) Match(title string) (types.Category, bool) {
	lower := strings.ToLower(title)
	for _, r := range c.rules {
		for _, group := range r.Keywords {
			if containsAll(lower, group) {
				return r.Category, true
			}
		}
	}
	return "", false
}

// Classify sets pub.Category from the rules, asking the resolver when no
// rule matches.
func (c *Classifier) Classify(ctx context.Context, pub *types.Publication) error {
	if cat, ok := c.Match(pub.Title); ok {
		pub.Category = cat
		return nil
	}

	pub.Category = types.Unclassified
	if c.resolver == nil {
		zap.L().Debug("publication left unclassified", zap.Int("pmid", pub.PMID))
		return nil
	}

	cat, ok, err := c.resolver.ChooseCategory(ctx, pub.Title, c.allowed)
	if err != nil {
		return eris.Wrapf(err, "classify: pmid %d", pub.PMID)
	}
	if !ok {
		return nil
	}
	if !slices.Contains(c.allowed, cat) {
		return eris.Errorf("classify: pmid %d: category %q is not one of %v", pub.PMID, cat, c.allowed)
	}
	pub.Category = cat
	return nil
}

func containsAll(s string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	for _, kw := range keywords {
		if !strings.Contains(s, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}
