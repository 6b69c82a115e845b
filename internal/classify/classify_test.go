// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibrun/pkg/types"
)

type fixedResolver struct {
	category types.Category
	ok       bool
	err      error
	calls    int
}

func (r *fixedResolver) ChooseCategory(_ context.Context, _ string, _ []types.Category) (types.Category, bool, error) {
	r.calls++
	return r.category, r.ok, r.err
}

func TestMatch_DefaultRules(t *testing.T) {
	c, err := New(nil, nil, nil)
	require.NoError(t, err)

	tests := []struct {
		title string
		want  types.Category
		ok    bool
	}{
		{"Operant conditioning of the H-reflex in rats", "1", true},
		{"A P300-based brain-computer interface", "2", true},
		{"Brain computer interface for communication", "2", true},
		{"Brain activity during a computer task", "", false},
		{"Electrocorticographic mapping of motor cortex", "3", true},
		{"EEG correlates of cortical plasticity", "1", true}, // rule order: plasticity first
		{"Bladder function after injury", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got, ok := c.Match(tt.title)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_ResolverFallback(t *testing.T) {
	r := &fixedResolver{category: "c", ok: true}
	c, err := New(nil, nil, r)
	require.NoError(t, err)

	pub := &types.Publication{PMID: 1, Title: "Bladder function after injury"}
	require.NoError(t, c.Classify(context.Background(), pub))
	assert.Equal(t, types.Category("c"), pub.Category)
	assert.Equal(t, 1, r.calls)

	pub = &types.Publication{PMID: 2, Title: "ECoG decoding"}
	require.NoError(t, c.Classify(context.Background(), pub))
	assert.Equal(t, types.Category("3"), pub.Category)
	assert.Equal(t, 1, r.calls, "rule matches never reach the resolver")
}

func TestClassify_NoResolverLeavesUnclassified(t *testing.T) {
	c, err := New(nil, nil, nil)
	require.NoError(t, err)

	pub := &types.Publication{PMID: 1, Title: "Bladder function after injury"}
	require.NoError(t, c.Classify(context.Background(), pub))
	assert.Equal(t, types.Unclassified, pub.Category)
}

func TestClassify_ResolverDeclines(t *testing.T) {
	c, err := New(nil, nil, &fixedResolver{})
	require.NoError(t, err)

	pub := &types.Publication{PMID: 1, Title: "Bladder function after injury"}
	require.NoError(t, c.Classify(context.Background(), pub))
	assert.Equal(t, types.Unclassified, pub.Category)
}

func TestClassify_ResolverErrors(t *testing.T) {
	c, err := New(nil, nil, &fixedResolver{err: errors.New("eof")})
	require.NoError(t, err)
	assert.Error(t, c.Classify(context.Background(), &types.Publication{Title: "x"}))

	c, err = New(nil, nil, &fixedResolver{category: "9", ok: true})
	require.NoError(t, err)
	assert.Error(t, c.Classify(context.Background(), &types.Publication{Title: "x"}), "category outside the allowed set")
}

func TestNew_CustomRulesAndValidation(t *testing.T) {
	c, err := New([]types.ClassifyRule{
		{Category: "motor", Keywords: [][]string{{"Motor", "Cortex"}}},
	}, []types.Category{"motor", "other"}, nil)
	require.NoError(t, err)

	got, ok := c.Match("Decoding from motor cortex")
	assert.True(t, ok)
	assert.Equal(t, types.Category("motor"), got)
	assert.Equal(t, []types.Category{"motor", "other"}, c.Categories())

	_, err = New([]types.ClassifyRule{{Keywords: [][]string{{"x"}}}}, nil, nil)
	assert.Error(t, err)
	_, err = New([]types.ClassifyRule{{Category: types.Total, Keywords: [][]string{{"x"}}}}, nil, nil)
	assert.Error(t, err)
	_, err = New([]types.ClassifyRule{{Category: "a"}}, nil, nil)
	assert.Error(t, err)
}
