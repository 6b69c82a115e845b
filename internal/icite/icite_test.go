// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package icite

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibrun/internal/httputil"
	"github.com/pdiddy/bibrun/pkg/types"
)

const sampleResponse = `{
  "meta": {"pmids": "28123456,27654321"},
  "data": [
    {
      "pmid": 28123456,
      "title": "Operant conditioning of the H-reflex in rats",
      "authors": "Jonathan R Wolpaw, Xiang Yang Chen, Ann M Smith",
      "journal": "J Neurophysiol",
      "year": 2017,
      "is_research_article": "Yes",
      "relative_citation_ratio": 1.85,
      "nih_percentile": 72.4,
      "citation_count": 31
    },
    {
      "pmid": 27654321,
      "title": "A P300 speller for people with ALS",
      "authors": ["Theresa M Vaughan", "Dean J Krusienski"],
      "journal": "Clin Neurophysiol",
      "year": 2016,
      "relative_citation_ratio": null,
      "nih_percentile": null
    }
  ]
}`

func TestDecode(t *testing.T) {
	pubs, err := Decode([]byte(sampleResponse))
	require.NoError(t, err)
	require.Len(t, pubs, 2)

	first := pubs[0]
	assert.Equal(t, 28123456, first.PMID)
	assert.Equal(t, "J Neurophysiol", first.Journal)
	assert.Equal(t, 2017, first.Year)
	assert.Equal(t, []string{"Jonathan R Wolpaw", "Xiang Yang Chen", "Ann M Smith"}, first.Authors)
	require.NotNil(t, first.RCR)
	assert.InDelta(t, 1.85, *first.RCR, 1e-9)
	require.NotNil(t, first.NIHPercentile)
	assert.InDelta(t, 72.4, *first.NIHPercentile, 1e-9)
	assert.Equal(t, types.Unclassified, first.Category)
	assert.Equal(t, "Yes", first.Extra["is_research_article"])
	assert.InDelta(t, 31.0, first.Extra["citation_count"], 1e-9)

	second := pubs[1]
	assert.Equal(t, []string{"Theresa M Vaughan", "Dean J Krusienski"}, second.Authors)
	assert.Nil(t, second.RCR)
	assert.Nil(t, second.NIHPercentile)

	fields := second.Fields()
	_, hasRCR := fields["relative_citation_ratio"]
	assert.False(t, hasRCR)
	assert.Equal(t, "Theresa M Vaughan, Dean J Krusienski", fields["authors"])
}

func TestDecode_SkipsRecordsWithoutYear(t *testing.T) {
	body := `{"data":[
		{"pmid": 1, "title": "dated", "journal": "Nature", "year": 2019},
		{"pmid": 2, "title": "no year", "journal": "Nature"},
		{"pmid": 3, "title": "null year", "journal": "Nature", "year": null},
		{"pmid": 4, "title": "zero year", "journal": "Nature", "year": 0}
	]}`
	pubs, err := Decode([]byte(body))
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, 1, pubs[0].PMID)
	assert.Equal(t, 2019, pubs[0].Year)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"data":[{"title":"no id"}]}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"data":[{"pmid":1,"authors":42}]}`))
	assert.Error(t, err)
}

func TestClientFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "28123456,27654321", r.URL.Query().Get("pmids"))
		assert.Equal(t, "bibrun-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer ts.Close()

	c := &Client{HTTP: ts.Client(), Config: types.ICiteConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "bibrun-test"},
		BaseURL:    ts.URL,
	}}
	pubs, err := c.Fetch(context.Background(), []int{28123456, 27654321})
	require.NoError(t, err)
	assert.Len(t, pubs, 2)
}

func TestClientFetch_Batches(t *testing.T) {
	var batches []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("pmids"), ",")
		batches = append(batches, strings.Join(ids, ","))
		var recs []string
		for _, id := range ids {
			recs = append(recs, fmt.Sprintf(`{"pmid": %s, "journal": "Nature", "year": 2020}`, id))
		}
		fmt.Fprintf(w, `{"data":[%s]}`, strings.Join(recs, ","))
	}))
	defer ts.Close()

	c := &Client{HTTP: ts.Client(), Config: types.ICiteConfig{BaseURL: ts.URL, BatchSize: 2}}
	pubs, err := c.Fetch(context.Background(), []int{1, 2, 3, 4, 5})
	require.NoError(t, err)

	assert.Equal(t, []string{"1,2", "3,4", "5"}, batches)
	require.Len(t, pubs, 5)
	for i, p := range pubs {
		assert.Equal(t, i+1, p.PMID)
	}
}

func TestClientFetch_BatchSizeCapped(t *testing.T) {
	var requests int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		n := len(strings.Split(r.URL.Query().Get("pmids"), ","))
		assert.LessOrEqual(t, n, MaxBatchSize)
		w.Write([]byte(`{"data":[{"pmid": 1, "year": 2020}]}`))
	}))
	defer ts.Close()

	pmids := make([]int, MaxBatchSize+1)
	for i := range pmids {
		pmids[i] = i + 1
	}
	c := &Client{HTTP: ts.Client(), Config: types.ICiteConfig{BaseURL: ts.URL, BatchSize: 5000}}
	_, err := c.Fetch(context.Background(), pmids)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestClientFetch_BatchFailureAborts(t *testing.T) {
	var requests int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"data":[{"pmid": 1, "year": 2020}]}`))
	}))
	defer ts.Close()

	c := &Client{HTTP: ts.Client(), Config: types.ICiteConfig{BaseURL: ts.URL, BatchSize: 1}}
	_, err := c.Fetch(context.Background(), []int{1, 2, 3})
	require.Error(t, err)
	assert.True(t, httputil.IsStatus(err, http.StatusBadGateway))
	assert.Equal(t, 2, requests)
}

func TestClientFetch_Failures(t *testing.T) {
	t.Run("no pmids", func(t *testing.T) {
		c := NewClient(types.ICiteConfig{})
		_, err := c.Fetch(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("http error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		c := &Client{HTTP: ts.Client(), Config: types.ICiteConfig{BaseURL: ts.URL}}
		_, err := c.Fetch(context.Background(), []int{1})
		require.Error(t, err)
		assert.True(t, httputil.IsStatus(err, http.StatusServiceUnavailable))
	})

	t.Run("empty data", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"data":[]}`))
		}))
		defer ts.Close()

		c := &Client{HTTP: ts.Client(), Config: types.ICiteConfig{BaseURL: ts.URL}}
		_, err := c.Fetch(context.Background(), []int{1})
		assert.Error(t, err)
	})
}
