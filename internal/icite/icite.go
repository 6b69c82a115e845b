// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package icite fetches publication records, including the relative
// citation ratio, from the NIH iCite API.
package icite

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/bibrun/internal/httputil"
	"github.com/pdiddy/bibrun/pkg/types"
)

// DefaultBaseURL is the iCite publications endpoint.
const DefaultBaseURL = "https://icite.od.nih.gov/api/pubs"

// MaxBatchSize is the most PMIDs the pubs endpoint accepts per request.
const MaxBatchSize = 1000

// Client fetches records from iCite.
type Client struct {
	HTTP   *http.Client
	Config types.ICiteConfig
}

// NewClient creates a client with the timeout from cfg.
func NewClient(cfg types.ICiteConfig) *Client {
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

type response struct {
	Data []json.RawMessage `json:"data"`
}

// record holds the fields bibrun interprets. Everything else stays in the
// raw map.
type record struct {
	PMID          int             `json:"pmid"`
	Title         string          `json:"title"`
	Journal       string          `json:"journal"`
	Year          int             `json:"year"`
	Authors       json.RawMessage `json:"authors"`
	RCR           *float64        `json:"relative_citation_ratio"`
	NIHPercentile *float64        `json:"nih_percentile"`
}

// Fetch retrieves one record per PMID, MaxBatchSize PMIDs per request,
// pages fetched in order with a single attempt each. A non-200 response on
// any page or an empty overall result is an error.
func (c *Client) Fetch(ctx context.Context, pmids []int) ([]*types.Publication, error) {
	if len(pmids) == 0 {
		return nil, eris.New("icite: no PMIDs to fetch")
	}

	size := c.Config.BatchSize
	if size <= 0 || size > MaxBatchSize {
		size = MaxBatchSize
	}

	var pubs []*types.Publication
	for start := 0; start < len(pmids); start += size {
		end := min(start+size, len(pmids))
		body, err := httputil.Get(ctx, c.HTTP, c.requestURL(pmids[start:end]), c.Config.UserAgent)
		if err != nil {
			return nil, eris.Wrapf(err, "icite: fetching records %d-%d", start+1, end)
		}
		page, err := Decode(body)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, page...)
	}
	if len(pubs) == 0 {
		return nil, eris.Errorf("icite: no records returned for %d PMIDs", len(pmids))
	}

	zap.L().Info("icite data collected",
		zap.Int("requested", len(pmids)),
		zap.Int("returned", len(pubs)),
	)
	return pubs, nil
}

func (c *Client) requestURL(pmids []int) string {
	base := c.Config.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	ids := make([]string, len(pmids))
	for i, id := range pmids {
		ids[i] = strconv.Itoa(id)
	}
	return base + "?pmids=" + url.QueryEscape(strings.Join(ids, ","))
}

// Decode parses an iCite response body into publications. Every field of
// each record is kept in Extra so the detail sheet can show it. Records
// with a missing or non-positive year are dropped.
func Decode(body []byte) ([]*types.Publication, error) {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "icite: parsing response")
	}

	pubs := make([]*types.Publication, 0, len(resp.Data))
	for i, raw := range resp.Data {
		pub, err := decodeRecord(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "icite: record %d", i)
		}
		// A record without a year has no summary bucket.
		if pub.Year <= 0 {
			zap.L().Warn("icite record has no publication year, skipping",
				zap.Int("pmid", pub.PMID),
			)
			continue
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

func decodeRecord(raw json.RawMessage) (*types.Publication, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, eris.Wrap(err, "decoding fields")
	}
	extra := make(map[string]any)
	if err := json.Unmarshal(raw, &extra); err != nil {
		return nil, eris.Wrap(err, "decoding raw fields")
	}
	if rec.PMID <= 0 {
		return nil, eris.New("missing pmid")
	}

	authors, err := parseAuthors(rec.Authors)
	if err != nil {
		return nil, eris.Wrapf(err, "pmid %d", rec.PMID)
	}

	return &types.Publication{
		PMID:          rec.PMID,
		Title:         rec.Title,
		Journal:       rec.Journal,
		Year:          rec.Year,
		Authors:       authors,
		RCR:           rec.RCR,
		NIHPercentile: rec.NIHPercentile,
		Category:      types.Unclassified,
		Extra:         extra,
	}, nil
}

// parseAuthors accepts either a ", "-joined string or a JSON list of names.
func parseAuthors(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '[' {
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, eris.Wrap(err, "decoding author list")
		}
		return cleanAuthors(list), nil
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err != nil {
		return nil, eris.Wrap(err, "decoding authors")
	}
	return cleanAuthors(strings.Split(joined, ",")), nil
}

func cleanAuthors(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
