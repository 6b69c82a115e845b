// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package altmetric looks up social-attention counters for publications
// from the Altmetric PMID API.
package altmetric

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/bibrun/internal/httputil"
	"github.com/pdiddy/bibrun/pkg/types"
)

// DefaultBaseURL is the Altmetric PMID lookup endpoint.
const DefaultBaseURL = "https://api.altmetric.com/v1/pmid"

// ErrNotFound is returned by Lookup when Altmetric has no record.
var ErrNotFound = errors.New("altmetric: no record")

// counterPrefix selects the attention counters in a response.
const counterPrefix = "cited"

// Client looks up attention counters one publication at a time.
type Client struct {
	HTTP    *http.Client
	Config  types.AltmetricConfig
	limiter *rate.Limiter
}

// NewClient creates a client paced at cfg.RequestsPerSecond. A
// non-positive rate disables pacing.
func NewClient(cfg types.AltmetricConfig) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		Config:  cfg,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Report counts the outcome of an Annotate call.
type Report struct {
	Found    int
	NotFound int
	Failed   int
}

// Incomplete reports whether any publication is missing attention data.
func (r Report) Incomplete() bool {
	return r.NotFound > 0 || r.Failed > 0
}

// Lookup fetches the counters for one PMID. A 404 yields ErrNotFound.
func (c *Client) Lookup(ctx context.Context, pmid int) (map[string]int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "altmetric: rate limiter")
		}
	}

	body, err := httputil.Get(ctx, c.HTTP, c.lookupURL(pmid), c.Config.UserAgent)
	if err != nil {
		if httputil.IsStatus(err, http.StatusNotFound) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "altmetric: pmid %d", pmid)
	}
	return Counters(body)
}

// Annotate sets Attention on every publication Altmetric knows about.
// Missing records and failed lookups are counted, logged, and skipped;
// only context cancellation stops the loop.
func (c *Client) Annotate(ctx context.Context, pubs []*types.Publication) (Report, error) {
	var rep Report
	for _, pub := range pubs {
		counters, err := c.Lookup(ctx, pub.PMID)
		switch {
		case err == nil:
			pub.Attention = counters
			rep.Found++
		case errors.Is(err, ErrNotFound):
			rep.NotFound++
		default:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return rep, eris.Wrap(ctxErr, "altmetric: lookups interrupted")
			}
			rep.Failed++
			zap.L().Warn("error getting article attention (may be rate-limited)",
				zap.Int("pmid", pub.PMID),
				zap.Error(err),
			)
		}
	}

	if rep.Incomplete() {
		zap.L().Warn("not all articles on Altmetric, data will be incomplete",
			zap.Int("not_found", rep.NotFound),
			zap.Int("failed", rep.Failed),
		)
	}
	zap.L().Info("altmetric data added", zap.Int("found", rep.Found))
	return rep, nil
}

func (c *Client) lookupURL(pmid int) string {
	base := c.Config.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u := strings.TrimRight(base, "/") + "/" + strconv.Itoa(pmid)
	if c.Config.APIKey != "" {
		u += "?" + url.Values{"key": {c.Config.APIKey}}.Encode()
	}
	return u
}

// Counters extracts the numeric "cited*" fields of an Altmetric record.
// Values may be JSON numbers or strings of digits; anything else is
// ignored.
func Counters(body []byte) (map[string]int, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, eris.Wrap(err, "altmetric: parsing response")
	}

	counters := make(map[string]int)
	for k, v := range raw {
		if !strings.HasPrefix(k, counterPrefix) {
			continue
		}
		switch val := v.(type) {
		case float64:
			counters[k] = int(val)
		case string:
			if n, ok := digits(val); ok {
				counters[k] = n
			}
		}
	}
	return counters, nil
}

func digits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
