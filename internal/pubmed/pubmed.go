// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed discovers PubMed identifiers from a search expression via
// the E-utilities esearch endpoint, or from a PMID list file.
package pubmed

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/bibrun/internal/httputil"
	"github.com/pdiddy/bibrun/pkg/types"
)

// DefaultBaseURL is the E-utilities esearch endpoint.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"

const defaultRetMax = 1000

// Client searches PubMed for identifiers.
type Client struct {
	HTTP   *http.Client
	Config types.PubMedConfig
}

// NewClient creates a client with the timeout from cfg.
func NewClient(cfg types.PubMedConfig) *Client {
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// Search resolves expr, either a PubMed web search URL or a bare search
// term, to the list of matching PMIDs.
func (c *Client) Search(ctx context.Context, expr string) ([]int, error) {
	reqURL, err := SearchURL(expr, c.Config)
	if err != nil {
		return nil, err
	}

	body, err := httputil.Get(ctx, c.HTTP, reqURL, c.Config.UserAgent)
	if err != nil {
		return nil, eris.Wrap(err, "pubmed: esearch")
	}

	var res esearchResult
	if err := xml.Unmarshal(body, &res); err != nil {
		return nil, eris.Wrap(err, "pubmed: parsing esearch response")
	}
	if res.Count == nil {
		msg := strings.TrimSpace(res.Error)
		if msg == "" {
			msg = "response has no Count element"
		}
		return nil, eris.Errorf("pubmed: esearch %s: %s", reqURL, msg)
	}

	ids := make([]int, 0, len(res.IDs))
	for _, raw := range res.IDs {
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, eris.Wrapf(err, "pubmed: invalid id %q in esearch response", raw)
		}
		ids = append(ids, id)
	}

	zap.L().Info("pubmed ids obtained",
		zap.String("count", strings.TrimSpace(*res.Count)),
		zap.Int("returned", len(ids)),
	)
	return ids, nil
}

// SearchURL builds the esearch request for expr. A PubMed web search URL
// keeps its query parameters (term, filters, sort) and is pointed at
// esearch; anything else is used as the search term.
func SearchURL(expr string, cfg types.PubMedConfig) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", eris.New("pubmed: empty search expression")
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	retmax := cfg.RetMax
	if retmax <= 0 {
		retmax = defaultRetMax
	}

	params := url.Values{}
	if strings.HasPrefix(expr, "http://") || strings.HasPrefix(expr, "https://") {
		u, err := url.Parse(expr)
		if err != nil {
			return "", eris.Wrapf(err, "pubmed: parsing search URL %q", expr)
		}
		if !strings.HasSuffix(u.Hostname(), "ncbi.nlm.nih.gov") {
			return "", eris.Errorf("pubmed: %q is not a PubMed search URL", expr)
		}
		params = u.Query()
		params.Del("cmd")
		if params.Get("term") == "" {
			return "", eris.Errorf("pubmed: search URL %q has no term parameter", expr)
		}
	} else {
		params.Set("term", expr)
	}

	params.Set("db", "pubmed")
	params.Set("retmax", strconv.Itoa(retmax))
	if cfg.APIKey != "" {
		params.Set("api_key", cfg.APIKey)
	}
	if cfg.Email != "" {
		params.Set("email", cfg.Email)
	}
	return base + "?" + params.Encode(), nil
}

// esearchResult is the subset of the eSearchResult document bibrun reads.
type esearchResult struct {
	XMLName xml.Name `xml:"eSearchResult"`
	Count   *string  `xml:"Count"`
	IDs     []string `xml:"IdList>Id"`
	Error   string   `xml:"ERROR"`
}
