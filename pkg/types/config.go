// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bibrun/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// PubMedConfig holds settings for identifier discovery through E-utilities.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the esearch endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// RetMax caps the number of identifiers returned by a search (default 1000).
	RetMax int `json:"retmax" yaml:"retmax" mapstructure:"retmax"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Email is sent as the E-utilities email parameter when set.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`
}

// ICiteConfig holds settings for the bulk bibliometric record source.
type ICiteConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the iCite pubs endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// BatchSize caps PMIDs per request (default and maximum 1000).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`
}

// AltmetricConfig holds settings for the social-attention source.
type AltmetricConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the Altmetric PMID lookup endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is an optional Altmetric API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// RequestsPerSecond paces per-publication lookups (default 1).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// JournalConfig holds settings for the journal impact-factor matcher.
type JournalConfig struct {
	// TablePath is the ranking table (.csv or .xlsx).
	TablePath string `json:"table" yaml:"table" mapstructure:"table"`

	// AliasPath is an optional YAML alias file loaded at startup.
	AliasPath string `json:"aliases_file,omitempty" yaml:"aliases_file,omitempty" mapstructure:"aliases_file"`

	// Aliases are extra observed-name to table-title pairs merged over
	// the built-in defaults.
	Aliases map[string]string `json:"aliases,omitempty" yaml:"aliases,omitempty" mapstructure:"aliases"`

	// Unmatchable lists journal names that never prompt. Empty means
	// the built-in list.
	Unmatchable []string `json:"unmatchable,omitempty" yaml:"unmatchable,omitempty" mapstructure:"unmatchable"`
}

// ClassifyRule assigns Category to titles matching any keyword group. A
// group matches when every keyword in it occurs in the lowercased title.
type ClassifyRule struct {
	Category Category   `json:"category" yaml:"category" mapstructure:"category"`
	Keywords [][]string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
}

// ClassifyConfig holds the category rule list.
type ClassifyConfig struct {
	// Categories lists the tags an operator may choose, in summary order.
	// Empty means the built-in set.
	Categories []Category `json:"categories,omitempty" yaml:"categories,omitempty" mapstructure:"categories"`

	// Rules are evaluated in order; empty means the built-in rules.
	Rules []ClassifyRule `json:"rules,omitempty" yaml:"rules,omitempty" mapstructure:"rules"`
}

// OutputConfig holds settings for the workbook sink.
type OutputConfig struct {
	// Path is the xlsx file to write.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is a zap level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all stage configurations for a run.
type Config struct {
	PubMed    PubMedConfig    `json:"pubmed" yaml:"pubmed" mapstructure:"pubmed"`
	ICite     ICiteConfig     `json:"icite" yaml:"icite" mapstructure:"icite"`
	Altmetric AltmetricConfig `json:"altmetric" yaml:"altmetric" mapstructure:"altmetric"`
	Journals  JournalConfig   `json:"journals" yaml:"journals" mapstructure:"journals"`
	Classify  ClassifyConfig  `json:"classify" yaml:"classify" mapstructure:"classify"`
	Output    OutputConfig    `json:"output" yaml:"output" mapstructure:"output"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`

	// Interactive enables operator prompts for classification and journal
	// confirmation. When false, unresolved items stay unmatched.
	Interactive bool `json:"interactive" yaml:"interactive" mapstructure:"interactive"`
}
