// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text
// files. Each file is one secret: the filename is the key and the trimmed
// contents are the value.
//
// Recognized keys: ncbi-api-key, ncbi-email, altmetric-api-key.
package secrets

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/bibrun/pkg/types"
)

// Key file names.
const (
	NCBIAPIKey      = "ncbi-api-key"
	NCBIEmail       = "ncbi-email"
	AltmetricAPIKey = "altmetric-api-key"
)

// DefaultDir is where the CLI looks for secret files.
const DefaultDir = ".secrets"

// Secrets maps key file names to their values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set; unreadable files are logged and skipped.
func Load(dir string) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, eris.Wrapf(err, "reading secrets directory %s", dir)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			zap.L().Warn("could not read secret", zap.String("key", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Keys returns the loaded key names, sorted.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply fills credentials that cfg leaves empty. Values already set by the
// config file or environment win.
func (s Secrets) Apply(cfg *types.Config) {
	fill(&cfg.PubMed.APIKey, s[NCBIAPIKey])
	fill(&cfg.PubMed.Email, s[NCBIEmail])
	fill(&cfg.Altmetric.APIKey, s[AltmetricAPIKey])
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
