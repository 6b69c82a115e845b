// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"go.yaml.in/yaml/v3"
)

// DefaultAliases pairs journal abbreviations seen in PubMed records with the
// ranking-table titles they correspond to.
func DefaultAliases() map[string]string {
	return map[string]string{
		"AMYOTROPH LATERAL SCLER FRONTOTEMPORAL DEGENER": "AMYOTROPH LAT SCL FR",
		"FRONT NEUROSCI":                     "FRONT NEUROSCI SWITZ",
		"FRONT COMPUT NEUROSCI":              "FRONT COMPUT NEUROSC",
		"J SPEECH LANG HEAR RES":             "J SPEECH LANG HEAR R",
		"IEEE TRANS NEURAL SYST REHABIL ENG": "IEEE T NEUR SYS REH",
		"AM J PHYSIOL RENAL PHYSIOL":         "AM J PHYSIOL RENAL",
		"ARCH PHYS MED REHABIL":              "ARCH PHYS MED REHAB",
		"NEUROUROL URODYN":                   "NEUROUROL URODYNAM",
		"SCI REP":                            "SCI REP UK",
		"EPILEPSY BEHAV CASE REP":            "EPILEPSY BEHAV",
		"J NEUROSCI METHODS":                 "J NEUROSCI METH",
		"PROC NATL ACAD SCI USA":             "P NATL ACAD SCI USA",
		"REV NEUROSCI":                       "REV NEUROSCIENCE",
		"J PHYSIOL (LOND)":                   "J PHYSIOL LONDON",
		"J NEUROTRAUMA":                      "J NEUROTRAUM",
	}
}

// DefaultUnmatchable lists journals known to be absent from the ranking
// table. They resolve to unmatched without prompting.
func DefaultUnmatchable() []string {
	return []string{"FRONT INTEGR NEUROSCI", "FRONT NEUROENG"}
}

// AliasTable maps observed journal names to ranking-table titles for the
// duration of one run. It also remembers names the operator declined so
// they are not asked about twice.
type AliasTable struct {
	aliases  map[string]string
	declined map[string]bool
}

// NewAliasTable builds a table from seed pairs. Keys and values are
// normalized so seeds may use any capitalization or punctuation.
func NewAliasTable(seeds ...map[string]string) *AliasTable {
	a := &AliasTable{
		aliases:  make(map[string]string),
		declined: make(map[string]bool),
	}
	for _, seed := range seeds {
		for name, title := range seed {
			a.Bind(name, title)
		}
	}
	return a
}

// Lookup returns the table title bound to name.
func (a *AliasTable) Lookup(name string) (string, bool) {
	title, ok := a.aliases[NormalizeName(name)]
	return title, ok
}

// Bind maps name to title, replacing any earlier binding or decline.
func (a *AliasTable) Bind(name, title string) {
	key := NormalizeName(name)
	a.aliases[key] = NormalizeTitle(title)
	delete(a.declined, key)
}

// Decline records that the operator rejected every candidate for name.
func (a *AliasTable) Decline(name string) {
	a.declined[NormalizeName(name)] = true
}

// Declined reports whether name was declined earlier in the run.
func (a *AliasTable) Declined(name string) bool {
	return a.declined[NormalizeName(name)]
}

// Len returns the number of bound aliases.
func (a *AliasTable) Len() int {
	return len(a.aliases)
}

// Entries returns a copy of the bound aliases.
func (a *AliasTable) Entries() map[string]string {
	out := make(map[string]string, len(a.aliases))
	for k, v := range a.aliases {
		out[k] = v
	}
	return out
}

// aliasFile is the on-disk form of an alias table.
type aliasFile struct {
	Aliases []aliasEntry `yaml:"aliases"`
}

type aliasEntry struct {
	Journal string `yaml:"journal"`
	Title   string `yaml:"title"`
}

// ReadAliases loads alias pairs from a YAML file.
func ReadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "journal: reading alias file %s", path)
	}
	var af aliasFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return nil, eris.Wrapf(err, "journal: parsing alias file %s", path)
	}
	out := make(map[string]string, len(af.Aliases))
	for _, e := range af.Aliases {
		if e.Journal == "" || e.Title == "" {
			continue
		}
		out[e.Journal] = e.Title
	}
	return out, nil
}

// WriteAliases saves the table's bound aliases to a YAML file, sorted by
// journal name.
func WriteAliases(path string, a *AliasTable) error {
	names := make([]string, 0, len(a.aliases))
	for name := range a.aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	af := aliasFile{Aliases: make([]aliasEntry, 0, len(names))}
	for _, name := range names {
		af.Aliases = append(af.Aliases, aliasEntry{Journal: name, Title: a.aliases[name]})
	}

	data, err := yaml.Marshal(&af)
	if err != nil {
		return eris.Wrap(err, "journal: marshaling aliases")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "journal: writing alias file %s", path)
	}
	return nil
}
