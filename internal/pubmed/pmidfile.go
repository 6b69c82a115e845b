// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadPMIDFile reads a newline-delimited PMID list.
func ReadPMIDFile(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pubmed: opening PMID file %s", path)
	}
	defer f.Close()
	return ParsePMIDs(f)
}

// ParsePMIDs reads one PMID per line. Blank lines and lines starting with
// '#' are skipped; duplicates keep their first position.
func ParsePMIDs(r io.Reader) ([]int, error) {
	var ids []int
	seen := make(map[int]bool)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		id, err := strconv.Atoi(text)
		if err != nil || id <= 0 {
			return nil, eris.Errorf("pubmed: line %d: %q is not a PMID", line, text)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "pubmed: reading PMID list")
	}
	return ids, nil
}
