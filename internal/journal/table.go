// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal resolves free-text journal names to impact-factor records
// from a ranking table, using an alias table, exact lookup, and
// operator-confirmed fuzzy matching.
package journal

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/pdiddy/bibrun/pkg/types"
)

// tableColumns is the column order of ranking table exports.
var tableColumns = []string{"rank", "full_title", "jcr_title", "jif", "jif_percent"}

// tableRow is one raw table row; fields are parsed leniently after decoding.
type tableRow struct {
	Rank       string `csv:"rank"`
	FullTitle  string `csv:"full_title"`
	Title      string `csv:"jcr_title"`
	JIF        string `csv:"jif"`
	Percentile string `csv:"jif_percent"`
}

// Table is the immutable journal ranking table with a first-wins title index.
type Table struct {
	records []types.JournalRecord
	byTitle map[string]int
}

// NewTable indexes records by title. When titles repeat, the first record
// keeps the title.
func NewTable(records []types.JournalRecord) *Table {
	t := &Table{
		records: records,
		byTitle: make(map[string]int, len(records)),
	}
	for i, r := range records {
		if _, ok := t.byTitle[r.Title]; !ok {
			t.byTitle[r.Title] = i
		}
	}
	return t
}

// Lookup returns the first record whose title equals title.
func (t *Table) Lookup(title string) (types.JournalRecord, bool) {
	i, ok := t.byTitle[title]
	if !ok {
		return types.JournalRecord{}, false
	}
	return t.records[i], true
}

// Records returns the records in table order.
func (t *Table) Records() []types.JournalRecord {
	return t.records
}

// Len returns the number of loaded records.
func (t *Table) Len() int {
	return len(t.records)
}

// LoadTable reads a ranking table from a .csv or .xlsx file.
func LoadTable(path string) (*Table, error) {
	var (
		rows []tableRow
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSXRows(path)
	default:
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "journal: open table %s", path)
		}
		defer f.Close()
		rows, err = readCSVRows(f)
	}
	if err != nil {
		return nil, err
	}

	records := parseRows(rows)
	zap.L().Debug("journal table loaded",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
		zap.Int("records", len(records)),
	)
	return NewTable(records), nil
}

// ReadTable reads a headerless ranking table in CSV form from r.
func ReadTable(r io.Reader) (*Table, error) {
	rows, err := readCSVRows(r)
	if err != nil {
		return nil, err
	}
	return NewTable(parseRows(rows)), nil
}

func readCSVRows(r io.Reader) ([]tableRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	dec, err := csvutil.NewDecoder(fixedWidth{r: cr, width: len(tableColumns)}, tableColumns...)
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, eris.Wrap(err, "journal: csv decoder")
	}

	var rows []tableRow
	for {
		var row tableRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, eris.Wrap(err, "journal: decode csv row")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// fixedWidth pads or truncates records so title banners and footers in
// exported tables decode like any other row.
type fixedWidth struct {
	r     *csv.Reader
	width int
}

func (f fixedWidth) Read() ([]string, error) {
	rec, err := f.r.Read()
	if err != nil {
		return nil, err
	}
	if len(rec) > f.width {
		return rec[:f.width], nil
	}
	for len(rec) < f.width {
		rec = append(rec, "")
	}
	return rec, nil
}

func readXLSXRows(path string) ([]tableRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "journal: open xlsx table")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("journal: %s has no sheets", path)
	}

	var rows []tableRow
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(tableColumns))
		for j, cell := range row.Cells {
			if j >= len(cells) {
				break
			}
			cells[j] = cell.String()
		}
		rows = append(rows, tableRow{
			Rank:       cells[0],
			FullTitle:  cells[1],
			Title:      cells[2],
			JIF:        cells[3],
			Percentile: cells[4],
		})
	}
	return rows, nil
}

// parseRows keeps rows with a positive integer rank. Unparseable scores
// become 0 rather than failing the load.
func parseRows(rows []tableRow) []types.JournalRecord {
	records := make([]types.JournalRecord, 0, len(rows))
	for _, row := range rows {
		rank, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(row.Rank, "\ufeff")))
		if err != nil || rank <= 0 {
			continue
		}
		records = append(records, types.JournalRecord{
			Rank:       rank,
			FullTitle:  strings.TrimSpace(row.FullTitle),
			Title:      NormalizeTitle(row.Title),
			JIF:        parseScore(row.JIF),
			Percentile: parseScore(row.Percentile),
		})
	}
	return records
}

func parseScore(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// NormalizeTitle puts a table title in matching form: uppercase with
// hyphens read as spaces.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToUpper(title), "-", " "))
}

// NormalizeName puts an observed journal name in matching form: uppercase
// with periods removed.
func NormalizeName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToUpper(name), ".", ""))
}
