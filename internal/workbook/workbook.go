// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workbook writes the assessment spreadsheet: one detail row per
// publication on the pubData sheet and the per-category, per-year summary
// on the Summary sheet.
package workbook

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/bibrun/pkg/types"
)

// Sheet names.
const (
	DetailSheet  = "pubData"
	SummarySheet = "Summary"
)

// Writer saves workbooks to Path.
type Writer struct {
	Path string
}

// Write builds the workbook and saves it to w.Path.
func (w *Writer) Write(pubs []*types.Publication, buckets []types.SummaryBucket) error {
	if w.Path == "" {
		return eris.New("workbook: no output path")
	}
	f, err := Build(pubs, buckets)
	if err != nil {
		return err
	}
	if err := f.Save(w.Path); err != nil {
		return eris.Wrapf(err, "workbook: saving %s", w.Path)
	}
	zap.L().Info("workbook written",
		zap.String("path", w.Path),
		zap.Int("publications", len(pubs)),
		zap.Int("summary_rows", len(buckets)),
	)
	return nil
}

// Build lays out both sheets in memory.
func Build(pubs []*types.Publication, buckets []types.SummaryBucket) (*xlsx.File, error) {
	f := xlsx.NewFile()
	bold := boldStyle()

	detail, err := f.AddSheet(DetailSheet)
	if err != nil {
		return nil, eris.Wrap(err, "workbook: adding detail sheet")
	}
	writeDetail(detail, pubs, bold)

	summary, err := f.AddSheet(SummarySheet)
	if err != nil {
		return nil, eris.Wrap(err, "workbook: adding summary sheet")
	}
	writeSummary(summary, buckets, bold)
	return f, nil
}

func boldStyle() *xlsx.Style {
	s := xlsx.NewStyle()
	s.Font.Bold = true
	s.ApplyFont = true
	return s
}

// DetailColumns returns the union of the publications' field keys in
// sorted order.
func DetailColumns(rows []map[string]any) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

var titleCaser = cases.Title(language.English)

// HeaderText turns a raw source key like "relative_citation_ratio" into
// "Relative Citation Ratio". Keys that already carry capitals are column
// names bibrun assigned and are kept as they are.
func HeaderText(key string) string {
	if key != strings.ToLower(key) {
		return key
	}
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

func writeDetail(sheet *xlsx.Sheet, pubs []*types.Publication, bold *xlsx.Style) {
	rows := make([]map[string]any, len(pubs))
	for i, p := range pubs {
		rows[i] = p.Fields()
	}
	cols := DetailColumns(rows)

	header := sheet.AddRow()
	for _, c := range cols {
		cell := header.AddCell()
		cell.SetString(HeaderText(c))
		cell.SetStyle(bold)
	}

	for _, fields := range rows {
		row := sheet.AddRow()
		for _, c := range cols {
			setValue(row.AddCell(), fields[c])
		}
	}
}

// writeSummary emits the header row before each category group.
func writeSummary(sheet *xlsx.Sheet, buckets []types.SummaryBucket, bold *xlsx.Style) {
	cols := types.SummaryColumns()
	for i, b := range buckets {
		if i == 0 || b.Category != buckets[i-1].Category {
			header := sheet.AddRow()
			for _, c := range cols {
				cell := header.AddCell()
				cell.SetString(c)
				cell.SetStyle(bold)
			}
		}
		row := sheet.AddRow()
		for _, v := range b.Row() {
			setValue(row.AddCell(), v)
		}
	}
}

// setValue leaves the cell blank for nil.
func setValue(cell *xlsx.Cell, v any) {
	switch val := v.(type) {
	case nil:
	case string:
		cell.SetString(val)
	case int:
		cell.SetInt(val)
	case float64:
		cell.SetFloat(val)
	case bool:
		cell.SetBool(val)
	default:
		cell.SetString(fmt.Sprint(val))
	}
}
