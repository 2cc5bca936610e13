package scrape

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table is a parsed HTML table: header labels mapped onto each row's cells.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// parseTable reads one <table> selection into labeled rows. Header labels are
// uppercased and trimmed so lookups survive cosmetic markup changes.
func parseTable(sel *goquery.Selection) *Table {
	t := &Table{}

	sel.Find("thead th, thead td").Each(func(_ int, th *goquery.Selection) {
		t.Headers = append(t.Headers, normalizeHeader(th.Text()))
	})
	if len(t.Headers) == 0 {
		// Some tables put headers in the first body row
		sel.Find("tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
			t.Headers = append(t.Headers, normalizeHeader(th.Text()))
		})
	}
	if len(t.Headers) == 0 {
		return t
	}

	sel.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		// Rows whose cell count differs from the header row are misaligned
		// (colspans, ad rows) and would label the wrong columns.
		if cells.Length() != len(t.Headers) {
			return
		}
		row := make(map[string]string, len(t.Headers))
		cells.Each(func(i int, td *goquery.Selection) {
			row[t.Headers[i]] = strings.TrimSpace(td.Text())
		})
		t.Rows = append(t.Rows, row)
	})
	return t
}

// FindTable returns the first table in the document whose headers include all
// of the wanted labels, or nil.
func FindTable(doc *goquery.Document, want ...string) *Table {
	var found *Table
	doc.Find("table").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		t := parseTable(sel)
		if t.hasHeaders(want...) {
			found = t
			return false
		}
		return true
	})
	return found
}

func (t *Table) hasHeaders(want ...string) bool {
	set := make(map[string]bool, len(t.Headers))
	for _, h := range t.Headers {
		set[h] = true
	}
	for _, w := range want {
		if !set[normalizeHeader(w)] {
			return false
		}
	}
	return true
}

func normalizeHeader(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// cellFloat parses a numeric table cell, tolerating blanks and dashes.
func cellFloat(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" || s == "-" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
