package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/artgraph/internal/model"
	"golang.org/x/net/html"
)

const entityPathMarker = "/wiki/Q"

// Cell is one data cell of a table row
type Cell struct {
	Text string
	Href string // href of the first link in the cell, as written in the page
}

// Row holds the data cells of one table row
type Row struct {
	Cells []Cell
}

// Table is the body of an HTML table; the header row is not included
type Table struct {
	Rows []Row
}

// ParseTable parses an HTML page and returns the first table carrying the
// marker class. found is false when the page has no such table.
func ParseTable(r io.Reader, marker string) (table *Table, found bool, err error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, false, fmt.Errorf("parse html: %w", err)
	}

	doc := goquery.NewDocumentFromNode(root)
	sel := doc.Find("table." + marker).First()
	if sel.Length() == 0 {
		return &Table{}, false, nil
	}

	table = &Table{}
	sel.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		var row Row
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cell := Cell{Text: normalizeSpace(td.Text())}
			if href, ok := td.Find("a[href]").First().Attr("href"); ok {
				cell.Href = href
			}
			row.Cells = append(row.Cells, cell)
		})
		table.Rows = append(table.Rows, row)
	})

	return table, true, nil
}

// Identifiers returns the entity identifiers linked from the given column.
// Rows with a single cell are ignored, as are links that do not point at an item page.
func (t *Table) Identifiers(column int) []model.Identifier {
	var ids []model.Identifier
	for _, row := range t.Rows {
		if len(row.Cells) <= 1 || column >= len(row.Cells) {
			continue
		}
		href := row.Cells[column].Href
		if !strings.Contains(href, entityPathMarker) {
			continue
		}
		_, after, _ := strings.Cut(href, "/wiki/")
		if after != "" {
			ids = append(ids, model.Identifier(after))
		}
	}
	return ids
}

// Links returns the first link of every cell except the first column,
// resolved against pageURL, in row then column order.
func (t *Table) Links(pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page URL: %w", err)
	}

	var links []string
	for _, row := range t.Rows {
		for i, cell := range row.Cells {
			if i == 0 || cell.Href == "" {
				continue
			}
			ref, err := url.Parse(cell.Href)
			if err != nil {
				continue
			}
			links = append(links, base.ResolveReference(ref).String())
		}
	}
	return links, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
