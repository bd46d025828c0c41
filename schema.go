package powerof10

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// cell is the text and first link target of one table cell.
type cell struct {
	text string
	href string
}

func newCell(s *goquery.Selection) cell {
	href, _ := s.Find("a").First().Attr("href")
	return cell{text: cleanText(s.Text()), href: href}
}

// cellsOf returns the td cells of a row.
func cellsOf(row *goquery.Selection) []cell {
	tds := row.Find("td")
	out := make([]cell, 0, tds.Length())
	tds.Each(func(_ int, s *goquery.Selection) {
		out = append(out, newCell(s))
	})
	return out
}

// textCells wraps plain strings, e.g. the segments of a split details block.
func textCells(parts []string) []cell {
	out := make([]cell, len(parts))
	for i, p := range parts {
		out[i] = cell{text: cleanText(p)}
	}
	return out
}

// cleanText trims surrounding whitespace. Non-breaking spaces count as
// whitespace, so a cell holding only &nbsp; becomes "".
func cleanText(s string) string {
	return strings.TrimSpace(s)
}

// refID returns the value after the first "=" of a link such as
// "profile.aspx?athleteid=522041", or "" when there is none.
func refID(href string) string {
	parts := strings.Split(href, "=")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// refIDParam is refID cut at the next parameter separator.
func refIDParam(href string) string {
	id, _, _ := strings.Cut(refID(href), "&")
	return id
}

type cellKind int

const (
	kindText cellKind = iota
	// kindRef reads refID of the cell's link.
	kindRef
	// kindRefParam reads refIDParam of the cell's link.
	kindRefParam
)

// column binds one cell position to one record field.
type column[T any] struct {
	index    int
	kind     cellKind
	optional bool
	set      func(*T, string)
}

func textCol[T any](index int, set func(*T, string)) column[T] {
	return column[T]{index: index, kind: kindText, set: set}
}

func refCol[T any](index int, set func(*T, string)) column[T] {
	return column[T]{index: index, kind: kindRef, set: set}
}

func refParamCol[T any](index int, set func(*T, string)) column[T] {
	return column[T]{index: index, kind: kindRefParam, set: set}
}

// optionalCol marks a column that may be absent on short rows.
func optionalCol[T any](c column[T]) column[T] {
	c.optional = true
	return c
}

// rowSchema is the ordered column table of one endpoint.
type rowSchema[T any] struct {
	name    string
	columns []column[T]
	width   int
}

func newRowSchema[T any](name string, columns ...column[T]) *rowSchema[T] {
	s := &rowSchema[T]{name: name, columns: columns}
	for _, c := range columns {
		if !c.optional && c.index+1 > s.width {
			s.width = c.index + 1
		}
	}
	return s
}

// decode fills a T from cells. A row shorter than the schema is an
// extraction error; optional columns past the end are left empty.
func (s *rowSchema[T]) decode(op string, cells []cell) (T, error) {
	var out T
	if len(cells) < s.width {
		return out, extractionError(op, "%s row has %d cells, want at least %d", s.name, len(cells), s.width)
	}
	for _, c := range s.columns {
		if c.index >= len(cells) {
			continue
		}
		v := cells[c.index]
		switch c.kind {
		case kindRef:
			c.set(&out, refID(v.href))
		case kindRefParam:
			c.set(&out, refIDParam(v.href))
		default:
			c.set(&out, v.text)
		}
	}
	return out, nil
}

// stripped returns a setter that removes a trailing label before trimming.
// The profile details block runs values into the next label, e.g.
// "Sutton & DistrictGender".
func stripped[T any](label string, set func(*T, string)) func(*T, string) {
	return func(t *T, v string) {
		set(t, cleanText(strings.ReplaceAll(v, label, "")))
	}
}
