package powerof10

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefID(t *testing.T) {
	tests := []struct {
		href      string
		want      string
		wantParam string
	}{
		{"profile.aspx?athleteid=522041", "522041", "522041"},
		{"/results/results.aspx?meetingid=999&event=400", "999&event", "999"},
		{"/athletes/profile.aspx", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := refID(tt.href); got != tt.want {
			t.Errorf("refID(%q) = %q, want %q", tt.href, got, tt.want)
		}
		if got := refIDParam(tt.href); got != tt.wantParam {
			t.Errorf("refIDParam(%q) = %q, want %q", tt.href, got, tt.wantParam)
		}
	}
}

func TestCleanTextNbsp(t *testing.T) {
	require.Equal(t, "", cleanText("\u00a0 \u00a0"))
	require.Equal(t, "Kingston", cleanText("\n  Kingston\u00a0 "))
}

type pair struct {
	Left, Right, Extra string
}

func TestRowSchemaDecode(t *testing.T) {
	schema := newRowSchema("pair",
		textCol(0, func(p *pair, v string) { p.Left = v }),
		refCol(1, func(p *pair, v string) { p.Right = v }),
		optionalCol(textCol(3, func(p *pair, v string) { p.Extra = v })),
	)
	require.Equal(t, 2, schema.width)

	got, err := schema.decode("Test", []cell{{text: "a"}, {text: "b", href: "x.aspx?id=7"}})
	require.NoError(t, err)
	require.Equal(t, pair{Left: "a", Right: "7"}, got)

	got, err = schema.decode("Test", []cell{{text: "a"}, {}, {}, {text: "d"}})
	require.NoError(t, err)
	require.Equal(t, "d", got.Extra)

	_, err = schema.decode("Test", []cell{{text: "a"}})
	require.True(t, errors.Is(err, ErrExtraction))
	require.Contains(t, err.Error(), "pair row has 1 cells, want at least 2")
}

func TestCellsOf(t *testing.T) {
	doc := mustDoc(t, `<table><tr><td> One </td><td><a href="p.aspx?athleteid=3">Two</a></td><td>&nbsp;</td></tr></table>`)
	cells := cellsOf(doc.Find("tr").First())
	require.Equal(t, []cell{
		{text: "One"},
		{text: "Two", href: "p.aspx?athleteid=3"},
		{text: ""},
	}, cells)
}

func TestStripped(t *testing.T) {
	var got string
	set := stripped("Gender", func(s *string, v string) { *s = v })
	set(&got, " Sutton & DistrictGender")
	require.Equal(t, "Sutton & District", got)
}
