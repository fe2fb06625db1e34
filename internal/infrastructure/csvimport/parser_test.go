package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserReadsRowsByHeader(t *testing.T) {
	input := "name,slug,price\nWidget,widget,19.99\nGadget,gadget,5.00\n"
	p, err := NewParser(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "slug", "price"}, p.Headers())

	rows, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Widget", rows[0].Get("name"))
	assert.Equal(t, "5.00", rows[1].Get("price"))
}

func TestParserStripsBOMAndLowercasesHeaders(t *testing.T) {
	input := "\xEF\xBB\xBFName,SLUG\nWidget,widget\n"
	p, err := NewParser(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "slug"}, p.Headers())
	row, err := p.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, "Widget", row.Get("name"))
}

func TestParserSkipsEmptyRows(t *testing.T) {
	input := "name,slug\nWidget,widget\n,\nGadget,gadget\n"
	p, err := NewParser(strings.NewReader(input))
	require.NoError(t, err)

	rows, err := p.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestParserToleratesShortRows(t *testing.T) {
	input := "name,slug,price\nWidget,widget\n"
	p, err := NewParser(strings.NewReader(input))
	require.NoError(t, err)

	row, err := p.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, "", row.Get("price"))
}

func TestParserRejectsEmptyFile(t *testing.T) {
	_, err := NewParser(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParserRejectsInvalidEncoding(t *testing.T) {
	_, err := NewParserFromBytes([]byte{0xFF, 0xFE, 0x00, 0x41})
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestParserHeaderOnlyFile(t *testing.T) {
	p, err := NewParser(strings.NewReader("name,slug\n"))
	require.NoError(t, err)

	_, err = p.ReadRow()
	assert.Equal(t, io.EOF, err)

	_, err = NewParser(strings.NewReader("name,slug\n"))
	require.NoError(t, err)
	rows, err := p.ReadAll()
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestMissingHeaders(t *testing.T) {
	p, err := NewParser(strings.NewReader("name,price\nWidget,1\n"))
	require.NoError(t, err)

	missing := p.MissingHeaders([]string{"name", "slug", "price"})
	assert.Equal(t, []string{"slug"}, missing)
}

func TestErrorCollectionCapsKeptErrors(t *testing.T) {
	ec := NewErrorCollection(2)
	for i := 1; i <= 5; i++ {
		ec.Add(NewRowError(i, "slug", ErrCodeInvalidValue, "bad slug"))
	}

	assert.Len(t, ec.Errors(), 2)
	assert.Equal(t, 5, ec.Total())
	assert.True(t, ec.HasErrors())
}
