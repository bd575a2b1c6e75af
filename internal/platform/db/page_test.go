package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNormalize(t *testing.T) {
	p := Page{Limit: 0, Offset: -5, Order: "sideways"}.Normalize()
	assert.Equal(t, Page{Limit: DefaultLimit, Offset: 0, Order: "desc"}, p)

	p = Page{Limit: 1000, Order: "ASC"}.Normalize()
	assert.Equal(t, MaxLimit, p.Limit)
	assert.True(t, p.Asc())
}

func TestPageWindow(t *testing.T) {
	lo, hi := Page{Limit: 2, Offset: 1}.Window(5)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 3, hi)

	lo, hi = Page{Limit: 10, Offset: 3}.Window(5)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 5, hi)

	lo, hi = Page{Limit: 10, Offset: 9}.Window(5)
	assert.Equal(t, lo, hi)
}

func TestParsePage(t *testing.T) {
	p := ParsePage("20", "x", "asc")
	assert.Equal(t, Page{Limit: 20, Offset: 0, Order: "asc"}, p)

	p = ParsePage("", "", "")
	assert.Equal(t, Page{Limit: DefaultLimit, Offset: 0, Order: "desc"}, p)
}
