package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int64
	}{
		{"empty", "", nil},
		{"single", "5", []int64{5}},
		{"multiple", "1,2,3", []int64{1, 2, 3}},
		{"spaces", " 1 , 2 ", []int64{1, 2}},
		{"mixed tokens keep numeric only", "1,abc,3", []int64{1, 3}},
		{"all malformed drops filter", "abc,def", nil},
		{"trailing comma", "1,2,", []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseIDList(tt.raw))
		})
	}
}

func TestParsePriceRange(t *testing.T) {
	minPrice, maxPrice := parsePriceRange("1000", "5000")
	if assert.NotNil(t, minPrice) && assert.NotNil(t, maxPrice) {
		assert.Equal(t, 1000.0, *minPrice)
		assert.Equal(t, 5000.0, *maxPrice)
	}

	// Either malformed bound silently drops the whole price filter.
	minPrice, maxPrice = parsePriceRange("abc", "5000")
	assert.Nil(t, minPrice)
	assert.Nil(t, maxPrice)

	minPrice, maxPrice = parsePriceRange("1000", "oops")
	assert.Nil(t, minPrice)
	assert.Nil(t, maxPrice)
}

func TestParsePositiveInt(t *testing.T) {
	assert.Equal(t, 3, parsePositiveInt("3", 1))
	assert.Equal(t, 1, parsePositiveInt("", 1))
	assert.Equal(t, 24, parsePositiveInt("abc", 24))
	assert.Equal(t, 1, parsePositiveInt("0", 1))
	assert.Equal(t, 1, parsePositiveInt("-2", 1))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 24))
	assert.Equal(t, 1, totalPages(1, 24))
	assert.Equal(t, 1, totalPages(24, 24))
	assert.Equal(t, 2, totalPages(25, 24))
	assert.Equal(t, 5, totalPages(50, 10))
}
