package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyFilters(t *testing.T) {
	rows := salesRows()

	assert.Len(t, ApplyFilters(rows, nil), 3)
	assert.Len(t, ApplyFilters(rows, Filters{"region": nil}), 3)

	got := ApplyFilters(rows, Filters{"region": {"eu"}})
	assert.Len(t, got, 2)

	got = ApplyFilters(rows, Filters{"region": {"EU", "US"}, "product": {"a"}})
	assert.Len(t, got, 2)
	for _, r := range got {
		c, _ := r.Cell("product", "")
		assert.Equal(t, "A", c.Value)
	}

	assert.Empty(t, ApplyFilters(rows, Filters{"channel": {"web"}}))
}

func TestApplyFiltersRenderedText(t *testing.T) {
	rows := salesRows()
	rows[0]["region"] = rendered("eu-1", "Europe")

	got := ApplyFilters(rows, Filters{"region": {"europe"}})
	assert.Len(t, got, 1)
}
