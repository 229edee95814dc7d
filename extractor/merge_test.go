package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shelfwatch/observer/internal/core"
)

func TestMergeVariants_DeduplicatesByAttributeKey(t *testing.T) {
	a := VariantShell{Attributes: core.Attributes{"size": "S", "color": "Red"}}
	b := VariantShell{Attributes: core.Attributes{"color": "Red", "size": "S"}, SKU: ""}

	merged := mergeVariants([]variantCandidate{
		{shell: a, priorityRank: 0},
		{shell: b, priorityRank: 1},
	})

	assert.Len(t, merged, 1)
}

func TestMergeVariants_PrefersMoreCompleteCandidate(t *testing.T) {
	sparse := VariantShell{Attributes: core.Attributes{"size": "S"}, Source: "dom"}
	rich := VariantShell{
		Attributes: core.Attributes{"size": "S"},
		Price:      &PriceShell{Raw: "9.99"},
		Stock:      &StockShell{Status: core.StockInStock},
		Source:     "json-ld",
	}

	merged := mergeVariants([]variantCandidate{
		{shell: sparse, priorityRank: 2},
		{shell: rich, priorityRank: 0},
	})

	assert.Len(t, merged, 1)
	assert.Equal(t, "json-ld", merged[0].Source)
}

func TestMergeVariants_IdentityBySKUWhenPresent(t *testing.T) {
	a := VariantShell{SKU: "ABC-1", Attributes: core.Attributes{"size": "S"}}
	b := VariantShell{SKU: "ABC-1", Attributes: core.Attributes{"size": "M"}} // conflicting attrs, same sku

	merged := mergeVariants([]variantCandidate{
		{shell: a, priorityRank: 0},
		{shell: b, priorityRank: 1},
	})

	assert.Len(t, merged, 1, "same SKU must collapse to one variant regardless of attribute content")
}

func TestMergeVariants_DistinctAttributesStayDistinct(t *testing.T) {
	a := VariantShell{Attributes: core.Attributes{"size": "S"}}
	b := VariantShell{Attributes: core.Attributes{"size": "M"}}

	merged := mergeVariants([]variantCandidate{
		{shell: a, priorityRank: 0},
		{shell: b, priorityRank: 0},
	})

	assert.Len(t, merged, 2)
}
