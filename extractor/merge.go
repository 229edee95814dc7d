package extractor

// merge.go: the variant merge/dedup rule from spec.md §4.2 — the one
// exception to "highest-priority strategy wins": all strategies'
// variants are unioned, then collapsed by identity, preferring the
// candidate with more fields populated and breaking ties by strategy
// priority (lower priorityRank wins).

type variantCandidate struct {
	shell        VariantShell
	priorityRank int
}

// variantKey returns the identity key two candidates must share to be
// considered the same variant: id or sku when present (spec.md §4.2(a)),
// else the normalized, key-sorted attribute map (§4.2(b)).
func variantKey(v VariantShell) string {
	switch {
	case v.ID != "":
		return "id:" + v.ID
	case v.SKU != "":
		return "sku:" + v.SKU
	default:
		return "attrs:" + v.Attributes.Key()
	}
}

// mergeVariants unions candidates across strategies (each already tagged
// with its strategy's priority rank, lower = higher priority) and
// collapses duplicates per variantKey, keeping the most complete
// candidate and breaking ties by priority rank.
func mergeVariants(candidates []variantCandidate) []VariantShell {
	bestByKey := make(map[string]variantCandidate)
	order := make([]string, 0, len(candidates))

	for _, c := range candidates {
		key := variantKey(c.shell)
		existing, seen := bestByKey[key]
		if !seen {
			bestByKey[key] = c
			order = append(order, key)
			continue
		}
		if betterCandidate(c, existing) {
			bestByKey[key] = c
		}
	}

	out := make([]VariantShell, 0, len(order))
	for _, key := range order {
		out = append(out, bestByKey[key].shell)
	}
	return out
}

// betterCandidate reports whether a should replace b as the representative
// for a shared identity key: more populated fields wins; on a tie, the
// higher-priority (lower rank) strategy wins.
func betterCandidate(a, b variantCandidate) bool {
	af, bf := a.shell.fieldCount(), b.shell.fieldCount()
	if af != bf {
		return af > bf
	}
	return a.priorityRank < b.priorityRank
}
