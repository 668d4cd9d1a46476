// Package search ranks and filters item snapshots. An Index is built from the
// current approved-item collection, queried, and discarded; it never writes
// back to the store.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/lkosir/najdeno/internal/model"
)

// Field weights and the admission threshold for fuzzy matches. The threshold
// is tuned to tolerate minor misspellings while rejecting unrelated text.
const (
	titleWeight = 0.7
	descWeight  = 0.3
	threshold   = 0.4
)

// Filter narrows results by exact match. Zero values mean "no constraint".
// Filters are applied after ranking and never reorder survivors.
type Filter struct {
	Type     model.ItemType
	Category model.Category
}

// Index is an immutable snapshot of items with pre-tokenized text fields.
type Index struct {
	items  []model.Item
	titles [][]string
	descs  [][]string
}

// NewIndex builds an index over a snapshot of items, preserving their order.
func NewIndex(items []model.Item) *Index {
	ix := &Index{
		items:  items,
		titles: make([][]string, len(items)),
		descs:  make([][]string, len(items)),
	}
	for i, item := range items {
		ix.titles[i] = tokenize(item.Title)
		ix.descs[i] = tokenize(item.Description)
	}
	return ix
}

// Search returns items matching the query and filter, best match first.
// With an empty query the snapshot order is preserved and only the filter
// applies. The result is a pure function of the snapshot, query and filter.
func (ix *Index) Search(query string, filter Filter) []model.Item {
	queryTokens := tokenize(query)

	type ranked struct {
		index int
		score float64
	}

	var survivors []ranked
	for i := range ix.items {
		score := 0.0
		if len(queryTokens) > 0 {
			score = titleWeight*fieldScore(queryTokens, ix.titles[i]) +
				descWeight*fieldScore(queryTokens, ix.descs[i])
			if score < threshold {
				continue
			}
		}
		survivors = append(survivors, ranked{index: i, score: score})
	}

	// Stable sort keeps snapshot order for equal scores, which also makes
	// the empty-query case a no-op reordering.
	sort.SliceStable(survivors, func(a, b int) bool {
		return survivors[a].score > survivors[b].score
	})

	results := []model.Item{}
	for _, r := range survivors {
		item := ix.items[r.index]
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		results = append(results, item)
	}
	return results
}

// fieldScore is the mean, over query tokens, of each token's best similarity
// against the field's tokens.
func fieldScore(queryTokens, fieldTokens []string) float64 {
	if len(fieldTokens) == 0 {
		return 0
	}
	total := 0.0
	for _, q := range queryTokens {
		best := 0.0
		for _, f := range fieldTokens {
			if s := similarity(q, f); s > best {
				best = s
			}
		}
		total += best
	}
	return total / float64(len(queryTokens))
}

// similarity maps Levenshtein distance to [0, 1], 1 meaning identical.
func similarity(a, b string) float64 {
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// tokenize lower-cases and splits on anything that isn't a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
