package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// hitBatchSize is how many hits one bleve request fetches when paging through all matches.
var hitBatchSize = 500

// Search returns IDs of recipes matching q, best match first.
// A positive limit caps the result; zero or less returns every match.
// An empty query matches nothing.
func (s *SearchIndex) Search(ctx context.Context, q string, limit int) ([]int64, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []int64{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sq := buildSearchQuery(q)
	ids := []int64{}
	offset := 0
	for {
		size := hitBatchSize
		if limit > 0 {
			size = min(size, limit-offset)
		}

		req := bleve.NewSearchRequestOptions(sq, size, offset, false)
		// Ties break on the document id so batches never overlap.
		req.SortBy([]string{"-_score", "_id"})

		result, err := s.index.SearchInContext(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("execute search: %w", err)
		}
		offset += len(result.Hits)

		for _, hit := range result.Hits {
			id, err := strconv.ParseInt(hit.ID, 10, 64)
			if err != nil {
				s.logger.Warn("skipping search hit with malformed id", "id", hit.ID)
				continue
			}
			ids = append(ids, id)
		}

		if len(result.Hits) < size || uint64(offset) >= result.Total || (limit > 0 && offset >= limit) {
			return ids, nil
		}
	}
}

// buildSearchQuery matches q against every text field with the recipe
// name weighted highest. A prefix query on the name serves as-you-type lookups.
func buildSearchQuery(q string) query.Query {
	fields := []struct {
		name  string
		boost float64
	}{
		{"name", 3.0},
		{"ingredients", 1.5},
		{"tags", 1.2},
		{"text", 1.0},
	}

	queries := make([]query.Query, 0, len(fields)+1)
	for _, f := range fields {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(f.name)
		mq.SetBoost(f.boost)
		queries = append(queries, mq)
	}

	// Prefix queries are not analyzed, so only single lowercase terms make sense.
	if term := strings.ToLower(q); len([]rune(term)) >= 2 && !strings.ContainsAny(term, " \t") {
		pq := bleve.NewPrefixQuery(term)
		pq.SetField("name")
		pq.SetBoost(0.5)
		queries = append(queries, pq)
	}

	return bleve.NewDisjunctionQuery(queries...)
}
