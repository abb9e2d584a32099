package api

import (
	"strconv"
	"strings"
)

// Query-parameter parsing for the catalog endpoints. The leniencies here are
// deliberate, documented API behavior: malformed id lists and malformed price
// bounds silently drop the corresponding filter instead of erroring, and an
// absent parameter means "no constraint".

// parseIDList splits a comma-separated list and keeps only the tokens that
// parse as integers. A list with no valid tokens imposes no filter.
func parseIDList(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, token := range strings.Split(raw, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// parsePriceRange parses both bounds together. If either fails to parse the
// whole price filter is skipped, so both pointers are nil or both are set.
func parsePriceRange(minRaw, maxRaw string) (*float64, *float64) {
	minPrice, err := strconv.ParseFloat(minRaw, 64)
	if err != nil {
		return nil, nil
	}
	maxPrice, err := strconv.ParseFloat(maxRaw, 64)
	if err != nil {
		return nil, nil
	}
	return &minPrice, &maxPrice
}

// parsePositiveInt returns the fallback when the value is absent, malformed
// or below one.
func parsePositiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// queryValue returns the parameter's value, or the fallback when absent.
// An explicitly empty parameter keeps the fallback, matching the original
// API's treatment of empty strings as "not provided".
func queryValue(raw, fallback string) string {
	if raw == "" {
		return fallback
	}
	return raw
}

// totalPages is ceil(total/limit), zero when nothing matched.
func totalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
