package request

import (
	"fmt"
	"strconv"
	"strings"
)

// Valid values of the orderBy query parameter.
var ValidOrderBy = map[string]bool{
	"symbol": true, "quantity": true, "value": true, "change": true,
}

// SnapshotQuery holds the parsed query of GET /api/portfolio.
type SnapshotQuery struct {
	NumEntries int    // 0 means all
	OrderBy    string // empty keeps symbol order
}

// ParseSnapshotQuery validates the numEntries and orderBy query parameters.
// Both are optional; numEntries must be a positive integer when present.
func ParseSnapshotQuery(numEntriesParam, orderByParam string) (SnapshotQuery, error) {
	var q SnapshotQuery

	if numEntriesParam != "" {
		n, err := strconv.Atoi(strings.TrimSpace(numEntriesParam))
		if err != nil || n < 1 {
			return SnapshotQuery{}, fmt.Errorf("numEntries must be a positive integer, got %q", numEntriesParam)
		}
		q.NumEntries = n
	}

	if orderByParam != "" {
		orderBy := strings.ToLower(strings.TrimSpace(orderByParam))
		if !ValidOrderBy[orderBy] {
			return SnapshotQuery{}, fmt.Errorf("invalid orderBy: %s", orderByParam)
		}
		q.OrderBy = orderBy
	}

	return q, nil
}

// Limits of list endpoints.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ParseLimit validates a limit query parameter, defaulting to DefaultLimit and capping at MaxLimit.
func ParseLimit(limitParam string) (int, error) {
	if limitParam == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(limitParam))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit must be a positive integer, got %q", limitParam)
	}
	return min(n, MaxLimit), nil
}
