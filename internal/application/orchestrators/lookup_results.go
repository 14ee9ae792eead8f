package orchestrators

import (
	"context"
	"errors"
	"fmt"

	"clansite/internal/domain/result"
)

// ErrNoResults signals that no result is registered for the phone number.
var ErrNoResults = errors.New("no results found for this phone number")

// ResultStoreForLookup defines the store interface needed by LookupResults.
type ResultStoreForLookup interface {
	ListByPhone(ctx context.Context, phone string) ([]result.Result, error)
}

// LookupResultsDeps holds dependencies for LookupResults.
type LookupResultsDeps struct {
	ResultStore ResultStoreForLookup
}

// ExecuteLookupResults returns a player's results, newest first.
// POST: a non-empty slice, or ErrNoResults
func ExecuteLookupResults(ctx context.Context, phone string, deps LookupResultsDeps) ([]result.Result, error) {
	results, err := deps.ResultStore.ListByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	return results, nil
}
