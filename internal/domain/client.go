package domain

import (
	"context"
)

// ContentSearcher executes searches against the Responsive content
// library. The single implementation lives in infrastructure; handlers
// depend on this interface so tests can substitute a fake.
//
// Search never returns a Go error: every failure mode is classified
// into the RemoteResult's ErrorEnvelope so callers always receive a
// uniform value.
type ContentSearcher interface {
	Search(ctx context.Context, req *SearchRequest) RemoteResult
}
