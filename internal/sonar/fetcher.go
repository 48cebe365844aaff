// File: internal/sonar/fetcher.go
package sonar

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultPageSize is the fixed page size requested from the server.
const DefaultPageSize = 500

// State is the fetch loop's position in its lifecycle. The loop is an
// explicit state machine so the termination and failure conditions can
// be exercised independently.
type State int

const (
	// StateFetching means more pages may remain.
	StateFetching State = iota
	// StateDone means the loop terminated successfully.
	StateDone
	// StateFailed means a page fetch failed and the run is aborted.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// searcher is the single call the fetch loop needs from the client.
type searcher interface {
	Search(ctx context.Context, project string, page, pageSize int) (*SearchResponse, error)
}

// Fetcher drives the paginated search loop for one project and
// accumulates every page into a single ResultSet. It issues one
// blocking request at a time and supports no mid-loop recovery: the
// only exits are successful termination or a hard failure with no
// partial result.
type Fetcher struct {
	client   searcher
	project  string
	pageSize int
	logger   *zap.Logger

	state      State
	err        error
	page       int
	hotspots   []Hotspot
	components []Component
}

// NewFetcher creates a Fetcher for the given project. A pageSize of
// zero or less falls back to DefaultPageSize.
func NewFetcher(client searcher, project string, pageSize int, logger *zap.Logger) *Fetcher {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client:   client,
		project:  project,
		pageSize: pageSize,
		logger:   logger.Named("fetcher"),
		state:    StateFetching,
		page:     1,
	}
}

// State reports the loop's current lifecycle state.
func (f *Fetcher) State() State { return f.state }

// FetchAll runs the page loop to completion and returns the merged
// result set. On failure no partial result is returned. There is no
// upper bound on the page count beyond the two termination tests; a
// server that never satisfies either iterates until ctx is canceled.
func (f *Fetcher) FetchAll(ctx context.Context) (*ResultSet, error) {
	for f.state == StateFetching {
		f.step(ctx)
	}
	if f.state == StateFailed {
		return nil, f.err
	}

	f.logger.Info("Hotspot fetch complete",
		zap.Int("total_hotspots", len(f.hotspots)),
		zap.Int("pages", f.page),
	)

	return &ResultSet{
		// The paging summary reflects the loop's own bookkeeping, not
		// the server's self-reported total.
		Paging: Paging{
			PageIndex: f.page,
			PageSize:  f.pageSize,
			Total:     len(f.hotspots),
		},
		Hotspots:   f.hotspots,
		Components: f.components,
	}, nil
}

// step fetches the current page and advances the state machine.
func (f *Fetcher) step(ctx context.Context) {
	resp, err := f.client.Search(ctx, f.project, f.page, f.pageSize)
	if err != nil {
		f.state = StateFailed
		f.err = fmt.Errorf("fetching page %d: %w", f.page, err)
		return
	}

	// An absent or empty hotspot list means this page and every page
	// after it are empty; the loop ends successfully.
	if len(resp.Hotspots) == 0 {
		f.state = StateDone
		return
	}

	f.hotspots = append(f.hotspots, resp.Hotspots...)
	f.components = append(f.components, resp.Components...)

	f.logger.Debug("Accumulated page",
		zap.Int("page", f.page),
		zap.Int("page_hotspots", len(resp.Hotspots)),
		zap.Int("total_hotspots", len(f.hotspots)),
	)

	// Termination test, evaluated after appending and before the page
	// counter moves. This deliberately trusts the server-echoed paging
	// metadata rather than the accumulated count: if the metadata is
	// absent both sides decode to zero and the loop stops here.
	paging := resp.Paging
	if paging.PageIndex*paging.PageSize >= paging.Total {
		f.state = StateDone
		return
	}

	f.page++
}
