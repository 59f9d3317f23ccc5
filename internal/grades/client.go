package grades

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/emnesok/emnesok-api/internal/httpx"
	"github.com/emnesok/emnesok-api/internal/institutions"
	"github.com/emnesok/emnesok-api/internal/types"
)

// State tracks one logical grade-data request through its lifecycle. Fetch
// only ever returns the three terminal states; NotRequested and Loading are
// for callers that track a request across time, e.g. a UI that renders a
// spinner while a fetch is in flight and nothing before one started.
type State int

const (
	NotRequested State = iota
	Loading
	Succeeded
	Empty
	Failed
)

func (s State) String() string {
	switch s {
	case NotRequested:
		return "not_requested"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// FetchResult is the terminal outcome of a fetch. Empty means the upstream
// service answered and the course has no recorded statistics; Failed means
// we could not check. The two must never be conflated: the first is a "no
// data" message, the second is a retryable error.
type FetchResult struct {
	State State
	Rows  []types.GradeRow
	Err   error
}

const (
	responseMemoTTL   = 10 * time.Minute
	responseMemoSweep = 20 * time.Minute
)

// statsQuery is the upstream request body. Year 0 means all years.
type statsQuery struct {
	InstitutionCode string `json:"institusjonskode"`
	CourseCode      string `json:"emnekode"`
	Year            int    `json:"arstall,omitempty"`
}

// Client issues one logical request per (institution, course, year-or-all)
// against the upstream statistics service. Responses, including empty ones,
// are memoized for a short TTL so re-selecting a course within a session
// does not refetch; failures are never memoized.
type Client struct {
	apiURL string
	http   *httpx.Client
	memo   *cache.Cache
}

func NewClient(apiURL string, client *httpx.Client) *Client {
	if client == nil {
		client = httpx.New()
	}
	return &Client{
		apiURL: apiURL,
		http:   client,
		memo:   cache.New(responseMemoTTL, responseMemoSweep),
	}
}

// Fetch retrieves the raw grade rows for a course. code is the display
// form; the wire form is derived here. year 0 requests all years. Unknown
// institutions fail synchronously, before any request is issued.
func (c *Client) Fetch(ctx context.Context, tag, code string, year int) FetchResult {
	inst, ok := institutions.Lookup(tag)
	if !ok {
		return FetchResult{State: Failed, Err: fmt.Errorf("%w: %q", types.ErrUnknownInstitution, tag)}
	}

	wire := institutions.ToWireForm(code, inst.Tag)
	key := fmt.Sprintf("%s|%s|%d", inst.Tag, wire, year)
	if v, found := c.memo.Get(key); found {
		return v.(FetchResult)
	}

	var rows []types.GradeRow
	got, err := c.http.PostJSON(ctx, c.apiURL, statsQuery{
		InstitutionCode: inst.Code,
		CourseCode:      wire,
		Year:            year,
	}, &rows)
	if err != nil {
		return FetchResult{
			State: Failed,
			Err:   &types.TransportError{Op: "fetch grades", URL: c.apiURL, Status: statusOf(err), Err: err},
		}
	}

	result := FetchResult{State: Succeeded, Rows: rows}
	if !got || len(rows) == 0 {
		// An explicit no-content signal and an empty row set mean the same
		// thing: the course has no recorded statistics.
		result = FetchResult{State: Empty}
	}
	c.memo.SetDefault(key, result)
	return result
}

func statusOf(err error) int {
	var serr *httpx.StatusError
	if errors.As(err, &serr) {
		return serr.StatusCode
	}
	return 0
}
