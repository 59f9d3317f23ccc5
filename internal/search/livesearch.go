package search

import (
	"context"
	"sync"
	"time"

	"github.com/emnesok/emnesok-api/internal/types"
)

const (
	defaultDebounce = 200 * time.Millisecond
	searchTimeout   = 10 * time.Second
)

// Result is one delivery from a LiveSearch. Exactly one of the three
// conditions holds: Err is set (transport-level search failure), NotFound
// is set (zero matches, possibly from the negative cache), or Results
// carries matches.
type Result struct {
	Results   []types.CourseInfo
	NotFound  bool
	FromCache bool
	Err       error
}

// LiveSearch drives search-as-you-type over an Index and a ResultCache.
//
// Every input consults the cache synchronously, so a hit (or a known-empty
// marker) is delivered before OnInput returns. A miss arms a trailing
// debounce timer; rapid keystrokes keep resetting it so at most one index
// search is pending per LiveSearch. Completions are tagged with a
// generation captured at dispatch and are dropped when newer input has
// arrived since: last-dispatched wins, not last-completed.
type LiveSearch struct {
	index *Index
	cache *ResultCache
	delay time.Duration

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer

	// deliverMu serializes deliveries; see send.
	deliverMu sync.Mutex
}

// NewLiveSearch wires a LiveSearch. A delay of 0 selects the default
// debounce.
func NewLiveSearch(index *Index, cache *ResultCache, delay time.Duration) *LiveSearch {
	if delay <= 0 {
		delay = defaultDebounce
	}
	return &LiveSearch{index: index, cache: cache, delay: delay}
}

// OnInput feeds one input-field state to the search. deliver is invoked at
// most once per call: synchronously for cache hits and known-empty markers,
// from the debounce timer otherwise, and never once a newer input exists.
func (ls *LiveSearch) OnInput(q types.SearchQuery, deliver func(Result)) {
	ls.mu.Lock()
	ls.gen++
	gen := ls.gen
	if ls.timer != nil {
		ls.timer.Stop()
		ls.timer = nil
	}

	results, outcome := ls.cache.Get(q.Query, q.Institution)
	switch outcome {
	case Hit:
		ls.mu.Unlock()
		ls.send(gen, Result{Results: results, FromCache: true}, deliver)
		return
	case KnownEmpty:
		ls.mu.Unlock()
		ls.send(gen, Result{NotFound: true, FromCache: true}, deliver)
		return
	}

	ls.timer = time.AfterFunc(ls.delay, func() {
		ls.dispatch(gen, q, deliver)
	})
	ls.mu.Unlock()
}

// Cancel discards any pending dispatch, e.g. when the input field loses
// focus. Later completions of an already-running search are dropped too.
func (ls *LiveSearch) Cancel() {
	ls.mu.Lock()
	ls.gen++
	if ls.timer != nil {
		ls.timer.Stop()
		ls.timer = nil
	}
	ls.mu.Unlock()
}

func (ls *LiveSearch) dispatch(gen uint64, q types.SearchQuery, deliver func(Result)) {
	if !ls.current(gen) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()
	results, err := ls.index.Search(ctx, q)

	var r Result
	switch {
	case err != nil:
		r = Result{Err: err}
	case len(results) == 0:
		ls.cache.MarkNegative(q.Query, q.Institution)
		r = Result{NotFound: true}
	default:
		ls.cache.Put(q.Query, q.Institution, results)
		r = Result{Results: results}
	}
	ls.send(gen, r, deliver)
}

// send performs one delivery. Deliveries are serialized and the generation
// is re-checked once the delivery slot is held, so a completion overtaken by
// newer input after its last check is dropped instead of landing after the
// newer delivery. deliver must not call back into the same LiveSearch.
func (ls *LiveSearch) send(gen uint64, r Result, deliver func(Result)) {
	ls.deliverMu.Lock()
	defer ls.deliverMu.Unlock()
	if !ls.current(gen) {
		return
	}
	deliver(r)
}

func (ls *LiveSearch) current(gen uint64) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return gen == ls.gen
}
