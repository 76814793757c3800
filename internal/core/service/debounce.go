package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/audiotheca/gateway/internal/core/domain"
)

// DefaultQuietPeriod is the debounce interval applied when none is
// configured.
const DefaultQuietPeriod = 300 * time.Millisecond

// SearchFunc issues one upstream search. It must honor ctx cancellation.
type SearchFunc func(ctx context.Context, query string) (*domain.SearchResult, error)

// Outcome is delivered to the submission that was still the newest when
// its request resolved. A nil Result with nil Err means the query text
// was empty and the result was cleared.
type Outcome struct {
	Result *domain.SearchResult
	Err    error
}

// Debouncer turns a rapid stream of query texts into at most one
// upstream request per quiet period. Each submission supersedes the
// previous one: the pending timer is stopped, any in-flight request is
// cancelled, and the superseded submission's channel is closed without a
// value. Only the newest request may update the shared latest result:
// staleness is decided by comparing sequence numbers at resolution time,
// not by trusting cancellation alone.
type Debouncer struct {
	quiet  time.Duration
	search SearchFunc
	log    zerolog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	waiter chan Outcome
	cancel context.CancelFunc
	seq    uint64
	latest *domain.SearchResult
	closed bool
}

func NewDebouncer(quiet time.Duration, search SearchFunc, log zerolog.Logger) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{quiet: quiet, search: search, log: log}
}

// Submit registers the newest query text and returns the channel on
// which this submission's outcome arrives, if it survives the quiet
// period and is not superseded. A closed channel without a value means
// a newer submission won.
func (d *Debouncer) Submit(text string) <-chan Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch := make(chan Outcome, 1)
	if d.closed {
		close(ch)
		return ch
	}

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.waiter != nil {
		close(d.waiter)
	}
	d.waiter = ch
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.quiet, func() { d.fire(seq, text, ch) })
	return ch
}

// Latest returns the most recently applied result, or nil after the
// query was cleared.
func (d *Debouncer) Latest() *domain.SearchResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}

// Close stops the pending timer, cancels in-flight work, and releases
// the current waiter. Further submissions observe a closed channel.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.waiter != nil {
		close(d.waiter)
		d.waiter = nil
	}
}

func (d *Debouncer) fire(seq uint64, text string, ch chan Outcome) {
	d.mu.Lock()
	if d.closed || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil

	if text == "" {
		d.latest = nil
		d.waiter = nil
		d.mu.Unlock()
		ch <- Outcome{}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	go func() {
		res, err := d.search(ctx, text)
		cancel()

		d.mu.Lock()
		if d.closed || seq != d.seq {
			// A newer submission won while this one was in flight; its
			// response must not touch shared state.
			d.mu.Unlock()
			return
		}
		d.cancel = nil
		d.waiter = nil
		if err == nil {
			d.latest = res
		}
		d.mu.Unlock()

		if err != nil && errors.Is(err, context.Canceled) {
			// Cancellation is control flow, not a failure.
			close(ch)
			return
		}
		if err != nil {
			d.log.Debug().Err(err).Str("query", text).Msg("search failed")
		}
		ch <- Outcome{Result: res, Err: err}
	}()
}
