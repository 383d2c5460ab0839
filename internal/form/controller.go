package form

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultCopyReset is how long the copy confirmation stays on.
const DefaultCopyReset = 2 * time.Second

// unknownErrorMessage is stored when the enhancer panics instead of returning an error.
const unknownErrorMessage = "An unknown error occurred"

// Enhancer turns a composed prompt into specification text.
type Enhancer interface {
	Enhance(ctx context.Context, composedPrompt string) (string, error)
}

// Clipboard receives copied results. Writes are fire-and-forget.
type Clipboard interface {
	WriteText(text string) error
}

// Timer is a pending scheduled call that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. The default is time.AfterFunc.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Controller.
type Option func(*Controller)

// WithCopyReset overrides the copy confirmation delay.
func WithCopyReset(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.copyReset = d
		}
	}
}

// WithScheduler replaces the timer source used for the copy confirmation.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.schedule = s
		}
	}
}

// Controller owns one FormState and drives it with the form's commands.
// The enhancer call runs without holding the lock, so the text fields stay
// editable while a request is in flight.
type Controller struct {
	mu        sync.Mutex
	state     FormState
	enhancer  Enhancer
	clipboard Clipboard

	copyReset time.Duration
	schedule  Scheduler
	copyTimer Timer
	copyGen   uint64

	listeners []func(FormState)
}

// NewController returns a controller in the idle phase.
func NewController(enhancer Enhancer, clipboard Clipboard, opts ...Option) *Controller {
	c := &Controller{
		enhancer:  enhancer,
		clipboard: clipboard,
		copyReset: DefaultCopyReset,
		schedule:  afterFunc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers fn to be called with a snapshot after every state change.
// Listeners run on the goroutine that caused the change, including the copy timer's.
func (c *Controller) OnChange(fn func(FormState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// State returns a snapshot of the current state.
func (c *Controller) State() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UpdateIdea replaces the idea text.
func (c *Controller) UpdateIdea(text string) FormState {
	return c.apply(func(s FormState) FormState { return s.WithIdea(text) })
}

// UpdateContext replaces the context text.
func (c *Controller) UpdateContext(text string) FormState {
	return c.apply(func(s FormState) FormState { return s.WithContext(text) })
}

// Submit runs one enhancement for the current idea and context and blocks
// until it finishes. It returns false without touching the state when the
// idea is blank or a request is already in flight.
func (c *Controller) Submit(ctx context.Context) (started bool) {
	req, ok := c.begin()
	if !ok {
		return false
	}
	c.run(ctx, req)
	return true
}

// Start is Submit without the wait: the enhancement runs on its own goroutine
// and done is closed once the Success or Failed state has been stored.
func (c *Controller) Start(ctx context.Context) (done <-chan struct{}, ok bool) {
	req, ok := c.begin()
	if !ok {
		return nil, false
	}
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		c.run(ctx, req)
	}()
	return ch, true
}

func (c *Controller) begin() (EnhancementRequest, bool) {
	c.mu.Lock()
	next, req, ok := c.state.Begin()
	if !ok {
		loading := c.state.Loading
		c.mu.Unlock()
		log.Debug().Bool("loading", loading).Msg("Submit ignored")
		return EnhancementRequest{}, false
	}
	c.state = next
	snapshot, listeners := c.state, c.listeners
	c.mu.Unlock()
	notify(listeners, snapshot)
	return req, true
}

// run calls the enhancer and always stores Success or Failed, even if it panics.
func (c *Controller) run(ctx context.Context, req EnhancementRequest) {
	var (
		result string
		err    error
	)
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Enhancer panicked")
			result, err = "", errUnknown
		}
		c.apply(func(s FormState) FormState {
			if err != nil {
				msg := err.Error()
				if msg == "" {
					msg = unknownErrorMessage
				}
				return s.Fail(msg)
			}
			return s.Succeed(result)
		})
	}()

	start := time.Now()
	result, err = c.enhancer.Enhance(ctx, req.Prompt())
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("Enhancement failed")
	} else {
		log.Info().Dur("elapsed", time.Since(start)).Msg("Enhancement succeeded")
	}
}

// CopyResult writes the result to the clipboard and turns on the copy
// confirmation for the reset delay. A repeat call restarts the delay.
// It returns false when there is no result.
func (c *Controller) CopyResult() bool {
	c.mu.Lock()
	next, ok := c.state.MarkCopied()
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.state = next
	if c.copyTimer != nil {
		c.copyTimer.Stop()
	}
	c.copyGen++
	gen := c.copyGen
	c.copyTimer = c.schedule(c.copyReset, func() { c.revertCopied(gen) })
	snapshot, listeners := c.state, c.listeners
	c.mu.Unlock()

	if c.clipboard != nil {
		if err := c.clipboard.WriteText(snapshot.Result); err != nil {
			log.Warn().Err(err).Msg("Failed to write result to clipboard")
		}
	}
	notify(listeners, snapshot)
	return true
}

// Close cancels the pending copy confirmation reset, if any.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.copyTimer != nil {
		c.copyTimer.Stop()
		c.copyTimer = nil
	}
	c.copyGen++
}

// revertCopied clears the confirmation unless a newer copy superseded gen.
func (c *Controller) revertCopied(gen uint64) {
	c.mu.Lock()
	if gen != c.copyGen {
		c.mu.Unlock()
		return
	}
	c.state = c.state.ClearCopied()
	c.copyTimer = nil
	snapshot, listeners := c.state, c.listeners
	c.mu.Unlock()
	notify(listeners, snapshot)
}

func (c *Controller) apply(fn func(FormState) FormState) FormState {
	c.mu.Lock()
	c.state = fn(c.state)
	snapshot, listeners := c.state, c.listeners
	c.mu.Unlock()
	notify(listeners, snapshot)
	return snapshot
}

func notify(listeners []func(FormState), s FormState) {
	for _, fn := range listeners {
		fn(s)
	}
}
