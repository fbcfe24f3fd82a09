package forms

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/vova4o/labconsole/internal/console/handlers"
	"github.com/vova4o/labconsole/internal/console/toast"
	"github.com/vova4o/labconsole/package/logger"
)

// State of a form
type State int

// Form states
const (
	Closed State = iota
	OpenCreate
	OpenEdit
	Submitting
)

func (s State) String() string {
	switch s {
	case OpenCreate:
		return "open-create"
	case OpenEdit:
		return "open-edit"
	case Submitting:
		return "submitting"
	default:
		return "closed"
	}
}

// Controller errors
var (
	ErrBusy   = errors.New("a submission is already in progress")
	ErrClosed = errors.New("form is not open")
)

// Config wires a Controller to its entity
type Config[D any] struct {
	// Name is the entity name used in toasts, e.g. "Client"
	Name string
	// Validate runs before any network call
	Validate func(d D, mode State) error
	// Submit performs the single write of the form
	Submit func(ctx context.Context, mode State, d D) error
	// Refresh re-fetches the collection after a successful write
	Refresh func(ctx context.Context) error
	// Release frees transient resources of a discarded draft
	Release func(d D)
	// SuccessMessage overrides the "added/updated successfully" toast
	SuccessMessage string

	Notifier toast.Notifier
	Logger   *logger.Logger
}

// Controller owns one pending draft and its submit/cancel lifecycle.
// At most one write is in flight per controller.
type Controller[D any] struct {
	cfg Config[D]

	mu        sync.Mutex
	state     State
	mode      State
	draft     D
	listeners []func(State)
}

// NewController creates a closed form
func NewController[D any](cfg Config[D]) *Controller[D] {
	return &Controller[D]{cfg: cfg}
}

// Name returns the entity name of the form
func (c *Controller[D]) Name() string {
	return c.cfg.Name
}

// State returns the current state
func (c *Controller[D]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mode returns the open mode, OpenCreate or OpenEdit, while the form is
// open or submitting
func (c *Controller[D]) Mode() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return Closed
	}
	return c.mode
}

// OnStateChange registers a listener for state transitions
func (c *Controller[D]) OnStateChange(fn func(State)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// OpenCreate opens the form with a fresh draft
func (c *Controller[D]) OpenCreate(defaults D) error {
	return c.open(OpenCreate, defaults)
}

// OpenEdit opens the form seeded from an existing entity
func (c *Controller[D]) OpenEdit(seed D) error {
	return c.open(OpenEdit, seed)
}

func (c *Controller[D]) open(mode State, draft D) error {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	previous, hadDraft := c.draft, c.state != Closed
	c.state = mode
	c.mode = mode
	c.draft = draft
	c.mu.Unlock()

	if hadDraft {
		c.release(previous)
	}
	c.cfg.Logger.Debug(c.cfg.Name + " form " + mode.String())
	c.emit(mode)
	return nil
}

// Draft returns a copy of the pending draft
func (c *Controller[D]) Draft() D {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Edit mutates the draft of an open form
func (c *Controller[D]) Edit(fn func(*D)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case Closed:
		return ErrClosed
	case Submitting:
		return ErrBusy
	}
	fn(&c.draft)
	return nil
}

// Cancel discards the draft. It is refused while a write is in flight.
func (c *Controller[D]) Cancel() error {
	c.mu.Lock()
	switch c.state {
	case Submitting:
		c.mu.Unlock()
		return ErrBusy
	case Closed:
		c.mu.Unlock()
		return nil
	}
	draft := c.draft
	var zero D
	c.draft = zero
	c.state = Closed
	c.mu.Unlock()

	c.release(draft)
	c.emit(Closed)
	return nil
}

// Submit validates the draft and performs the write. A second call while
// the first is in flight returns ErrBusy without touching the network.
func (c *Controller[D]) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case Closed:
		c.mu.Unlock()
		return ErrClosed
	case Submitting:
		c.mu.Unlock()
		return ErrBusy
	}
	mode := c.state
	draft := c.draft
	c.state = Submitting
	c.mu.Unlock()

	if c.cfg.Validate != nil {
		if err := c.cfg.Validate(draft, mode); err != nil {
			c.setState(mode)
			c.cfg.Logger.Debug(c.cfg.Name + " draft rejected: " + err.Error())
			c.notifyError(err.Error())
			return err
		}
	}

	c.emit(Submitting)

	if err := c.cfg.Submit(ctx, mode, draft); err != nil {
		c.setState(mode)
		c.emit(mode)
		c.cfg.Logger.Error("Failed to save " + c.cfg.Name + ": " + err.Error())
		c.notifyError(handlers.UserMessage(err, c.cfg.Name))
		return err
	}

	c.mu.Lock()
	var zero D
	c.draft = zero
	c.state = Closed
	c.mu.Unlock()

	c.release(draft)
	c.emit(Closed)

	if c.cfg.Refresh != nil {
		if err := c.cfg.Refresh(ctx); err != nil {
			c.cfg.Logger.Error("Failed to refresh after saving " + c.cfg.Name + ": " + err.Error())
			c.notifyError(c.cfg.Name + " saved, but the list could not be refreshed: " + handlers.UserMessage(err, c.cfg.Name))
		}
	}

	switch {
	case c.cfg.SuccessMessage != "":
		c.notifySuccess(c.cfg.SuccessMessage)
	case mode == OpenEdit:
		c.notifySuccess(c.cfg.Name + " updated successfully")
	default:
		c.notifySuccess(c.cfg.Name + " added successfully")
	}
	return nil
}

func (c *Controller[D]) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller[D]) release(d D) {
	if c.cfg.Release != nil {
		c.cfg.Release(d)
	}
}

func (c *Controller[D]) emit(s State) {
	c.mu.Lock()
	listeners := append([]func(State){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

func (c *Controller[D]) notifyError(msg string) {
	if c.cfg.Notifier != nil {
		c.cfg.Notifier.Error(msg)
	}
}

func (c *Controller[D]) notifySuccess(msg string) {
	if c.cfg.Notifier != nil {
		c.cfg.Notifier.Success(msg)
	}
}
