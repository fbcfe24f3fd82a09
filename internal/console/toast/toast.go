package toast

import (
	"sync"
	"time"

	"github.com/vova4o/labconsole/package/logger"
)

// Kind of a toast
type Kind int

// Toast kinds
const (
	Success Kind = iota
	Error
	Info
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Toast is one user-visible outcome
type Toast struct {
	Kind    Kind
	Message string
	At      time.Time
}

// Notifier shows outcomes to the user. Calls never block and never fail.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Sink delivers toasts to a display from a single goroutine
type Sink struct {
	logger  *logger.Logger
	display func(Toast)
	queue   chan Toast

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewSink starts a sink with room for buffer pending toasts
func NewSink(buffer int, display func(Toast), logger *logger.Logger) *Sink {
	if buffer <= 0 {
		buffer = 32
	}
	s := &Sink{
		logger:  logger,
		display: display,
		queue:   make(chan Toast, buffer),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Sink) run() {
	defer close(s.done)
	for t := range s.queue {
		if s.display != nil {
			s.display(t)
		}
	}
}

// Send queues t, dropping it when the queue is full or the sink is closed
func (s *Sink) Send(t Toast) {
	if t.At.IsZero() {
		t.At = time.Now()
	}

	switch t.Kind {
	case Error:
		s.logger.Warning("toast: " + t.Message)
	default:
		s.logger.Info("toast: " + t.Message)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	select {
	case s.queue <- t:
	default:
		s.logger.Debug("toast dropped, queue full")
	}
}

// Success implements Notifier
func (s *Sink) Success(msg string) { s.Send(Toast{Kind: Success, Message: msg}) }

// Error implements Notifier
func (s *Sink) Error(msg string) { s.Send(Toast{Kind: Error, Message: msg}) }

// Info implements Notifier
func (s *Sink) Info(msg string) { s.Send(Toast{Kind: Info, Message: msg}) }

// Close stops delivery after the queued toasts are displayed
func (s *Sink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
}

// Recorder keeps toasts in memory
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// Success implements Notifier
func (r *Recorder) Success(msg string) { r.add(Success, msg) }

// Error implements Notifier
func (r *Recorder) Error(msg string) { r.add(Error, msg) }

// Info implements Notifier
func (r *Recorder) Info(msg string) { r.add(Info, msg) }

func (r *Recorder) add(kind Kind, msg string) {
	r.mu.Lock()
	r.toasts = append(r.toasts, Toast{Kind: kind, Message: msg, At: time.Now()})
	r.mu.Unlock()
}

// Toasts returns what was recorded so far
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

// Count returns how many toasts of kind were recorded
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.toasts {
		if t.Kind == kind {
			n++
		}
	}
	return n
}
