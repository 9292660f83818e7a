// Package view drives navigation of a fixed page set shown on a surface the
// caller provides.
//
// A View starts Open on page 0 and ends Closed, either by an explicit Close
// (the surface is deleted) or by the idle timeout (the surface is frozen with
// every control disabled). Closed views ignore all events.
package view

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/baaaaaaaka/ss14-roster/internal/pages"
)

const DefaultIdleTimeout = 3 * time.Minute

// ErrSurfaceGone is returned by a Surface whose underlying display no longer
// exists. The view treats it as already closed.
var ErrSurfaceGone = errors.New("surface gone")

type Controls struct {
	First bool
	Prev  bool
	Next  bool
	Last  bool
	Close bool
}

// Frame is what the UI layer draws: the current page and which controls are
// enabled.
type Frame struct {
	Page     pages.Page
	Controls Controls
}

type Surface interface {
	Render(Frame) error
	Freeze(Frame) error
	Delete() error
}

type Event int

const (
	EventFirst Event = iota + 1
	EventPrev
	EventNext
	EventLast
	EventClose
	EventTimeout
)

func (e Event) String() string {
	switch e {
	case EventFirst:
		return "first"
	case EventPrev:
		return "prev"
	case EventNext:
		return "next"
	case EventLast:
		return "last"
	case EventClose:
		return "close"
	case EventTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

type Reason int

const (
	NotClosed Reason = iota
	ClosedByUser
	ClosedByTimeout
	ClosedSurfaceGone
)

func (r Reason) String() string {
	switch r {
	case ClosedByUser:
		return "closed"
	case ClosedByTimeout:
		return "timed out"
	case ClosedSurfaceGone:
		return "surface gone"
	default:
		return "open"
	}
}

type State struct {
	Index        int
	Total        int
	Open         bool
	LastActivity time.Time
	Reason       Reason
}

type Options struct {
	// IdleTimeout <= 0 selects DefaultIdleTimeout.
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

type View struct {
	mu           sync.Mutex
	pages        []pages.Page
	current      int
	open         bool
	reason       Reason
	lastActivity time.Time

	surface Surface
	idle    time.Duration
	timer   *time.Timer
	done    chan struct{}
	log     *slog.Logger
}

// New shows page 0 of pgs on surface and arms the idle timer. It panics when
// pgs is empty; callers must present a "no data" outcome instead.
func New(pgs []pages.Page, surface Surface, opts Options) *View {
	if len(pgs) == 0 {
		panic("view: no pages")
	}
	if surface == nil {
		panic("view: nil surface")
	}
	idle := opts.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	v := &View{
		pages:   pgs,
		open:    true,
		surface: surface,
		idle:    idle,
		done:    make(chan struct{}),
		log:     logger,
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.renderLocked(); err != nil {
		v.log.Warn("initial render failed", "error", err)
		v.touchLocked()
	}
	return v
}

func (v *View) First() error { return v.Handle(EventFirst) }
func (v *View) Prev() error  { return v.Handle(EventPrev) }
func (v *View) Next() error  { return v.Handle(EventNext) }
func (v *View) Last() error  { return v.Handle(EventLast) }
func (v *View) Close() error { return v.Handle(EventClose) }

// Timeout freezes the view as if the idle timer had fired.
func (v *View) Timeout() error { return v.Handle(EventTimeout) }

// Handle applies one event. Errors other than a vanished surface are
// returned; the view stays consistent either way.
func (v *View) Handle(ev Event) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open {
		return nil
	}

	last := len(v.pages) - 1
	switch ev {
	case EventFirst:
		v.current = 0
	case EventPrev:
		v.current = max(0, v.current-1)
	case EventNext:
		v.current = min(last, v.current+1)
	case EventLast:
		v.current = last
	case EventClose:
		return v.closeLocked(ClosedByUser)
	case EventTimeout:
		return v.closeLocked(ClosedByTimeout)
	default:
		return nil
	}

	v.log.Debug("view transition", "event", ev, "index", v.current, "total", len(v.pages))
	return v.renderLocked()
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return State{
		Index:        v.current,
		Total:        len(v.pages),
		Open:         v.open,
		LastActivity: v.lastActivity,
		Reason:       v.reason,
	}
}

// Frame returns what the surface should currently show.
func (v *View) Frame() Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frameLocked()
}

func (v *View) Reason() Reason {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reason
}

// Done is closed once the view is Closed, for whatever reason.
func (v *View) Done() <-chan struct{} { return v.done }

func (v *View) frameLocked() Frame {
	if v.current >= len(v.pages) {
		return Frame{}
	}
	f := Frame{Page: v.pages[v.current]}
	if !v.open {
		return f
	}
	last := len(v.pages) - 1
	f.Controls = Controls{
		First: v.current > 0,
		Prev:  v.current > 0,
		Next:  v.current < last,
		Last:  v.current < last,
		Close: true,
	}
	return f
}

func (v *View) renderLocked() error {
	err := v.surface.Render(v.frameLocked())
	if errors.Is(err, ErrSurfaceGone) {
		v.finishLocked(ClosedSurfaceGone)
		return nil
	}
	if err != nil {
		return err
	}
	v.touchLocked()
	return nil
}

func (v *View) touchLocked() {
	v.lastActivity = time.Now()
	if v.timer == nil {
		v.timer = time.AfterFunc(v.idle, v.onIdle)
		return
	}
	v.timer.Reset(v.idle)
}

func (v *View) onIdle() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.open {
		return
	}
	// Reset may race with a timer that already fired; a transition in
	// between pushed the deadline out, so re-arm instead of closing.
	if remaining := v.idle - time.Since(v.lastActivity); remaining > 0 {
		v.timer.Reset(remaining)
		return
	}
	v.log.Debug("view idle timeout", "index", v.current)
	if err := v.closeLocked(ClosedByTimeout); err != nil {
		v.log.Warn("freeze view", "error", err)
	}
}

func (v *View) closeLocked(reason Reason) error {
	frame := v.frameLocked()
	v.finishLocked(reason)

	var err error
	switch reason {
	case ClosedByUser:
		err = v.surface.Delete()
		v.pages = nil
		v.current = 0
	case ClosedByTimeout:
		err = v.surface.Freeze(frame.frozen())
	}
	if errors.Is(err, ErrSurfaceGone) {
		return nil
	}
	return err
}

func (v *View) finishLocked(reason Reason) {
	if !v.open {
		return
	}
	v.open = false
	v.reason = reason
	if v.timer != nil {
		v.timer.Stop()
	}
	close(v.done)
}

func (f Frame) frozen() Frame {
	f.Controls = Controls{}
	return f
}
