package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/baaaaaaaka/ss14-roster/internal/pages"
	"github.com/baaaaaaaka/ss14-roster/internal/view"
)

var newScreen = tcell.NewScreen

type Options struct {
	Title       string
	Footer      string
	Pages       []pages.Page
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

type uiEvent struct {
	when time.Time
	kind string
}

func (e *uiEvent) When() time.Time { return e.when }

// Browse shows pgs in the terminal until the user closes the view, the idle
// timeout fires and a key is pressed, or ctx ends. It returns why the view
// closed.
func Browse(ctx context.Context, opts Options) (view.Reason, error) {
	if len(opts.Pages) == 0 {
		return view.NotClosed, errors.New("no pages to show")
	}

	screen, err := newScreen()
	if err != nil {
		return view.NotClosed, err
	}
	if err := screen.Init(); err != nil {
		return view.NotClosed, err
	}
	defer screen.Fini()

	surface := newSurface(screen, opts.Title, opts.Footer)
	v := view.New(opts.Pages, surface, view.Options{
		IdleTimeout: opts.IdleTimeout,
		Logger:      opts.Logger,
	})

	go func() {
		select {
		case <-v.Done():
			screen.PostEvent(&uiEvent{when: time.Now(), kind: "closed"})
		case <-ctx.Done():
			screen.PostEvent(&uiEvent{when: time.Now(), kind: "quit"})
		}
	}()

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return v.Reason(), nil
		}

		switch tev := ev.(type) {
		case *uiEvent:
			switch tev.kind {
			case "quit":
				_ = v.Close()
				return v.Reason(), ctx.Err()
			case "closed":
				if v.Reason() != view.ClosedByTimeout {
					return v.Reason(), nil
				}
				// Leave the frozen frame up until the user dismisses it.
				if err := waitForKey(ctx, screen, surface); err != nil {
					return v.Reason(), err
				}
				return v.Reason(), nil
			}
		case *tcell.EventResize:
			screen.Sync()
			surface.redraw()
		case *tcell.EventKey:
			if err := handleKey(v, tev); err != nil {
				return v.Reason(), err
			}
		}
	}
}

func waitForKey(ctx context.Context, screen tcell.Screen, surface *surface) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			screen.PostEvent(&uiEvent{when: time.Now(), kind: "quit"})
		case <-stop:
		}
	}()
	for {
		switch tev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			return nil
		case *tcell.EventResize:
			screen.Sync()
			surface.redraw()
		case *uiEvent:
			if tev.kind == "quit" {
				return ctx.Err()
			}
		}
	}
}

// keyEvent maps a key to a view event. Keys for disabled controls map to
// nothing, the same as pressing a greyed-out button.
func keyEvent(ev *tcell.EventKey, c view.Controls) (view.Event, bool) {
	var want view.Event
	switch ev.Key() {
	case tcell.KeyHome:
		want = view.EventFirst
	case tcell.KeyLeft, tcell.KeyUp, tcell.KeyPgUp:
		want = view.EventPrev
	case tcell.KeyRight, tcell.KeyDown, tcell.KeyPgDn:
		want = view.EventNext
	case tcell.KeyEnd:
		want = view.EventLast
	case tcell.KeyESC, tcell.KeyCtrlC:
		want = view.EventClose
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'g':
			want = view.EventFirst
		case 'h', 'k', 'p':
			want = view.EventPrev
		case 'l', 'j', 'n', ' ':
			want = view.EventNext
		case 'G':
			want = view.EventLast
		case 'q', 'x':
			want = view.EventClose
		}
	}

	enabled := false
	switch want {
	case view.EventFirst:
		enabled = c.First
	case view.EventPrev:
		enabled = c.Prev
	case view.EventNext:
		enabled = c.Next
	case view.EventLast:
		enabled = c.Last
	case view.EventClose:
		enabled = c.Close
	}
	return want, enabled
}

func handleKey(v *view.View, ev *tcell.EventKey) error {
	e, ok := keyEvent(ev, v.Frame().Controls)
	if !ok {
		return nil
	}
	return v.Handle(e)
}

// surface draws view frames on a tcell screen.
type surface struct {
	screen tcell.Screen
	title  string
	footer string

	mu     sync.Mutex
	frame  view.Frame
	frozen bool
	gone   bool
}

func newSurface(screen tcell.Screen, title, footer string) *surface {
	return &surface{screen: screen, title: title, footer: footer}
}

func (s *surface) Render(f view.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gone {
		return view.ErrSurfaceGone
	}
	s.frame = f
	s.frozen = false
	s.drawLocked()
	return nil
}

func (s *surface) Freeze(f view.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gone {
		return view.ErrSurfaceGone
	}
	s.frame = f
	s.frozen = true
	s.drawLocked()
	return nil
}

func (s *surface) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gone {
		return view.ErrSurfaceGone
	}
	s.gone = true
	s.screen.Clear()
	s.screen.Show()
	return nil
}

func (s *surface) redraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gone {
		return
	}
	s.drawLocked()
}

func (s *surface) drawLocked() {
	screen := s.screen
	screen.Clear()

	w, h := screen.Size()
	statusH := 1
	box := rect{x: 0, y: 0, w: w, h: max(0, h-statusH)}
	drawBox(screen, box, s.title)

	lines := []styledLine{{text: s.frame.Page.Header, style: tcell.StyleDefault.Bold(true)}, {}}
	innerW := max(0, box.w-4)
	for _, ln := range wrapText(s.frame.Page.Text, innerW) {
		lines = append(lines, styledLine{text: ln, style: tcell.StyleDefault})
	}
	if s.footer != "" {
		lines = append(lines, styledLine{}, styledLine{text: s.footer, style: tcell.StyleDefault.Dim(true)})
	}
	drawLines(screen, box, lines)

	drawStatus(screen, statusSegments(s.frame.Controls, s.frozen))
	screen.Show()
}

type rect struct {
	y int
	x int
	h int
	w int
}

type styledLine struct {
	text  string
	style tcell.Style
}

type statusSegment struct {
	text  string
	style tcell.Style
}

func statusSegments(c view.Controls, frozen bool) []statusSegment {
	base := tcell.StyleDefault.Reverse(true)
	if frozen {
		return []statusSegment{{text: "Timed out. Press any key to exit.", style: base}}
	}
	seg := func(text string, enabled bool) statusSegment {
		if enabled {
			return statusSegment{text: text, style: base.Bold(true)}
		}
		return statusSegment{text: text, style: base.Dim(true)}
	}
	return []statusSegment{
		seg("Home: first", c.First),
		seg("Left: prev", c.Prev),
		seg("Right: next", c.Next),
		seg("End: last", c.Last),
		seg("q: close", c.Close),
	}
}

func drawBox(screen tcell.Screen, r rect, title string) {
	if r.w < 2 || r.h < 2 {
		return
	}
	style := tcell.StyleDefault
	for x := r.x + 1; x < r.x+r.w-1; x++ {
		screen.SetContent(x, r.y, tcell.RuneHLine, nil, style)
		screen.SetContent(x, r.y+r.h-1, tcell.RuneHLine, nil, style)
	}
	for y := r.y + 1; y < r.y+r.h-1; y++ {
		screen.SetContent(r.x, y, tcell.RuneVLine, nil, style)
		screen.SetContent(r.x+r.w-1, y, tcell.RuneVLine, nil, style)
	}
	screen.SetContent(r.x, r.y, tcell.RuneULCorner, nil, style)
	screen.SetContent(r.x+r.w-1, r.y, tcell.RuneURCorner, nil, style)
	screen.SetContent(r.x, r.y+r.h-1, tcell.RuneLLCorner, nil, style)
	screen.SetContent(r.x+r.w-1, r.y+r.h-1, tcell.RuneLRCorner, nil, style)

	if title == "" {
		return
	}
	title = truncate(" "+title+" ", r.w-4)
	writeText(screen, r.x+2, r.y, title, style.Bold(true))
}

func drawLines(screen tcell.Screen, r rect, lines []styledLine) {
	innerH := r.h - 2
	innerW := r.w - 4
	if innerH <= 0 || innerW <= 0 {
		return
	}
	for i := 0; i < innerH && i < len(lines); i++ {
		writeText(screen, r.x+2, r.y+1+i, truncate(lines[i].text, innerW), lines[i].style)
	}
}

func drawStatus(screen tcell.Screen, segments []statusSegment) {
	w, h := screen.Size()
	if h <= 0 || w <= 0 {
		return
	}
	y := h - 1
	base := tcell.StyleDefault.Reverse(true)
	writeText(screen, 0, y, padRight("", w), base)

	x := 0
	for i, seg := range segments {
		if i > 0 {
			if x+2 >= w {
				break
			}
			writeText(screen, x, y, "  ", base)
			x += 2
		}
		text := truncate(seg.text, w-x)
		if text == "" {
			break
		}
		writeText(screen, x, y, text, seg.style)
		x += displayWidth(text)
	}
}

func writeText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	offset := 0
	for _, ch := range text {
		width := runewidth.RuneWidth(ch)
		if width == 0 {
			continue
		}
		screen.SetContent(x+offset, y, ch, nil, style)
		offset += width
	}
}

func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	if s == "" {
		return []string{""}
	}
	out := []string{}
	for _, ln := range strings.Split(s, "\n") {
		if ln == "" {
			out = append(out, "")
			continue
		}
		var buf strings.Builder
		curWidth := 0
		for _, ch := range ln {
			chWidth := runewidth.RuneWidth(ch)
			if chWidth == 0 {
				buf.WriteRune(ch)
				continue
			}
			if curWidth+chWidth > width && curWidth > 0 {
				out = append(out, buf.String())
				buf.Reset()
				curWidth = 0
			}
			buf.WriteRune(ch)
			curWidth += chWidth
		}
		out = append(out, buf.String())
	}
	return out
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if displayWidth(s) <= width {
		return s
	}
	var buf strings.Builder
	curWidth := 0
	for _, ch := range s {
		chWidth := runewidth.RuneWidth(ch)
		if chWidth == 0 {
			buf.WriteRune(ch)
			continue
		}
		if curWidth+chWidth > width {
			break
		}
		buf.WriteRune(ch)
		curWidth += chWidth
	}
	return buf.String()
}

func padRight(s string, width int) string {
	if displayWidth(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-displayWidth(s))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}
