package notify

import (
	"html"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/page"
	"github.com/Zachkp/portfolio/internal/relay"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Phase is where a banner is in its dismissal sequence.
type Phase string

const (
	PhaseShown  Phase = "show"
	PhaseFading Phase = "fading"
)

const (
	DefaultAutoDismiss = 5 * time.Second
	DefaultFade        = 300 * time.Millisecond
)

type Banner struct {
	ID        string
	Level     Level
	Message   string
	Phase     Phase
	CreatedAt time.Time
}

type entry struct {
	Banner
	auto Timer
	fade Timer
}

type Options struct {
	AutoDismiss time.Duration
	Fade        time.Duration
	Clock       Clock
	Head        *page.Head
	Log         *zap.Logger
}

// Center owns the banners of one visitor. At most one banner is shown at
// a time; older ones are fading out or already gone.
type Center struct {
	mu      sync.Mutex
	opts    Options
	banners []*entry
	closed  bool
}

var (
	sanitizerOnce sync.Once
	sanitizer     *bluemonday.Policy
)

func textOnly(s string) string {
	sanitizerOnce.Do(func() {
		sanitizer = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(sanitizer.Sanitize(s))
}

func NewCenter(opts Options) *Center {
	if opts.AutoDismiss <= 0 {
		opts.AutoDismiss = DefaultAutoDismiss
	}
	if opts.Fade <= 0 {
		opts.Fade = DefaultFade
	}
	if opts.Clock == nil {
		opts.Clock = RealClock
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Center{opts: opts}
}

// Show retires every visible banner and displays a new one that dismisses
// itself after the auto-dismiss delay.
func (c *Center) Show(level Level, message string) Banner {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.banners {
		c.hideLocked(e)
	}
	if c.opts.Head != nil {
		c.opts.Head.InjectStyle(page.NotificationStylesID, page.NotificationCSS)
	}

	e := &entry{Banner: Banner{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Phase:     PhaseShown,
		CreatedAt: c.opts.Clock.Now(),
	}}
	if c.closed {
		return e.Banner
	}
	id := e.ID
	e.auto = c.opts.Clock.AfterFunc(c.opts.AutoDismiss, func() { c.Dismiss(id) })
	c.banners = append(c.banners, e)
	c.opts.Log.Debug("banner shown", zap.String("id", id), zap.String("level", string(level)))
	return e.Banner
}

// Present maps a submission outcome to a banner.
func (c *Center) Present(out relay.Outcome) Banner {
	switch out.Kind {
	case relay.Success:
		return c.Show(LevelSuccess, SuccessMessage(out.Name))
	case relay.ApplicationFailure:
		msg := strings.TrimSpace(textOnly(out.Message))
		if msg == "" {
			msg = MsgGenericFailure
		}
		return c.Show(LevelError, msg)
	case relay.TransportFailure:
		switch out.Failure {
		case relay.FailureNetwork:
			return c.Show(LevelError, MsgNetworkFailure)
		case relay.FailureHTTP:
			return c.Show(LevelError, MsgServerFailure)
		}
	}
	return c.Show(LevelError, MsgGenericFailure)
}

// Dismiss starts the fade of a banner; the close control and the
// auto-dismiss timer both land here. It reports whether the banner was
// still shown.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.banners {
		if e.ID == id {
			return c.hideLocked(e)
		}
	}
	return false
}

// DismissBackdrop handles a click on the banner. Only clicks whose target
// is the banner itself, not its content, dismiss it.
func (c *Center) DismissBackdrop(id, target string) bool {
	if target != id {
		return false
	}
	return c.Dismiss(id)
}

func (c *Center) hideLocked(e *entry) bool {
	if e.Phase != PhaseShown {
		return false
	}
	if e.auto != nil {
		e.auto.Stop()
	}
	e.Phase = PhaseFading
	id := e.ID
	e.fade = c.opts.Clock.AfterFunc(c.opts.Fade, func() { c.remove(id) })
	return true
}

func (c *Center) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.banners {
		if e.ID == id {
			c.banners = append(c.banners[:i], c.banners[i+1:]...)
			return
		}
	}
}

// Banners returns every banner still in the document, oldest first.
func (c *Center) Banners() []Banner {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Banner, 0, len(c.banners))
	for _, e := range c.banners {
		out = append(out, e.Banner)
	}
	return out
}

// Current returns the banner that is shown, if any.
func (c *Center) Current() (Banner, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.banners {
		if e.Phase == PhaseShown {
			return e.Banner, true
		}
	}
	return Banner{}, false
}

// Close stops every timer and drops all banners.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.banners {
		if e.auto != nil {
			e.auto.Stop()
		}
		if e.fade != nil {
			e.fade.Stop()
		}
	}
	c.banners = nil
	c.closed = true
}
