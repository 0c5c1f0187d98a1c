package notify

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Zachkp/portfolio/internal/page"
	"github.com/Zachkp/portfolio/internal/relay"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
	clock   *fakeClock
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f, clock: c}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward, firing due timers outside the clock lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && !t.at.After(target) {
				due = append(due, t)
			}
		}
		sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
	}
}

func newTestCenter(clock *fakeClock, head *page.Head) *Center {
	return NewCenter(Options{Clock: clock, Head: head})
}

func TestShowRetiresPreviousBanner(t *testing.T) {
	clock := newFakeClock()
	c := newTestCenter(clock, nil)

	first := c.Show(LevelInfo, "one")
	second := c.Show(LevelError, "two")

	banners := c.Banners()
	require.Len(t, banners, 2)
	assert.Equal(t, first.ID, banners[0].ID)
	assert.Equal(t, PhaseFading, banners[0].Phase)
	assert.Equal(t, PhaseShown, banners[1].Phase)

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, second.ID, cur.ID)

	clock.Advance(DefaultFade)
	banners = c.Banners()
	require.Len(t, banners, 1, "retired banner is removed after the fade")
	assert.Equal(t, second.ID, banners[0].ID)
}

func TestAutoDismissIsTwoPhase(t *testing.T) {
	clock := newFakeClock()
	c := newTestCenter(clock, nil)
	c.Show(LevelSuccess, "sent")

	clock.Advance(DefaultAutoDismiss - time.Millisecond)
	_, ok := c.Current()
	assert.True(t, ok)

	clock.Advance(time.Millisecond)
	banners := c.Banners()
	require.Len(t, banners, 1)
	assert.Equal(t, PhaseFading, banners[0].Phase)
	_, ok = c.Current()
	assert.False(t, ok)

	clock.Advance(DefaultFade)
	assert.Empty(t, c.Banners())
}

func TestCloseControlCancelsAutoDismiss(t *testing.T) {
	clock := newFakeClock()
	c := newTestCenter(clock, nil)
	b := c.Show(LevelError, "bad")

	assert.True(t, c.Dismiss(b.ID))
	assert.False(t, c.Dismiss(b.ID), "already fading")
	assert.False(t, c.Dismiss("missing"))

	clock.Advance(DefaultFade)
	assert.Empty(t, c.Banners())

	clock.Advance(DefaultAutoDismiss)
	assert.Empty(t, c.Banners())
}

func TestDismissBackdropOnlyForBannerTarget(t *testing.T) {
	c := newTestCenter(newFakeClock(), nil)
	b := c.Show(LevelInfo, "hello")

	assert.False(t, c.DismissBackdrop(b.ID, "notification-message"))
	_, ok := c.Current()
	assert.True(t, ok)

	assert.True(t, c.DismissBackdrop(b.ID, b.ID))
	_, ok = c.Current()
	assert.False(t, ok)
}

func TestPresentMapsOutcomes(t *testing.T) {
	tests := []struct {
		name  string
		out   relay.Outcome
		level Level
		msg   string
	}{
		{"success", relay.Succeeded("Alice"), LevelSuccess, SuccessMessage("Alice")},
		{"rejected", relay.Rejected("quota exceeded"), LevelError, "quota exceeded"},
		{"rejected markup stripped", relay.Rejected("<b>quota</b> exceeded & more"), LevelError, "quota exceeded & more"},
		{"rejected blank", relay.Outcome{Kind: relay.ApplicationFailure}, LevelError, MsgGenericFailure},
		{"rejected without message", relay.Rejected(""), LevelError, MsgGenericFailure},
		{"rejected markup only", relay.Rejected(" <br/> "), LevelError, MsgGenericFailure},
		{"network", relay.Failed(relay.FailureNetwork, 0), LevelError, MsgNetworkFailure},
		{"http", relay.Failed(relay.FailureHTTP, 503), LevelError, MsgServerFailure},
		{"unknown", relay.Failed(relay.FailureUnknown, 200), LevelError, MsgGenericFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCenter(newFakeClock(), nil)
			b := c.Present(tc.out)
			assert.Equal(t, tc.level, b.Level)
			assert.Equal(t, tc.msg, b.Message)
		})
	}
	assert.Contains(t, SuccessMessage("Alice"), "Alice")
}

func TestShowInjectsStylesOnce(t *testing.T) {
	head := page.NewHead()
	c := newTestCenter(newFakeClock(), head)

	c.Show(LevelInfo, "a")
	c.Show(LevelInfo, "b")

	assert.Len(t, head.Styles(), 1)
	assert.True(t, head.HasStyle(page.NotificationStylesID))
}

func TestCloseStopsTimers(t *testing.T) {
	clock := newFakeClock()
	c := newTestCenter(clock, nil)
	c.Show(LevelInfo, "a")

	c.Close()
	assert.Empty(t, c.Banners())

	c.Show(LevelInfo, "after close")
	assert.Empty(t, c.Banners())
	clock.Advance(time.Minute)
}
