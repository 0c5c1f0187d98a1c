package site

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/form"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/notify"
	"github.com/Zachkp/portfolio/internal/page"
)

// Session is the UI context of one visitor: their document head, contact
// form and banners. Form is nil when the contact feature is disabled.
type Session struct {
	ID      string
	Head    *page.Head
	Form    *form.Form
	Notices *notify.Center

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(s.seen())
}

func (s *Session) inFlight() bool {
	return s.Form != nil && s.Form.Submit().Disabled
}

// DefaultMaxSessions bounds the registry.
const DefaultMaxSessions = 10000

type Sessions struct {
	mu     sync.Mutex
	byID   map[string]*Session
	layout *form.Layout
	notify notify.Options
	idle   time.Duration
	max    int
	now    func() time.Time
	log    *zap.Logger
}

// NewSessions creates the session registry. layout may be nil, in which
// case sessions carry no contact form.
func NewSessions(layout *form.Layout, opts notify.Options, idle time.Duration, log *zap.Logger) *Sessions {
	if log == nil {
		log = zap.NewNop()
	}
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Sessions{
		byID:   make(map[string]*Session),
		layout: layout,
		notify: opts,
		idle:   idle,
		max:    DefaultMaxSessions,
		now:    time.Now,
		log:    log,
	}
}

// SetLayout enables the contact form for sessions created from now on.
func (s *Sessions) SetLayout(layout *form.Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout = layout
}

// Acquire returns the session for id, registering one when needed. An
// unknown but well-formed id (a returning visitor whose session expired, or
// one who has only browsed) gets a new session under the same id; an empty
// or malformed id gets a fresh one. created reports whether a session was
// made. When the registry is full the longest-idle session is evicted.
func (s *Sessions) Acquire(id string) (sess *Session, created bool) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.byID[id]; ok {
		sess.touch(now)
		return sess, false
	}
	if len(s.byID) >= s.max {
		s.evictLocked()
	}
	sess = s.newSessionLocked(id, now)
	s.byID[sess.ID] = sess
	metrics.SetSessions(len(s.byID))
	return sess, true
}

// Peek returns the session for id without registering anything. Unknown
// ids get a detached session that a later Acquire can take over by id.
// known reports whether the session was registered.
func (s *Sessions) Peek(id string) (sess *Session, known bool) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.byID[id]; ok {
		sess.touch(now)
		return sess, true
	}
	return s.newSessionLocked(id, now), false
}

func (s *Sessions) newSessionLocked(id string, now time.Time) *Session {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	head := page.NewHead()
	opts := s.notify
	opts.Head = head
	sess := &Session{
		ID:       id,
		Head:     head,
		Notices:  notify.NewCenter(opts),
		lastSeen: now,
	}
	if s.layout != nil {
		sess.Form = s.layout.NewForm(head)
	}
	return sess
}

// evictLocked drops the longest-idle session that has no submission in
// flight.
func (s *Sessions) evictLocked() {
	var oldest *Session
	for _, sess := range s.byID {
		if sess.inFlight() {
			continue
		}
		if oldest == nil || sess.seen().Before(oldest.seen()) {
			oldest = sess
		}
	}
	if oldest == nil {
		return
	}
	oldest.Notices.Close()
	delete(s.byID, oldest.ID)
	s.log.Debug("evicted visitor session", zap.Int("limit", s.max))
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Sweep drops sessions idle for longer than the idle limit and returns how
// many were removed. Sessions with a submission in flight are kept.
func (s *Sessions) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.byID {
		if sess.idleSince(now) < s.idle {
			continue
		}
		if sess.inFlight() {
			continue
		}
		sess.Notices.Close()
		delete(s.byID, id)
		removed++
	}
	metrics.SetSessions(len(s.byID))
	return removed
}

// Run sweeps idle sessions until ctx is done.
func (s *Sessions) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Debug("expired visitor sessions", zap.Int("count", n))
			}
		}
	}
}
