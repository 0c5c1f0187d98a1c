package site

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/form"
	"github.com/Zachkp/portfolio/internal/notify"
)

func TestBootIsolatesFailures(t *testing.T) {
	var ran []string
	started := Boot(nil,
		Feature{Name: "menu", Setup: func() error { ran = append(ran, "menu"); return nil }},
		Feature{Name: "contact", Setup: func() error { return errors.New("form#contactForm missing") }},
		Feature{Name: "theme", Setup: func() error { panic("storage exploded") }},
		Feature{Name: "projects", Setup: func() error { ran = append(ran, "projects"); return nil }},
	)

	assert.Equal(t, []string{"menu", "projects"}, started)
	assert.Equal(t, []string{"menu", "projects"}, ran)
}

var layout = &form.Layout{
	FormID:      form.ContactFormID,
	Fields:      []form.FieldSpec{{Name: "name", Required: true}},
	SubmitLabel: "Send",
}

func TestAcquireReusesKnownSessions(t *testing.T) {
	s := NewSessions(layout, notify.Options{}, time.Minute, nil)

	a, created := s.Acquire("")
	require.True(t, created)
	require.NotNil(t, a.Form)

	b, created := s.Acquire(a.ID)
	assert.False(t, created)
	assert.Same(t, a, b)

	c, created := s.Acquire("forged-id")
	assert.True(t, created)
	assert.NotEqual(t, "forged-id", c.ID)
	assert.Equal(t, 2, s.Len())

	returning := "0b9c6f1e-52c3-4c1a-9d1f-6c1a2b3c4d5e"
	d, created := s.Acquire(returning)
	assert.True(t, created)
	assert.Equal(t, returning, d.ID, "returning visitors keep their id")
}

func TestAcquireWithoutLayout(t *testing.T) {
	s := NewSessions(nil, notify.Options{}, time.Minute, nil)
	sess, _ := s.Acquire("")
	assert.Nil(t, sess.Form)
	assert.NotNil(t, sess.Notices)

	s.SetLayout(layout)
	sess, _ = s.Acquire("")
	assert.NotNil(t, sess.Form)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSessions(layout, notify.Options{}, time.Minute, nil)
	s.now = func() time.Time { return now }

	idle, _ := s.Acquire("")
	busy, _ := s.Acquire("")
	require.True(t, busy.Form.BeginSubmit("Sending..."))

	now = now.Add(2 * time.Minute)
	fresh, _ := s.Acquire("")

	assert.Equal(t, 1, s.Sweep())
	_, created := s.Acquire(idle.ID)
	assert.True(t, created, "expired session is recreated")
	_, created = s.Acquire(busy.ID)
	assert.False(t, created)
	_, created = s.Acquire(fresh.ID)
	assert.False(t, created)
}

func TestPeekRegistersNothing(t *testing.T) {
	s := NewSessions(layout, notify.Options{}, time.Minute, nil)

	detached, known := s.Peek("")
	assert.False(t, known)
	require.NotNil(t, detached.Form)
	assert.Zero(t, s.Len())

	sess, created := s.Acquire(detached.ID)
	assert.True(t, created)
	assert.Equal(t, detached.ID, sess.ID, "the first POST adopts the browsing id")

	got, known := s.Peek(detached.ID)
	assert.True(t, known)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, s.Len())
}

func TestAcquireEvictsLongestIdleWhenFull(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSessions(layout, notify.Options{}, time.Hour, nil)
	s.now = func() time.Time { return now }
	s.max = 2

	oldest, _ := s.Acquire("")
	require.True(t, oldest.Form.BeginSubmit("Sending..."))
	now = now.Add(time.Second)
	older, _ := s.Acquire("")
	now = now.Add(time.Second)

	newest, created := s.Acquire("")
	require.True(t, created)
	assert.Equal(t, 2, s.Len())

	_, known := s.Peek(oldest.ID)
	assert.True(t, known, "sessions with a submission in flight are kept")
	_, known = s.Peek(older.ID)
	assert.False(t, known)
	_, known = s.Peek(newest.ID)
	assert.True(t, known)
}
