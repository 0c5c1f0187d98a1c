package web

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/form"
	"github.com/Zachkp/portfolio/internal/notify"
	"github.com/Zachkp/portfolio/internal/page"
	"github.com/Zachkp/portfolio/internal/projects"
	"github.com/Zachkp/portfolio/internal/site"
	"github.com/Zachkp/portfolio/internal/theme"
)

// colorSchemeHint is the client hint carrying the OS color scheme.
const colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

// PageData is what every template renders from.
type PageData struct {
	Theme          theme.Preference
	ThemeLabel     string
	AboutMe        string
	Projects       projects.Filter
	ContactEnabled bool
	Form           form.View
	Fragment       bool
	Styles         []page.StyleBlock
	Banners        []notify.Banner
	DismissAfter   time.Duration
	FadeAfter      time.Duration
}

func (s *Server) contactEnabled(sess *site.Session) bool {
	return s.Contact != nil && sess.Form != nil
}

func (s *Server) data(c *gin.Context, sess *site.Session) PageData {
	pref := theme.Dark
	if s.Theme != nil {
		pref = s.Theme.Resolve(c.Request.Context(), sess.ID, c.GetHeader(colorSchemeHint))
	}
	d := PageData{
		Theme:          pref,
		ThemeLabel:     pref.ToggleLabel(),
		AboutMe:        s.AboutMe,
		Projects:       projects.Apply(s.Projects, projects.All),
		ContactEnabled: s.contactEnabled(sess),
		Styles:         sess.Head.Styles(),
		Banners:        sess.Notices.Banners(),
		DismissAfter:   s.DismissAfter,
		FadeAfter:      s.FadeAfter,
	}
	if sess.Form != nil {
		d.Form = sess.Form.View()
	}
	return d
}

func (s *Server) index(c *gin.Context) {
	sess := session(c)
	c.Header("Accept-CH", colorSchemeHint)
	c.HTML(http.StatusOK, "index.html", s.data(c, sess))
}

func (s *Server) contactForm(c *gin.Context) {
	sess := session(c)
	if !s.contactEnabled(sess) {
		c.Status(http.StatusNotFound)
		return
	}
	d := s.data(c, sess)
	d.Fragment = true
	c.HTML(http.StatusOK, "contact.html", d)
}

func (s *Server) submitContact(c *gin.Context) {
	sess := session(c)
	if !s.contactEnabled(sess) {
		// htmx drops the swap on error statuses, so the banner goes out as 200.
		sess.Notices.Show(notify.LevelError, notify.MsgUnavailable)
		c.HTML(http.StatusOK, "notifications.html", s.data(c, sess))
		return
	}

	values := url.Values{}
	for _, name := range sess.Form.Names() {
		values.Set(name, c.PostForm(name))
	}

	res, err := s.Contact.Submit(c.Request.Context(), sess.Form, values, sess.Notices)
	if errors.Is(err, contact.ErrInFlight) {
		// A second gesture while the first is in flight changes nothing.
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		s.Log.Error("contact submit failed", zap.Error(err))
		sess.Notices.Show(notify.LevelError, notify.MsgGenericFailure)
	} else {
		s.Log.Debug("contact submit", zap.Int("stage", int(res.Stage)), zap.String("banner", res.Banner.ID))
	}

	d := s.data(c, sess)
	d.Fragment = true
	c.HTML(http.StatusOK, "contact.html", d)
}

func (s *Server) notifications(c *gin.Context) {
	c.HTML(http.StatusOK, "notifications.html", s.data(c, session(c)))
}

// dismiss handles both the close control and the backdrop click. A target
// parameter marks a backdrop click; it only dismisses when the click landed
// on the banner itself.
func (s *Server) dismiss(c *gin.Context) {
	sess := session(c)
	id := c.Param("id")

	target, backdrop := c.GetQuery("target")
	if !backdrop {
		target, backdrop = c.GetPostForm("target")
	}

	if backdrop && target != id {
		// A click on the banner's content leaves it in place.
		c.Header("HX-Reswap", "none")
		c.Status(http.StatusOK)
		return
	}
	if backdrop {
		sess.Notices.DismissBackdrop(id, target)
	} else {
		sess.Notices.Dismiss(id)
	}
	// Banners already fading server side are removed from the page as well.
	c.String(http.StatusOK, "")
}

func (s *Server) projects(c *gin.Context) {
	d := s.data(c, session(c))
	d.Projects = projects.Apply(s.Projects, c.Query("filter"))
	c.HTML(http.StatusOK, "projects.html", d)
}

func (s *Server) toggleTheme(c *gin.Context) {
	if s.Theme == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	sess := session(c)
	next, err := s.Theme.Toggle(c.Request.Context(), sess.ID, c.GetHeader(colorSchemeHint))
	if err != nil {
		s.Log.Warn("theme not saved", zap.Error(err))
	}
	s.Log.Debug("theme toggled", zap.String("theme", string(next)))
	c.Header("HX-Refresh", "true")
	c.Status(http.StatusNoContent)
}
