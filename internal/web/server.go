package web

import (
	"embed"
	"expvar"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/form"
	"github.com/Zachkp/portfolio/internal/projects"
	"github.com/Zachkp/portfolio/internal/site"
	"github.com/Zachkp/portfolio/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

// VisitorCookie names the cookie holding the visitor id.
const VisitorCookie = "visitor_id"

const sessionKey = "session"

// Funcs are available to every template.
var Funcs = template.FuncMap{
	"ago":   humanize.Time,
	"comma": humanize.Comma,
}

// Templates parses every embedded template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
}

// ContactLayout parses the embedded contact form.
func ContactLayout() (*form.Layout, error) {
	f, err := templateFS.Open("templates/contact.html")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return form.ParseLayout(f, form.ContactFormID, form.ContactFields...)
}

// Deps are the parts a Server renders. Contact and Theme may be nil when
// their feature failed to start.
type Deps struct {
	Sessions     *site.Sessions
	Contact      *contact.Orchestrator
	Theme        *theme.Service
	Projects     []projects.Project
	AboutMe      string
	DismissAfter time.Duration
	FadeAfter    time.Duration
	Log          *zap.Logger

	// Middleware runs on every route, after recovery and request logging.
	Middleware []gin.HandlerFunc
}

type Server struct {
	Deps
	engine *gin.Engine
}

func New(d Deps) (*Server, error) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	tmpl, err := Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Log))
	r.Use(d.Middleware...)
	r.SetHTMLTemplate(tmpl)

	s := &Server{Deps: d, engine: r}
	s.routes()
	return s, nil
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.engine.ServeHTTP(w, req)
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.Sessions.Len()})
	})
	r.GET("/debug/vars", gin.WrapH(expvar.Handler()))

	v := r.Group("/", s.visitor())
	v.GET("/", s.index)
	v.GET("/contact-form", s.contactForm)
	v.POST("/contact", s.submitContact)
	v.GET("/notifications", s.notifications)
	v.DELETE("/notifications/:id", s.dismiss)
	v.GET("/projects", s.projects)
	v.POST("/theme", s.toggleTheme)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

// visitor attaches the visitor's session, issuing a cookie on first visit.
func (s *Server) visitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(VisitorCookie)
		var sess *site.Session
		if c.Request.Method == http.MethodPost {
			sess, _ = s.Sessions.Acquire(id)
		} else {
			// Browsing registers nothing; the first POST adopts the id.
			sess, _ = s.Sessions.Peek(id)
		}
		if sess.ID != id {
			c.SetCookie(VisitorCookie, sess.ID, 3600*24*365, "/", "", false, true)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func session(c *gin.Context) *site.Session {
	return c.MustGet(sessionKey).(*site.Session)
}
