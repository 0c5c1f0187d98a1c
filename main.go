package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/notify"
	"github.com/Zachkp/portfolio/internal/relay"
	"github.com/Zachkp/portfolio/internal/site"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/Zachkp/portfolio/internal/theme"
	"github.com/Zachkp/portfolio/internal/web"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	a := newApp(cfg, log)
	defer a.close()
	srv, err := a.server()
	if err != nil {
		log.Fatal("build server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		a.sessions.Run(gctx, time.Minute)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
}

// app holds whatever features managed to start. Any of db, themes,
// orchestrator and admin may be nil.
type app struct {
	cfg *config.Config
	log *zap.Logger

	db           *sql.DB
	sessions     *site.Sessions
	themes       *theme.Service
	orchestrator *contact.Orchestrator
	admin        *admin
}

// newApp boots every feature in isolation; a failing one is logged and
// the site runs without it.
func newApp(cfg *config.Config, log *zap.Logger) *app {
	a := &app{cfg: cfg, log: log}
	a.sessions = site.NewSessions(nil, a.notifyOptions(), cfg.SessionIdle, logger.Component(log, "sessions"))

	site.Boot(log,
		site.Feature{Name: "storage", Setup: a.setupStorage},
		site.Feature{Name: "admin", Setup: a.setupAdmin},
		site.Feature{Name: "theme", Setup: a.setupTheme},
		site.Feature{Name: "contact", Setup: a.setupContact},
	)
	return a
}

func (a *app) notifyOptions() notify.Options {
	return notify.Options{
		AutoDismiss: a.cfg.AutoDismiss,
		Fade:        a.cfg.Fade,
		Log:         logger.Component(a.log, "notify"),
	}
}

func (a *app) setupStorage() error {
	db, err := store.Open(a.cfg.DatabasePath)
	if err != nil {
		return err
	}
	a.db = db
	return nil
}

func (a *app) setupAdmin() error {
	if a.db == nil {
		return errors.New("no database")
	}
	adm, err := newAdmin(a.db, a.cfg.AdminUsername, a.cfg.AdminPassword, logger.Component(a.log, "admin"))
	if err != nil {
		return err
	}
	if _, err := adm.cleanup(context.Background()); err != nil {
		a.log.Warn("initial privacy cleanup failed", zap.Error(err))
	}
	a.admin = adm
	return nil
}

// setupTheme prefers sqlite and falls back to memory, so the toggle works
// (for the life of the process) even without storage.
func (a *app) setupTheme() error {
	var st theme.Store = theme.NewMemoryStore()
	if a.db != nil {
		st = theme.NewSQLStore(a.db)
	}
	a.themes = theme.NewService(st, logger.Component(a.log, "theme"))
	return nil
}

func (a *app) setupContact() error {
	layout, err := web.ContactLayout()
	if err != nil {
		return err
	}
	if a.cfg.RelayAccessKey == "" {
		return errors.New("RELAY_ACCESS_KEY is empty")
	}

	client := relay.NewClient(a.cfg.RelayEndpoint,
		&http.Client{Timeout: a.cfg.RelayTimeout},
		logger.Component(a.log, "relay"))
	settings := contact.Settings{AccessKey: a.cfg.RelayAccessKey, FromName: a.cfg.RelayFromName}

	var recorder contact.Recorder
	if a.admin != nil {
		recorder = a.admin
	}
	orchestrator, err := contact.New(client, settings, recorder, logger.Component(a.log, "contact"))
	if err != nil {
		return err
	}
	a.orchestrator = orchestrator
	a.sessions.SetLayout(layout)
	return nil
}

func (a *app) server() (*web.Server, error) {
	deps := web.Deps{
		Sessions:     a.sessions,
		Contact:      a.orchestrator,
		Theme:        a.themes,
		Projects:     Projects,
		AboutMe:      AboutMe,
		DismissAfter: a.cfg.AutoDismiss,
		FadeAfter:    a.cfg.Fade,
		Log:          logger.Component(a.log, "web"),
	}
	if a.admin != nil && a.cfg.TrackVisitors {
		deps.Middleware = append(deps.Middleware, a.admin.trackingMiddleware())
	}

	srv, err := web.New(deps)
	if err != nil {
		return nil, err
	}

	r := srv.Engine()
	r.Static("/images", "./images")
	r.Static("/static", "./static")
	setupExperienceRoutes(r)
	if a.admin != nil {
		a.admin.routes(r)
	}
	return srv, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

func setupExperienceRoutes(r *gin.Engine) {
	// Work experience content
	r.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "work-content.html", gin.H{
			"jobTitle":  "Presentation Expert",
			"company":   "Target",
			"startDate": "Aug 2023",
			"endDate":   "Present",
			"logoPath":  "images/TargetLogo.jpg",
			"bulletPoints": []string{
				"Executed over 300 merchandising transitions on tight timelines by organizing team workflows and adapting quickly to changing priorities",
				"Boosted operational efficiency by managing backroom inventory processes and streamlining communication between floor and logistics teams",
				"Enhanced pricing and signage accuracy across departments by standardizing daily checks and collaborating cross-functionally",
			},
			"jobTitle2":  "Manager",
			"company2":   "Jasons Catered Events",
			"startDate2": "Aug 2016",
			"endDate2":   "Present",
			"logoPath2":  "images/jasonsCateringLogo.png",
			"bulletPoints2": []string{
				"Improved client satisfaction by coordinating customized menus and ensuring all dietary requirements were accurately met",
				"Supported event technology by troubleshooting AV equipment and managing digital order tracking systems, reducing technical delays and improving communication",
				"Maintained supply inventory and coordinated timely delivery between venues, optimizing resource allocation and minimizing downtime.",
			},
		})
	})

	// Education content
	r.GET("/education-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "education-content.html", gin.H{
			"degree":      "Bachelor of Computer Science",
			"institution": "Western Governors University",
			"startDate":   "Sept 2019",
			"endDate":     "May 2023",
			"logoPath":    "images/WGU-logo.png",
			"bulletPoints": []string{
				"Graduated Magna Cum Laude with 3.8 GPA",
				"Relevant coursework: Data Structures, Algorithms, Web Development",
				"Senior project: Machine Learning recommendation system",
			},
			"degree2":      "Project Management",
			"institution2": "Comptia",
			"startDate2":   "July 2022",
			"endDate2":     "Present",
			"logoPath2":    "images/comptiaCert.png",
			"bulletPoints2": []string{
				"Certified in agile project management methodology",
				"Verification code: SRRRPGBSWBRQCCDJ",
			},
		})
	})
}
