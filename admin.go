// admin.go - privacy-conscious visitor tracking, submission log and admin dashboard
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/relay"
	"github.com/Zachkp/portfolio/internal/theme"
)

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// SubmissionRecord is one contact submission that reached the relay. The
// message body is never stored.
type SubmissionRecord struct {
	ID          int       `json:"id"`
	HashedEmail string    `json:"hashed_email"`
	Outcome     string    `json:"outcome"`
	Detail      string    `json:"detail"`
	Timestamp   time.Time `json:"timestamp"`
}

type AdminStats struct {
	TotalVisitors       int64              `json:"total_visitors"`
	UniqueVisitors      int64              `json:"unique_visitors"`
	VisitorsToday       int64              `json:"visitors_today"`
	VisitorsThisWeek    int64              `json:"visitors_this_week"`
	SubmissionsSent     int64              `json:"submissions_sent"`
	SubmissionsRejected int64              `json:"submissions_rejected"`
	SubmissionsFailed   int64              `json:"submissions_failed"`
	LightTheme          int64              `json:"light_theme"`
	DarkTheme           int64              `json:"dark_theme"`
	RecentVisitors      []VisitorMetric    `json:"recent_visitors"`
	RecentSubmissions   []SubmissionRecord `json:"recent_submissions"`
}

// retention is how long visitor and submission rows are kept.
const retention = "-12 months"

const adminSessionTTL = 24 * time.Hour

type admin struct {
	db       *sql.DB
	log      *zap.Logger
	secret   []byte // signs admin session tokens
	salt     string
	username string
	password string
}

// newAdmin prepares the admin system. Credentials fall back to development
// defaults, with a warning, when unset.
func newAdmin(db *sql.DB, username, password string, log *zap.Logger) (*admin, error) {
	secret, err := randomHex()
	if err != nil {
		return nil, err
	}
	salt, err := randomHex() // Use for IP hashing
	if err != nil {
		return nil, err
	}
	if username == "" {
		username = "admin"
		log.Warn("using default admin username, set ADMIN_USERNAME")
	}
	if password == "" {
		password = "admin123"
		log.Warn("using default admin password, set ADMIN_PASSWORD")
	}

	log.Info("admin access available", zap.String("path", "/admin/login"))
	return &admin{db: db, log: log, secret: []byte(secret), salt: salt, username: username, password: password}, nil
}

func randomHex() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate admin secret: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Hash a value (IP or email) for privacy compliance, consistent per value
func (a *admin) hash(value string) string {
	h := sha256.New()
	h.Write([]byte(value + a.salt))
	return hex.EncodeToString(h.Sum(nil))[:16] // Truncate for storage efficiency
}

// issueToken signs a session token for the admin user.
func (a *admin) issueToken(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   a.username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(adminSessionTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *admin) validToken(raw string) bool {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return false
	}
	sub, err := token.Claims.GetSubject()
	return err == nil && sub == a.username
}

// Middleware to check admin authentication
func (a *admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || !a.validToken(token) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func untracked(path string) bool {
	for _, prefix := range []string{
		"/static/", "/images/", "/admin/", "/favicon", "/privacy",
		"/notifications", "/healthz", "/debug/",
	} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Privacy-conscious visitor tracking middleware
func (a *admin) trackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		// Respect Do Not Track header
		if untracked(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		// Track visitor with hashed IP in background
		go a.trackVisitor(c.ClientIP(), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

func (a *admin) trackVisitor(ip, userAgent, path string) {
	_, err := a.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, a.hash(ip), userAgent, path, time.Now().UTC())
	if err != nil {
		a.log.Warn("error recording visitor", zap.Error(err))
	}
}

// RecordSubmission logs a relay outcome against the sender's hashed email.
func (a *admin) RecordSubmission(ctx context.Context, p relay.Payload, out relay.Outcome) {
	_, err := a.db.ExecContext(context.WithoutCancel(ctx), `
		INSERT INTO submissions (hashed_email, outcome, detail, timestamp)
		VALUES (?, ?, ?, ?)
	`, a.hash(strings.ToLower(p.Email)), out.Kind.String(), out.String(), time.Now().UTC())
	if err != nil {
		a.log.Warn("error recording submission", zap.Error(err))
	}
}

// cleanup deletes visitor and submission rows past the retention window.
func (a *admin) cleanup(ctx context.Context) (int64, error) {
	var total int64
	for _, table := range []string{"visitors", "submissions"} {
		result, err := a.db.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE timestamp < datetime('now', ?)`, retention)
		if err != nil {
			return total, fmt.Errorf("cleanup %s: %w", table, err)
		}
		n, _ := result.RowsAffected()
		total += n
	}
	if total > 0 {
		a.log.Info("privacy cleanup removed old records", zap.Int64("rows", total))
	}
	return total, nil
}

func (a *admin) outcomeCounts(ctx context.Context, stats *AdminStats) error {
	rows, err := a.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM submissions GROUP BY outcome`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var n int64
		if err := rows.Scan(&outcome, &n); err != nil {
			return err
		}
		switch outcome {
		case relay.Success.String():
			stats.SubmissionsSent = n
		case relay.ApplicationFailure.String():
			stats.SubmissionsRejected = n
		case relay.TransportFailure.String():
			stats.SubmissionsFailed = n
		}
	}
	return rows.Err()
}

// Get comprehensive admin statistics
func (a *admin) stats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}

	counts := []struct {
		dst   *int64
		query string
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE DATE(timestamp) = DATE('now')`},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= datetime('now', '-7 days')`},
	}
	for _, q := range counts {
		if err := a.db.QueryRowContext(ctx, q.query).Scan(q.dst); err != nil {
			return nil, err
		}
	}

	if err := a.outcomeCounts(ctx, stats); err != nil {
		return nil, err
	}

	split, err := theme.Split(ctx, a.db)
	if err != nil {
		return nil, err
	}
	stats.LightTheme, stats.DarkTheme = split[theme.Light], split[theme.Dark]

	if stats.RecentVisitors, err = a.visitors(ctx, 50); err != nil {
		return nil, err
	}
	if stats.RecentSubmissions, err = a.submissions(ctx, 10); err != nil {
		return nil, err
	}
	return stats, nil
}

func (a *admin) visitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			continue
		}
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

func (a *admin) submissions(ctx context.Context, limit int) ([]SubmissionRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, hashed_email, outcome, COALESCE(detail, ''), timestamp
		FROM submissions
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SubmissionRecord
	for rows.Next() {
		var s SubmissionRecord
		if err := rows.Scan(&s.ID, &s.HashedEmail, &s.Outcome, &s.Detail, &s.Timestamp); err != nil {
			continue
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Setup all admin routes
func (a *admin) routes(r *gin.Engine) {
	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
		if userOK && passOK {
			token, err := a.issueToken(time.Now())
			if err != nil {
				a.log.Error("sign admin token", zap.Error(err))
				c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
					"error": "Login failed",
				})
				return
			}
			c.SetCookie("admin_token", token, int(adminSessionTTL.Seconds()), "/admin", "", false, true)
			a.log.Info("admin login", zap.String("from", a.hash(c.ClientIP())))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		a.log.Warn("failed admin login", zap.String("from", a.hash(c.ClientIP())))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(a.authMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.stats(c.Request.Context())
		if err != nil {
			a.log.Error("error loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.visitors(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	adminGroup.GET("/submissions", func(c *gin.Context) {
		submissions, err := a.submissions(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load submissions",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-submissions.html", gin.H{
			"submissions": submissions,
		})
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := a.cleanup(c.Request.Context())
		if err != nil {
			a.log.Error("privacy cleanup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.log.Info("admin stats exported", zap.String("by", a.hash(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}
