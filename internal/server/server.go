// Package server exposes schema inspection and comparison over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"db-compare/internal/diff"
	"db-compare/internal/introspect"
	"db-compare/internal/schema"

	"github.com/gin-gonic/gin"
)

type Config struct {
	Targets     []introspect.Target
	Tokens      map[string]Role
	SnapshotDir string
	// Timeout bounds each introspection a request triggers. Zero means the
	// request context alone.
	Timeout time.Duration
}

type Server struct {
	cfg          Config
	targets      map[string]introspect.Target
	introspector introspect.Introspector
	now          func() time.Time
}

func New(cfg Config, in introspect.Introspector) *Server {
	targets := make(map[string]introspect.Target, len(cfg.Targets))
	for _, t := range cfg.Targets {
		targets[t.Name] = t
	}
	return &Server{cfg: cfg, targets: targets, introspector: in, now: time.Now}
}

// Router builds the gin engine with every route and its role guard.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), Authenticate(s.cfg.Tokens))

	r.GET("/ping", Ping)

	api := r.Group("/api")
	api.POST("/login", s.Login)
	api.GET("/targets", RequireRole(User), s.ListTargets)
	api.GET("/targets/:name/schema", RequireRole(User), s.TargetSchema)
	api.POST("/compare", RequireRole(User), s.Compare)
	api.POST("/targets/:name/snapshot", RequireRole(Admin), s.Snapshot)
	return r
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

type loginRequest struct {
	Token string `json:"token" binding:"required"`
}

// Login reports the role a token grants. Unknown tokens are refused with 401
// and left as guests.
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	role, ok := s.cfg.Tokens[req.Token]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"role": Guest.String()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role.String()})
}

func (s *Server) ListTargets(c *gin.Context) {
	targets := make([]introspect.Target, len(s.cfg.Targets))
	copy(targets, s.cfg.Targets)
	c.JSON(http.StatusOK, gin.H{"targets": targets})
}

func (s *Server) TargetSchema(c *gin.Context) {
	t, ok := s.lookup(c, c.Param("name"))
	if !ok {
		return
	}

	ctx, cancel := s.context(c)
	defer cancel()

	sc, err := s.introspector.Introspect(ctx, t)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

type compareRequest struct {
	Left    string   `json:"left" binding:"required"`
	Right   string   `json:"right" binding:"required"`
	Tables  []string `json:"tables"`
	Exclude []string `json:"exclude"`
}

func (s *Server) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	left, ok := s.lookup(c, req.Left)
	if !ok {
		return
	}
	right, ok := s.lookup(c, req.Right)
	if !ok {
		return
	}

	ctx, cancel := s.context(c)
	defer cancel()

	log.Printf("Comparing %s with %s", left, right)
	ls, rs, err := introspect.Pair(ctx, s.introspector, left, right)
	if err != nil {
		s.fail(c, err)
		return
	}

	result := diff.Compare(
		schema.Filter(ls, req.Tables, req.Exclude),
		schema.Filter(rs, req.Tables, req.Exclude),
	).Sorted()

	c.JSON(http.StatusOK, gin.H{
		"left":        left.Name,
		"right":       right.Name,
		"tableDiffs":  result.Tables,
		"columnDiffs": result.Columns,
	})
}

// Snapshot records a target's schema as <snapshot_dir>/<name>.toml.
func (s *Server) Snapshot(c *gin.Context) {
	if s.cfg.SnapshotDir == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot directory not configured"})
		return
	}
	name := c.Param("name")
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target name"})
		return
	}
	t, ok := s.lookup(c, name)
	if !ok {
		return
	}

	ctx, cancel := s.context(c)
	defer cancel()

	sc, err := s.introspector.Introspect(ctx, t)
	if err != nil {
		s.fail(c, err)
		return
	}

	if err := os.MkdirAll(s.cfg.SnapshotDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	path := filepath.Join(s.cfg.SnapshotDir, name+".toml")
	meta := schema.SnapshotMeta{Driver: t.Driver, TakenAt: s.now()}
	if err := schema.WriteSnapshot(path, sc, meta); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Snapshot of %s written to %s", t, path)
	c.JSON(http.StatusCreated, gin.H{"path": path, "tables": len(sc.Tables)})
}

func (s *Server) lookup(c *gin.Context, name string) (introspect.Target, bool) {
	t, ok := s.targets[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown target %q", name)})
	}
	return t, ok
}

func (s *Server) context(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout > 0 {
		return context.WithTimeout(c.Request.Context(), s.cfg.Timeout)
	}
	return context.WithCancel(c.Request.Context())
}

// fail maps introspection failures to 502 and deadlines to 504.
func (s *Server) fail(c *gin.Context, err error) {
	log.Printf("Request failed: %v", err)

	status := http.StatusInternalServerError
	var ie *introspect.IntrospectionError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.As(err, &ie):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
