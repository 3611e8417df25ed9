// Package httpapi serves the dashboard over a JSON API authenticated with
// HS256 bearer tokens.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"screentime-go/internal/dashboard"
	"screentime-go/internal/model"
)

// Server holds the dependencies of the API handlers.
type Server struct {
	service *dashboard.Service
	secret  []byte
	logger  dashboard.Logger
}

// NewServer creates a Server. secret signs and verifies bearer tokens.
func NewServer(service *dashboard.Service, secret []byte, logger dashboard.Logger) *Server {
	return &Server{service: service, secret: secret, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1", AuthMiddleware(s.secret))
	v1.GET("/parent", s.getParent)
	v1.GET("/overview", s.getOverview)
	v1.GET("/children/:id", s.getChild)
	v1.POST("/children", s.addChild)
	v1.GET("/notifications", s.getNotifications)
	v1.POST("/notifications/read", s.markAllRead)
	v1.PATCH("/rules/:id", s.updateRule)
	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Truncate(time.Microsecond),
		)
	}
}

func (s *Server) getParent(c *gin.Context) {
	p, err := s.service.Parent(c.Request.Context(), parentID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) getOverview(c *gin.Context) {
	ov, err := s.service.Overview(c.Request.Context(), parentID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

func (s *Server) getChild(c *gin.Context) {
	d, err := s.service.ChildDetail(c.Request.Context(), parentID(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type addChildRequest struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age"`
	Avatar string `json:"avatar"`
}

func (s *Server) addChild(c *gin.Context) {
	var req addChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	child, err := s.service.AddChild(c.Request.Context(), parentID(c), model.NewChild{
		Name:   req.Name,
		Age:    req.Age,
		Avatar: req.Avatar,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, child)
}

func (s *Server) getNotifications(c *gin.Context) {
	feed, err := s.service.Notifications(c.Request.Context(), parentID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (s *Server) markAllRead(c *gin.Context) {
	ctx := c.Request.Context()
	feed, err := s.service.Notifications(ctx, parentID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	feed, err = s.service.MarkAllRead(ctx, parentID(c), feed)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// updateRule applies a partial update to one of the caller's rules. Rules of
// other parents are reported as not found.
func (s *Server) updateRule(c *gin.Context) {
	var update model.RuleUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	ruleID := c.Param("id")

	rule, err := s.ownedRule(ctx, parentID(c), ruleID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.service.UpdateRule(ctx, ruleID, update); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, update.Apply(*rule))
}

func (s *Server) ownedRule(ctx context.Context, parentID, ruleID string) (*model.Rule, error) {
	children, err := s.service.Children(ctx, parentID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		for _, r := range child.Rules {
			if r.ID == ruleID {
				return &r, nil
			}
		}
	}
	return nil, fmt.Errorf("rule %s: %w", ruleID, dashboard.ErrNotFound)
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger dashboard.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
