package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"employeeManagement/internal/apperr"
	"employeeManagement/internal/auth"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestID propagates the caller's X-Request-ID or assigns a fresh one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (h *handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func (h *handler) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Metrics == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		h.Metrics.ObserveRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

// authenticate requires a valid, unrevoked bearer token and stores its Principal in
// the request context.
func (h *handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := auth.ParseBearer(c.GetHeader("Authorization"))
		if err != nil {
			h.fail(c, apperr.Auth("Authentication required"))
			return
		}
		p, err := h.Auth.Authenticate(c.Request.Context(), tok)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// optionalAuth behaves like authenticate when an Authorization header is present and
// lets anonymous requests through otherwise.
func (h *handler) optionalAuth() gin.HandlerFunc {
	strict := h.authenticate()
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		strict(c)
	}
}

// requireRole aborts with 403 unless the token's role is in allowed.
func (h *handler) requireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := auth.RequireRole(c.Request.Context(), allowed...); err != nil {
			h.fail(c, err)
			return
		}
		c.Next()
	}
}

func principal(c *gin.Context) *auth.Principal {
	p, _ := auth.FromContext(c.Request.Context())
	return p
}
