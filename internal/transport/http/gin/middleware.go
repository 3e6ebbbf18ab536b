package httpgin

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
	actorKey       = "actor"
	requestIDKey   = "request_id"
)

const headerRequestID = "X-Request-ID"

// RequestIDMiddleware echoes the caller's X-Request-ID or mints one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(headerRequestID, id)
		c.Set(requestIDKey, id)
		c.Next()
	}
}

// CORS lets browser front ends call the booking API with the caller and
// caching headers it relies on.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			headerRequestID, headerUserID, headerUserRole, headerIdempotencyKey, "If-None-Match",
		},
		ExposeHeaders: []string{
			headerRequestID, "ETag", "Cache-Control", headerIdempotencyKey, headerReplayed, "Retry-After",
		},
		MaxAge: 12 * time.Hour,
	})
}

// LoggingMiddleware writes one line per request. Server errors log at error
// level, client errors at warn, the rest at info.
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.String("path", c.Request.URL.RequestURI()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes_out", c.Writer.Size()),
			slog.String("ip", c.ClientIP()),
			slog.String("request_id", c.GetString(requestIDKey)),
		}
		if actor := actorFrom(c); actor.ID != 0 {
			attrs = append(attrs, slog.Int64("actor_id", actor.ID), slog.String("role", string(actor.Role)))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "http", slog.Group("http", attrs...))
	}
}

// MetricsMiddleware records every request under its route template, so
// /reservations/:id is one series whatever the id.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Identity trusts the caller headers set by the upstream auth gateway.
// A missing or malformed user id is a 401; a missing role means a plain user.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerUserID))
		id, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid " + headerUserID})
			return
		}

		role := domain.Role(strings.ToLower(strings.TrimSpace(c.GetHeader(headerUserRole))))
		switch role {
		case "":
			role = domain.RoleUser
		case domain.RoleUser, domain.RoleAgency, domain.RoleAdmin:
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unknown role"})
			return
		}

		c.Set(actorKey, domain.Actor{ID: id, Role: role})
		c.Next()
	}
}

// RequireRole must run after Identity.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFrom(c)
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	}
}

func actorFrom(c *gin.Context) domain.Actor {
	v, _ := c.Get(actorKey)
	actor, _ := v.(domain.Actor)
	return actor
}
