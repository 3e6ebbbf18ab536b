package httpgin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/metrics"
	redisrepo "github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/redis"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// WebhookParser verifies and decodes a processor callback. A nil event with a nil
// error means the callback is valid but irrelevant.
type WebhookParser interface {
	Parse(payload []byte, signature string) (*domain.PaymentEvent, error)
}

// EventSink accepts verified payment events for asynchronous processing.
type EventSink interface {
	Publish(ctx context.Context, ev domain.PaymentEvent) (duplicate bool, err error)
}

type Deps struct {
	Idempotency    *redisrepo.IdempotencyStore
	IdemLockTTL    time.Duration
	Webhooks       WebhookParser
	Events         EventSink
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
}

func NewRouter(
	svcs *service.Services,
	deps Deps,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	if deps.Metrics != nil {
		r.Use(MetricsMiddleware(deps.Metrics))
	}
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	idem := idempotency{lockTTL: deps.IdemLockTTL, log: logger}
	if deps.Idempotency != nil {
		idem.store = deps.Idempotency
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	// Public API
	r.GET("/availability", handleAvailability(svcs))
	r.GET("/slots", handleQuerySlots(svcs))
	if deps.Webhooks != nil && deps.Events != nil {
		r.POST("/webhooks/stripe", handleStripeWebhook(deps.Webhooks, deps.Events, logger))
	}

	// Authenticated API
	authed := r.Group("/", Identity())
	{
		authed.POST("/reservations", handleCreateReservation(svcs, idem))
		authed.GET("/reservations/:id", handleGetReservation(svcs))
		authed.DELETE("/reservations/:id", handleAbandonReservation(svcs))
		authed.POST("/reservations/:id/checkout", handleCheckout(svcs))
	}

	agencyAPI := r.Group("/agency", Identity(), RequireRole(domain.RoleAgency, domain.RoleAdmin))
	{
		agencyAPI.POST("/requests", handleCreateAgencyRequest(svcs))
		agencyAPI.GET("/requests/:id", handleGetAgencyRequest(svcs))
	}

	// Admin-API
	admin := r.Group("/admin", Identity(), RequireRole(domain.RoleAdmin))
	{
		admin.POST("/slots/toggle", handleToggleSlot(svcs))
		admin.PATCH("/slots/:id/note", handleAnnotateSlot(svcs))
		admin.DELETE("/slots", handlePurgeSlots(svcs))

		admin.POST("/reservations/:id/complete", handleCompleteReservation(svcs))
		admin.POST("/reservations/:id/cancel", handleCancelReservation(svcs))

		admin.GET("/agency/requests", handleListAgencyRequests(svcs))
		admin.POST("/agency/requests/:id/approve", handleApproveAgencyRequest(svcs))
		admin.POST("/agency/requests/:id/reject", handleRejectAgencyRequest(svcs))
		admin.POST("/agency/requests/:id/convert", handleConvertAgencyRequest(svcs, idem))
	}

	return r
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// parseIDList reads "1,2,3". An empty string means no filter.
func parseIDList(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid resource id %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
