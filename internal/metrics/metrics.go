package metrics

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status_code"})

	AuditEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agritrack_audit_events_total",
		Help: "Activity log events by outcome (written, failed, dropped).",
	}, []string{"outcome"})

	StockTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agritrack_stock_transactions_total",
		Help: "Stock transactions recorded, by type.",
	}, []string{"type"})
)

// Audit outcomes
const (
	AuditWritten = "written"
	AuditFailed  = "failed"
	AuditDropped = "dropped"
)

// Middleware counts every request by route template and final status.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if err != nil {
			var e *fiber.Error
			if errors.As(err, &e) {
				statusCode = e.Code
			} else if statusCode < 400 {
				statusCode = fiber.StatusInternalServerError
			}
		}
		routePath := "unknown"
		if r := c.Route(); r != nil {
			routePath = r.Path
		}
		HTTPRequests.WithLabelValues(c.Method(), routePath, strconv.Itoa(statusCode)).Inc()
		return err
	}
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
