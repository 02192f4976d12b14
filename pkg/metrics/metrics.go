// Package metrics exposes Prometheus collectors for HTTP traffic and checkout.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	CheckoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotel_checkouts_total",
			Help: "Checkout attempts by payment method and result",
		},
		[]string{"method", "result"},
	)
	PointsRedeemed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotel_loyalty_points_redeemed_total",
			Help: "Loyalty points spent at checkout",
		},
	)
	PointsEarned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotel_loyalty_points_earned_total",
			Help: "Loyalty points credited at checkout",
		},
	)
	RoomClaimConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotel_room_claim_conflicts_total",
			Help: "Room claims rejected because no room was free",
		},
	)
)

// NormalizePath keeps the first path segment so ids do not explode label cardinality.
func NormalizePath(p string) string {
	p = strings.TrimPrefix(p, "/")
	if idx := strings.Index(p, "/"); idx >= 0 {
		p = p[:idx]
	}
	if p == "" {
		return "root"
	}
	return p
}
