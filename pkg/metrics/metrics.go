// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GameSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leximind_game_submissions_total",
		Help: "Game score submissions by game type.",
	}, []string{"game_type"})

	ContentGeneration = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leximind_content_generation_total",
		Help: "Language model generations by kind and outcome (ok or fallback).",
	}, []string{"kind", "outcome"})

	ContentLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "leximind_content_generation_seconds",
		Help:    "Language model round trip latency.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"kind"})

	AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leximind_achievements_unlocked_total",
		Help: "Achievements awarded to users.",
	})

	SeasonsFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leximind_seasons_finalized_total",
		Help: "Seasons moved from active to completed.",
	})

	Reviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leximind_reviews_total",
		Help: "Spaced repetition reviews by rating.",
	}, []string{"rating"})
)

// Handler exposes the default registry for gin.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
