package http

import (
	"net/http"

	"github.com/HeXi037/cross-sport-tracker-sub002/internal/club"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/config"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/notifier"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/processor"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/pubsub"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/recorder"
)

func NewServer(store club.ClubStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, rec *recorder.Recorder, importer *recorder.Importer, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Recorder:       rec,
		Importer:       importer,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.PlayersHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.MatchesHandler(), paramsMiddleware))
	s.Router.Handle("/matches/preview/bowling", Chain(s.PreviewBowlingHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/player-stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/process", Chain(s.ProcessMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/import/playtomic", Chain(s.ImportPlaytomicHandler(), paramsMiddleware))
	s.Router.Handle("/update-player-stats", Chain(s.UpdatePlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/player-stats", Chain(s.PlayerStatsCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
