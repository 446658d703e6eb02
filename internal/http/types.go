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

type Server struct {
	Store          club.ClubStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Recorder       *recorder.Recorder
	Importer       *recorder.Importer
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
