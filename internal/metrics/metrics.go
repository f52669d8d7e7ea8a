package metrics

import (
	"github.com/gstplayer/gstplayer/internal/api"
	"github.com/gstplayer/gstplayer/pkg/media"
	"github.com/gstplayer/gstplayer/pkg/player"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Init() {
	api.HandleFunc("api/metrics", promhttp.Handler().ServeHTTP)
}

var (
	pipelineBuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gstplayer_pipeline_builds_total",
		Help: "Total number of pipelines built and linked to the video sink",
	})

	pipelineFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gstplayer_pipeline_failures_total",
		Help: "Total number of failed pipeline builds by reason",
	}, []string{"reason"})

	busMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gstplayer_bus_messages_total",
		Help: "Total number of handled bus messages by type",
	}, []string{"type"})

	stateTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gstplayer_state_transitions_total",
		Help: "Total number of published player states",
	}, []string{"state"})

	playerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gstplayer_state",
		Help: "Current player state, 1 for active state",
	}, []string{"state"})
)

var states = []player.State{player.StateStopped, player.StatePaused, player.StatePlaying}

// Recorder - player.Metrics on top of the global registry
type Recorder struct{}

func (Recorder) PipelineBuilt() {
	pipelineBuildsTotal.Inc()
}

func (Recorder) PipelineFailed(reason player.Reason) {
	if reason == "" {
		reason = "unknown"
	}
	pipelineFailuresTotal.WithLabelValues(string(reason)).Inc()
}

func (Recorder) BusMessage(typ media.MessageType) {
	busMessagesTotal.WithLabelValues(typ.String()).Inc()
}

func (Recorder) StateChanged(state player.State) {
	stateTransitionsTotal.WithLabelValues(state.String()).Inc()

	for _, s := range states {
		var v float64
		if s == state {
			v = 1
		}
		playerState.WithLabelValues(s.String()).Set(v)
	}
}
