package player

import "github.com/gstplayer/gstplayer/pkg/media"

// Metrics - optional counters, called on the dispatcher goroutine
type Metrics interface {
	PipelineBuilt()
	PipelineFailed(reason Reason)
	BusMessage(msgType media.MessageType)
	StateChanged(state State)
}

type nopMetrics struct{}

func (nopMetrics) PipelineBuilt() {}
func (nopMetrics) PipelineFailed(Reason) {}
func (nopMetrics) BusMessage(media.MessageType) {}
func (nopMetrics) StateChanged(State) {}
