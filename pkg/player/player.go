// Package player drives a media pipeline built from a launch description and
// translates its bus messages into playing/paused/stopped notifications.
//
// All methods must be called on the goroutine of the Dispatcher passed to New.
// Bus messages and timers are posted to the same Dispatcher, so nothing here
// needs locking.
package player

import (
	"time"

	"github.com/gstplayer/gstplayer/pkg/core"
	"github.com/gstplayer/gstplayer/pkg/media"
	"github.com/rs/zerolog"
)

// VideoCaps - caps forced on the element which feeds the video sink
const VideoCaps = "video/x-raw, format=I420"

type Player struct {
	core.Listener

	framework  media.Framework
	dispatcher core.Dispatcher
	log        zerolog.Logger
	metrics    Metrics

	parent     Object
	fullscreen FullscreenTarget

	description string // desired
	current     string // pipeline was built for

	pipeline media.Pipeline
	sink     media.Element
	state    State

	stopTimer *core.Timer
	playTimer *core.Timer

	finalizeTimer *core.Timer
	finalizeDone  []func()
	finalizing    bool
}

type Option func(p *Player)

func WithLogger(log zerolog.Logger) Option {
	return func(p *Player) {
		p.log = log
	}
}

func WithMetrics(m Metrics) Option {
	return func(p *Player) {
		p.metrics = m
	}
}

// WithParent - UI object which hosts the player, used by ToggleFullScreen
func WithParent(parent Object) Option {
	return func(p *Player) {
		p.parent = parent
	}
}

// WithFullscreen - window toggled by ToggleFullScreen instead of the parent chain
func WithFullscreen(target FullscreenTarget) Option {
	return func(p *Player) {
		p.fullscreen = target
	}
}

func New(framework media.Framework, dispatcher core.Dispatcher, opts ...Option) *Player {
	p := &Player{
		framework:  framework,
		dispatcher: dispatcher,
		log:        zerolog.Nop(),
		metrics:    nopMetrics{},
	}

	for _, opt := range opts {
		opt(p)
	}

	p.stopTimer = core.NewTimer(dispatcher, p.onStopTimer)
	p.playTimer = core.NewTimer(dispatcher, p.onPlayTimer)
	p.finalizeTimer = core.NewTimer(dispatcher, p.onFinalizeTimer)

	return p
}

// SetVideoSink - element linked to the unlinked src pad of every new pipeline.
// Ignored while the pipeline is alive.
func (p *Player) SetVideoSink(sink media.Element) {
	if p.pipeline != nil {
		p.log.Debug().Msg("[player] ignore video sink for alive pipeline")
		return
	}
	p.sink = sink
}

func (p *Player) VideoSink() media.Element {
	return p.sink
}

// SetPipelineDescription - takes effect on next Play
func (p *Player) SetPipelineDescription(description string) {
	p.description = description
}

func (p *Player) PipelineDescription() string {
	return p.description
}

// Pipeline - alive pipeline or nil
func (p *Player) Pipeline() media.Pipeline {
	return p.pipeline
}

func (p *Player) State() State {
	return p.state
}

func (p *Player) IsPlaying() bool {
	return p.state == StatePlaying
}

func (p *Player) IsPaused() bool {
	return p.state == StatePaused
}

func (p *Player) IsStopped() bool {
	return p.state == StateStopped
}

// Play - rebuild pipeline if description was changed and request playing state.
// Returns nil if there is a pipeline, a rejected state change is only logged.
// Playing state comes later with bus message.
func (p *Player) Play() error {
	err := p.initialize()

	if p.pipeline == nil {
		if err == nil {
			err = ErrNoPipeline
		}
		return err
	}

	_ = p.setState(media.StatePlaying)
	return nil
}

func (p *Player) Pause() {
	if p.pipeline != nil {
		_ = p.setState(media.StatePaused)
	}
}

func (p *Player) Stop() {
	if p.pipeline != nil {
		_ = p.setState(media.StateNull)
	}
}

// SendEOS - let muxers finalize their output. Returns false without pipeline.
func (p *Player) SendEOS() bool {
	if p.pipeline == nil {
		return false
	}
	return p.pipeline.SendEvent(media.EventEOS)
}

// Finalize - send EOS and stop after EOS message or timeout, then call done.
// Without pipeline done is called immediately.
func (p *Player) Finalize(timeout time.Duration, done func()) {
	if done != nil {
		p.finalizeDone = append(p.finalizeDone, done)
	}

	p.finalizing = true

	if !p.SendEOS() {
		p.finishFinalize()
		return
	}

	if !p.finalizeTimer.Active() {
		p.finalizeTimer.Start(timeout)
	}
}

// StartStopTimer - after d publish stopped state and stop the pipeline
func (p *Player) StartStopTimer(d time.Duration) {
	p.stopTimer.Start(d)
}

// StartPlayTimer - after d publish playing state and play the pipeline
func (p *Player) StartPlayTimer(d time.Duration) {
	p.playTimer.Start(d)
}

func (p *Player) CancelTimers() {
	p.stopTimer.Stop()
	p.playTimer.Stop()
}

// Close - stop and drop the pipeline together with its bus watch
func (p *Player) Close() {
	p.CancelTimers()
	p.Stop()
	p.release()
	p.finishFinalize()
}

func (p *Player) OnPlayingChanged(f func(playing bool)) {
	p.listenKind(EventPlaying, func(e Event) { f(e.Value) })
}

func (p *Player) OnPausedChanged(f func(paused bool)) {
	p.listenKind(EventPaused, func(e Event) { f(e.Value) })
}

func (p *Player) OnStoppedChanged(f func(stopped bool)) {
	p.listenKind(EventStopped, func(e Event) { f(e.Value) })
}

func (p *Player) OnMessageBox(f func(text string)) {
	p.listenKind(EventMessageBox, func(e Event) { f(e.Text) })
}

func (p *Player) listenKind(kind EventKind, f func(e Event)) {
	p.Listen(func(msg any) {
		if e, ok := msg.(Event); ok && e.Kind == kind {
			f(e)
		}
	})
}

func (p *Player) initialize() error {
	desc := p.description
	if desc == "" || desc == p.current {
		return nil
	}

	if p.sink == nil {
		p.log.Warn().Str("pipeline", desc).Msg("[player] no video sink")
		return ErrNoVideoSink
	}

	p.current = ""

	if p.pipeline != nil {
		p.Stop()
		p.release()
		p.publish(StateStopped, orderPlay)
	}

	pipeline, err := p.framework.Parse(desc)
	if err != nil || pipeline == nil {
		return p.buildFailed(desc, ReasonParse, err, "Failed to create the pipeline '"+desc+"'!")
	}

	pad := pipeline.FindUnlinkedPad(media.DirectionSrc)
	if pad == nil {
		return p.buildFailed(desc, ReasonNoSource, nil,
			"The Pipeline command string has no unlinked video source element, cannot link pipeline. String = "+desc)
	}

	src := pad.ParentElement()
	if err = src.SetProperty("caps", media.Caps(VideoCaps)); err != nil {
		p.log.Warn().Err(err).Str("element", src.Name()).Msg("[player] set caps")
	}
	if err = p.sink.SetProperty("sync", false); err != nil {
		p.log.Warn().Err(err).Str("element", p.sink.Name()).Msg("[player] set sync")
	}

	if err = pipeline.Add(p.sink); err != nil {
		return p.buildFailed(desc, ReasonLink, err, "Failed to link the video sink to the pipeline '"+desc+"'!")
	}

	if err = src.Link(p.sink); err != nil {
		_ = pipeline.Remove(p.sink)
		return p.buildFailed(desc, ReasonLink, err, "Failed to link the video sink to the pipeline '"+desc+"'!")
	}

	err = pipeline.Bus().AddWatch(func(msg *media.Message) {
		// framework goroutine
		p.dispatcher.Post(func() {
			p.onBusMessage(pipeline, msg)
		})
	})
	if err != nil {
		_ = pipeline.Remove(p.sink)
		return p.buildFailed(desc, ReasonWatch, err, "Failed to watch the pipeline '"+desc+"'!")
	}

	p.pipeline = pipeline
	p.current = desc
	p.metrics.PipelineBuilt()

	p.log.Debug().Str("pipeline", pipeline.Name()).Str("src", src.Name()).
		Str("sink", p.sink.Name()).Msgf("[player] build %s", desc)

	return nil
}

func (p *Player) buildFailed(desc string, reason Reason, err error, text string) error {
	p.log.Warn().Err(err).Str("reason", string(reason)).Msgf("[player] build %s", desc)
	p.metrics.PipelineFailed(reason)
	p.messageBox(text)
	return &BuildError{Description: desc, Reason: reason, Err: err}
}

// release - drop the pipeline, the watch must not outlive it
func (p *Player) release() {
	if p.pipeline == nil {
		return
	}

	p.pipeline.Bus().RemoveWatch()

	if err := p.pipeline.Remove(p.sink); err != nil {
		p.log.Debug().Err(err).Msg("[player] remove video sink")
	}

	p.pipeline = nil
}

func (p *Player) setState(state media.State) error {
	if err := p.pipeline.SetState(state); err != nil {
		p.log.Warn().Err(err).Stringer("state", state).Msg("[player] set state")
		return err
	}
	return nil
}

func (p *Player) onBusMessage(from media.Pipeline, msg *media.Message) {
	if from != p.pipeline {
		p.log.Trace().Stringer("msg", msg).Msg("[player] drop message of old pipeline")
		return
	}

	p.metrics.BusMessage(msg.Type)

	switch msg.Type {
	case media.MessageEOS:
		p.log.Debug().Str("source", msg.Source).Msg("[player] end of stream")
		if p.finalizing {
			p.finishFinalize()
		} else {
			p.Stop()
		}

	case media.MessageError:
		p.log.Error().Err(msg.Err).Str("source", msg.Source).Str("debug", msg.Debug).
			Bool("critical", true).Msg("[player] pipeline error")
		p.Stop()
		p.finishFinalize()

	case media.MessageStateChanged:
		if msg.Source == from.Name() {
			p.log.Trace().Stringer("old", msg.OldState).Stringer("new", msg.NewState).Msg("[player] state")
			p.onPipelineState(msg.NewState)
		}
	}
}

func (p *Player) onPipelineState(state media.State) {
	switch state {
	case media.StatePlaying:
		p.publish(StatePlaying, orderPlay)
	case media.StatePaused:
		p.publish(StatePaused, orderPlay)
	case media.StateNull:
		p.publish(StateStopped, orderPlay)
	}
}

// publish - update state first, then notify all three properties in order
func (p *Player) publish(state State, order [3]EventKind) {
	p.state = state
	p.metrics.StateChanged(state)

	for _, kind := range order {
		p.Fire(Event{Kind: kind, Value: state.Value(kind)})
	}
}

func (p *Player) messageBox(text string) {
	p.Fire(Event{Kind: EventMessageBox, Text: text})
}

func (p *Player) onStopTimer() {
	p.publish(StateStopped, orderStop)
	p.Stop()
}

func (p *Player) onPlayTimer() {
	p.publish(StatePlaying, orderPlay)
	_ = p.Play()
}

func (p *Player) onFinalizeTimer() {
	p.log.Warn().Msg("[player] no end of stream before timeout")
	p.finishFinalize()
}

func (p *Player) finishFinalize() {
	p.finalizeTimer.Stop()

	if !p.finalizing {
		return
	}

	done := p.finalizeDone
	p.finalizeDone = nil
	p.finalizing = false

	p.Stop()

	for _, f := range done {
		f()
	}
}
