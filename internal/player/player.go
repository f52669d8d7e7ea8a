package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gstplayer/gstplayer/internal/api"
	"github.com/gstplayer/gstplayer/internal/api/ws"
	"github.com/gstplayer/gstplayer/internal/app"
	"github.com/gstplayer/gstplayer/internal/metrics"
	"github.com/gstplayer/gstplayer/pkg/core"
	"github.com/gstplayer/gstplayer/pkg/fake"
	"github.com/gstplayer/gstplayer/pkg/gst"
	"github.com/gstplayer/gstplayer/pkg/media"
	"github.com/gstplayer/gstplayer/pkg/player"
	"github.com/rs/zerolog"
)

type Config struct {
	Backend         string        `yaml:"backend"`
	Pipeline        string        `yaml:"pipeline"`
	Sink            string        `yaml:"sink"`
	Autoplay        bool          `yaml:"autoplay"`
	FinalizeTimeout time.Duration `yaml:"finalize_timeout"`
}

func Init() {
	var cfg struct {
		Mod Config `yaml:"player"`
	}

	// default config
	cfg.Mod = Config{
		Backend:         "fake",
		Pipeline:        "videotestsrc",
		Sink:            "autovideosink",
		FinalizeTimeout: 5 * time.Second,
	}

	app.LoadConfig(&cfg)

	log = app.GetLogger("player")

	framework, err := newFramework(cfg.Mod.Backend)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.Mod.Backend).Msg("[player] init")
		return
	}

	srv, err = newService(framework, cfg.Mod, log)
	if err != nil {
		log.Error().Err(err).Str("sink", cfg.Mod.Sink).Msg("[player] init")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	stop = cancel
	go func() {
		_ = srv.loop.Run(ctx)
	}()

	api.HandleFunc("api/player", srv.apiPlayer)
	api.InfoFunc("player", srv.info)

	for _, typ := range []string{"player", "play", "pause", "stop", "eos", "fullscreen", "pipeline"} {
		ws.HandleFunc(typ, srv.wsHandler)
	}

	if cfg.Mod.Autoplay {
		srv.loop.Post(func() {
			if err := srv.player.Play(); err != nil {
				log.Warn().Err(err).Msg("[player] autoplay")
			}
		})
	}
}

// Shutdown - finalize the stream, close the pipeline and stop the loop
func Shutdown() {
	if srv == nil {
		return
	}
	srv.shutdown()
	stop()
}

var log zerolog.Logger
var srv *service
var stop context.CancelFunc

func newFramework(backend string) (media.Framework, error) {
	switch backend {
	case "", "fake":
		return fake.New(), nil
	case "gstreamer", "gst":
		return gst.New()
	}
	return nil, fmt.Errorf("player: unknown backend %q", backend)
}

// service - player adapter bound to its loop and web clients
type service struct {
	loop   *core.Loop
	player *player.Player
	window *Window

	timeout time.Duration
	log     zerolog.Logger

	// touched only from the loop
	clients map[*ws.Transport]int
}

func newService(framework media.Framework, cfg Config, log zerolog.Logger) (*service, error) {
	sink, err := framework.NewElement(cfg.Sink)
	if err != nil {
		return nil, err
	}

	s := &service{
		loop:    core.NewLoop(),
		window:  NewWindow(),
		timeout: cfg.FinalizeTimeout,
		log:     log,
		clients: map[*ws.Transport]int{},
	}

	s.player = player.New(
		framework, s.loop,
		player.WithLogger(log),
		player.WithMetrics(metrics.Recorder{}),
		player.WithParent(s.window),
	)
	s.player.SetVideoSink(sink)
	s.player.SetPipelineDescription(cfg.Pipeline)

	s.window.OnChange(func(fullscreen bool) {
		s.broadcast(&ws.Message{Type: "fullscreen", Value: fullscreen})
	})

	return s, nil
}

// Status - snapshot of the player for web clients
type Status struct {
	Playing    bool   `json:"playing"`
	Paused     bool   `json:"paused"`
	Stopped    bool   `json:"stopped"`
	Pipeline   string `json:"pipeline"`
	Fullscreen bool   `json:"fullscreen"`
}

// status must be called from the loop
func (s *service) status() Status {
	return Status{
		Playing:    s.player.IsPlaying(),
		Paused:     s.player.IsPaused(),
		Stopped:    s.player.IsStopped(),
		Pipeline:   s.player.PipelineDescription(),
		Fullscreen: s.window.IsFullScreen(),
	}
}

// info - status for the app info, nil after shutdown
func (s *service) info() any {
	var st Status
	if err := s.do(func() error { st = s.status(); return nil }); err != nil {
		return nil
	}
	return st
}

var ErrClosed = errors.New("player: closed")
var ErrUnknownAction = errors.New("player: unknown action")

// do - run f on the loop and wait for the result
func (s *service) do(f func() error) error {
	var err error
	if !s.loop.Call(func() { err = f() }) {
		return ErrClosed
	}
	return err
}

// action must be called from the loop
func (s *service) action(name string, delay time.Duration) error {
	switch name {
	case "play":
		return s.player.Play()
	case "pause":
		s.player.Pause()
	case "stop":
		s.player.Stop()
	case "eos":
		if !s.player.SendEOS() {
			return player.ErrNoPipeline
		}
	case "fullscreen":
		s.player.ToggleFullScreen()
	case "stop_timer":
		s.player.StartStopTimer(delay)
	case "play_timer":
		s.player.StartPlayTimer(delay)
	case "cancel_timers":
		s.player.CancelTimers()
	default:
		return ErrUnknownAction
	}
	return nil
}

// subscribe must be called from the loop
func (s *service) subscribe(tr *ws.Transport) {
	if _, ok := s.clients[tr]; ok {
		return
	}

	s.clients[tr] = s.player.Listen(func(msg any) {
		if e, ok := msg.(player.Event); ok {
			tr.Write(eventMessage(e))
		}
	})

	tr.OnClose(func() {
		s.loop.Post(func() {
			s.player.Unlisten(s.clients[tr])
			delete(s.clients, tr)
		})
	})
}

// broadcast must be called from the loop
func (s *service) broadcast(msg *ws.Message) {
	for tr := range s.clients {
		tr.Write(msg)
	}
}

func (s *service) shutdown() {
	done := make(chan struct{})

	ok := s.loop.Call(func() {
		s.player.Finalize(s.timeout, func() { close(done) })
	})
	if !ok {
		return
	}

	select {
	case <-done:
	case <-time.After(s.timeout + time.Second):
		s.log.Warn().Msg("[player] finalize hang")
	}

	s.loop.Call(s.player.Close)
	s.loop.Close()
}

func eventMessage(e player.Event) *ws.Message {
	if e.Kind == player.EventMessageBox {
		return &ws.Message{Type: e.Kind.String(), Value: e.Text}
	}
	return &ws.Message{Type: e.Kind.String(), Value: e.Value}
}
