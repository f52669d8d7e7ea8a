package player

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gstplayer/gstplayer/internal/api/ws"
	"github.com/gstplayer/gstplayer/pkg/fake"
	"github.com/gstplayer/gstplayer/pkg/media"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, pipeline string) (*service, *fake.Framework) {
	framework := fake.New()

	s, err := newService(framework, Config{
		Pipeline:        pipeline,
		Sink:            "fakesink",
		FinalizeTimeout: time.Second,
	}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.loop.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return s, framework
}

func getStatus(t *testing.T, s *service) Status {
	w := httptest.NewRecorder()
	s.apiPlayer(w, httptest.NewRequest("GET", "/api/player", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var st Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	return st
}

func post(s *service, query string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.apiPlayer(w, httptest.NewRequest("POST", "/api/player?"+query, nil))
	return w
}

type client struct {
	tr   *ws.Transport
	mu   sync.Mutex
	msgs []*ws.Message
}

func newClient() *client {
	c := &client{tr: &ws.Transport{}}
	c.tr.OnWrite(func(msg any) error {
		c.mu.Lock()
		c.msgs = append(c.msgs, msg.(*ws.Message))
		c.mu.Unlock()
		return nil
	})
	return c
}

func (c *client) send(s *service, typ string, value any) error {
	raw, _ := json.Marshal(value)
	return s.wsHandler(c.tr, &ws.Message{Type: typ, Raw: raw})
}

func (c *client) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var types []string
	for _, msg := range c.msgs {
		types = append(types, msg.Type)
	}
	return types
}

func (c *client) find(typ string) *ws.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, msg := range c.msgs {
		if msg.Type == typ {
			return msg
		}
	}
	return nil
}

func TestStatus(t *testing.T) {
	s, _ := newTestService(t, "videotestsrc")

	st := getStatus(t, s)
	require.Equal(t, Status{Stopped: true, Pipeline: "videotestsrc"}, st)
}

func TestInfo(t *testing.T) {
	s, _ := newTestService(t, "videotestsrc")

	require.Equal(t, Status{Stopped: true, Pipeline: "videotestsrc"}, s.info())

	s.loop.Close()
	require.Nil(t, s.info())
}

func TestPlayPause(t *testing.T) {
	s, framework := newTestService(t, "videotestsrc")

	w := post(s, "action=play")
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool {
		return getStatus(t, s).Playing
	}, time.Second, time.Millisecond)

	pipeline := framework.Last()
	require.Equal(t, media.StatePlaying, pipeline.State())

	post(s, "action=pause")
	require.Eventually(t, func() bool {
		return getStatus(t, s).Paused
	}, time.Second, time.Millisecond)

	post(s, "action=stop")
	require.Eventually(t, func() bool {
		return getStatus(t, s).Stopped
	}, time.Second, time.Millisecond)
	require.Equal(t, media.StateNull, pipeline.State())
}

func TestActionErrors(t *testing.T) {
	s, _ := newTestService(t, "")

	require.Equal(t, http.StatusBadRequest, post(s, "action=jump").Code)
	require.Equal(t, http.StatusBadRequest, post(s, "action=stop_timer&delay=soon").Code)
	require.Equal(t, http.StatusNotFound, post(s, "action=play").Code)
	require.Equal(t, http.StatusNotFound, post(s, "action=eos").Code)

	w := httptest.NewRecorder()
	s.apiPlayer(w, httptest.NewRequest("DELETE", "/api/player", nil))
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSetPipeline(t *testing.T) {
	s, framework := newTestService(t, "")

	w := httptest.NewRecorder()
	s.apiPlayer(w, httptest.NewRequest("PUT", "/api/player", strings.NewReader("videotestsrc ! queue\n")))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "videotestsrc ! queue", getStatus(t, s).Pipeline)

	require.Equal(t, http.StatusOK, post(s, "action=play").Code)
	require.NotNil(t, framework.Last())
}

func TestBuildFailure(t *testing.T) {
	s, _ := newTestService(t, "nosuchsrc")

	c := newClient()
	require.NoError(t, c.send(s, "player", nil))

	require.Equal(t, http.StatusUnprocessableEntity, post(s, "action=play").Code)

	msg := c.find("message_box")
	require.NotNil(t, msg)
	require.Equal(t, "Failed to create the pipeline 'nosuchsrc'!", msg.Value)
}

func TestWebSocketEvents(t *testing.T) {
	s, _ := newTestService(t, "videotestsrc")

	c := newClient()
	require.NoError(t, c.send(s, "player", nil))

	msg := c.find("player")
	require.NotNil(t, msg)
	require.Equal(t, Status{Stopped: true, Pipeline: "videotestsrc"}, msg.Value)

	require.NoError(t, c.send(s, "play", nil))

	require.Eventually(t, func() bool {
		msg := c.find("playing")
		return msg != nil && msg.Value == true
	}, time.Second, time.Millisecond)

	require.ErrorIs(t, c.send(s, "jump", nil), ErrUnknownAction)

	// unsubscribed after close
	c.tr.Close()
	n := len(c.types())
	var clients int
	require.NoError(t, s.do(func() error {
		clients = len(s.clients)
		return nil
	}))
	require.Zero(t, clients)
	post(s, "action=stop")
	require.Never(t, func() bool {
		return len(c.types()) != n
	}, 50*time.Millisecond, time.Millisecond)
}

func TestWebSocketPipeline(t *testing.T) {
	s, _ := newTestService(t, "")

	c := newClient()
	require.NoError(t, c.send(s, "pipeline", "videotestsrc"))
	require.Equal(t, "videotestsrc", getStatus(t, s).Pipeline)
}

func TestFullscreen(t *testing.T) {
	s, _ := newTestService(t, "videotestsrc")

	c := newClient()
	require.NoError(t, c.send(s, "fullscreen", nil))
	require.True(t, getStatus(t, s).Fullscreen)
	require.True(t, c.find("fullscreen").Value.(bool))

	post(s, "action=fullscreen")
	require.False(t, getStatus(t, s).Fullscreen)
	require.Equal(t, []string{"fullscreen", "fullscreen"}, c.types())
}

func TestStopTimer(t *testing.T) {
	s, _ := newTestService(t, "videotestsrc")

	c := newClient()
	require.NoError(t, c.send(s, "play", nil))
	require.Eventually(t, func() bool {
		return getStatus(t, s).Playing
	}, time.Second, time.Millisecond)

	require.Equal(t, http.StatusOK, post(s, "action=stop_timer&delay=1ms").Code)
	require.Eventually(t, func() bool {
		return getStatus(t, s).Stopped
	}, time.Second, time.Millisecond)
}

func TestShutdown(t *testing.T) {
	s, framework := newTestService(t, "videotestsrc")

	require.Equal(t, http.StatusOK, post(s, "action=play").Code)
	require.Eventually(t, func() bool {
		return getStatus(t, s).Playing
	}, time.Second, time.Millisecond)

	s.shutdown()

	pipeline := framework.Last()
	require.Equal(t, 1, pipeline.EOSCount())
	require.Equal(t, media.StateNull, pipeline.State())
	require.False(t, pipeline.FakeBus().Watched())

	// closed loop
	require.ErrorIs(t, s.do(func() error { return nil }), ErrClosed)

	w := httptest.NewRecorder()
	s.apiPlayer(w, httptest.NewRequest("PUT", "/api/player", strings.NewReader("videotestsrc")))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	s.apiPlayer(w, httptest.NewRequest("GET", "/api/player", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNewFramework(t *testing.T) {
	f, err := newFramework("fake")
	require.NoError(t, err)
	require.NotNil(t, f)

	_, err = newFramework("vlc")
	require.Error(t, err)
}

func TestWindow(t *testing.T) {
	w := NewWindow()
	require.Nil(t, w.Parent())
	require.False(t, w.IsFullScreen())

	var got []bool
	w.OnChange(func(fullscreen bool) { got = append(got, fullscreen) })

	w.ShowFullScreen()
	w.ShowFullScreen()
	w.ShowNormal()
	require.Equal(t, []bool{true, false}, got)
}
