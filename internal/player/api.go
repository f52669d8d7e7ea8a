package player

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gstplayer/gstplayer/internal/api"
	"github.com/gstplayer/gstplayer/internal/api/ws"
	"github.com/gstplayer/gstplayer/pkg/player"
)

func (s *service) apiPlayer(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		var st Status
		if err := s.do(func() error { st = s.status(); return nil }); err != nil {
			api.Error(w, err, http.StatusServiceUnavailable)
			return
		}
		api.ResponseJSON(w, st)

	case "POST":
		query := r.URL.Query()

		var delay time.Duration
		if v := query.Get("delay"); v != "" {
			var err error
			if delay, err = time.ParseDuration(v); err != nil {
				api.Error(w, err, http.StatusBadRequest)
				return
			}
		}

		err := s.do(func() error { return s.action(query.Get("action"), delay) })
		if err != nil {
			api.Error(w, err, errorCode(err))
		}

	case "PUT":
		b, err := io.ReadAll(r.Body)
		if err != nil {
			api.Error(w, err, http.StatusBadRequest)
			return
		}

		desc := strings.TrimSpace(string(b))
		err = s.do(func() error {
			s.player.SetPipelineDescription(desc)
			return nil
		})
		if err != nil {
			api.Error(w, err, http.StatusServiceUnavailable)
		}

	default:
		http.Error(w, "", http.StatusMethodNotAllowed)
	}
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, player.ErrBuild):
		return http.StatusUnprocessableEntity
	case errors.Is(err, player.ErrNoPipeline), errors.Is(err, player.ErrNoVideoSink):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// wsHandler - messages from web clients, every client which sends a message
// receives the player notifications
func (s *service) wsHandler(tr *ws.Transport, msg *ws.Message) error {
	return s.do(func() error {
		s.subscribe(tr)

		switch msg.Type {
		case "player":
			tr.Write(&ws.Message{Type: "player", Value: s.status()})
			return nil
		case "pipeline":
			s.player.SetPipelineDescription(msg.String())
			return nil
		}

		return s.action(msg.Type, 0)
	})
}
