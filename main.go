package main

import (
	"github.com/gstplayer/gstplayer/internal/api"
	"github.com/gstplayer/gstplayer/internal/api/ws"
	"github.com/gstplayer/gstplayer/internal/app"
	"github.com/gstplayer/gstplayer/internal/metrics"
	"github.com/gstplayer/gstplayer/internal/player"
	"github.com/gstplayer/gstplayer/pkg/shell"
)

func main() {
	app.Init() // init config and logs

	api.Init() // init API before all others
	ws.Init()  // init WS API endpoint

	metrics.Init() // prometheus at api/metrics
	player.Init()  // pipeline player and its web control

	sig := shell.RunUntilSignal()

	app.Logger.Info().Stringer("signal", sig).Msg("[app] shutdown")

	player.Shutdown()
}
