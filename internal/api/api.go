package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gstplayer/gstplayer/internal/app"
	"github.com/rs/zerolog"
)

type Config struct {
	Listen   string `yaml:"listen"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	BasePath string `yaml:"base_path"`
	Origin   string `yaml:"origin"`
}

func Init() {
	var cfg struct {
		Mod Config `yaml:"api"`
	}

	// default config
	cfg.Mod.Listen = ":8554"

	app.LoadConfig(&cfg)

	if cfg.Mod.Listen == "" {
		return
	}

	basePath = cfg.Mod.BasePath
	log = app.GetLogger("api")

	HandleFunc("api", apiHandler)
	HandleFunc("api/config", configHandler)
	HandleFunc("api/log", logHandler)

	go listen(cfg.Mod.Listen, NewHandler(http.DefaultServeMux, cfg.Mod))
}

func listen(address string, handler http.Handler) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		log.Error().Err(err).Msg("[api] listen")
		return
	}

	log.Info().Str("addr", ln.Addr().String()).Msg("[api] listen")

	server := http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err = server.Serve(ln); err != nil {
		log.Fatal().Err(err).Msg("[api] serve")
	}
}

// NewHandler - mux wrapped with trace log, auth for remote clients and CORS
func NewHandler(mux http.Handler, cfg Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Trace().Msgf("[api] %s %s %s", r.Method, r.URL, r.RemoteAddr)

		if cfg.Username != "" && !isLocal(r.RemoteAddr) {
			user, pass, ok := r.BasicAuth()
			if !ok || user != cfg.Username || pass != cfg.Password {
				w.Header().Set("Www-Authenticate", `Basic realm="gstplayer"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		if cfg.Origin == "*" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			if r.Method == "OPTIONS" {
				return
			}
		}

		mux.ServeHTTP(w, r)
	})
}

func isLocal(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

const (
	MimeJSON = "application/json"
	MimeText = "text/plain"
	MimeYAML = "application/yaml"
)

// HandleFunc handle pattern with relative path:
// - "api/player" => "{basepath}/api/player"
// - "/player"    => "/player"
func HandleFunc(pattern string, handler http.HandlerFunc) {
	if len(pattern) == 0 || pattern[0] != '/' {
		pattern = basePath + "/" + pattern
	}
	log.Trace().Str("path", pattern).Msg("[api] register path")
	http.HandleFunc(pattern, handler)
}

// ResponseJSON important always add Content-Type
// so go won't need to call http.DetectContentType
func ResponseJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", MimeJSON)
	_ = json.NewEncoder(w).Encode(v)
}

func Response(w http.ResponseWriter, body []byte, contentType string) {
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(body)
}

func Error(w http.ResponseWriter, err error, code int) {
	log.Debug().Err(err).Caller(1).Send()

	http.Error(w, err.Error(), code)
}

var basePath string
var log = zerolog.Nop()

var infoMu sync.Mutex
var infoFuncs = map[string]func() any{}

// InfoFunc - extra field of the /api answer, f is called on every request
func InfoFunc(name string, f func() any) {
	infoMu.Lock()
	infoFuncs[name] = f
	infoMu.Unlock()
}

func apiHandler(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{"host": r.Host}
	for k, v := range app.Info {
		info[k] = v
	}

	infoMu.Lock()
	for name, f := range infoFuncs {
		info[name] = f()
	}
	infoMu.Unlock()

	ResponseJSON(w, info)
}

func configHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	Response(w, app.RawConfig(), MimeYAML)
}

// logHandler - GET newest records (?limit=N), DELETE clears the log
func logHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/jsonlines")
		for _, record := range app.MemoryLog.Tail(limit) {
			if _, err := w.Write(record); err != nil {
				return
			}
		}
	case "DELETE":
		app.MemoryLog.Reset()
		Response(w, []byte("OK"), MimeText)
	default:
		http.Error(w, "", http.StatusMethodNotAllowed)
	}
}

