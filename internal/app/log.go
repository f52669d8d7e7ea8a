package app

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// MemoryLog - copy of all records for the log API
var MemoryLog = newMemoryLog(1 << 20)

var Logger = zerolog.Nop()

// modules log levels
var modules = map[string]string{
	"format": "",
	"level":  "info",
	"output": "stdout",
	"time":   zerolog.TimeFormatUnixMs,
}

// GetLogger - logger with level from "log" config section, like:
//
//	log:
//	  player: trace
func GetLogger(module string) zerolog.Logger {
	if s, ok := modules[module]; ok {
		lvl, err := zerolog.ParseLevel(s)
		if err == nil {
			return Logger.Level(lvl)
		}
		Logger.Warn().Err(err).Caller().Send()
	}

	return Logger
}

// initLogger support:
// - output: empty (only to memory), stderr, stdout
// - format: empty (autodetect color support), color, json, text
// - time:   empty (disable timestamp), UNIXMS, UNIXMICRO, UNIXNANO
// - level:  disabled, trace, debug, info, warn, error...
func initLogger() {
	var cfg struct {
		Mod map[string]string `yaml:"log"`
	}

	cfg.Mod = modules // defaults

	LoadConfig(&cfg)

	Logger = NewLogger(modules, MemoryLog)
}

// NewLogger - logger for module settings, memory receives a copy of all records
func NewLogger(mods map[string]string, memory io.Writer) zerolog.Logger {
	var writer io.Writer

	switch mods["output"] {
	case "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	}

	timeFormat := mods["time"]

	if writer != nil {
		if format := mods["format"]; format != "json" {
			console := &zerolog.ConsoleWriter{Out: writer}

			switch format {
			case "text":
				console.NoColor = true
			case "color":
				console.NoColor = false
			default:
				console.NoColor = !isatty.IsTerminal(writer.(*os.File).Fd())
			}

			if timeFormat != "" {
				console.TimeFormat = "15:04:05.000"
			} else {
				console.PartsOrder = []string{
					zerolog.LevelFieldName,
					zerolog.CallerFieldName,
					zerolog.MessageFieldName,
				}
			}

			writer = console
		}

		if memory != nil {
			writer = zerolog.MultiLevelWriter(writer, memory)
		}
	} else if memory != nil {
		writer = memory
	} else {
		writer = io.Discard
	}

	lvl, err := zerolog.ParseLevel(mods["level"])
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(writer).Level(lvl)

	if timeFormat != "" {
		zerolog.TimeFieldFormat = timeFormat
		logger = logger.With().Timestamp().Logger()
	}

	return logger
}

// memoryLog keeps the newest records up to limit bytes, shared by all loggers
type memoryLog struct {
	mu      sync.Mutex
	records [][]byte
	size    int
	limit   int
}

func newMemoryLog(limit int) *memoryLog {
	return &memoryLog{limit: limit}
}

// Write - zerolog calls it once per record
func (m *memoryLog) Write(p []byte) (int, error) {
	record := append([]byte(nil), p...)

	m.mu.Lock()
	m.records = append(m.records, record)
	m.size += len(record)
	for m.size > m.limit && len(m.records) > 1 {
		m.size -= len(m.records[0])
		m.records[0] = nil
		m.records = m.records[1:]
	}
	m.mu.Unlock()

	return len(p), nil
}

// Tail - last n records, all records for n <= 0
func (m *memoryLog) Tail(n int) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 || n > len(m.records) {
		n = len(m.records)
	}
	// records are never modified after Write
	return append([][]byte(nil), m.records[len(m.records)-n:]...)
}

func (m *memoryLog) WriteTo(w io.Writer) (n int64, err error) {
	for _, record := range m.Tail(0) {
		nn, err := w.Write(record)
		n += int64(nn)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (m *memoryLog) Bytes() []byte {
	var b []byte
	for _, record := range m.Tail(0) {
		b = append(b, record...)
	}
	return b
}

func (m *memoryLog) Reset() {
	m.mu.Lock()
	m.records = nil
	m.size = 0
	m.mu.Unlock()
}
