package shell

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// QuoteSplit - split s by whitespace with support quoted parts:
// - `a "b c"` => [a, b c]
// - `caps="video/x-raw, format=I420"` => [caps=video/x-raw, format=I420]
// Returns nil for unclosed quote.
func QuoteSplit(s string) []string {
	var a []string
	var b strings.Builder
	var quote byte
	var token bool

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				b.WriteByte(c)
			}
		case c == '"' || c == '\'':
			quote = c
			token = true
		case c == ' ' || c == '\t' || c == '\n' || c == '\r': // unicode.IsSpace
			if token {
				a = append(a, b.String())
				b.Reset()
				token = false
			}
		default:
			b.WriteByte(c)
			token = true
		}
	}

	if quote != 0 {
		return nil // error
	}

	if token {
		a = append(a, b.String())
	}

	return a
}

// RunUntilSignal - block until SIGINT or SIGTERM
func RunUntilSignal() os.Signal {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	return <-sigs
}
