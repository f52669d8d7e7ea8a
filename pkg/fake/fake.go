// Package fake is an in-memory media framework. It parses launch descriptions,
// links elements and reports state changes on the bus the way GStreamer does,
// without decoding anything.
package fake

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gstplayer/gstplayer/pkg/media"
	"github.com/gstplayer/gstplayer/pkg/shell"
)

var (
	ErrSyntax        = errors.New("fake: syntax error")
	ErrNoSuchElement = errors.New("fake: no such element")
	ErrLink          = errors.New("fake: could not link")
)

type kind byte

const (
	kindSource kind = iota + 1
	kindFilter
	kindSink
)

var factories = map[string]kind{
	"appsrc":       kindSource,
	"filesrc":      kindSource,
	"udpsrc":       kindSource,
	"v4l2src":      kindSource,
	"videotestsrc": kindSource,

	"capsfilter":   kindFilter,
	"decodebin":    kindFilter,
	"h264parse":    kindFilter,
	"mp4mux":       kindFilter,
	"queue":        kindFilter,
	"tee":          kindFilter,
	"videoconvert": kindFilter,
	"videoscale":   kindFilter,
	"x264enc":      kindFilter,

	"appsink":       kindSink,
	"autovideosink": kindSink,
	"fakesink":      kindSink,
	"filesink":      kindSink,
	"xvimagesink":   kindSink,
}

type Framework struct {
	mu       sync.Mutex
	counters map[string]int

	Pipelines []*Pipeline
}

func New() *Framework {
	return &Framework{counters: map[string]int{}}
}

// Parse support "factory [key=value ...] ! factory ..." descriptions.
// Result is always wrapped in a pipeline and linked from left to right.
func (f *Framework) Parse(description string) (media.Pipeline, error) {
	segments, err := splitLinks(description)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{bus: &Bus{}, state: media.StateNull}
	p.name = f.newName("pipeline")
	p.factory = "pipeline"
	p.props = map[string]any{}

	var prev *Element
	for _, args := range segments {
		el, err := f.newElement(args[0])
		if err != nil {
			return nil, err
		}

		for _, arg := range args[1:] {
			key, value, ok := strings.Cut(arg, "=")
			if !ok {
				return nil, fmt.Errorf("%w: wrong property %q", ErrSyntax, arg)
			}
			if key == "name" {
				el.name = value
				continue
			}
			_ = el.SetProperty(key, value)
		}

		if err = p.Add(el); err != nil {
			return nil, err
		}

		if prev != nil {
			if err = prev.Link(el); err != nil {
				return nil, err
			}
		}

		prev = el
	}

	f.mu.Lock()
	f.Pipelines = append(f.Pipelines, p)
	f.mu.Unlock()

	return p, nil
}

// splitLinks - tokens of each element, a link is a bare "!" token so quoted values may contain it
func splitLinks(description string) ([][]string, error) {
	tokens := shell.QuoteSplit(description)
	if tokens == nil {
		return nil, fmt.Errorf("%w: empty or unclosed quote in %q", ErrSyntax, description)
	}

	var segments [][]string
	var args []string

	for _, token := range append(tokens, "!") {
		if token != "!" {
			args = append(args, token)
			continue
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: empty element in %q", ErrSyntax, description)
		}
		segments = append(segments, args)
		args = nil
	}

	return segments, nil
}

func (f *Framework) NewElement(factory string) (media.Element, error) {
	el, err := f.newElement(factory)
	if err != nil {
		return nil, err
	}
	return el, nil
}

// Last - last parsed pipeline or nil
func (f *Framework) Last() *Pipeline {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n := len(f.Pipelines); n > 0 {
		return f.Pipelines[n-1]
	}
	return nil
}

func (f *Framework) newElement(factory string) (*Element, error) {
	k, ok := factories[factory]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, factory)
	}

	el := &Element{
		name:    f.newName(factory),
		factory: factory,
		props:   map[string]any{},
	}

	if k != kindSink {
		el.src = &Pad{name: "src", direction: media.DirectionSrc, parent: el}
	}
	if k != kindSource {
		el.sink = &Pad{name: "sink", direction: media.DirectionSink, parent: el}
	}

	return el, nil
}

// newName - GStreamer style unique names: videotestsrc0, videotestsrc1...
func (f *Framework) newName(factory string) string {
	f.mu.Lock()
	n := f.counters[factory]
	f.counters[factory] = n + 1
	f.mu.Unlock()
	return fmt.Sprintf("%s%d", factory, n)
}
