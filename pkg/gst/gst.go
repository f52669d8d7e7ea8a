//go:build gstreamer

// Package gst binds media interfaces to GStreamer with go-gst.
// Build with -tags gstreamer, requires cgo and GStreamer development files.
package gst

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gst/go-glib/glib"
	"github.com/go-gst/go-gst/gst"
	"github.com/gstplayer/gstplayer/pkg/media"
)

var (
	once     sync.Once
	mainLoop *glib.MainLoop
)

// Init - init GStreamer and run GLib main loop, it dispatches bus watches
func Init() {
	once.Do(func() {
		gst.Init(nil)
		mainLoop = glib.NewMainLoop(glib.MainContextDefault(), false)
		go mainLoop.Run()
	})
}

type Framework struct{}

func New() (media.Framework, error) {
	Init()
	return &Framework{}, nil
}

func (f *Framework) Parse(description string) (media.Pipeline, error) {
	pipeline, err := gst.NewPipelineFromString(description)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		Element:  Element{el: pipeline.Element},
		pipeline: pipeline,
		bus:      &Bus{bus: pipeline.GetPipelineBus()},
	}, nil
}

func (f *Framework) NewElement(factory string) (media.Element, error) {
	el, err := gst.NewElement(factory)
	if err != nil {
		return nil, err
	}
	return &Element{el: el}, nil
}

type Element struct {
	el *gst.Element
}

func (e *Element) Name() string {
	return e.el.GetName()
}

func (e *Element) SetProperty(name string, value any) error {
	if caps, ok := value.(media.Caps); ok {
		return e.el.SetProperty(name, gst.NewCapsFromString(string(caps)))
	}
	return e.el.SetProperty(name, value)
}

func (e *Element) Link(dst media.Element) error {
	d, err := unwrap(dst)
	if err != nil {
		return err
	}
	return e.el.Link(d)
}

type Pipeline struct {
	Element
	pipeline *gst.Pipeline
	bus      *Bus
}

func (p *Pipeline) SetState(state media.State) error {
	return p.pipeline.SetState(toState(state))
}

func (p *Pipeline) Add(element media.Element) error {
	el, err := unwrap(element)
	if err != nil {
		return err
	}
	return p.pipeline.Add(el)
}

func (p *Pipeline) Remove(element media.Element) error {
	el, err := unwrap(element)
	if err != nil {
		return err
	}
	return p.pipeline.Remove(el)
}

func (p *Pipeline) FindUnlinkedPad(direction media.PadDirection) media.Pad {
	dir := gst.PadDirectionSource
	if direction == media.DirectionSink {
		dir = gst.PadDirectionSink
	}

	if pad := p.pipeline.FindUnlinkedPad(dir); pad != nil {
		return &Pad{pad: pad}
	}
	return nil
}

func (p *Pipeline) Bus() media.Bus {
	return p.bus
}

func (p *Pipeline) SendEvent(event media.Event) bool {
	if event != media.EventEOS {
		return false
	}
	return p.pipeline.SendEvent(gst.NewEOSEvent())
}

type Pad struct {
	pad *gst.Pad
}

func (p *Pad) Name() string {
	return p.pad.GetName()
}

func (p *Pad) Direction() media.PadDirection {
	switch p.pad.GetDirection() {
	case gst.PadDirectionSource:
		return media.DirectionSrc
	case gst.PadDirectionSink:
		return media.DirectionSink
	}
	return media.DirectionUnknown
}

func (p *Pad) ParentElement() media.Element {
	if el := p.pad.GetParentElement(); el != nil {
		return &Element{el: el}
	}
	return nil
}

type Bus struct {
	bus *gst.Bus
}

func (b *Bus) AddWatch(handler media.MessageHandler) error {
	ok := b.bus.AddWatch(func(msg *gst.Message) bool {
		handler(convert(msg))
		return true
	})
	if !ok {
		return errors.New("gst: bus already has a watch")
	}
	return nil
}

func (b *Bus) RemoveWatch() {
	b.bus.RemoveWatch()
}

func unwrap(element media.Element) (*gst.Element, error) {
	switch e := element.(type) {
	case *Element:
		return e.el, nil
	case *Pipeline:
		return e.el, nil
	}
	return nil, fmt.Errorf("gst: unsupported element %T", element)
}

func convert(msg *gst.Message) *media.Message {
	m := &media.Message{Source: msg.Source()}

	switch msg.Type() {
	case gst.MessageEOS:
		m.Type = media.MessageEOS
	case gst.MessageError:
		m.Type = media.MessageError
		if gerr := msg.ParseError(); gerr != nil {
			m.Err = errors.New(gerr.Error())
			m.Debug = gerr.DebugString()
		}
	case gst.MessageWarning:
		m.Type = media.MessageWarning
		if gerr := msg.ParseWarning(); gerr != nil {
			m.Err = errors.New(gerr.Error())
			m.Debug = gerr.DebugString()
		}
	case gst.MessageStateChanged:
		m.Type = media.MessageStateChanged
		prev, state := msg.ParseStateChanged()
		m.OldState = fromState(prev)
		m.NewState = fromState(state)
	}

	return m
}

func toState(state media.State) gst.State {
	switch state {
	case media.StateNull:
		return gst.StateNull
	case media.StateReady:
		return gst.StateReady
	case media.StatePaused:
		return gst.StatePaused
	case media.StatePlaying:
		return gst.StatePlaying
	}
	return gst.VoidPending
}

func fromState(state gst.State) media.State {
	switch state {
	case gst.StateNull:
		return media.StateNull
	case gst.StateReady:
		return media.StateReady
	case gst.StatePaused:
		return media.StatePaused
	case gst.StatePlaying:
		return media.StatePlaying
	}
	return media.StateVoidPending
}
