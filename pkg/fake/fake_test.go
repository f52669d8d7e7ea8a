package fake

import (
	"errors"
	"testing"

	"github.com/gstplayer/gstplayer/pkg/media"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	f := New()

	p, err := f.Parse(`videotestsrc pattern=ball ! capsfilter name=caps caps="video/x-raw, width=640" ! videoconvert`)
	require.NoError(t, err)
	require.Equal(t, "pipeline0", p.Name())

	pipe := p.(*Pipeline)
	els := pipe.Elements()
	require.Len(t, els, 3)
	require.Equal(t, "videotestsrc0", els[0].Name())
	require.Equal(t, "ball", els[0].Property("pattern"))
	require.Equal(t, "caps", els[1].Name())
	require.Equal(t, "video/x-raw, width=640", els[1].Property("caps"))

	pad := p.FindUnlinkedPad(media.DirectionSrc)
	require.NotNil(t, pad)
	require.Equal(t, "videoconvert0:src", pad.Name())
	require.Equal(t, els[2], pad.ParentElement())

	require.Nil(t, p.FindUnlinkedPad(media.DirectionSink))
	require.Same(t, pipe, f.Last())
}

func TestParseQuotedLink(t *testing.T) {
	f := New()

	p, err := f.Parse(`videotestsrc ! capsfilter caps="a ! b" ! videoconvert`)
	require.NoError(t, err)

	els := p.(*Pipeline).Elements()
	require.Len(t, els, 3)
	require.Equal(t, "a ! b", els[1].Property("caps"))
	require.Equal(t, "videoconvert0", els[2].Name())
}

func TestParseSink(t *testing.T) {
	f := New()

	p, err := f.Parse("videotestsrc ! videoconvert ! fakesink")
	require.NoError(t, err)
	require.Nil(t, p.FindUnlinkedPad(media.DirectionSrc))
}

func TestParseErrors(t *testing.T) {
	f := New()

	_, err := f.Parse("videotestsrc ! ! fakesink")
	require.ErrorIs(t, err, ErrSyntax)

	_, err = f.Parse("nosuchsrc ! fakesink")
	require.ErrorIs(t, err, ErrNoSuchElement)

	_, err = f.Parse("fakesink ! videoconvert")
	require.ErrorIs(t, err, ErrLink)

	_, err = f.Parse("videotestsrc pattern")
	require.ErrorIs(t, err, ErrSyntax)

	_, err = f.Parse(`videotestsrc ! capsfilter caps="a`)
	require.ErrorIs(t, err, ErrSyntax)

	_, err = f.Parse("videotestsrc !")
	require.ErrorIs(t, err, ErrSyntax)

	require.Nil(t, f.Last())
}

func TestStateMessages(t *testing.T) {
	f := New()

	p, err := f.Parse("videotestsrc")
	require.NoError(t, err)

	sink, err := f.NewElement("fakesink")
	require.NoError(t, err)
	require.NoError(t, p.Add(sink))
	require.Error(t, p.Add(sink))

	var msgs []*media.Message
	require.NoError(t, p.Bus().AddWatch(func(msg *media.Message) {
		msgs = append(msgs, msg)
	}))
	require.ErrorIs(t, p.Bus().AddWatch(func(*media.Message) {}), ErrWatchExists)

	pad := p.FindUnlinkedPad(media.DirectionSrc)
	require.NoError(t, pad.ParentElement().Link(sink))
	require.Nil(t, p.FindUnlinkedPad(media.DirectionSrc))

	require.NoError(t, p.SetState(media.StatePlaying))

	var states []media.State
	for _, msg := range msgs {
		if msg.Source == p.Name() {
			require.Equal(t, media.MessageStateChanged, msg.Type)
			states = append(states, msg.NewState)
		}
	}
	require.Equal(t, []media.State{media.StateReady, media.StatePaused, media.StatePlaying}, states)
	// 2 children and pipeline for every step
	require.Len(t, msgs, 9)

	msgs = nil
	require.True(t, p.SendEvent(media.EventEOS))
	require.Len(t, msgs, 1)
	require.Equal(t, media.MessageEOS, msgs[0].Type)
	require.Equal(t, 1, p.(*Pipeline).EOSCount())

	msgs = nil
	require.NoError(t, p.SetState(media.StateNull))
	require.Len(t, msgs, 9)
	require.Equal(t, media.StateNull, msgs[8].NewState)
	require.Equal(t, []media.State{media.StatePlaying, media.StateNull}, p.(*Pipeline).Requested())

	// no EOS message from stopped pipeline
	msgs = nil
	require.True(t, p.SendEvent(media.EventEOS))
	require.Empty(t, msgs)
}

func TestNotLinked(t *testing.T) {
	f := New()

	p, err := f.Parse("videotestsrc ! videoconvert")
	require.NoError(t, err)

	require.NoError(t, p.SetState(media.StatePaused))

	var errs []error
	for _, msg := range p.(*Pipeline).FakeBus().Posted() {
		if msg.Type == media.MessageError {
			errs = append(errs, msg.Err)
		}
	}
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrNotLinked)
}

func TestRemove(t *testing.T) {
	f := New()

	p, err := f.Parse("videotestsrc")
	require.NoError(t, err)

	sink, err := f.NewElement("autovideosink")
	require.NoError(t, err)
	require.NoError(t, p.Add(sink))
	require.NoError(t, p.FindUnlinkedPad(media.DirectionSrc).ParentElement().Link(sink))

	require.NoError(t, p.Remove(sink))
	require.Nil(t, sink.(*Element).Parent())
	require.NotNil(t, p.FindUnlinkedPad(media.DirectionSrc))
	require.Error(t, p.Remove(sink))

	// sink can be used with another pipeline
	p2, err := f.Parse("v4l2src")
	require.NoError(t, err)
	require.NoError(t, p2.Add(sink))

	p.(*Pipeline).StateError = errors.New("boom")
	require.EqualError(t, p.SetState(media.StatePlaying), "boom")
}
