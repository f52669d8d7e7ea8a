//go:build !gstreamer

package gst

import (
	"errors"

	"github.com/gstplayer/gstplayer/pkg/media"
)

// ErrUnsupported is returned when the binary is built without the gstreamer tag.
var ErrUnsupported = errors.New("gst: built without gstreamer tag")

// Init is a no-op without the gstreamer tag.
func Init() {}

// New returns ErrUnsupported without the gstreamer tag.
func New() (media.Framework, error) {
	return nil, ErrUnsupported
}
