package player

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type window struct {
	parent     Object
	fullscreen bool
	calls      []string
}

func (w *window) Parent() Object {
	return w.parent
}

func (w *window) IsFullScreen() bool {
	return w.fullscreen
}

func (w *window) ShowFullScreen() {
	w.fullscreen = true
	w.calls = append(w.calls, "full")
}

func (w *window) ShowNormal() {
	w.fullscreen = false
	w.calls = append(w.calls, "normal")
}

type view struct {
	window
}

func (v *view) Visibility() Visibility {
	if v.fullscreen {
		return VisibilityFullScreen
	}
	return VisibilityWindowed
}

type item struct {
	parent Object
}

func (i *item) Parent() Object {
	if i.parent == nil {
		return nil
	}
	return i.parent
}

func TestToggleView(t *testing.T) {
	v := &view{}
	tp := newTestPlayer(t, WithParent(v))

	require.True(t, tp.ToggleFullScreen())
	require.True(t, tp.ToggleFullScreen())
	require.Equal(t, []string{"full", "normal"}, v.calls)
}

func TestToggleDialog(t *testing.T) {
	dialog := &window{}
	// item -> item -> dialog
	parent := &item{parent: &item{parent: dialog}}
	tp := newTestPlayer(t, WithParent(parent))

	require.True(t, tp.ToggleFullScreen())
	require.True(t, dialog.fullscreen)
	require.True(t, tp.ToggleFullScreen())
	require.False(t, dialog.fullscreen)
}

func TestToggleFirstDialog(t *testing.T) {
	outer := &window{}
	inner := &window{parent: outer}
	tp := newTestPlayer(t, WithParent(&item{parent: inner}))

	require.True(t, tp.ToggleFullScreen())
	require.True(t, inner.fullscreen)
	require.False(t, outer.fullscreen)
}

func TestToggleViewNotParent(t *testing.T) {
	// view is checked only as immediate parent, but it is a dialog like window too
	v := &view{}
	tp := newTestPlayer(t, WithParent(&item{parent: v}))

	require.True(t, tp.ToggleFullScreen())
	require.Equal(t, []string{"full"}, v.calls)
}

func TestToggleNothing(t *testing.T) {
	tp := newTestPlayer(t)
	require.False(t, tp.ToggleFullScreen())

	tp = newTestPlayer(t, WithParent(&item{parent: &item{}}))
	require.False(t, tp.ToggleFullScreen())
}

func TestToggleTarget(t *testing.T) {
	v := &view{}
	target := &window{}
	tp := newTestPlayer(t, WithParent(v), WithFullscreen(target))

	require.True(t, tp.ToggleFullScreen())
	require.True(t, target.fullscreen)
	require.Empty(t, v.calls)
}
