//go:build !nogui
// +build !nogui

package gui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/require"
)

// TestWindowLayout checks the window content is a border container
// whose centre stacks the cards under the QR overlay.
func TestWindowLayout(t *testing.T) {
	a := newTestApp(t, &fakeUploader{})

	rootContainer, ok := a.mainWindow.Content().(*fyne.Container)
	require.True(t, ok, "Content should be a *fyne.Container")
	require.NotEmpty(t, rootContainer.Objects)

	var stack *fyne.Container
	for _, obj := range rootContainer.Objects {
		if c, ok := obj.(*fyne.Container); ok && len(c.Objects) == 2 && c.Objects[1] == a.qr.container {
			stack = c
		}
	}
	require.NotNil(t, stack, "centre should stack the cards and the overlay")

	scroll, ok := stack.Objects[0].(*container.Scroll)
	require.True(t, ok)
	cards, ok := scroll.Content.(*fyne.Container)
	require.True(t, ok)
	require.Len(t, cards.Objects, 3)

	_, ok = cards.Objects[0].(*widget.Card)
	require.True(t, ok, "text card comes first")
	require.Same(t, a.text.card, cards.Objects[0])
	require.Same(t, a.file.card, cards.Objects[1])
}
