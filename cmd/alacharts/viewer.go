package main

import (
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// showFigures opens a window with one tab per saved figure. Blocks until the
// window is closed; figures are already on disk by the time this runs.
func showFigures(figures []figure) {
	a := app.New()
	w := a.NewWindow("Performance Report")

	items := make([]*container.TabItem, 0, len(figures))
	for _, fig := range figures {
		img := canvas.NewImageFromImage(fig.Image)
		img.FillMode = canvas.ImageFillContain
		b := fig.Image.Bounds()
		// keep scroll content at natural size; the tab scrolls when larger than the window
		img.SetMinSize(fyne.NewSize(float32(b.Dx())/2, float32(b.Dy())/2))
		title := strings.TrimSuffix(fig.Name, ".png")
		items = append(items, container.NewTabItem(title, container.NewScroll(img)))
	}
	w.SetContent(container.NewAppTabs(items...))
	w.Resize(fyne.NewSize(1280, 840))
	w.ShowAndRun()
}
