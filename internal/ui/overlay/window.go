package overlay

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"movedyet/internal/core/model"
)

// Config defines overlay visuals.
type Config struct {
	Opacity    uint8
	Fullscreen bool
}

// Icons are the per-kind images shown in the overlay.
type Icons map[model.ReminderKind]fyne.Resource

// Window is the blocking reminder. It stays up until the user confirms.
type Window struct {
	window        fyne.Window
	config        Config
	icons         Icons
	image         *canvas.Image
	timerLabel    *canvas.Text
	confirmButton *widget.Button
	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	hintLabel     *canvas.Text
	background    *canvas.Rectangle
	cancelTicker  context.CancelFunc
	pending       map[model.ReminderKind]func()
	shownAt       time.Time
	showing       bool
}

const (
	overlayWidthFraction  = float32(0.22)
	overlayHeightFraction = float32(0.2)
	defaultScreenWidth    = float32(1920)
	defaultScreenHeight   = float32(1080)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the overlay window. It is not shown until Show.
func New(app fyne.App, config Config, icons Icons) *Window {
	window := app.NewWindow("MovedYet")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 0, G: 0, B: 0, A: config.Opacity})

	image := canvas.NewImageFromResource(nil)
	image.FillMode = canvas.ImageFillContain

	timerLabel := canvas.NewText("00:00", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	timerLabel.Alignment = fyne.TextAlignLeading
	timerLabel.TextStyle = fyne.TextStyle{Bold: true}
	timerLabel.TextSize = 16

	titleLabel := canvas.NewText("MovedYet", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	titleLabel.Alignment = fyne.TextAlignLeading
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 21

	subtitleLabel := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	subtitleLabel.Alignment = fyne.TextAlignLeading
	subtitleLabel.TextStyle = fyne.TextStyle{Bold: true}
	subtitleLabel.TextSize = 14

	hintLabel := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	hintLabel.Alignment = fyne.TextAlignLeading
	hintLabel.TextSize = 17

	confirmButton := widget.NewButton("Done", nil)
	confirmButton.Importance = widget.HighImportance

	leftContent := container.New(&leftPanelLayout{}, titleLabel, subtitleLabel, hintLabel, timerLabel)
	rightContent := container.New(&rightPanelLayout{}, image, confirmButton)
	content := container.NewGridWithColumns(2, leftContent, rightContent)
	root := container.NewStack(background, content)

	window.SetContent(root)
	window.SetCloseIntercept(func() {})

	overlay := &Window{
		window:        window,
		config:        config,
		icons:         icons,
		image:         image,
		timerLabel:    timerLabel,
		confirmButton: confirmButton,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
		hintLabel:     hintLabel,
		background:    background,
	}
	confirmButton.OnTapped = overlay.handleConfirm

	return overlay
}

// Show presents the blocking reminder for kind. confirm runs once when the
// user taps Done. Kinds already waiting stay pending and are confirmed by the
// same tap; showing a waiting kind again replaces its confirm.
func (overlay *Window) Show(kind model.ReminderKind, confirm func()) {
	overlay.stopTicker()
	ctx, cancel := context.WithCancel(context.Background())
	overlay.cancelTicker = cancel
	if overlay.pending == nil {
		overlay.pending = make(map[model.ReminderKind]func())
	}
	overlay.pending[kind] = confirm
	if !overlay.showing {
		overlay.shownAt = time.Now()
	}
	overlay.showing = true

	title, subtitle, hint := Copy(kind)
	if len(overlay.pending) > 1 {
		hint = overlay.pendingHints()
	}
	overlay.titleLabel.Text = title
	overlay.subtitleLabel.Text = subtitle
	overlay.hintLabel.Text = hint
	overlay.titleLabel.Refresh()
	overlay.subtitleLabel.Refresh()
	overlay.hintLabel.Refresh()
	overlay.image.Resource = overlay.icons[kind]
	overlay.image.Refresh()
	overlay.setWaitingUnsafe(time.Since(overlay.shownAt))

	overlay.applyWindowMode()
	overlay.window.Show()
	overlay.window.RequestFocus()

	go overlay.tick(ctx, overlay.shownAt)
}

// Hide closes the overlay without confirming. Pending reminders are dropped.
func (overlay *Window) Hide() {
	overlay.stopTicker()
	overlay.showing = false
	overlay.pending = nil
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(false)
	}
	overlay.window.Hide()
}

// Pending lists the kinds waiting for Done.
func (overlay *Window) Pending() []model.ReminderKind {
	kinds := make([]model.ReminderKind, 0, len(overlay.pending))
	for _, kind := range model.Kinds() {
		if _, ok := overlay.pending[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Showing reports whether a reminder is on screen.
func (overlay *Window) Showing() bool {
	return overlay.showing
}

// UpdateConfig updates overlay visuals.
func (overlay *Window) UpdateConfig(config Config) {
	overlay.config = config
	overlay.background.FillColor = color.NRGBA{R: 0, G: 0, B: 0, A: config.Opacity}
	if overlay.showing {
		overlay.applyWindowMode()
	}
	canvas.Refresh(overlay.background)
}

func (overlay *Window) handleConfirm() {
	kinds := overlay.Pending()
	confirms := make([]func(), 0, len(kinds))
	for _, kind := range kinds {
		confirms = append(confirms, overlay.pending[kind])
	}
	overlay.Hide()
	for _, confirm := range confirms {
		if confirm != nil {
			confirm()
		}
	}
}

func (overlay *Window) pendingHints() string {
	hints := make([]string, 0, len(overlay.pending))
	for _, kind := range overlay.Pending() {
		_, _, hint := Copy(kind)
		hints = append(hints, hint)
	}
	return strings.Join(hints, ". ")
}

func (overlay *Window) tick(ctx context.Context, shownAt time.Time) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			fyne.Do(func() {
				if ctx.Err() == nil {
					overlay.setWaitingUnsafe(now.Sub(shownAt))
				}
			})
		}
	}
}

func (overlay *Window) setWaitingUnsafe(waiting time.Duration) {
	overlay.timerLabel.Text = formatDuration(waiting)
	overlay.timerLabel.Refresh()
}

func (overlay *Window) stopTicker() {
	if overlay.cancelTicker != nil {
		overlay.cancelTicker()
		overlay.cancelTicker = nil
	}
}

func (overlay *Window) applyWindowMode() {
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(true)
		return
	}
	overlay.window.SetFullScreen(false)
	overlay.resizeToScreenFraction()
	overlay.applyNativeOpacity(overlay.config.Opacity)
}

func (overlay *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := overlay.window.Canvas().Size()
	// Canvas size can be reused as a proxy for monitor size when it is clearly screen-like.
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * overlayWidthFraction
	height := screenSize.Height * overlayHeightFraction
	minSize := overlay.window.Content().MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}

	overlay.window.Resize(fyne.NewSize(width, height))
	overlay.window.CenterOnScreen()
}

// Copy returns the title, subtitle and hint shown for kind.
func Copy(kind model.ReminderKind) (title, subtitle, hint string) {
	switch kind {
	case model.KindSit:
		return "Time to move", "You have been sitting for a while", "Stand up, stretch and walk around"
	case model.KindDrink:
		return "Time to drink", "Your body needs water", "Have a glass of water"
	default:
		return "MovedYet", "", ""
	}
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("waiting %02d:%02d", minutes, seconds)
}

type rightPanelLayout struct{}

func (layout *rightPanelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	image := objects[0]
	button := objects[1]

	buttonSize := button.MinSize()
	buttonHeight := buttonSize.Height
	if buttonHeight > size.Height*0.25 {
		buttonHeight = size.Height * 0.25
	}
	imageAreaHeight := size.Height - buttonHeight
	if imageAreaHeight < 0 {
		imageAreaHeight = 0
	}

	margin := imageAreaHeight * 0.05
	side := imageAreaHeight * 0.90
	if side > size.Width-margin {
		side = size.Width - margin
	}
	if side < 0 {
		side = 0
	}
	x := size.Width - margin - side
	if x < 0 {
		x = 0
	}
	image.Move(fyne.NewPos(x, margin))
	image.Resize(fyne.NewSize(side, side))

	buttonWidth := buttonSize.Width * 1.4
	if buttonWidth > size.Width {
		buttonWidth = size.Width
	}
	buttonX := x + side - buttonWidth
	if buttonX < 0 {
		buttonX = 0
	}
	buttonY := imageAreaHeight + (buttonHeight-buttonSize.Height)/2
	if buttonY < 0 {
		buttonY = 0
	}
	button.Move(fyne.NewPos(buttonX, buttonY))
	button.Resize(fyne.NewSize(buttonWidth, buttonSize.Height))
}

func (layout *rightPanelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	imageMin := objects[0].MinSize()
	buttonMin := objects[1].MinSize()
	width := imageMin.Width
	if buttonMin.Width > width {
		width = buttonMin.Width
	}
	return fyne.NewSize(width, imageMin.Height+buttonMin.Height)
}

type leftPanelLayout struct{}

func (layout *leftPanelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 4 {
		return
	}
	title := objects[0]
	subtitle := objects[1]
	hint := objects[2]
	timer := objects[3]

	pad := size.Height * 0.05
	availableWidth := size.Width - pad*2
	if availableWidth < 0 {
		availableWidth = 0
	}

	titleSize := title.MinSize()
	title.Move(fyne.NewPos(pad, pad))
	title.Resize(fyne.NewSize(availableWidth, titleSize.Height))

	subtitleSize := subtitle.MinSize()
	subtitleY := pad + titleSize.Height + 6
	subtitle.Move(fyne.NewPos(pad, subtitleY))
	subtitle.Resize(fyne.NewSize(availableWidth, subtitleSize.Height))

	hintSize := hint.MinSize()
	hintY := subtitleY + subtitleSize.Height + 8
	hint.Move(fyne.NewPos(pad, hintY))
	hint.Resize(fyne.NewSize(availableWidth, hintSize.Height))

	timerSize := timer.MinSize()
	timerY := size.Height - pad - timerSize.Height
	if timerY < 0 {
		timerY = 0
	}
	timer.Move(fyne.NewPos(pad, timerY))
	timer.Resize(timerSize)
}

func (layout *leftPanelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 4 {
		return fyne.NewSize(0, 0)
	}
	width := float32(0)
	height := float32(40)
	for _, object := range objects[:4] {
		size := object.MinSize()
		if size.Width > width {
			width = size.Width
		}
		height += size.Height
	}
	return fyne.NewSize(width+20, height)
}
