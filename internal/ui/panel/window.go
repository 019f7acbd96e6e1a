// Package panel is the main stopwatch window.
package panel

import (
	"feemeter/internal/core/billing"
	"feemeter/internal/core/meter"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Callbacks defines panel action handlers.
type Callbacks struct {
	OnToggle  func()
	OnReset   func()
	OnSetRate func()
}

// Window shows elapsed time, fee and rate.
type Window struct {
	window       fyne.Window
	clockText    *canvas.Text
	feeLabel     *widget.Label
	rateLabel    *widget.Label
	toggleButton *widget.Button
	rounding     billing.RoundingPolicy
}

// New creates the panel. Update must be called from the fyne goroutine.
func New(app fyne.App, rounding billing.RoundingPolicy, callbacks Callbacks) *Window {
	window := app.NewWindow("Consulting fee meter")

	clockText := canvas.NewText(FormatClock(0), theme.Color(theme.ColorNameForeground))
	clockText.Alignment = fyne.TextAlignCenter
	clockText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockText.TextSize = 42

	feeLabel := widget.NewLabelWithStyle(FeeText(0, rounding), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	rateLabel := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})

	toggleButton := widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		if callbacks.OnToggle != nil {
			callbacks.OnToggle()
		}
	})
	toggleButton.Importance = widget.HighImportance
	resetButton := widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), func() {
		if callbacks.OnReset != nil {
			callbacks.OnReset()
		}
	})
	rateButton := widget.NewButtonWithIcon("Set rate", theme.SettingsIcon(), func() {
		if callbacks.OnSetRate != nil {
			callbacks.OnSetRate()
		}
	})

	window.SetContent(container.NewVBox(
		clockText,
		container.NewGridWithColumns(2, toggleButton, resetButton),
		feeLabel,
		rateLabel,
		rateButton,
	))
	window.Resize(fyne.NewSize(360, 260))

	return &Window{
		window:       window,
		clockText:    clockText,
		feeLabel:     feeLabel,
		rateLabel:    rateLabel,
		toggleButton: toggleButton,
		rounding:     rounding,
	}
}

// Window exposes the underlying fyne window.
func (panel *Window) Window() fyne.Window {
	return panel.window
}

// Show displays the panel.
func (panel *Window) Show() {
	panel.window.Show()
	panel.window.RequestFocus()
}

// Update renders a reading.
func (panel *Window) Update(reading meter.Reading) {
	panel.clockText.Text = FormatClock(reading.ElapsedSeconds)
	panel.clockText.Refresh()
	panel.feeLabel.SetText(FeeText(reading.Fee, panel.rounding))
	panel.rateLabel.SetText(RateText(reading.RatePerMinute))

	if reading.Running {
		panel.toggleButton.SetText("Stop")
		panel.toggleButton.SetIcon(theme.MediaPauseIcon())
	} else {
		panel.toggleButton.SetText("Start")
		panel.toggleButton.SetIcon(theme.MediaPlayIcon())
	}
}
