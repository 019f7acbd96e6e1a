package preferences

import (
	"strconv"

	"feemeter/internal/core/billing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const invalidRateMessage = "Enter a positive number."

// Window is the rate settings dialog.
type Window struct {
	window     fyne.Window
	rateEntry  *widget.Entry
	errorLabel *widget.Label
	onSave     func(float64) error
}

// New creates the rate dialog. onSave only ever receives a valid rate.
func New(app fyne.App, current float64, onSave func(float64) error) *Window {
	window := app.NewWindow("Set rate per minute")

	rateEntry := widget.NewEntry()
	rateEntry.SetText(FormatRate(current))
	rateEntry.Validator = func(text string) error {
		_, err := billing.ParseRate(text)
		return err
	}

	errorLabel := widget.NewLabel("")
	errorLabel.Importance = widget.DangerImportance
	errorLabel.Hide()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Rate per minute", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("¥"), widget.NewLabel("/ min"), rateEntry),
		errorLabel,
	)

	saveButton := widget.NewButton("Set", nil)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(320, 160))

	prefs := &Window{
		window:     window,
		rateEntry:  rateEntry,
		errorLabel: errorLabel,
		onSave:     onSave,
	}

	saveButton.OnTapped = prefs.handleSave
	rateEntry.OnSubmitted = func(string) { prefs.handleSave() }
	cancelButton.OnTapped = window.Hide
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show opens the dialog pre-filled with current.
func (prefs *Window) Show(current float64) {
	prefs.rateEntry.SetText(FormatRate(current))
	prefs.errorLabel.Hide()
	prefs.window.Show()
	prefs.window.RequestFocus()
}

func (prefs *Window) handleSave() {
	rate, err := billing.ParseRate(prefs.rateEntry.Text)
	if err == nil && prefs.onSave != nil {
		err = prefs.onSave(rate)
	}
	if err != nil {
		prefs.errorLabel.SetText(invalidRateMessage)
		prefs.errorLabel.Show()
		return
	}
	prefs.errorLabel.Hide()
	prefs.window.Hide()
}

// FormatRate renders a rate without trailing zeros.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
