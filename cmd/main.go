package main

import (
	"feemeter/internal/core/billing"
	"feemeter/internal/core/clock"
	"feemeter/internal/core/meter"
	"feemeter/internal/core/stopwatch"
	"feemeter/internal/platform"
	"feemeter/internal/storage"
	"feemeter/internal/ui/panel"
	"feemeter/internal/ui/preferences"
	"feemeter/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"
)

const appName = "FeeMeter"

func main() {
	logger := logrus.New()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.WithError(err).Warn("load settings, using defaults")
	}
	logger.SetLevel(settings.LogLevel)

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.WithError(err).Error("single instance")
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	rate, err := billing.NewRate(settings.RatePerMinute)
	if err != nil {
		logger.WithError(err).Error("initial rate")
		return
	}
	wallClock := clock.Wall()
	engine := stopwatch.New(settings.StopwatchConfig(), stopwatch.Config{Clock: wallClock, Logger: logger})
	feeMeter := meter.New(engine, rate, logger)
	defer feeMeter.Close()

	probe := platform.NewSuspendProbe(wallClock, settings.ProbeConfig(), feeMeter, logger)
	probe.Start()
	defer probe.Stop()

	fyneApp := app.NewWithID("com.feemeter.app")
	fyneApp.SetIcon(theme.HistoryIcon())
	if fyne.CurrentDevice().IsMobile() {
		// Backgrounded mobile apps stop running; desktop windows only lose focus.
		fyneApp.Lifecycle().SetOnExitedForeground(feeMeter.OnEnvironmentSuspend)
		fyneApp.Lifecycle().SetOnEnteredForeground(feeMeter.OnEnvironmentResume)
	}

	var (
		mainPanel   *panel.Window
		trayManager *tray.Manager
		prefsWindow *preferences.Window
	)

	refresh := func() {
		reading := feeMeter.Read()
		mainPanel.Update(reading)
		if trayManager != nil {
			trayManager.SetStatus(panel.FormatClock(reading.ElapsedSeconds) + "  " + panel.FeeText(reading.Fee, settings.Rounding))
			trayManager.SetRunning(reading.Running)
		}
	}

	prefsWindow = preferences.New(fyneApp, feeMeter.RatePerMinute(), func(candidate float64) error {
		if err := feeMeter.SetRate(candidate); err != nil {
			return err
		}
		refresh()
		return nil
	})

	mainPanel = panel.New(fyneApp, settings.Rounding, panel.Callbacks{
		OnToggle: func() {
			feeMeter.Toggle()
		},
		OnReset: feeMeter.Reset,
		OnSetRate: func() {
			prefsWindow.Show(feeMeter.RatePerMinute())
		},
	})
	mainPanel.Window().SetMaster()

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow: mainPanel.Show,
			OnToggle: func() {
				feeMeter.Toggle()
			},
			OnReset: feeMeter.Reset,
			OnSetRate: func() {
				prefsWindow.Show(feeMeter.RatePerMinute())
			},
			OnQuit: fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(theme.HistoryIcon())
		mainPanel.Window().SetCloseIntercept(mainPanel.Window().Hide)
	}

	events := feeMeter.Subscribe(8)
	go func() {
		for event := range events {
			logger.WithFields(logrus.Fields{
				"event":   event.Type,
				"elapsed": event.ElapsedSeconds,
			}).Debug("stopwatch event")
			fyne.Do(refresh)
		}
	}()

	refresh()
	mainPanel.Show()
	fyneApp.Run()
}
