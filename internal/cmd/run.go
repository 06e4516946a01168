package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"

	"movedyet/internal/config"
	"movedyet/internal/core/model"
	"movedyet/internal/core/timekeeper"
	"movedyet/internal/engine"
	"movedyet/internal/jobs"
	"movedyet/internal/platform"
	"movedyet/internal/report"
	"movedyet/internal/storage"
	"movedyet/internal/ui/overlay"
	"movedyet/internal/ui/preferences"
	"movedyet/internal/ui/presenter"
	"movedyet/internal/ui/tray"
)

const statusRefreshInterval = 15 * time.Second

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the tray application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd)
		},
	}
}

func runApp(cmd *cobra.Command) error {
	paths, err := resolvePaths(platform.NewService())
	if err != nil {
		return err
	}

	guard, err := platform.AcquireSingleInstance(appName, paths.Dir)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		fmt.Fprintln(cmd.ErrOrStderr(), "MovedYet is already running.")
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(paths.Settings)
	if err != nil {
		log.Printf("settings: %v; using defaults", err)
		settings = config.DefaultSettings()
	}
	history, db, err := openHistory(paths)
	if err != nil {
		return err
	}
	defer db.Close()
	store := config.NewStore(settings)

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(theme.HistoryIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("MovedYet is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	overlayWindow := overlay.New(fyneApp, overlayConfig(settings), overlay.Icons{
		model.KindSit:   theme.AccountIcon(),
		model.KindDrink: theme.InfoIcon(),
	})
	prompt := overlay.NewPrompt(fyneApp)

	var reminders *engine.Engine
	var ui *presenter.Presenter
	refresh := func() {
		status, err := reminders.Status()
		if err != nil {
			return
		}
		ui.Refresh(status)
	}
	act := func(action string, fn func() error) func() {
		return func() {
			if err := fn(); err != nil {
				log.Printf("tray: %s: %v", action, err)
			}
			refresh()
		}
	}

	prefsWindow := preferences.New(fyneApp, settings, func(updated config.Settings) {
		if err := storage.SaveSettings(paths.Settings, updated); err != nil {
			log.Printf("preferences: %v", err)
		}
		store.Update(updated)
	})

	trayManager := tray.New(desktopApp, tray.Icons{Normal: theme.HistoryIcon(), Ambient: theme.WarningIcon()}, tray.Callbacks{
		OnConfirm: act("confirm", func() error {
			_, err := reminders.ConfirmActive()
			return err
		}),
		OnSnooze: act("snooze", func() error {
			_, err := reminders.Snooze()
			return err
		}),
		OnActivity:    act("record activity", func() error { return reminders.RecordActivity() }),
		OnToggleFocus: act("toggle focus", func() error { return reminders.ToggleFocus() }),
		OnToggleWork: act("toggle work tracking", func() error {
			status, err := reminders.Status()
			if err != nil {
				return err
			}
			if status.Work.Paused {
				return reminders.ResumeWork()
			}
			return reminders.PauseWork()
		}),
		OnReset: act("reset", func() error { return reminders.ClearAllReminders() }),
		OnReport: func() {
			stats, err := history.DailyStats(report.Yesterday(time.Now()))
			if err != nil {
				log.Printf("tray: report: %v", err)
				return
			}
			ui.ShowReport(report.Build(stats))
		},
		OnPreferences: prefsWindow.Show,
		OnQuit:        fyneApp.Quit,
	})

	ui = presenter.New(fyneApp, trayManager, prompt, overlayWindow)
	reminders = engine.New(engine.Options{
		Config:    store,
		Presenter: ui,
		History:   history,
	})

	store.OnChange(func(updated config.Settings) {
		fyne.Do(func() {
			overlayWindow.UpdateConfig(overlayConfig(updated))
		})
		if err := reminders.ApplyConfig(); err != nil {
			log.Printf("engine: apply settings: %v", err)
		}
		refresh()
	})

	if err := reminders.Init(); err != nil {
		return err
	}
	defer reminders.Dispose()

	runner, err := jobs.Start(jobs.Options{
		Engine:   reminders,
		Idle:     platform.NewIdleProvider(),
		Reports:  history,
		OnReport: ui.ShowReport,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Shutdown(); err != nil {
			log.Printf("jobs: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := reminders.Subscribe(8)
	if err != nil {
		return err
	}
	go watchStatus(ctx, events, refresh)

	refresh()
	fyneApp.Run()
	return nil
}

// watchStatus refreshes the tray on every timer event and periodically for
// the countdowns.
func watchStatus(ctx context.Context, events <-chan timekeeper.Event, refresh func()) {
	ticker := time.NewTicker(statusRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			refresh()
		case <-ticker.C:
			refresh()
		}
	}
}

func overlayConfig(settings config.Settings) overlay.Config {
	return overlay.Config{
		Opacity:    opacityToAlpha(settings.OverlayOpacity),
		Fullscreen: settings.Fullscreen,
	}
}

func opacityToAlpha(opacity float64) uint8 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity * 255)
}
