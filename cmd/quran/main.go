package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hamidallah2/quran/internal/api"
	"github.com/hamidallah2/quran/internal/cache"
	"github.com/hamidallah2/quran/internal/config"
	"github.com/hamidallah2/quran/internal/download"
	"github.com/hamidallah2/quran/internal/logging"
	"github.com/hamidallah2/quran/internal/player"
	"github.com/hamidallah2/quran/internal/selection"
	"github.com/hamidallah2/quran/internal/store"
	"github.com/hamidallah2/quran/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := logging.Init(); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Data directory: ~/.quran/
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	dataDir := filepath.Join(homeDir, ".quran")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.Open(filepath.Join(dataDir, "quran.db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	// HTTP clients. With the cache enabled, both catalog fetches and
	// audio downloads go through the caching transport.
	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	catalogClient := &http.Client{Timeout: timeout}
	audioClient := &http.Client{}
	if cfg.Cache.Enabled {
		transport, err := cache.Open(nil, st, filepath.Join(dataDir, "cache"), cfg.Cache.Version)
		if err != nil {
			logging.Warn("offline cache disabled", "error", err)
		} else {
			catalogClient = transport.Client(timeout)
			audioClient = transport.Client(0)
		}
	}

	client := api.NewClient(catalogClient, cfg.API.BaseURL, cfg.API.Language,
		timeout, cfg.API.RequestsPerSecond)

	cascade := selection.New(st)

	mpv := player.NewMpv(cfg.Player.Binary)
	if err := mpv.Start(); err != nil {
		logging.Warn("audio player unavailable", "binary", cfg.Player.Binary, "error", err)
	}
	defer mpv.Close()
	controller := player.NewController(mpv, st)

	manager := download.NewManager(audioClient, cfg.DownloadDir())

	loc := ui.NewLocalization(cfg.UI.Language)
	debounce := time.Duration(cfg.UI.SearchDebounceMs) * time.Millisecond

	app := ui.NewApp(loc, debounce, ui.Commands{
		LoadReciters: func() tea.Cmd {
			return func() tea.Msg {
				reciters, err := client.FetchReciters(ctx)
				if err != nil {
					return ui.RecitersLoaded{Err: err}
				}
				cascade.SetCatalog(reciters)
				return ui.RecitersLoaded{Reciters: reciters}
			}
		},
		LoadSuwar: func() tea.Cmd {
			return func() tea.Msg {
				suwar, err := client.FetchSuwar(ctx)
				if err != nil {
					return ui.SuwarLoaded{Err: err}
				}
				cascade.SetSuwar(suwar)
				return ui.SuwarLoaded{Suwar: suwar}
			}
		},
		SelectReciter: func(id int) tea.Cmd {
			return func() tea.Msg {
				cascade.SelectReciter(id)
				return nil
			}
		},
		SelectMoshaf: func(index int) tea.Cmd {
			return func() tea.Msg {
				cascade.SelectMoshaf(index)
				return nil
			}
		},
		SelectSurah: func(id int) tea.Cmd {
			return func() tea.Msg {
				cascade.SelectSurah(id)
				return nil
			}
		},
		TogglePause: func() tea.Cmd {
			return func() tea.Msg {
				controller.TogglePause()
				return nil
			}
		},
		StartDownload: func(url, filename string) tea.Cmd {
			return func() tea.Msg {
				path, err := manager.Start(ctx, url, filename)
				return ui.DownloadFinished{Path: path, Err: err}
			}
		},
	})

	program := tea.NewProgram(app, tea.WithAltScreen())

	// State flows back into the UI as messages: cascade transitions,
	// playback position, download progress.
	cascade.OnChange(func(snap selection.Snapshot) {
		controller.Apply(snap, cfg.Player.Autoplay)
		program.Send(ui.SelectionChanged{Snap: snap})
	})
	controller.OnTimeUpdate(func(seconds float64) {
		program.Send(ui.PlaybackTick{Position: seconds, Duration: mpv.Duration()})
	})
	manager.OnProgress(func(p download.Progress) {
		program.Send(ui.DownloadProgressMsg{Progress: p})
	})

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
