package renderer

import (
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/jobsift/jdextract/config"
)

// Browser acquisition modes, resolved once at construction.
const (
	ModeRemote      = "remote"
	ModeServerless  = "serverless"
	ModeLocal       = "local"
	ModeUnavailable = "unavailable"
)

// resolveMode decides how browsers will be obtained for the lifetime of the
// process: a pre-configured remote endpoint beats a serverless binary beats
// a locally installed browser probed from standard paths.
func resolveMode(cfg config.BrowserConfig) (mode, bin string) {
	if cfg.ControlURL != "" {
		return ModeRemote, ""
	}
	if cfg.ServerlessBin != "" {
		return ModeServerless, cfg.ServerlessBin
	}
	if cfg.Bin != "" {
		return ModeLocal, cfg.Bin
	}
	if found, ok := launcher.LookPath(); ok {
		return ModeLocal, found
	}
	return ModeUnavailable, ""
}

// acquire obtains a browser session for a single render call. The returned
// release func must be called on every exit path; it disconnects remote
// sessions and kills launched processes.
func (r *Renderer) acquire() (*rod.Browser, func(), error) {
	switch r.mode {
	case ModeRemote:
		browser := rod.New().ControlURL(r.cfg.ControlURL)
		if err := browser.Connect(); err != nil {
			return nil, nil, fmt.Errorf("renderer: connect remote browser: %w", err)
		}
		// Close drops the WebSocket without killing the externally
		// managed browser process.
		return browser, func() { _ = browser.Close() }, nil

	case ModeServerless, ModeLocal:
		l := launcher.New().
			Bin(r.bin).
			Headless(r.cfg.Headless).
			NoSandbox(r.cfg.NoSandbox || r.mode == ModeServerless)

		l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
		l.Delete(flags.Flag("enable-automation"))
		l.Set(flags.Flag("disable-dev-shm-usage"))
		l.Set(flags.Flag("no-first-run"))

		controlURL, err := l.Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("renderer: launch browser: %w", err)
		}

		browser := rod.New().ControlURL(controlURL)
		if err := browser.Connect(); err != nil {
			l.Kill()
			return nil, nil, fmt.Errorf("renderer: connect launched browser: %w", err)
		}
		release := func() {
			if err := browser.Close(); err != nil {
				slog.Warn("browser close failed", "error", err)
			}
			l.Kill()
		}
		return browser, release, nil

	default:
		return nil, nil, fmt.Errorf("renderer: no browser available")
	}
}
