package main

import (
	"context"
	"log"

	"github.com/ngenohkevin/crumbdeck-agent/config"
	"github.com/ngenohkevin/crumbdeck-agent/internal/breadcrumb"
	"github.com/ngenohkevin/crumbdeck-agent/internal/files"
	"github.com/ngenohkevin/crumbdeck-agent/internal/launcher"
	"github.com/ngenohkevin/crumbdeck-agent/internal/panel"
	"github.com/ngenohkevin/crumbdeck-agent/internal/server"
	"github.com/ngenohkevin/crumbdeck-agent/internal/shell"
	"github.com/ngenohkevin/crumbdeck-agent/internal/system"
	"github.com/ngenohkevin/crumbdeck-agent/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.SetupMode {
		log.Printf("⚠️  No API key configured - starting in SETUP MODE")
		log.Printf("📋 POST http://%s/setup/generate, then /setup/save to configure the agent", cfg.Addr())
		log.Printf("🔒 After setup, restart the agent to enable authentication")
	}

	browser := files.NewBrowser(cfg.AllowedPaths)
	launches := launcher.New()
	host := panel.NewHub[panel.HostRequest](16)

	platform := system.DetectPlatform()
	log.Printf("[shell] using %s integration", platform)

	integration := shell.New(platform, launches, browser, panel.NewHostBridge(host), shell.Options{
		FileManager:      cfg.FileManager,
		ExternalTerminal: cfg.ExternalTerminal,
		ScriptsDir:       cfg.ScriptsDir,
	})

	p := panel.New(panel.Deps{
		Builder:   breadcrumb.NewBuilder(browser),
		Shell:     integration,
		Clipboard: panel.SystemClipboard{},
		Store:     cfg,
		Guard:     browser,
		Host:      host,
		MaxDepth:  cfg.MaxAscentDepth,
	}, panel.Settings{
		BreadcrumbFromWorkspaceRoot: cfg.BreadcrumbFromWorkspaceRoot,
		ShowBreadcrumbIcons:         cfg.ShowBreadcrumbIcons,
		FollowEditor:                cfg.FollowEditor,
		LinkedToExplorer:            cfg.LinkedToExplorer,
		WorkspaceFolders:            cfg.WorkspaceFolders,
	})

	srv := server.New(cfg, server.Services{Panel: p, Launcher: launches, Browser: browser})
	srv.OnShutdown(p.Close)

	if cfg.WatchEnabled {
		w, err := watch.New(cfg.WatchDebounce, func() {
			if err := p.Refresh(); err != nil {
				log.Printf("[watch] refresh failed: %v", err)
			}
		})
		if err != nil {
			log.Printf("[watch] disabled: %v", err)
		} else {
			ctx, cancel := context.WithCancel(context.Background())
			p.OnTrail(func(r *breadcrumb.Result) {
				w.Watch(r.Directories())
				if cfg.LogLevel == "debug" {
					log.Printf("[watch] watching %d directories", w.Watched())
				}
			})
			go w.Run(ctx)
			srv.OnShutdown(func() {
				cancel()
				_ = w.Close()
			})
		}
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
