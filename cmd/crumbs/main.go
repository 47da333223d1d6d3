// Command crumbs prints the breadcrumb trail for a path using the agent's configuration.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ngenohkevin/crumbdeck-agent/config"
	"github.com/ngenohkevin/crumbdeck-agent/internal/breadcrumb"
	"github.com/ngenohkevin/crumbdeck-agent/internal/files"
	"github.com/ngenohkevin/crumbdeck-agent/internal/panel"
	"github.com/ngenohkevin/crumbdeck-agent/internal/render"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "crumbs:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fs := flag.NewFlagSet("crumbs", flag.ContinueOnError)
	fromRoot := fs.Bool("workspace-root", cfg.BreadcrumbFromWorkspaceRoot, "start the trail at the first workspace folder")
	icons := fs.Bool("icons", cfg.ShowBreadcrumbIcons, "show file and folder icons")
	levels := fs.Bool("levels", false, "print every level with its siblings")
	theme := fs.String("theme", string(panel.ThemeDark), "terminal theme: light or dark")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := panel.ParseTheme(*theme)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	if path == "" {
		if path, err = os.Getwd(); err != nil {
			return err
		}
	}

	result, err := breadcrumb.NewBuilder(files.NewBrowser(nil)).Build(path, breadcrumb.Options{
		TruncateAtWorkspaceRoot: *fromRoot,
		WorkspaceRoot:           cfg.WorkspaceRoot(),
		ShowIcons:               *icons,
		MaxDepth:                cfg.MaxAscentDepth,
	})
	if err != nil {
		return err
	}

	r := render.New(t)
	if *levels {
		fmt.Println(r.Levels(result))
	} else {
		fmt.Println(r.Path(result))
	}
	return nil
}
