package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/specviz/internal/media"
	"github.com/olivier-w/specviz/internal/player"
	"github.com/olivier-w/specviz/internal/ui"
)

func main() {
	var path string

	if len(os.Args) < 2 {
		browser := ui.NewBrowser()
		if browser.HasError() {
			fmt.Fprintf(os.Stderr, "Error: %v\n", browser.Error())
			os.Exit(1)
		}
		p := tea.NewProgram(browser, tea.WithAltScreen())
		finalModel, err := p.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		bm, ok := finalModel.(ui.BrowserModel)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unexpected model type from browser\n")
			os.Exit(1)
		}
		result := bm.Result()
		if result.Cancelled {
			os.Exit(0)
		}
		path = result.Path
	} else {
		path = os.Args[1]
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: %s is a directory\n", path)
		os.Exit(1)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !media.IsSupportedExt(ext) {
		fmt.Fprintf(os.Stderr, "Error: unsupported format %s (supported: %s)\n", ext, media.SupportedExtsList())
		os.Exit(1)
	}

	meta := player.ReadMetadata(path)

	// Playback starts here; the spectrum view attaches to the running
	// pipeline and the program does not return until the render loop
	// has stopped and the terminal is restored.
	p, err := player.New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating player: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	model := ui.New(p, meta)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
