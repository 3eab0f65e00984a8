package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"labelforge/internal/document"
	"labelforge/internal/export"
	"labelforge/internal/logger"
	"labelforge/internal/render"
	"labelforge/internal/store"
	"labelforge/internal/templates"
)

type options struct {
	config   string
	open     string
	template string
	export   string
	output   string
	layout   string
	printer  string
	copies   int
	scale    float64
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("labelforge", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.config, "config", "", "config file (default ~/.labelforgerc)")
	fs.StringVar(&opts.open, "open", "", "open the saved label with this id")
	fs.StringVar(&opts.template, "template", "", "start from the template with this id")
	fs.StringVar(&opts.export, "export", "", "export the label and exit: png, sheet, json or cbor")
	fs.StringVar(&opts.output, "o", "", "export output path")
	fs.StringVar(&opts.layout, "layout", "", "sheet layout: single, 6-up or 12-up")
	fs.StringVar(&opts.printer, "printer", "", "printer profile: "+strings.Join(export.ProfileIDs(), ", "))
	fs.IntVar(&opts.copies, "copies", 1, "sheet copies")
	fs.Float64Var(&opts.scale, "scale", 1, "png scale")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.export != "" && opts.open == "" && opts.template == "" {
		return opts, errors.New("-export needs -open or -template")
	}
	return opts, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg := loadConfig(opts.config)
	logData, err := logger.New().FromPath(cfg.LogPath()).Level(cfg.LogLevel).Make()
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
		logData, _ = logger.New().Make()
	}
	defer logData.Close()
	log := logData.Logger

	ctx := context.Background()
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		return 1
	}
	defer st.Close()

	r := render.New(cfg.FontDir, cfg.ImageDir, log)
	gate := newGate(cfg)

	if opts.export != "" {
		if err := exportHeadless(ctx, opts, cfg, st, r, gate, log); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	m := initialModel(cfg, log, st, r, gate)
	switch {
	case opts.open != "":
		if err := m.openLabel(opts.open, true); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		m.mode = ModeNormal
	case opts.template != "":
		t, ok := templates.ByID(opts.template)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown template %q\n", opts.template)
			return 1
		}
		if err := m.newFromTemplate(t); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		m.mode = ModeNormal
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("program exited")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func openStore(ctx context.Context, cfg *Config, log zerolog.Logger) (store.Store, error) {
	if cfg.Store == "sqlite" {
		return store.OpenSQLite(ctx, cfg.DatabasePath(), log)
	}
	return store.NewFileStore(cfg.LabelDir(), log)
}

func newGate(cfg *Config) export.Gate {
	if cfg.Credits < 0 {
		return export.AllowAll
	}
	return export.NewCreditGate(cfg.Credits)
}

// exportHeadless writes a stored label or a template without starting the
// editor.
func exportHeadless(ctx context.Context, opts options, cfg *Config, st store.Store, r *render.Rasterizer, gate export.Gate, log zerolog.Logger) error {
	format, err := export.ParseFormat(opts.export)
	if err != nil {
		return err
	}

	var snap document.Snapshot
	name := opts.open
	if opts.open != "" {
		rec, err := st.Load(ctx, opts.open)
		if err != nil {
			return fmt.Errorf("load %s: %w", opts.open, err)
		}
		if snap, err = rec.Snapshot(); err != nil {
			return err
		}
		name = rec.Name
	} else {
		t, ok := templates.ByID(opts.template)
		if !ok {
			return fmt.Errorf("unknown template %q", opts.template)
		}
		snap = t.Snapshot()
		name = t.ID
	}

	layout := cfg.Layout
	if opts.layout != "" {
		layout = opts.layout
	}
	printer := cfg.Printer
	if opts.printer != "" {
		printer = opts.printer
	}
	exp, err := export.NewExporter(format, r, export.Options{
		Scale:   opts.scale,
		Layout:  export.Layout(layout),
		Printer: printer,
		Copies:  opts.copies,
		Log:     log,
	})
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = cfg.GetSavePath(safeFilename(name))
	}
	written, err := export.Save(ctx, gate, exp, snap, out)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Println(path)
	}
	log.Info().Str("format", exp.FormatName()).Strs("files", written).Msg("exported label")
	return nil
}

// safeFilename keeps letters, digits, dash and underscore.
func safeFilename(name string) string {
	out := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, name)
	if out == "" {
		return "label"
	}
	return out
}

func initialModel(cfg *Config, log zerolog.Logger, st store.Store, r *render.Rasterizer, gate export.Gate) model {
	m := model{
		config:            cfg,
		log:               log,
		store:             st,
		rasterizer:        r,
		gate:              gate,
		mode:              ModeStartup,
		showLayers:        true,
		selectedFileIndex: -1,
		templateCategory:  -1,
	}
	if !cfg.StartMenu {
		m.newLabel(true)
		m.mode = ModeNormal
	}
	return m
}
