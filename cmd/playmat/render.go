package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/rpggio/playmat/internal/config"
	"github.com/rpggio/playmat/internal/document"
	"github.com/rpggio/playmat/internal/domain/editor"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/export"
	"github.com/rpggio/playmat/internal/raster"
	"github.com/rpggio/playmat/internal/watch"
)

func runRender(ctx context.Context, cmd *cli.Command) error {
	path, err := documentArg(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger, closeLog, err := newLogger(cfg.Log.Level, cfg.Log.Path, true)
	if err != nil {
		return fmt.Errorf("log file error: %w", err)
	}
	defer closeLog()

	r := &renderer{
		path:   path,
		out:    cmd.String("out"),
		logger: logger,
		loader: raster.NewLoader(nil, raster.WithLocalFiles()),
	}
	if cmd.IsSet("dpi") {
		dpi := cmd.Float("dpi")
		if dpi <= 0 {
			return fmt.Errorf("dpi must be positive, got %g", dpi)
		}
		r.dpi = dpi
	}

	if !cmd.Bool("watch") {
		return r.render(ctx)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := r.render(ctx); err != nil {
		logger.Warn("render failed", "path", path, "error", err)
	}
	return watch.File(ctx, path, watch.DefaultDebounce, logger, func(ctx context.Context) error {
		// Image sources may have changed along with the document.
		r.loader.Forget()
		return r.render(ctx)
	})
}

type renderer struct {
	path   string
	out    string
	dpi    float64
	logger *slog.Logger
	loader *raster.Loader
}

// render decodes the document and writes one PNG. Rejected fields fall back
// to defaults and are logged.
func (r *renderer) render(ctx context.Context) error {
	state, err := readDocument(r.path, r.logger)
	if err != nil {
		return err
	}
	if r.dpi > 0 {
		state.ExportDPI = r.dpi
	}

	session := editor.New(state, editor.Options{Logger: r.logger})
	defer func() { _ = session.Close(ctx) }()
	canvas := raster.NewCanvas(session, r.loader,
		raster.WithLogger(r.logger),
		raster.WithBackgroundReporter(func(w, h float64) {
			if _, err := session.ReportBackgroundImage(w, h); err != nil {
				r.logger.Warn("background fit failed", "error", err)
			}
		}),
	)

	img, err := session.Export(ctx, canvas)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", r.path, err)
	}
	data, err := export.EncodePNG(img)
	if err != nil {
		return err
	}

	out := r.out
	if out == "" {
		out = filepath.Join(filepath.Dir(r.path), document.ImageFilename(state.ProjectName))
	}
	if err := ensureParentDir(out); err != nil {
		return fmt.Errorf("preparing output path: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	size := img.Bounds().Size()
	r.logger.Info("rendered", "out", out, "width", size.X, "height", size.Y, "dpi", state.ExportDPI)
	return nil
}

func readDocument(path string, logger *slog.Logger) (project.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return project.State{}, fmt.Errorf("reading document: %w", err)
	}
	state, problems, err := document.Decode(data, project.Defaults())
	if err != nil {
		return project.State{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	for _, p := range problems {
		logger.Warn("document field replaced with default", "field", p.Field, "reason", p.Reason)
	}
	return state, nil
}

func runValidate(_ context.Context, cmd *cli.Command) error {
	path, err := documentArg(cmd)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	state, problems, err := document.Decode(data, project.Defaults())
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	for _, p := range problems {
		fmt.Fprintf(os.Stdout, "%s: %s\n", p.Field, p.Reason)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s: %d field(s) rejected", path, len(problems))
	}
	size := export.Size(state)
	fmt.Fprintf(os.Stdout, "%s: ok (%d zones, %gx%g cm, %dx%d px at %g dpi)\n",
		path, len(state.Zones), state.MatSize.Width, state.MatSize.Height, size.X, size.Y, state.ExportDPI)
	return nil
}
