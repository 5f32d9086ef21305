package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PagePack/internal/imageproc"
	"github.com/piwi3910/PagePack/internal/importer"
	"github.com/piwi3910/PagePack/internal/model"
	"github.com/piwi3910/PagePack/internal/project"
)

// layoutFlags are the page settings shared by build, layout and compare.
// Flags override values from the config file only when set explicitly.
type layoutFlags struct {
	configPath  string
	page        string
	landscape   bool
	padding     float64
	compression int
	maxPages    int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	def := model.DefaultConfig()
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "config file (default "+project.DefaultConfigPath()+")")
	fl.StringVar(&f.page, "page", def.PageSize, "page size: "+strings.Join(model.GetPageSizeNames(), ", ")+" or WIDTHxHEIGHT in points")
	fl.BoolVar(&f.landscape, "landscape", def.Landscape, "rotate the page to landscape")
	fl.Float64Var(&f.padding, "padding", def.Padding, "page margin and gap between images, in points")
	fl.IntVar(&f.compression, "compression", def.CompressionLevel, "0 = lossless PNG, 1-9 = JPEG with falling quality")
	fl.IntVar(&f.maxPages, "max-pages", def.MaxPages, "stop after this many pages (0 = unlimited)")
}

// resolve loads the config file and applies explicitly set flags on top.
func (f *layoutFlags) resolve(cmd *cobra.Command) (model.Config, model.PageGeometry, error) {
	path := f.configPath
	if path == "" {
		path = project.DefaultConfigPath()
	}
	cfg, err := project.LoadConfig(path)
	if err != nil {
		return model.Config{}, model.PageGeometry{}, err
	}

	fl := cmd.Flags()
	if fl.Changed("page") {
		if err := applyPage(&cfg, f.page); err != nil {
			return model.Config{}, model.PageGeometry{}, err
		}
	}
	if fl.Changed("landscape") {
		cfg.Landscape = f.landscape
	}
	if fl.Changed("padding") {
		cfg.Padding = f.padding
	}
	if fl.Changed("compression") {
		cfg.CompressionLevel = f.compression
	}
	if fl.Changed("max-pages") {
		cfg.MaxPages = f.maxPages
	}

	if err := cfg.Validate(); err != nil {
		return model.Config{}, model.PageGeometry{}, err
	}
	geom, err := cfg.Geometry()
	if err != nil {
		return model.Config{}, model.PageGeometry{}, err
	}
	return cfg, geom, nil
}

// applyPage accepts a preset name or WIDTHxHEIGHT.
func applyPage(cfg *model.Config, value string) error {
	if _, ok := model.GetPageSize(value); ok {
		cfg.PageSize = value
		return nil
	}
	ws, hs, ok := strings.Cut(strings.ToLower(value), "x")
	if !ok {
		return fmt.Errorf("invalid page size %q", value)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(ws), 64)
	if err != nil {
		return fmt.Errorf("invalid page width in %q: %w", value, err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hs), 64)
	if err != nil {
		return fmt.Errorf("invalid page height in %q: %w", value, err)
	}
	cfg.PageSize = model.PageSizeCustom
	cfg.PageWidth = w
	cfg.PageHeight = h
	return nil
}

// collectEntries lists the images named by input: a directory is scanned
// for cfg.Extensions, anything else is read as a CSV or XLSX manifest.
func collectEntries(ctx context.Context, input string, cfg model.Config) ([]importer.Entry, error) {
	logger := loggerFromContext(ctx)

	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	if info.IsDir() {
		return importer.ScanDir(input, cfg.Extensions)
	}

	res := importer.ImportManifest(input)
	for _, w := range res.Warnings {
		logger.Debug(w, "manifest", input)
	}
	for _, e := range res.Errors {
		logger.Warn(e, "manifest", input)
	}
	if len(res.Entries) == 0 && len(res.Errors) > 0 {
		return nil, fmt.Errorf("failed to import manifest %s: %s", input, res.Errors[0])
	}
	return res.Entries, nil
}

// loadRectangles decodes and trims every entry. A file that cannot be
// decoded aborts the run.
func loadRectangles(ctx context.Context, entries []importer.Entry) ([]model.Rectangle, error) {
	logger := loggerFromContext(ctx)
	rects := make([]model.Rectangle, 0, len(entries))

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := imageproc.Load(e.Path)
		if err != nil {
			return nil, err
		}
		r := imageproc.ToRectangle(src, e.Label)
		logger.Debug("loaded image", "label", r.Label, "width", r.Width, "height", r.Height)
		rects = append(rects, r)
	}
	return rects, nil
}

// prepare runs the shared front half of every layout command.
func prepare(cmd *cobra.Command, flags *layoutFlags, input string) (model.Config, model.PageGeometry, []model.Rectangle, error) {
	ctx := cmd.Context()
	cfg, geom, err := flags.resolve(cmd)
	if err != nil {
		return model.Config{}, model.PageGeometry{}, nil, err
	}

	entries, err := collectEntries(ctx, input, cfg)
	if err != nil {
		return model.Config{}, model.PageGeometry{}, nil, err
	}

	p := newProgress(loggerFromContext(ctx))
	rects, err := loadRectangles(ctx, entries)
	if err != nil {
		return model.Config{}, model.PageGeometry{}, nil, err
	}
	if len(rects) > 0 {
		p.done(fmt.Sprintf("Loaded %d images", len(rects)))
	}
	return cfg, geom, rects, nil
}
