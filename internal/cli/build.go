package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PagePack/internal/engine"
	"github.com/piwi3910/PagePack/internal/export"
	"github.com/piwi3910/PagePack/internal/imageproc"
	"github.com/piwi3910/PagePack/internal/model"
	"github.com/piwi3910/PagePack/internal/project"
)

type buildOptions struct {
	layoutFlags
	output       string
	labels       string
	report       string
	layout       string
	title        string
	summary      bool
	pageNumbers  bool
	allowPartial bool
}

func newBuildCmd() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build <dir|manifest>",
		Short: "Lay out images and write them to a PDF",
		Long: `Load every image in a directory (or listed in a CSV/XLSX manifest), trim
transparent borders, sort by area and pack them row by row onto pages.

Without --allow-partial nothing is written when some image can never fit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&opts.output, "output", "o", "output.pdf", "output PDF path")
	fl.StringVar(&opts.labels, "labels", "", "also write a QR label index PDF to this path")
	fl.StringVar(&opts.report, "report", "", "also write an XLSX placement report to this path")
	fl.StringVar(&opts.layout, "layout", "", "also write the JSON layout manifest to this path")
	fl.StringVar(&opts.title, "title", "", "PDF document title")
	fl.BoolVar(&opts.summary, "summary", false, "append a summary page")
	fl.BoolVar(&opts.pageNumbers, "page-numbers", false, "print page numbers in the bottom margin")
	fl.BoolVar(&opts.allowPartial, "allow-partial", false, "write the pages that were filled even if some images do not fit")

	return cmd
}

func runBuild(cmd *cobra.Command, input string, opts *buildOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	w := out(cmd)

	cfg, geom, rects, err := prepare(cmd, &opts.layoutFlags, input)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("summary") {
		cfg.SummaryPage = opts.summary
	}
	if cmd.Flags().Changed("page-numbers") {
		cfg.PageNumbers = opts.pageNumbers
	}

	if len(rects) == 0 {
		logger.Warn("No images found", "input", input, "extensions", cfg.Extensions)
		return nil
	}

	logger.Debug("page geometry", "width", geom.Width, "height", geom.Height, "padding", geom.Padding)
	result, err := engine.Layout(rects, geom, engine.Options{
		MaxPages: cfg.MaxPages,
		OnPage: func(page model.PageResult, remaining int) {
			logger.Info("Adding page", "page", page.Number, "images", len(page.Placements), "remaining", remaining)
		},
	})
	if err != nil {
		if err := checkPartial(cmd, err, result, opts.allowPartial); err != nil {
			return err
		}
	}

	p := newProgress(logger)
	enc := imageproc.Encoder{CompressionLevel: cfg.CompressionLevel}
	pdfOpts := export.PDFOptions{
		Title:       opts.title,
		SummaryPage: cfg.SummaryPage,
		PageNumbers: cfg.PageNumbers,
	}
	if err := export.ExportPDF(opts.output, result, enc, pdfOpts); err != nil {
		return err
	}
	p.done(fmt.Sprintf("Wrote %d pages", len(result.Pages)))

	written := []string{opts.output}
	if opts.labels != "" {
		if err := export.ExportLabels(opts.labels, result); err != nil {
			return err
		}
		written = append(written, opts.labels)
	}
	if opts.report != "" {
		if err := export.ExportReport(opts.report, result); err != nil {
			return err
		}
		written = append(written, opts.report)
	}
	if opts.layout != "" {
		if err := project.SaveLayout(opts.layout, result, cfg); err != nil {
			return err
		}
		written = append(written, opts.layout)
	}

	printSuccess(w, "Placed %d of %d images on %d pages (%.1f%% coverage)",
		result.PlacedCount(), len(rects), len(result.Pages), result.TotalEfficiency())
	for _, path := range written {
		printFile(w, path)
	}
	return nil
}

// checkPartial decides whether a layout that stopped early may still be
// written. It returns nil when the placed pages should be exported.
func checkPartial(cmd *cobra.Command, err error, result model.LayoutResult, allowPartial bool) error {
	if !errors.Is(err, engine.ErrNoProgress) && !errors.Is(err, engine.ErrPageLimit) {
		return err
	}
	if !allowPartial || len(result.Pages) == 0 {
		return fmt.Errorf("%w (use --allow-partial to write the placed pages)", err)
	}

	logger := loggerFromContext(cmd.Context())
	logger.Warn("Layout incomplete", "err", err)
	for _, r := range result.Unplaced {
		logger.Warn("Not placed", "label", r.Label, "width", r.Width, "height", r.Height)
	}
	printWarning(out(cmd), "%d images were not placed", len(result.Unplaced))
	return nil
}
