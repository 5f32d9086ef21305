package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PagePack/internal/engine"
	"github.com/piwi3910/PagePack/internal/project"
)

func newLayoutCmd() *cobra.Command {
	var (
		flags  layoutFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "layout <dir|manifest>",
		Short: "Print the page plan without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := out(cmd)
			cfg, geom, rects, err := prepare(cmd, &flags, args[0])
			if err != nil {
				return err
			}
			if len(rects) == 0 {
				loggerFromContext(cmd.Context()).Warn("No images found", "input", args[0])
				return nil
			}

			result, layoutErr := engine.Layout(rects, geom, engine.Options{MaxPages: cfg.MaxPages})
			if layoutErr != nil && !errors.Is(layoutErr, engine.ErrNoProgress) && !errors.Is(layoutErr, engine.ErrPageLimit) {
				return layoutErr
			}

			manifest := project.NewLayoutManifest(result, cfg)
			if asJSON {
				data, err := json.MarshalIndent(manifest, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal layout: %w", err)
				}
				fmt.Fprintln(w, string(data))
				return layoutErr
			}

			fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("Page %.1f x %.1f pt, padding %.1f pt", geom.Width, geom.Height, geom.Padding)))
			var rows [][]string
			for _, page := range manifest.Pages {
				for _, it := range page.Items {
					rows = append(rows, []string{
						fmt.Sprint(page.Number),
						it.Label,
						fmt.Sprintf("%.1f", it.X),
						fmt.Sprintf("%.1f", it.Y),
						fmt.Sprintf("%.0f", it.Width),
						fmt.Sprintf("%.0f", it.Height),
					})
				}
			}
			if len(rows) > 0 {
				fmt.Fprintln(w, renderTable([]string{"Page", "Label", "X", "Y", "Width", "Height"}, rows, -1))
			}
			for _, page := range manifest.Pages {
				printDetail(w, "page %d: %d images, %.1f%% coverage", page.Number, len(page.Items), page.Efficiency)
			}
			for _, it := range manifest.Unplaced {
				printWarning(w, "not placed: %s (%.0fx%.0f)", it.Label, it.Width, it.Height)
			}
			return layoutErr
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout manifest as JSON")
	return cmd
}
