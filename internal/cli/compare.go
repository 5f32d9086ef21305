package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PagePack/internal/engine"
)

func newCompareCmd() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "compare <dir|manifest>",
		Short: "Compare page counts under alternative page settings",
		Long: `Lay out the same images with the current settings, the rotated page,
half padding and no padding, and report pages used and wasted area.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := out(cmd)
			_, geom, rects, err := prepare(cmd, &flags, args[0])
			if err != nil {
				return err
			}
			if len(rects) == 0 {
				loggerFromContext(cmd.Context()).Warn("No images found", "input", args[0])
				return nil
			}

			results := engine.CompareScenarios(engine.BuildDefaultScenarios(geom), rects)
			best := engine.BestScenario(results)

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if r.Err != nil {
					status = "incomplete"
				}
				rows = append(rows, []string{
					r.Scenario.Name,
					fmt.Sprintf("%.0f x %.0f", r.Scenario.Geometry.Width, r.Scenario.Geometry.Height),
					fmt.Sprint(r.PagesUsed),
					fmt.Sprint(r.PlacedCount),
					fmt.Sprint(r.UnplacedCount),
					fmt.Sprintf("%.1f%%", r.WastePercent),
					status,
				})
			}
			fmt.Fprintln(w, renderTable([]string{"Scenario", "Page", "Pages", "Placed", "Unplaced", "Waste", "Status"}, rows, best))
			for _, r := range results {
				if r.Err != nil {
					printDetail(w, "%s: %v", r.Scenario.Name, r.Err)
				}
			}
			if best >= 0 {
				printSuccess(w, "Best: %s", results[best].Scenario.Name)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
