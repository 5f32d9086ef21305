package engine

import (
	"fmt"

	"github.com/piwi3910/PagePack/internal/model"
)

// ComparisonScenario defines a named page geometry to compare.
type ComparisonScenario struct {
	Name     string
	Geometry model.PageGeometry
}

// ComparisonResult holds the layout and computed statistics for a single
// scenario. Err is set when the scenario could not place everything.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.LayoutResult
	PagesUsed     int
	PlacedCount   int
	WastePercent  float64
	UnplacedCount int
	Err           error
}

// CompareScenarios lays out rects once per scenario and returns the results
// in scenario order. Scenarios are independent; a failing one does not stop
// the others.
func CompareScenarios(scenarios []ComparisonScenario, rects []model.Rectangle) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := Layout(rects, scenario.Geometry, Options{})

		waste := 0.0
		if len(result.Pages) > 0 {
			waste = 100.0 - result.TotalEfficiency()
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			PagesUsed:     len(result.Pages),
			PlacedCount:   result.PlacedCount(),
			WastePercent:  waste,
			UnplacedCount: len(result.Unplaced),
			Err:           err,
		})
	}

	return results
}

// BestScenario returns the index of the result that placed the most
// rectangles on the fewest pages, or -1 for an empty slice.
func BestScenario(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if best < 0 {
			best = i
			continue
		}
		b := results[best]
		switch {
		case r.PlacedCount > b.PlacedCount:
			best = i
		case r.PlacedCount == b.PlacedCount && r.PagesUsed < b.PagesUsed:
			best = i
		}
	}
	return best
}

// BuildDefaultScenarios generates what-if alternatives around geom: the
// other orientation, half the padding, and no padding at all.
func BuildDefaultScenarios(geom model.PageGeometry) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Geometry: geom,
		},
	}

	rotated := geom
	rotated.Width, rotated.Height = geom.Height, geom.Width
	name := "Landscape"
	if geom.Width > geom.Height {
		name = "Portrait"
	}
	if geom.Width != geom.Height {
		scenarios = append(scenarios, ComparisonScenario{Name: name, Geometry: rotated})
	}

	if geom.Padding > 1.0 {
		half := geom
		half.Padding = geom.Padding * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Padding %.1fpt (half)", half.Padding),
			Geometry: half,
		})
	}

	if geom.Padding > 0 {
		none := geom
		none.Padding = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Padding",
			Geometry: none,
		})
	}

	return scenarios
}
