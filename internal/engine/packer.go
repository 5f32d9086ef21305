package engine

import (
	"math"

	"github.com/piwi3910/PagePack/internal/model"
)

// Pack lays out rects on a single page using a row-wise shelf heuristic and
// returns the placements plus the rectangles that did not fit.
//
// Rectangles are visited in the given order. Callers sort once with
// SortByArea before the first page and pass Overflow unchanged to the next
// call; overflow is never re-sorted. Pack keeps no state between calls.
func Pack(rects []model.Rectangle, geom model.PageGeometry) (model.PackResult, error) {
	if err := geom.Validate(); err != nil {
		return model.PackResult{}, err
	}

	result := model.PackResult{
		Placements: []model.Placement{},
		Overflow:   []model.Rectangle{},
	}

	x, y := geom.Padding, geom.Padding // y is measured from the top edge
	rowHeight := 0.0

	for _, r := range rects {
		r = fitToWidth(r, geom)

		// Start a new row when the current one has no horizontal room left
		if x+r.Width+geom.Padding > geom.Width {
			x = geom.Padding
			y += rowHeight + geom.Padding
			rowHeight = 0
		}

		// Not enough vertical room: carry it over to the next page
		if y+r.Height+geom.Padding > geom.Height {
			result.Overflow = append(result.Overflow, r)
			continue
		}

		result.Placements = append(result.Placements, model.Placement{
			Rect: r,
			X:    x,
			Y:    geom.Height - y - r.Height,
		})
		x += r.Width + geom.Padding
		rowHeight = math.Max(rowHeight, r.Height)
	}

	return result, nil
}

// fitToWidth downscales r when it is wider than the usable page width.
// The width snaps down to a whole unit so the right margin is never crossed.
// Height-only oversize is left alone.
func fitToWidth(r model.Rectangle, geom model.PageGeometry) model.Rectangle {
	usable := geom.UsableWidth()
	if r.Width <= usable {
		return r
	}
	return r.ScaledToWidth(math.Max(1, math.Floor(usable)))
}

