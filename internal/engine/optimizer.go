package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/PagePack/internal/model"
)

var (
	// ErrNoProgress is returned when a page pass places nothing while
	// rectangles remain; those rectangles can never fit on any page.
	ErrNoProgress = errors.New("no rectangle fits on an empty page")

	// ErrPageLimit is returned when Options.MaxPages is reached with
	// rectangles still waiting.
	ErrPageLimit = errors.New("page limit reached")
)

// Options tunes the multi-page driver.
type Options struct {
	MaxPages int // 0 = unlimited

	// OnPage, if set, is called after each page is filled with the number
	// of rectangles still waiting.
	OnPage func(page model.PageResult, remaining int)
}

// Layout sorts rects once and fills pages until every rectangle is placed.
//
// When a pass places nothing (or MaxPages is hit) the pages built so far are
// returned together with the leftover rectangles in Unplaced, and the error
// wraps ErrNoProgress (or ErrPageLimit).
func Layout(rects []model.Rectangle, geom model.PageGeometry, opts Options) (model.LayoutResult, error) {
	if err := geom.Validate(); err != nil {
		return model.LayoutResult{}, err
	}

	result := model.LayoutResult{
		Geometry: geom,
		Pages:    []model.PageResult{},
		Unplaced: []model.Rectangle{},
	}
	remaining := SortByArea(rects)

	for len(remaining) > 0 {
		if opts.MaxPages > 0 && len(result.Pages) >= opts.MaxPages {
			result.Unplaced = remaining
			return result, fmt.Errorf("%w: %d rectangles left after %d pages", ErrPageLimit, len(remaining), opts.MaxPages)
		}

		packed, err := Pack(remaining, geom)
		if err != nil {
			return model.LayoutResult{}, err
		}
		if len(packed.Placements) == 0 {
			result.Unplaced = packed.Overflow
			where := "before any page was filled"
			if n := len(result.Pages); n > 0 {
				where = fmt.Sprintf("after page %d", n)
			}
			return result, fmt.Errorf("%w: %d rectangles left %s (largest %.0fx%.0f, usable area %.0fx%.0f)",
				ErrNoProgress, len(packed.Overflow), where,
				packed.Overflow[0].Width, packed.Overflow[0].Height, geom.UsableWidth(), geom.UsableHeight())
		}

		page := model.PageResult{
			Number:     len(result.Pages) + 1,
			Geometry:   geom,
			Placements: packed.Placements,
		}
		result.Pages = append(result.Pages, page)
		remaining = packed.Overflow

		if opts.OnPage != nil {
			opts.OnPage(page, len(remaining))
		}
	}

	return result, nil
}
