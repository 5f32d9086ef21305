package engine

import (
	"sort"

	"github.com/piwi3910/PagePack/internal/model"
)

// SortByArea returns a copy of rects ordered by area, largest first.
// Rectangles with equal area keep their input order.
func SortByArea(rects []model.Rectangle) []model.Rectangle {
	sorted := make([]model.Rectangle, len(rects))
	copy(sorted, rects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area() > sorted[j].Area()
	})
	return sorted
}
