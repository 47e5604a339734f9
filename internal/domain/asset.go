package domain

import (
	"errors"
	"fmt"
	"time"
)

// NoDataValue is the sentinel marking cells with no valid measurement.
const NoDataValue = -9999

// ErrInvalidWindow is returned when a date window has start after end.
var ErrInvalidWindow = errors.New("invalid date window: start after end")

// AssetRecord identifies one downloadable raster in the catalog.
type AssetRecord struct {
	Identifier string // raster code, e.g. "L1-PCP-M.2018-05"
	Location   string // resolvable download URL
}

// SelectedAsset pairs an AssetRecord with the date parsed from its identifier.
type SelectedAsset struct {
	Date   time.Time
	Record AssetRecord
}

// DateWindow is an inclusive [Start, End] calendar range.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Validate rejects windows whose start is after their end.
func (w DateWindow) Validate() error {
	if w.Start.After(w.End) {
		return fmt.Errorf("%w: %s > %s",
			ErrInvalidWindow, w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
	}
	return nil
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// BoundingBox is a geographic extent in degrees.
type BoundingBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Validate rejects degenerate boxes.
func (b BoundingBox) Validate() error {
	if b.MinLon >= b.MaxLon {
		return fmt.Errorf("invalid bounding box: min lon %v >= max lon %v", b.MinLon, b.MaxLon)
	}
	if b.MinLat >= b.MaxLat {
		return fmt.Errorf("invalid bounding box: min lat %v >= max lat %v", b.MinLat, b.MaxLat)
	}
	return nil
}

// Intersects reports whether the two boxes share any area.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.MinLon < o.MaxLon && o.MinLon < b.MaxLon &&
		b.MinLat < o.MaxLat && o.MinLat < b.MaxLat
}
