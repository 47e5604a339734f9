package domain

import "math"

// RasterBuffer holds one decoded raster grid with its georeferencing.
// A buffer belongs to exactly one pipeline invocation and is mutated in
// place by CleanScale before being encoded.
type RasterBuffer struct {
	Samples      []float32  // row-major, Width*Height
	Width        int
	Height       int
	NoData       float64
	GeoTransform [6]float64 // GDAL affine transform
	Projection   string     // WKT spatial reference
}

// Extent returns the geographic bounding box spanned by the buffer's affine
// transform. Assumes a north-up transform, which holds for all WaPOR
// products.
func (b *RasterBuffer) Extent() BoundingBox {
	gt := b.GeoTransform
	minLon := gt[0]
	maxLon := gt[0] + float64(b.Width)*gt[1]
	maxLat := gt[3]
	minLat := gt[3] + float64(b.Height)*gt[5]
	return BoundingBox{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}
}

// CleanScale applies the WaPOR value conventions in place, in this order:
// undefined samples (NaN, ±Inf) become the no-data sentinel, remaining
// negative samples clamp to zero, and every valid sample is multiplied by
// scale. No-data cells are never scaled.
func (b *RasterBuffer) CleanScale(scale float64) {
	nodata := float32(b.NoData)
	for i, v := range b.Samples {
		f64 := float64(v)
		if math.IsNaN(f64) || math.IsInf(f64, 0) {
			b.Samples[i] = nodata
			continue
		}
		if v == nodata {
			continue
		}
		if v < 0 {
			v = 0
		}
		b.Samples[i] = v * float32(scale)
	}
}
