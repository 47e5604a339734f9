// Package raster wraps GDAL (via godal) for the crop, decode, and encode
// steps of the acquisition pipeline.
package raster

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/hydroclim/wapor-fetch/internal/domain"
)

var registerOnce sync.Once

// Init registers the GDAL drivers. It is idempotent and must be called once
// by the host application before any other function in this package; there
// is deliberately no init-time side effect.
func Init() {
	registerOnce.Do(godal.RegisterAll)
}

// VSICurlPath converts a plain HTTP(S) URL into a GDAL /vsicurl/ path for
// direct remote reads without a local download.
func VSICurlPath(url string) string {
	return "/vsicurl/" + url
}

// GDAL performs raster operations through godal. The zero value is usable
// once Init has run.
type GDAL struct{}

// Extent returns the native geographic bounding box of the raster at path.
func (GDAL) Extent(path string) (domain.BoundingBox, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return domain.BoundingBox{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer ds.Close()

	b, err := ds.Bounds()
	if err != nil {
		return domain.BoundingBox{}, fmt.Errorf("bounds of %s: %w", path, err)
	}
	return domain.BoundingBox{MinLon: b[0], MinLat: b[1], MaxLon: b[2], MaxLat: b[3]}, nil
}

// Crop warps the raster at src to dst, clipped to bbox in the source's
// native resolution and CRS, assigning the no-data sentinel to cells outside
// the source data or the box.
func (GDAL) Crop(src, dst string, bbox domain.BoundingBox) error {
	switches := []string{
		"-te",
		formatCoord(bbox.MinLon), formatCoord(bbox.MinLat),
		formatCoord(bbox.MaxLon), formatCoord(bbox.MaxLat),
		"-dstnodata", strconv.Itoa(domain.NoDataValue),
		"-of", "GTiff",
		"-co", "COMPRESS=LZW",
		"-co", "TILED=YES",
	}

	srcDS, err := godal.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer srcDS.Close()

	out, err := godal.Warp(dst, []*godal.Dataset{srcDS}, switches)
	if err != nil {
		return fmt.Errorf("warp %s: %w", src, err)
	}
	return out.Close()
}

// Read decodes the first band of the raster at path into a RasterBuffer.
func (GDAL) Read(path string) (*domain.RasterBuffer, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer ds.Close()

	structure := ds.Structure()
	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("geotransform of %s: %w", path, err)
	}

	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, fmt.Errorf("no bands in %s", path)
	}
	band := bands[0]

	nodata := float64(domain.NoDataValue)
	if nd, ok := band.NoData(); ok {
		nodata = nd
	}

	buf := &domain.RasterBuffer{
		Samples:      make([]float32, structure.SizeX*structure.SizeY),
		Width:        structure.SizeX,
		Height:       structure.SizeY,
		NoData:       nodata,
		GeoTransform: gt,
		Projection:   ds.Projection(),
	}
	if err := band.Read(0, 0, buf.Samples, structure.SizeX, structure.SizeY); err != nil {
		return nil, fmt.Errorf("read band of %s: %w", path, err)
	}
	return buf, nil
}

// Write encodes a RasterBuffer as a single-band float32 GeoTIFF at path,
// carrying over the buffer's affine transform, spatial reference, and
// no-data value.
func (GDAL) Write(path string, buf *domain.RasterBuffer) error {
	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float32, buf.Width, buf.Height,
		godal.CreationOption("COMPRESS=LZW", "TILED=YES"))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := ds.SetGeoTransform(buf.GeoTransform); err != nil {
		ds.Close()
		return fmt.Errorf("set geotransform on %s: %w", path, err)
	}
	if buf.Projection != "" {
		if err := ds.SetProjection(buf.Projection); err != nil {
			ds.Close()
			return fmt.Errorf("set projection on %s: %w", path, err)
		}
	}

	band := ds.Bands()[0]
	if err := band.SetNoData(buf.NoData); err != nil {
		ds.Close()
		return fmt.Errorf("set nodata on %s: %w", path, err)
	}
	if err := band.Write(0, 0, buf.Samples, buf.Width, buf.Height); err != nil {
		ds.Close()
		return fmt.Errorf("write band of %s: %w", path, err)
	}
	return ds.Close()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
