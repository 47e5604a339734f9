//go:build gdal

package raster

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroclim/wapor-fetch/internal/domain"
)

// These tests require a working GDAL installation and CGO.
// Run with: go test -tags=gdal ./internal/raster/ -v -count=1

func fixtureBuffer() *domain.RasterBuffer {
	return &domain.RasterBuffer{
		Samples:      []float32{10, 20, -5, domain.NoDataValue},
		Width:        2,
		Height:       2,
		NoData:       domain.NoDataValue,
		GeoTransform: [6]float64{0, 0.5, 0, 1, 0, -0.5},
		Projection:   `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]`,
	}
}

func TestSmoke_WriteReadRoundTrip(t *testing.T) {
	Init()
	g := GDAL{}
	path := filepath.Join(t.TempDir(), "fixture.tif")

	require.NoError(t, g.Write(path, fixtureBuffer()))

	got, err := g.Read(path)
	require.NoError(t, err)
	assert.Equal(t, fixtureBuffer().Samples, got.Samples)
	assert.Equal(t, 2, got.Width)
	assert.Equal(t, 2, got.Height)
	assert.Equal(t, float64(domain.NoDataValue), got.NoData)
}

func TestSmoke_Extent(t *testing.T) {
	Init()
	g := GDAL{}
	path := filepath.Join(t.TempDir(), "fixture.tif")
	require.NoError(t, g.Write(path, fixtureBuffer()))

	ext, err := g.Extent(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, ext.MinLon, 1e-9)
	assert.InDelta(t, 1.0, ext.MaxLon, 1e-9)
	assert.InDelta(t, 0.0, ext.MinLat, 1e-9)
	assert.InDelta(t, 1.0, ext.MaxLat, 1e-9)
}

func TestSmoke_CropToSubwindow(t *testing.T) {
	Init()
	g := GDAL{}
	dir := t.TempDir()
	src := filepath.Join(dir, "src.tif")
	dst := filepath.Join(dir, "dst.tif")
	require.NoError(t, g.Write(src, fixtureBuffer()))

	bbox := domain.BoundingBox{MinLon: 0, MinLat: 0.5, MaxLon: 0.5, MaxLat: 1}
	require.NoError(t, g.Crop(src, dst, bbox))

	got, err := g.Read(dst)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Width)
	assert.Equal(t, 1, got.Height)
	assert.Equal(t, float32(10), got.Samples[0])
}
