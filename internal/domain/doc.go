// Package domain models FAO WaPOR v3 raster catalog data.
//
// # Data Source
//
// Rasters originate from the FAO WaPOR v3 public catalog at
// https://data.apps.fao.org/gismgr/api/v2/catalog/workspaces/WAPOR-3/mapsets.
// No authentication is required; assets are Cloud Optimized GeoTIFFs
// addressable by plain HTTP GET. A mapset is a named collection of rasters
// sharing a variable, spatial level, and temporal resolution, e.g. monthly
// precipitation at continental (300 m) resolution.
//
// # Mapset Code Conventions
//
// Mapset codes have the form
//
//	<level>-<variable>-<temporal>
//
// where level is L1 (continental 300 m), L2 (national 100 m) or L3
// (sub-national 20 m); variable is PCP (precipitation), RET (reference ET),
// AETI (actual ET and interception), I (interception), T (transpiration),
// NPP (net primary production) or LCC (land cover classification); and
// temporal is E (daily), D (dekadal), M (monthly) or A (annual).
//
// # Raster Identifier Conventions
//
// Raster identifiers carry their date in the segment after the last "."
// (and, in some mapsets, after a further "_"):
//
//	L1-PCP-E.2020-01-15     daily
//	L1-AETI-D.2020-01-D1    dekadal (D1/D2/D3 = the three dekads of a month)
//	L1-PCP-M.2018-05        monthly
//	L1-LCC-A.2020A          annual ("A" marker on some mapsets)
//
// Dekadal identifiers collapse to the first day of their month for window
// filtering; the dekad digit carries no sub-month offset. Only a single
// trailing "A" is treated as the annual marker — an "A" elsewhere in the
// token is part of the token.
//
// # Value Conventions
//
// Stored samples are scaled integers. Water-balance products (PCP, RET,
// AETI, I, T) use a 0.1 scale factor to yield millimetres; NPP and LCC are
// stored unscaled. Negative samples are artifacts and clamp to zero.
// The value -9999 is the no-data sentinel.
package domain
