package domain

import (
	"fmt"
	"strings"
)

// scaleFactors maps mapset codes to the multiplier converting stored integer
// samples to physical units. Water-balance products store tenths of a
// millimetre; NPP and LCC are unscaled. Mirrors the published WaPOR v3
// product tables.
var scaleFactors = map[string]float64{
	// Precipitation (mm)
	"L1-PCP-E": 0.1,
	"L1-PCP-D": 0.1,
	"L1-PCP-M": 0.1,
	"L1-PCP-A": 0.1,

	// Reference ET (mm)
	"L1-RET-E": 0.1,
	"L1-RET-D": 0.1,
	"L1-RET-M": 0.1,
	"L1-RET-A": 0.1,

	// Actual ET and interception (mm)
	"L1-AETI-D": 0.1,
	"L1-AETI-M": 0.1,
	"L1-AETI-A": 0.1,
	"L2-AETI-D": 0.1,
	"L2-AETI-M": 0.1,
	"L2-AETI-A": 0.1,
	"L1-I-D":    0.1,
	"L1-I-M":    0.1,
	"L1-I-A":    0.1,
	"L2-I-D":    0.1,
	"L2-I-M":    0.1,
	"L2-I-A":    0.1,

	// Transpiration (mm)
	"L1-T-D": 0.1,
	"L1-T-M": 0.1,
	"L1-T-A": 0.1,
	"L2-T-D": 0.1,
	"L2-T-M": 0.1,
	"L2-T-A": 0.1,

	// Net primary production (gC/m2)
	"L1-NPP-D": 1.0,
	"L1-NPP-M": 1.0,
	"L1-NPP-A": 1.0,
	"L2-NPP-D": 1.0,
	"L2-NPP-M": 1.0,
	"L2-NPP-A": 1.0,

	// Land cover classification (categorical)
	"L1-LCC-A": 1.0,
	"L2-LCC-A": 1.0,
}

// ScaleFactor returns the sample multiplier for a mapset code, defaulting to
// 1.0 for codes not in the table.
func ScaleFactor(mapsetCode string) float64 {
	if s, ok := scaleFactors[mapsetCode]; ok {
		return s
	}
	return 1.0
}

// TemporalUnit names the temporal resolution encoded in a mapset code's
// final segment: "daily", "dekadal", "monthly", "annual", or "" when the
// code does not follow the <level>-<variable>-<temporal> convention.
func TemporalUnit(mapsetCode string) string {
	i := strings.LastIndexByte(mapsetCode, '-')
	if i < 0 {
		return ""
	}
	switch mapsetCode[i+1:] {
	case "E":
		return "daily"
	case "D":
		return "dekadal"
	case "M":
		return "monthly"
	case "A":
		return "annual"
	}
	return ""
}

// OutputFilename builds the canonical destination filename for one asset of
// a mapset. The raw date token from the asset identifier is kept verbatim so
// the name encodes mapset code, temporal unit, and date unambiguously, e.g.
// "L1-PCP-M.2018-01.tif".
func OutputFilename(mapsetCode string, asset SelectedAsset) string {
	token := asset.Record.Identifier
	if i := strings.LastIndexByte(token, '.'); i >= 0 {
		token = token[i+1:]
	}
	if token == "" {
		token = asset.Date.Format("2006-01-02")
	}
	return fmt.Sprintf("%s.%s.tif", mapsetCode, token)
}
