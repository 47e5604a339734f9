package pipeline

import "github.com/hydroclim/wapor-fetch/internal/domain"

// Outcome classifies what happened to one asset.
type Outcome int

const (
	Written Outcome = iota
	SkippedExisting
	SkippedOutOfExtent
	Failed
)

// String returns the metrics/reporting label for the outcome.
func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case SkippedExisting:
		return "skipped_existing"
	case SkippedOutOfExtent:
		return "skipped_extent"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Stage names the pipeline step at which an asset failed.
type Stage string

const (
	StageDownload   Stage = "download"
	StageCrop       Stage = "crop"
	StageProcessing Stage = "processing"
)

// Result is the per-asset outcome of one pipeline invocation.
type Result struct {
	Asset   domain.SelectedAsset
	Outcome Outcome
	Stage   Stage // set when Outcome is Failed
	Err     error // set when Outcome is Failed
}

func (r Result) fail(stage Stage, err error) Result {
	r.Outcome = Failed
	r.Stage = stage
	r.Err = err
	return r
}
