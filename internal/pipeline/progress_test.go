package pipeline_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hydroclim/wapor-fetch/internal/pipeline"
)

func TestConsoleProgress(t *testing.T) {
	var sb strings.Builder
	p := pipeline.NewConsoleProgress(&sb)

	p.Begin(3)
	p.Advance(1)
	p.Advance(1)
	p.Advance(1)

	out := sb.String()
	assert.Contains(t, out, "processing 3 assets")
	assert.Contains(t, out, "[1/3]")
	assert.Contains(t, out, "[3/3]")
}

func TestNopProgressIsSilent(t *testing.T) {
	// Just exercise the no-op path; nothing to observe.
	var p pipeline.ProgressSink = pipeline.NopProgress{}
	p.Begin(10)
	p.Advance(5)
}
