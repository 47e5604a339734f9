package notify

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroclim/wapor-fetch/internal/domain"
	"github.com/hydroclim/wapor-fetch/internal/pipeline"
)

func TestSerializeResult_Written(t *testing.T) {
	res := pipeline.Result{
		Asset: domain.SelectedAsset{
			Date:   time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC),
			Record: domain.AssetRecord{Identifier: "L1-PCP-M.2018-01", Location: "u"},
		},
		Outcome: pipeline.Written,
	}

	msg, err := serializeResult("L1-PCP-M", res)
	require.NoError(t, err)

	assert.Equal(t, "L1-PCP-M.2018-01", string(msg.Key))

	var event OutcomeEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "L1-PCP-M", event.Mapset)
	assert.Equal(t, "2018-01-01", event.Date)
	assert.Equal(t, "written", event.Outcome)
	assert.Empty(t, event.Stage)
	assert.Empty(t, event.Error)
	assert.False(t, event.ProcessedAt.IsZero())
}

func TestSerializeResult_FailureCarriesStageAndError(t *testing.T) {
	res := pipeline.Result{
		Asset: domain.SelectedAsset{
			Date:   time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
			Record: domain.AssetRecord{Identifier: "L1-AETI-D.2020-03-D1"},
		},
		Outcome: pipeline.Failed,
		Stage:   pipeline.StageDownload,
		Err:     errors.New("connection reset"),
	}

	msg, err := serializeResult("L1-AETI-D", res)
	require.NoError(t, err)

	var event OutcomeEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "failed", event.Outcome)
	assert.Equal(t, "download", event.Stage)
	assert.Equal(t, "connection reset", event.Error)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "L1-AETI-D", headers["mapset"])
	assert.Equal(t, "failed", headers["outcome"])
}
