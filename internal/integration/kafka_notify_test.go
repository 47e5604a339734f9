//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkatc "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/hydroclim/wapor-fetch/internal/domain"
	"github.com/hydroclim/wapor-fetch/internal/notify"
	"github.com/hydroclim/wapor-fetch/internal/observability"
	"github.com/hydroclim/wapor-fetch/internal/pipeline"
)

const testTopic = "raster-fetch-outcomes-test"

// startKafka runs a single-node Kafka in a container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := kafkatc.Run(ctx, "confluentinc/confluent-local:7.5.0",
		kafkatc.WithClusterID("wapor-fetch-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestKafkaNotifier verifies that published pipeline outcomes round-trip
// through a real broker with their headers intact.
func TestKafkaNotifier(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	writer := notify.NewWriter([]string{broker}, testTopic, "L1-PCP-M", observability.NewTestLogger())
	t.Cleanup(func() { _ = writer.Close() })

	results := []pipeline.Result{
		{
			Asset: domain.SelectedAsset{
				Date:   time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC),
				Record: domain.AssetRecord{Identifier: "L1-PCP-M.2018-01"},
			},
			Outcome: pipeline.Written,
		},
		{
			Asset: domain.SelectedAsset{
				Date:   time.Date(2018, time.February, 1, 0, 0, 0, 0, time.UTC),
				Record: domain.AssetRecord{Identifier: "L1-PCP-M.2018-02"},
			},
			Outcome: pipeline.Failed,
			Stage:   pipeline.StageDownload,
			Err:     errors.New("connection reset"),
		},
	}
	for _, res := range results {
		require.NoError(t, writer.Publish(ctx, res))
	}

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()

	var events []notify.OutcomeEvent
	for range results {
		msg, err := consumer.ReadMessage(readCtx)
		require.NoError(t, err, "read outcome from topic")

		var event notify.OutcomeEvent
		require.NoError(t, json.Unmarshal(msg.Value, &event))
		events = append(events, event)
	}

	assert.Equal(t, "written", events[0].Outcome)
	assert.Equal(t, "L1-PCP-M.2018-01", events[0].Asset)
	assert.Equal(t, "failed", events[1].Outcome)
	assert.Equal(t, "download", events[1].Stage)
	assert.Equal(t, "connection reset", events[1].Error)
}
