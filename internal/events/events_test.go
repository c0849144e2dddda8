// AngelaMos | 2026
// events_test.go

package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitRecordsEnvelope(t *testing.T) {
	rec := &Recorder{}
	Emit(context.Background(), rec, slog.Default(), KeyAssetCreated, map[string]int64{"asset_id": 4})

	got := rec.Events()
	require.Len(t, got, 1)
	assert.Equal(t, KeyAssetCreated, got[0].Key)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].OccurredAt.IsZero())
	assert.Equal(t, []string{KeyAssetCreated}, rec.Keys())
}

func TestEmitLogsFailureWithoutPanicking(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rec := &Recorder{Err: errors.New("broker down")}

	Emit(context.Background(), rec, logger, KeyPurchaseCompleted, nil)

	assert.Empty(t, rec.Events())
	assert.Contains(t, buf.String(), "event publish failed")
	assert.Contains(t, buf.String(), "broker down")
}

func TestEmitNilPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(context.Background(), nil, slog.Default(), KeyAssetModerated, nil)
	})
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := NewLogPublisher(logger)

	require.NoError(t, p.Publish(context.Background(), KeyAssetModerated, "x"))
	require.NoError(t, p.Close())
	assert.Contains(t, buf.String(), "key=asset.moderated")
}
