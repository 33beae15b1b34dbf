package core_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/productPach/tutorio-backend-sub000/internal/worker/core"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMonitor(t *testing.T) (*core.Monitor, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	monitor := core.NewMonitor(client, zap.NewNop())

	cleanup := func() {
		mr.Close()
		client.Close()
	}

	return monitor, cleanup
}

func TestReportAndGetStatuses(t *testing.T) {
	t.Parallel()

	monitor, cleanup := setupMonitor(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, monitor.ReportStatus(ctx, core.Status{
		WorkerID:    "w1",
		WorkerType:  "reputation",
		CurrentTask: "Processing batch",
		Progress:    50,
		IsHealthy:   true,
	}))
	require.NoError(t, monitor.ReportStatus(ctx, core.Status{
		WorkerID:   "w2",
		WorkerType: "reputation",
		IsHealthy:  false,
	}))

	statuses, err := monitor.GetAllStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byID := make(map[string]core.Status, len(statuses))
	for _, s := range statuses {
		byID[s.WorkerID] = s
		assert.False(t, s.LastSeen.IsZero())
	}

	assert.True(t, byID["w1"].IsHealthy)
	assert.Equal(t, "Processing batch", byID["w1"].CurrentTask)
	assert.False(t, byID["w2"].IsHealthy)
}
