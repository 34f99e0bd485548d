package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRevalidationPublishesEventAndDropsCachedViews(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	require.NoError(t, redisClient.Set(context.Background(), dashboardCacheKey(7), "stale", 0).Err())

	sub := redisClient.Subscribe(context.Background(), "mathdash:revalidate")
	defer sub.Close()
	_, err = sub.Receive(context.Background())
	require.NoError(t, err)

	svc := NewRevalidationService(redisClient, "mathdash:revalidate", nil, testLogger())
	svc.ScheduleChanged(7)

	select {
	case msg := <-sub.Channel():
		var event RevalidationEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		require.Equal(t, "schedule", event.Entity)
		require.Equal(t, uint(7), event.StudentID)
		require.NotEmpty(t, event.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no revalidation event received")
	}

	require.Eventually(t, func() bool {
		return !server.Exists(dashboardCacheKey(7))
	}, 2*time.Second, 10*time.Millisecond, "cached dashboard should be dropped")
}

func TestRevalidationWithoutTransportsIsNoOp(t *testing.T) {
	svc := NewRevalidationService(nil, "", nil, testLogger())

	// Must not panic or block.
	svc.ScheduleChanged(1)
	svc.AssignmentChanged(1)
}
