package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurulquran/academy-backend/internal/lock"
	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/repository/memory"
)

func TestLocalCapacityFeed_DeliversToClassSubscribers(t *testing.T) {
	ctx := context.Background()
	feed := NewLocalCapacityFeed()
	svc := NewEnrollmentService(memory.NewClassRepository(), lock.NewLocal(), feed, zerolog.Nop())
	classID := uuid.New()

	events, cancel, err := feed.Subscribe(ctx, classID)
	require.NoError(t, err)
	defer cancel()
	otherEvents, cancelOther, err := feed.Subscribe(ctx, uuid.New())
	require.NoError(t, err)
	defer cancelOther()

	_, err = svc.ConfigureClass(ctx, classID, 3)
	require.NoError(t, err)
	student := uuid.New()
	_, err = svc.RequestEnrollment(ctx, student, classID)
	require.NoError(t, err)

	var got []model.CapacityEvent
	for len(got) < 2 {
		select {
		case ev := <-events:
			got = append(got, ev)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for capacity events")
		}
	}
	assert.Equal(t, ReasonConfigured, got[0].Reason)
	assert.Equal(t, ReasonAdmitted, got[1].Reason)
	assert.Equal(t, student, got[1].StudentID)
	assert.Equal(t, 1, got[1].CurrentEnrollment)

	select {
	case ev := <-otherEvents:
		t.Fatalf("unexpected event for other class: %+v", ev)
	default:
	}
}

func TestLocalCapacityFeed_CancelClosesChannel(t *testing.T) {
	ctx, stop := context.WithCancel(context.Background())
	feed := NewLocalCapacityFeed()

	events, cancel, err := feed.Subscribe(ctx, uuid.New())
	require.NoError(t, err)
	stop()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
	cancel()
	assert.Empty(t, feed.subs)
}
