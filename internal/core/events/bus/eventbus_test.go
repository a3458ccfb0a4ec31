package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_, _ string, _ Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_, _ string, handlers int, err error, _ int64) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestPublishSubscribe(t *testing.T) {
	b := New()
	var got []Event
	_, err := b.Subscribe(TemplateRegistered, func(e Event) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(NewEvent(TemplateRegistered, "objects", "chair", 0, "ObjectAttributes")))
	require.NoError(t, b.Publish(NewEvent(TemplateRemoved, "objects", "chair", 0, "ObjectAttributes")))

	require.Len(t, got, 1)
	assert.Equal(t, "chair", got[0].Handle)
	assert.Equal(t, "objects", got[0].Topic)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestTopicsIsolation(t *testing.T) {
	b := New()
	objects, stages, all := 0, 0, 0
	_, _ = b.SubscribeTopic("objects", TemplateRegistered, func(Event) error { objects++; return nil })
	_, _ = b.SubscribeTopic("stages", TemplateRegistered, func(Event) error { stages++; return nil })
	_, _ = b.Subscribe(AnyType, func(Event) error { all++; return nil })

	_ = b.Publish(NewEvent(TemplateRegistered, "objects", "chair", 0, ""))
	_ = b.Publish(NewEvent(TemplateRemoved, "stages", "room", 0, ""))

	assert.Equal(t, 1, objects)
	assert.Equal(t, 0, stages)
	assert.Equal(t, 2, all)
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	count := 0
	sub, err := b.Subscribe(TemplateRegistered, func(Event) error { count++; return nil })
	require.NoError(t, err)

	_ = b.Publish(NewEvent(TemplateRegistered, "objects", "a", 0, ""))
	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	_ = b.Publish(NewEvent(TemplateRegistered, "objects", "b", 1, ""))

	assert.Equal(t, 1, count)
	assert.False(t, sub.IsActive())
	assert.NotEmpty(t, sub.ID())
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	e1, e2 := errors.New("first"), errors.New("second")
	_, _ = b.Subscribe(TemplateRegistered, func(Event) error { return e1 })
	_, _ = b.Subscribe(AnyType, func(Event) error { return e2 })

	err := b.PublishBatch(NewEvent(TemplateRegistered, "objects", "a", 0, ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
}

func TestObserverMetricsOptional(t *testing.T) {
	b := New()
	_, _ = b.Subscribe(TemplateRegistered, func(Event) error { return nil })
	_ = b.Publish(NewEvent(TemplateRegistered, "objects", "a", 0, ""))
	assert.Zero(t, b.GetMetrics().Published)

	obs := &testObserver{}
	b.AddObserver(obs)
	_ = b.Publish(NewEvent(TemplateRegistered, "objects", "a", 0, ""))

	m := b.GetMetrics()
	assert.Equal(t, uint64(1), m.Published)
	assert.Equal(t, uint64(1), m.DeliveredHandlers)
	assert.Equal(t, 1, obs.publishCount)
	assert.Equal(t, 1, obs.deliveredCount)

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent(TemplateRegistered, "objects", "a", 0, ""))
	assert.Equal(t, 1, obs.publishCount)
	assert.Len(t, b.GetTopics(), 1)
}
