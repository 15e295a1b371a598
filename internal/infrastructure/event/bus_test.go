package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string, schoolID uuid.UUID) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "FeePayment", uuid.New(), schoolID),
		Data:            "test data",
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	async      bool
	delay      time.Duration
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) Async() bool { return h.async }

func (h *testHandler) setError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("PaymentRecorded")
	bus.Subscribe(handler)

	event := newTestEvent("PaymentRecorded", uuid.New())
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_Routing(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	payments := newTestHandler("PaymentRecorded")
	invoices := newTestHandler("FeeInvoiceCreated")
	wildcard := newTestHandler()
	bus.Subscribe(payments)
	bus.Subscribe(invoices)
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("PaymentRecorded", uuid.New()),
		newTestEvent("PaymentRecorded", uuid.New()),
		newTestEvent("LearnerEnrolled", uuid.New()),
	))

	assert.Len(t, payments.getHandled(), 2)
	assert.Empty(t, invoices.getHandled())
	assert.Len(t, wildcard.getHandled(), 3)
}

func TestInMemoryEventBus_FailuresDoNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := newTestHandler("PaymentRecorded")
	failing.setError(errors.New("handler error"))
	panicking := newTestHandler("PaymentRecorded")
	panicking.panics = true
	healthy := newTestHandler("PaymentRecorded")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PaymentRecorded", uuid.New())))

	assert.Len(t, failing.getHandled(), 1)
	assert.Len(t, healthy.getHandled(), 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("PaymentRecorded")
	bus.Subscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("PaymentRecorded", uuid.New()))

	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("PaymentRecorded", uuid.New()))

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_AsyncHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithHandlerTimeout(time.Second))
	handler := newTestHandler("PaymentRecorded")
	handler.async = true
	handler.delay = 20 * time.Millisecond
	bus.Subscribe(handler)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, newTestEvent("PaymentRecorded", uuid.New())))
	// the request context ending must not abort the async delivery
	cancel()
	assert.Empty(t, handler.getHandled())

	stopCtx, stop := context.WithTimeout(context.Background(), time.Second)
	defer stop()
	require.NoError(t, bus.Stop(stopCtx))
	assert.Len(t, handler.getHandled(), 1)

	t.Run("stopped bus drops async deliveries", func(t *testing.T) {
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("PaymentRecorded", uuid.New())))
		time.Sleep(40 * time.Millisecond)
		assert.Len(t, handler.getHandled(), 1)
	})
}

func TestInMemoryEventBus_StopTimesOut(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("PaymentRecorded")
	handler.async = true
	handler.delay = 200 * time.Millisecond
	bus.Subscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PaymentRecorded", uuid.New())))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(ctx), context.DeadlineExceeded)
}
