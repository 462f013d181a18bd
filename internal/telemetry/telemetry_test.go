package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "foxbox", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = false

	shutdown, err := Init(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	// Should be able to call shutdown without error
	err = shutdown(ctx)
	assert.NoError(t, err)

	// Should not be enabled
	assert.False(t, IsEnabled())
}

func TestTracerReturnsNoOp(t *testing.T) {
	// Reset state
	tracer = nil
	enabled = false

	// Without initialization, should return no-op tracer
	tr := Tracer()
	require.NotNil(t, tr)
}

func TestStartSpan(t *testing.T) {
	ctx := context.Background()

	// Even without initialization, StartSpan should work (no-op)
	newCtx, span := StartSpan(ctx, "test.operation")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)

	// Should be able to end the span
	span.End()
}

func TestSpanFromContext(t *testing.T) {
	ctx := context.Background()

	// Should return a span even without active span
	span := SpanFromContext(ctx)
	require.NotNil(t, span)
}

func TestAddEvent(t *testing.T) {
	ctx := context.Background()

	// Should not panic with no active span
	require.NotPanics(t, func() {
		AddEvent(ctx, "test.event")
	})
}

func TestRecordError(t *testing.T) {
	ctx := context.Background()

	// Should not panic with nil error
	require.NotPanics(t, func() {
		RecordError(ctx, nil)
	})

	// Should not panic with error
	require.NotPanics(t, func() {
		RecordError(ctx, errors.New("test error"))
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	// Should not panic
	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Ok, "success")
	})

	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Error, "failed")
	})
}

func TestSetAttributes(t *testing.T) {
	ctx := context.Background()

	// Should not panic
	require.NotPanics(t, func() {
		SetAttributes(ctx, ClientIP("192.168.1.1"))
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()

	// Without active span, should return empty string
	traceID := TraceID(ctx)
	assert.Equal(t, "", traceID)
}

func TestSpanID(t *testing.T) {
	ctx := context.Background()

	// Without active span, should return empty string
	spanID := SpanID(ctx)
	assert.Equal(t, "", spanID)
}

func TestAttributeHelpers(t *testing.T) {
	t.Run("ClientIP", func(t *testing.T) {
		attr := ClientIP("192.168.1.100")
		assert.Equal(t, AttrClientIP, string(attr.Key))
		assert.Equal(t, "192.168.1.100", attr.Value.AsString())
	})

	t.Run("ClientAddr", func(t *testing.T) {
		attr := ClientAddr("192.168.1.100:12345")
		assert.Equal(t, AttrClientAddr, string(attr.Key))
		assert.Equal(t, "192.168.1.100:12345", attr.Value.AsString())
	})

	t.Run("Transport", func(t *testing.T) {
		attr := Transport("sfs2x-tcp")
		assert.Equal(t, AttrTransport, string(attr.Key))
		assert.Equal(t, "sfs2x-tcp", attr.Value.AsString())
	})

	t.Run("Action", func(t *testing.T) {
		attr := Action("Login")
		assert.Equal(t, AttrAction, string(attr.Key))
		assert.Equal(t, "Login", attr.Value.AsString())
	})

	t.Run("Controller", func(t *testing.T) {
		attr := Controller(1)
		assert.Equal(t, AttrController, string(attr.Key))
		assert.Equal(t, int64(1), attr.Value.AsInt64())
	})

	t.Run("ErrorCode", func(t *testing.T) {
		attr := ErrorCode(6)
		assert.Equal(t, AttrErrorCode, string(attr.Key))
		assert.Equal(t, int64(6), attr.Value.AsInt64())
	})

	t.Run("SessionID", func(t *testing.T) {
		attr := SessionID("SESS_abc")
		assert.Equal(t, AttrSessionID, string(attr.Key))
		assert.Equal(t, "SESS_abc", attr.Value.AsString())
	})

	t.Run("UserID", func(t *testing.T) {
		attr := UserID(42)
		assert.Equal(t, AttrUserID, string(attr.Key))
		assert.Equal(t, int64(42), attr.Value.AsInt64())
	})

	t.Run("Player", func(t *testing.T) {
		attr := Player("steam:123")
		assert.Equal(t, AttrPlayer, string(attr.Key))
		assert.Equal(t, "steam:123", attr.Value.AsString())
	})

	t.Run("RoomID", func(t *testing.T) {
		attr := RoomID(7)
		assert.Equal(t, AttrRoomID, string(attr.Key))
		assert.Equal(t, int64(7), attr.Value.AsInt64())
	})

	t.Run("Room", func(t *testing.T) {
		attr := Room("duel-1")
		assert.Equal(t, AttrRoom, string(attr.Key))
		assert.Equal(t, "duel-1", attr.Value.AsString())
	})

	t.Run("Group", func(t *testing.T) {
		attr := Group("default")
		assert.Equal(t, AttrGroup, string(attr.Key))
		assert.Equal(t, "default", attr.Value.AsString())
	})

	t.Run("Members", func(t *testing.T) {
		attr := Members(4)
		assert.Equal(t, AttrMembers, string(attr.Key))
		assert.Equal(t, int64(4), attr.Value.AsInt64())
	})
}

func TestStartRequestSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartRequestSpan(ctx, "Login", "sfs2x-tcp", "SESS_abc")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	// With additional attributes
	newCtx2, span2 := StartRequestSpan(ctx, "JoinRoom", "bluebox", "SESS_def",
		RoomID(3), UserID(7))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}
