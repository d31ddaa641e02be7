package egret

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventualResolve(t *testing.T) {
	ev := NewEventual(nil)
	ev.Resolve(Text("ok"))

	res, err := ev.wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Text("ok"), res)
}

func TestEventualReject(t *testing.T) {
	ev := NewEventual(nil)
	wantErr := &HandlerFailure{Err: context.Canceled}
	ev.Reject(wantErr)

	_, err := ev.wait(context.Background())
	assert.Equal(t, wantErr, err)
}

func TestEventualSingleAssignment(t *testing.T) {
	ev := NewEventual(nil)
	ev.Resolve(Text("first"))
	ev.Resolve(Text("second"))

	res, err := ev.wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Text("first"), res)
}

func TestEventualCancelFor(t *testing.T) {
	var cancelled bool
	ev := NewEventual(func() { cancelled = true })
	ev.cancelFor("my-route")

	_, err := ev.wait(context.Background())
	require.Error(t, err)
	var ce *CancelledError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "my-route", ce.Route)
	assert.True(t, cancelled)
}

func TestEventualWaitRacesDisconnect(t *testing.T) {
	ev := NewEventual(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ev.wait(ctx)
	assert.Equal(t, context.Canceled, err)
}
