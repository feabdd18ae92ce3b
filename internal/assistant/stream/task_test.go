package stream

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/smallbiznis/tariffdesk/internal/assistant/completion"
	"github.com/smallbiznis/tariffdesk/internal/assistant/completion/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, task *Task) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-task.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("task did not finish")
		}
	}
}

func TestTaskRelaysDeltasThenDone(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	upstream := mocks.NewMockStream(ctrl)

	req := completion.Request{Model: "gpt-4o-mini"}
	client.EXPECT().Stream(gomock.Any(), req).Return(upstream, nil)
	gomock.InOrder(
		upstream.EXPECT().Recv().Return("Hel", nil),
		upstream.EXPECT().Recv().Return("", nil),
		upstream.EXPECT().Recv().Return("lo", nil),
		upstream.EXPECT().Recv().Return("", io.EOF),
	)
	upstream.EXPECT().Close().Return(nil)

	task, err := Open(context.Background(), client, req)
	require.NoError(t, err)

	events := collect(t, task)
	require.Len(t, events, 3)
	assert.Equal(t, Event{Kind: EventContent, Content: "Hel"}, events[0])
	assert.Equal(t, Event{Kind: EventContent, Content: "lo"}, events[1])
	assert.Equal(t, EventDone, events[2].Kind)
	assert.Equal(t, EventDone, task.Wait().Kind)
}

func TestTaskSurfacesUpstreamError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	upstream := mocks.NewMockStream(ctrl)

	boom := errors.New("upstream reset")
	client.EXPECT().Stream(gomock.Any(), gomock.Any()).Return(upstream, nil)
	upstream.EXPECT().Recv().Return("", boom)
	upstream.EXPECT().Close().Return(nil)

	task, err := Open(context.Background(), client, completion.Request{})
	require.NoError(t, err)

	events := collect(t, task)
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Kind)
	assert.ErrorIs(t, events[0].Err, boom)
}

func TestOpenReturnsConnectError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().Stream(gomock.Any(), gomock.Any()).Return(nil, completion.ErrNotConfigured)

	task, err := Open(context.Background(), client, completion.Request{})
	assert.Nil(t, task)
	assert.ErrorIs(t, err, completion.ErrNotConfigured)
}

// blockingStream never yields until closed.
type blockingStream struct {
	once   sync.Once
	closed chan struct{}
}

func newBlockingStream() *blockingStream {
	return &blockingStream{closed: make(chan struct{})}
}

func (b *blockingStream) Recv() (string, error) {
	<-b.closed
	return "", errors.New("closed")
}

func (b *blockingStream) Close() error {
	b.once.Do(func() { close(b.closed) })
	return nil
}

type staticClient struct{ stream completion.Stream }

func (s staticClient) Stream(context.Context, completion.Request) (completion.Stream, error) {
	return s.stream, nil
}

func TestTaskHeartbeatAndAbort(t *testing.T) {
	upstream := newBlockingStream()
	task, err := Open(context.Background(), staticClient{upstream}, completion.Request{}, WithHeartbeat(10*time.Millisecond))
	require.NoError(t, err)

	select {
	case ev := <-task.Events():
		assert.Equal(t, EventHeartbeat, ev.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("no heartbeat")
	}

	task.Abort()
	task.Abort()

	final := task.Wait()
	assert.Equal(t, EventError, final.Kind)
	assert.ErrorIs(t, final.Err, ErrAborted)

	select {
	case <-upstream.closed:
	default:
		t.Fatal("upstream not closed")
	}
}

func TestTaskParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task, err := Open(ctx, staticClient{newBlockingStream()}, completion.Request{})
	require.NoError(t, err)

	cancel()
	assert.ErrorIs(t, task.Wait().Err, ErrAborted)
}

func TestSessionsSupersede(t *testing.T) {
	sessions := NewSessions()

	first, err := Open(context.Background(), staticClient{newBlockingStream()}, completion.Request{})
	require.NoError(t, err)
	sessions.Replace("10.0.0.1", first)

	second, err := Open(context.Background(), staticClient{newBlockingStream()}, completion.Request{})
	require.NoError(t, err)
	sessions.Replace("10.0.0.1", second)

	assert.ErrorIs(t, first.Wait().Err, ErrAborted, "new request aborts the previous stream")
	select {
	case <-second.Done():
		t.Fatal("replacement must keep running")
	default:
	}

	sessions.Release("10.0.0.1", first)
	assert.Equal(t, 1, sessions.Len(), "stale release is ignored")

	sessions.Release("10.0.0.1", second)
	assert.Zero(t, sessions.Len())
	second.Abort()
	second.Wait()
}
