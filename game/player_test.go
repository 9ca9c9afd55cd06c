package game

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlayer_SendBufferFull(t *testing.T) {
	p := NewPlayer("id", "ada", &MockNetworkSession{})

	for i := 0; i < cap(p.outbox); i++ {
		require.NoError(t, p.Send([]byte("x")))
	}
	assert.ErrorIs(t, p.Send([]byte("overflow")), ErrSendBufferFull)
}

func TestPlayer_SendAfterRelease(t *testing.T) {
	socket := &MockNetworkSession{}
	socket.On("Close", "").Return().Once()
	p := NewPlayer("id", "ada", socket)

	p.CancelAndRelease()

	assert.ErrorIs(t, p.Send([]byte("x")), ErrSendBufferFull)
	assert.ErrorIs(t, p.Ping(), ErrSendBufferFull)
	socket.AssertExpectations(t)
}

func TestPlayer_CancelAndReleaseIsIdempotent(t *testing.T) {
	socket := &MockNetworkSession{}
	socket.On("Close", "").Return().Once()
	p := NewPlayer("id", "ada", socket)

	assert.NotPanics(t, func() {
		p.CancelAndRelease()
		p.CancelAndRelease()
	})
	socket.AssertExpectations(t)
}

func TestPlayer_ReadPumpForwardsEvents(t *testing.T) {
	socket := &MockNetworkSession{}
	socket.On("Read").Return([]byte(`{"type":"submitAnswer","answer":"cats"}`), nil).Once()
	socket.On("Read").Return([]byte(nil), errors.New("connection closed")).Once()

	room := &MockRoom{}
	var forwarded clientEventEnvelope
	room.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		forwarded = args.Get(1).(clientEventEnvelope)
	}).Return().Once()
	room.On("RemoveMe", mock.Anything, mock.Anything).Return().Once()

	p := NewPlayer("id", "ada", socket)
	p.SetRoom(room)

	p.ReadPump()

	room.AssertExpectations(t)
	assert.Equal(t, EVENT_SUBMIT_ANSWER, forwarded.event.Type)
	assert.Equal(t, "cats", forwarded.event.Answer)
	assert.Equal(t, p, forwarded.from)
}

func TestPlayer_ReadPumpSkipsMalformedMessages(t *testing.T) {
	socket := &MockNetworkSession{}
	socket.On("Read").Return([]byte(`this is not json`), nil).Once()
	socket.On("Read").Return([]byte(nil), errors.New("connection closed")).Once()

	room := &MockRoom{}
	room.On("RemoveMe", mock.Anything, mock.Anything).Return().Once()

	p := NewPlayer("id", "ada", socket)
	p.SetRoom(room)

	p.ReadPump()

	room.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	room.AssertExpectations(t)
}

func TestPlayer_ReadPumpRateLimitsFloods(t *testing.T) {
	const flood = 50

	socket := &MockNetworkSession{}
	socket.On("Read").Return([]byte(`{"type":"ready"}`), nil).Times(flood)
	socket.On("Read").Return([]byte(nil), errors.New("connection closed")).Once()

	room := &MockRoom{}
	sends := 0
	room.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		sends++
	}).Return()
	room.On("RemoveMe", mock.Anything, mock.Anything).Return().Once()

	p := NewPlayer("id", "ada", socket)
	p.SetRoom(room)

	p.ReadPump()

	assert.Less(t, sends, flood, "flood must be throttled")
	assert.GreaterOrEqual(t, sends, 10, "burst allowance must pass through")
}

func TestPlayer_WritePumpDrainsOutbox(t *testing.T) {
	socket := &MockNetworkSession{}
	written := make(chan []byte, 1)
	socket.On("Write", mock.Anything).Run(func(args mock.Arguments) {
		written <- args.Get(0).([]byte)
	}).Return(nil).Once()
	socket.On("Close", "").Return().Once()

	p := NewPlayer("id", "ada", socket)

	done := make(chan struct{})
	go func() {
		p.WritePump()
		close(done)
	}()

	require.NoError(t, p.Send([]byte("payload")))

	select {
	case data := <-written:
		assert.Equal(t, []byte("payload"), data)
	case <-time.After(time.Second):
		t.Fatal("WritePump never wrote the message")
	}

	p.CancelAndRelease()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WritePump did not stop after release")
	}
}

func TestPlayer_WritePumpStopsOnWriteError(t *testing.T) {
	socket := &MockNetworkSession{}
	socket.On("Write", mock.Anything).Return(errors.New("broken pipe")).Once()

	p := NewPlayer("id", "ada", socket)
	require.NoError(t, p.Send([]byte("payload")))

	done := make(chan struct{})
	go func() {
		p.WritePump()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WritePump did not stop after a write error")
	}
}
