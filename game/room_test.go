package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setupRoom() *room {
	return NewRoom(&MockGenerator{}, &MockRandomizer{})
}

func TestRoom_SetId(t *testing.T) {
	r := setupRoom()
	r.SetId("new-id")
	assert.Equal(t, "new-id", r.id)
}

func TestRoom_SetParentLobby(t *testing.T) {
	r := setupRoom()
	l := &MockLobby{}
	r.SetParentLobby(l)
	assert.Equal(t, l, r.parentLobby)
}

func TestRoom_Description(t *testing.T) {
	r := setupRoom()
	r.SetId("desc-test")

	desc := r.Description()

	assert.Equal(t, "desc-test", desc.id)
	assert.Equal(t, 0, desc.playersCount)
	assert.Equal(t, MAX_PLAYERS, desc.maxPlayers)
	assert.Equal(t, STATUS_WAITING, desc.status)
}

func TestRoom_Tick(t *testing.T) {
	r := setupRoom()
	now := time.Now()

	r.Tick(now)

	select {
	case val := <-r.ticks:
		assert.Equal(t, now, val)
	default:
		assert.Fail(t, "Time signal was not sent to ticks channel")
	}
}

func TestRoom_PingPlayers(t *testing.T) {
	r := setupRoom()

	// Non-blocking even when called repeatedly without a running loop.
	r.PingPlayers()
	r.PingPlayers()

	select {
	case <-r.pingPlayers:
	default:
		assert.Fail(t, "Signal was not sent to pingPlayers channel")
	}
}

func TestRoom_Send(t *testing.T) {
	r := setupRoom()
	envelope := clientEventEnvelope{event: ClientEvent{Type: EVENT_READY}}

	r.Send(context.Background(), envelope)

	select {
	case val := <-r.inbox:
		assert.Equal(t, envelope, val)
	default:
		assert.Fail(t, "Envelope was not sent to inbox")
	}
}

func TestRoom_RequestJoinAfterClose(t *testing.T) {
	r := setupRoom()
	r.CloseAndRelease()

	jreq := NewRoomJoinRequest(&MockPlayer{})
	r.RequestJoin(jreq)

	select {
	case err := <-jreq.errChan:
		assert.ErrorIs(t, err, ErrRoomNotFound)
	case <-time.After(100 * time.Millisecond):
		assert.Fail(t, "RequestJoin did not reply on a closed room")
	}
}

func TestRoom_CloseAndReleaseIsIdempotent(t *testing.T) {
	r := setupRoom()

	assert.NotPanics(t, func() {
		r.CloseAndRelease()
		r.CloseAndRelease()
	})
}

func TestRoom_GameLoopStopsOnClose(t *testing.T) {
	r := setupRoom()

	stopped := make(chan struct{})
	go func() {
		r.GameLoop()
		close(stopped)
	}()

	r.CloseAndRelease()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		assert.Fail(t, "GameLoop did not stop after CloseAndRelease")
	}
}
