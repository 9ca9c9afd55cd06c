package game

import (
	"context"
	"time"
)

type NetworkSession interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

type Player interface {
	Id() string
	Username() string
	Send(data []byte) error
	Ping() error
	SetRoom(r Room)
	CancelAndRelease()
}

type Room interface {
	RequestJoin(jreq roomJoinRequest)
	Send(ctx context.Context, e clientEventEnvelope)
	RemoveMe(ctx context.Context, p Player)
	Tick(now time.Time)
	PingPlayers()
	GameLoop()
	CloseAndRelease()
	Description() roomDescription
	SetParentLobby(l Lobby)
	SetId(id string)
}

type Lobby interface {
	RequestUpdateDescription(desc roomDescription)
	RemoveRoom(roomId string)
}

// Randomizer abstracts the room's randomness (answer shuffling, color picks,
// auto-assigned votes) so tests can pin the outcome.
type Randomizer interface {
	Perm(n int) []int
	Intn(n int) int
}

type UniqueIdGenerator interface {
	Generate() string
	Dispose(id string)
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}
