package game

import (
	"context"
	"encoding/json"
	"sync"

	"golang.org/x/time/rate"

	"api/shared/logger"
)

// player owns one websocket connection. ReadPump feeds the room's inbox,
// WritePump drains the outbox. Send, Ping and CancelAndRelease are only
// called from the room goroutine, so the closed-channel check is not racy.
type player struct {
	id          string
	username    string
	rateLimiter *rate.Limiter
	socket      NetworkSession
	outbox      chan []byte
	pingChan    chan struct{}
	room        Room
	closeOnce   sync.Once
	closed      bool
}

func NewPlayer(id, username string, socket NetworkSession) *player {
	return &player{
		id:          id,
		username:    username,
		rateLimiter: rate.NewLimiter(5, 10),
		socket:      socket,
		outbox:      make(chan []byte, 256),
		pingChan:    make(chan struct{}, 1),
	}
}

func (p *player) Id() string {
	return p.id
}

func (p *player) Username() string {
	return p.username
}

func (p *player) SetRoom(r Room) {
	p.room = r
}

func (p *player) Send(data []byte) error {
	if p.closed {
		return ErrSendBufferFull
	}
	select {
	case p.outbox <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (p *player) Ping() error {
	if p.closed {
		return ErrSendBufferFull
	}
	select {
	case p.pingChan <- struct{}{}:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (p *player) CancelAndRelease() {
	p.closeOnce.Do(func() {
		p.closed = true
		close(p.outbox)
		close(p.pingChan)
		p.socket.Close("")
	})
}

func (p *player) ReadPump() {
	defer p.room.RemoveMe(context.Background(), p)

	for {
		data, err := p.socket.Read()
		if err != nil {
			return
		}
		if !p.rateLimiter.Allow() {
			logger.Warningf("[Player %s] Flooding, dropping message", p.username)
			continue
		}

		var event ClientEvent
		if err := json.Unmarshal(data, &event); err != nil {
			logger.Debugf("[Player %s] Ignoring malformed message: %v", p.username, err)
			continue
		}

		p.room.Send(context.Background(), clientEventEnvelope{event: event, from: p})
	}
}

func (p *player) WritePump() {
loop:
	for {
		select {
		case data, ok := <-p.outbox:
			if !ok {
				break loop
			}
			if err := p.socket.Write(data); err != nil {
				break loop
			}
		case _, ok := <-p.pingChan:
			if !ok {
				break loop
			}
			if err := p.socket.Ping(); err != nil {
				break loop
			}
		}
	}
}
