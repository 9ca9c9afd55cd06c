package game

import (
	"context"
	"time"

	"api/shared/logger"
)

type lobby struct {
	rooms             map[string]Room
	roomsDescriptions map[string]roomDescription

	joinGameReqs   chan roomJoinRequest
	removeRoomChan chan string
	pubGamesReq    chan chan []roomDescription
	roomDescUpdate chan roomDescription

	idGenerator   UniqueIdGenerator
	tickerCreator PeriodicTickerChannelCreator
	newRoom       func() Room
}

func NewLobby(idgen UniqueIdGenerator, tickerCreator PeriodicTickerChannelCreator, newRoom func() Room) *lobby {
	return &lobby{
		rooms:             map[string]Room{},
		roomsDescriptions: map[string]roomDescription{},
		joinGameReqs:      make(chan roomJoinRequest, 256),
		removeRoomChan:    make(chan string, 32),
		pubGamesReq:       make(chan chan []roomDescription, 256),
		roomDescUpdate:    make(chan roomDescription, 256),
		idGenerator:       idgen,
		tickerCreator:     tickerCreator,
		newRoom:           newRoom,
	}
}

// JoinGame places the player in a room via matchmaking and waits for the
// room's verdict.
func (l *lobby) JoinGame(ctx context.Context, p Player) error {
	jreq := NewRoomJoinRequest(p)
	select {
	case l.joinGameReqs <- jreq:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-jreq.errChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lobby) RequestUpdateDescription(desc roomDescription) {
	select {
	case l.roomDescUpdate <- desc:
	default:
	}
}

func (l *lobby) RemoveRoom(roomId string) {
	l.removeRoomChan <- roomId
}

func (l *lobby) GetPublicGames(ctx context.Context) []roomDescription {
	respChan := make(chan []roomDescription, 1)
	select {
	case l.pubGamesReq <- respChan:
		select {
		case resp := <-respChan:
			return resp
		case <-ctx.Done():
			return nil
		}
	case <-ctx.Done():
		return nil
	}
}

func (l *lobby) LobbyActor(started chan struct{}) {
	ticker := l.tickerCreator.Create(time.Second)
	pingTicker := l.tickerCreator.Create(time.Second * 30)

	close(started)

	for {
		select {
		case now := <-ticker:
			for _, r := range l.rooms {
				r.Tick(now)
			}
		case <-pingTicker:
			for _, r := range l.rooms {
				r.PingPlayers()
			}

		case jreq := <-l.joinGameReqs:
			l.handleJoinGame(jreq)

		case roomId := <-l.removeRoomChan:
			l.handleRemoveRoom(roomId)

		case desc := <-l.roomDescUpdate:
			l.roomsDescriptions[desc.id] = desc

		case pubGamesReq := <-l.pubGamesReq:
			l.handleGetPublicRoomsDescription(pubGamesReq)
		}
	}
}

// handleJoinGame backfills the fullest waiting room that still has a seat,
// and spins up a fresh room when none qualifies.
func (l *lobby) handleJoinGame(jreq roomJoinRequest) {
	bestId := ""
	bestCount := -1
	for id, desc := range l.roomsDescriptions {
		if desc.status != STATUS_WAITING || desc.playersCount >= desc.maxPlayers {
			continue
		}
		if desc.playersCount > bestCount {
			bestId = id
			bestCount = desc.playersCount
		}
	}

	if bestId != "" {
		l.rooms[bestId].RequestJoin(jreq)
		return
	}

	id := l.idGenerator.Generate()
	room := l.newRoom()
	room.SetId(id)
	room.SetParentLobby(l)
	l.rooms[id] = room
	l.roomsDescriptions[id] = room.Description()
	go room.GameLoop()
	logger.Infof("[Lobby] Created room %s", id)

	room.RequestJoin(jreq)
}

func (l *lobby) handleRemoveRoom(toRemoveId string) {
	room, ok := l.rooms[toRemoveId]
	if !ok {
		return
	}
	delete(l.rooms, toRemoveId)
	delete(l.roomsDescriptions, toRemoveId)
	room.CloseAndRelease()
	l.idGenerator.Dispose(toRemoveId)
	logger.Infof("[Lobby] Removed room %s", toRemoveId)
}

func (l *lobby) handleGetPublicRoomsDescription(req chan []roomDescription) {
	descriptions := make([]roomDescription, 0, len(l.roomsDescriptions))
	for _, description := range l.roomsDescriptions {
		descriptions = append(descriptions, description)
	}
	req <- descriptions
}
