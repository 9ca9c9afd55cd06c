package game

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

const roomIdLength = 8

// idgen hands out short room ids, guaranteed unique among live rooms.
type idgen struct {
	used   map[string]struct{}
	locker sync.Mutex
}

func NewIdGen() *idgen {
	return &idgen{used: make(map[string]struct{})}
}

func (g *idgen) Generate() string {
	g.locker.Lock()
	defer g.locker.Unlock()

	for {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:roomIdLength]
		if _, taken := g.used[id]; !taken {
			g.used[id] = struct{}{}
			return id
		}
	}
}

func (g *idgen) Dispose(id string) {
	g.locker.Lock()
	defer g.locker.Unlock()
	delete(g.used, id)
}
