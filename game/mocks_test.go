package game

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- NetworkSession ---

type MockNetworkSession struct {
	mock.Mock
}

func (m *MockNetworkSession) Close(errCode string) {
	m.Called(errCode)
}

func (m *MockNetworkSession) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockNetworkSession) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockNetworkSession) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- Player ---

type MockPlayer struct {
	mock.Mock
}

func (m *MockPlayer) Id() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlayer) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlayer) Send(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockPlayer) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockPlayer) SetRoom(r Room) {
	m.Called(r)
}

func (m *MockPlayer) CancelAndRelease() {
	m.Called()
}

// --- Room ---

type MockRoom struct {
	mock.Mock
}

func (m *MockRoom) RequestJoin(jreq roomJoinRequest) {
	m.Called(jreq)
}

func (m *MockRoom) Send(ctx context.Context, e clientEventEnvelope) {
	m.Called(ctx, e)
}

func (m *MockRoom) RemoveMe(ctx context.Context, p Player) {
	m.Called(ctx, p)
}

func (m *MockRoom) Tick(now time.Time) {
	m.Called(now)
}

func (m *MockRoom) PingPlayers() {
	m.Called()
}

func (m *MockRoom) GameLoop() {
	m.Called()
}

func (m *MockRoom) CloseAndRelease() {
	m.Called()
}

func (m *MockRoom) Description() roomDescription {
	args := m.Called()
	return args.Get(0).(roomDescription)
}

func (m *MockRoom) SetParentLobby(l Lobby) {
	m.Called(l)
}

func (m *MockRoom) SetId(id string) {
	m.Called(id)
}

// --- Lobby ---

type MockLobby struct {
	mock.Mock
}

func (m *MockLobby) RequestUpdateDescription(desc roomDescription) {
	m.Called(desc)
}

func (m *MockLobby) RemoveRoom(roomId string) {
	m.Called(roomId)
}

// --- Randomizer ---

type MockRandomizer struct {
	mock.Mock
}

func (m *MockRandomizer) Perm(n int) []int {
	args := m.Called(n)
	return args.Get(0).([]int)
}

func (m *MockRandomizer) Intn(n int) int {
	args := m.Called(n)
	return args.Int(0)
}

// --- Generator ---

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, question string) (string, error) {
	args := m.Called(ctx, question)
	return args.String(0), args.Error(1)
}

// --- UniqueIdGenerator ---

type MockUniqueIdGenerator struct {
	mock.Mock
}

func (m *MockUniqueIdGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockUniqueIdGenerator) Dispose(id string) {
	m.Called(id)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}
