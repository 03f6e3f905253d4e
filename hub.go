package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"crownridge/server/internal/sim"
	"crownridge/server/internal/story"
	"crownridge/server/internal/telemetry"
	"crownridge/server/logging"
	"crownridge/server/logging/lifecycle"
)

// hotelDisplayName labels the single hotel in flavor-text prompts.
const hotelDisplayName = "The Crownridge Grand"

// Hub is the single writer of the world. Commands staged by sessions and by
// the story provider are drained at the start of every frame; everything the
// outside sees is a snapshot taken under the lock.
type Hub struct {
	mu          sync.Mutex
	world       *World
	commands    *sim.CommandBuffer
	sessions    map[string]*sessionState
	subscribers map[string]*subscriber
	nextID      atomic.Uint64

	logger    telemetry.Logger
	metrics   telemetry.Metrics
	publisher logging.Publisher
	story     story.Provider
	npcCount  int
}

type sessionState struct {
	id            string
	joinedAt      time.Time
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// WriteMessage serializes writes to the underlying connection. The broadcast
// fan-out and the session's direct acks share this lock.
func (s *subscriber) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}

// HubConfig carries the hub's collaborators. Zero values fall back to
// no-op implementations so tests can construct hubs with only what they
// exercise.
type HubConfig struct {
	Seed              string
	Logger            telemetry.Logger
	Metrics           telemetry.Metrics
	Publisher         logging.Publisher
	Story             story.Provider
	CommandBufferSize int
	NPCCount          int
}

// NewHub builds a hub around a fresh world in region select.
func NewHub(cfg HubConfig) *Hub {
	if cfg.Logger == nil {
		cfg.Logger = telemetry.NopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NewCounters()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = logging.NopPublisher()
	}
	if cfg.CommandBufferSize <= 0 {
		cfg.CommandBufferSize = 256
	}
	if cfg.NPCCount <= 0 {
		cfg.NPCCount = defaultNPCCount
	}
	return &Hub{
		world:       NewWorld(cfg.Seed, cfg.Publisher, cfg.Logger),
		commands:    sim.NewCommandBuffer(cfg.CommandBufferSize, cfg.Metrics),
		sessions:    make(map[string]*sessionState),
		subscribers: make(map[string]*subscriber),
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		publisher:   cfg.Publisher,
		story:       cfg.Story,
		npcCount:    cfg.NPCCount,
	}
}

// Join registers a session and returns the current snapshot and layout.
func (h *Hub) Join() joinResponse {
	id := fmt.Sprintf("session-%d", h.nextID.Add(1))
	now := time.Now()

	h.mu.Lock()
	h.sessions[id] = &sessionState{id: id, joinedAt: now, lastHeartbeat: now}
	snap := h.world.snapshot(now)
	layout := h.world.layoutSnapshot()
	h.mu.Unlock()

	lifecycle.SessionJoined(context.Background(), h.publisher, snap.Frame, lifecycle.SessionPayload{SessionID: id})

	return joinResponse{Ver: ProtocolVersion, ID: id, Snapshot: snap, Layout: layout}
}

// Subscribe attaches a WebSocket connection to an existing session. A second
// subscribe for the same session replaces the previous connection.
func (h *Hub) Subscribe(sessionID string, conn *websocket.Conn) (*subscriber, Snapshot, *LayoutSnapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.sessions[sessionID]
	if !ok {
		return nil, Snapshot{}, nil, false
	}
	session.lastHeartbeat = time.Now()

	if existing, ok := h.subscribers[sessionID]; ok {
		existing.conn.Close()
	}
	sub := &subscriber{conn: conn}
	h.subscribers[sessionID] = sub

	return sub, h.world.snapshot(time.Now()), h.world.layoutSnapshot(), true
}

// Disconnect drops a session and closes its connection if any.
func (h *Hub) Disconnect(sessionID string) {
	h.mu.Lock()
	sub, subOK := h.subscribers[sessionID]
	delete(h.subscribers, sessionID)
	_, sessionOK := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	frame := h.world.frame
	h.mu.Unlock()

	if subOK {
		sub.conn.Close()
	}
	if sessionOK {
		lifecycle.SessionClosed(context.Background(), h.publisher, frame, lifecycle.SessionPayload{SessionID: sessionID})
	}
}

// Push stages a command for the next frame. Reports false when the buffer
// is full; the command is dropped and counted, never blocked on.
func (h *Hub) Push(cmd sim.Command) bool {
	if cmd.IssuedAt.IsZero() {
		cmd.IssuedAt = time.Now()
	}
	return h.commands.Push(cmd)
}

// RunSimulation drives the behavior frame loop until stop closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1.0 / float64(frameRate)
			}
			last = now
			h.advanceFrame(now, dt)
		}
	}
}

// advanceFrame drains commands, steps every per-frame system once, and
// broadcasts the resulting snapshot.
func (h *Hub) advanceFrame(now time.Time, dt float64) {
	ctx := context.Background()
	drained := h.commands.Drain()

	h.mu.Lock()
	h.world.frame++

	var storyRegion string
	for _, cmd := range drained {
		if region, ok := h.applyLocked(ctx, cmd, now); ok {
			storyRegion = region
		}
	}

	toClose := h.dropStaleSessionsLocked(now)

	h.world.advancePlayer(dt)
	h.world.advanceNPCs(dt)
	h.world.detectRoyalSpotting(ctx)
	h.world.expireTimers(now)

	snap := h.world.snapshot(now)
	layout := h.world.layoutSnapshot()
	h.mu.Unlock()

	for _, sub := range toClose {
		sub.conn.Close()
	}
	if storyRegion != "" {
		h.fetchStory(storyRegion)
	}
	h.broadcastState(snap, layout)
}

// applyLocked routes one command into the world. Returns the region to fetch
// flavor text for when the command was a hotel interaction.
func (h *Hub) applyLocked(ctx context.Context, cmd sim.Command, now time.Time) (string, bool) {
	w := h.world
	switch cmd.Type {
	case sim.CommandMove:
		if cmd.Move != nil {
			w.setMoveIntent(cmd.Move.DX, cmd.Move.DZ)
		}
	case sim.CommandHeartbeat:
		if cmd.Heartbeat != nil {
			h.updateHeartbeatLocked(cmd.Heartbeat, now)
		}
	case sim.CommandSelectRegion:
		if cmd.Region != nil {
			w.selectRegion(ctx, cmd.Region.Region, h.npcCount)
		}
	case sim.CommandSetAppearance:
		if cmd.Appearance != nil {
			w.setAppearance(cmd.Appearance.Appearance)
		}
	case sim.CommandConfirmCharacter:
		w.confirmCharacter(ctx)
	case sim.CommandInteractBuilding:
		if cmd.Target != nil {
			if w.interactBuilding(ctx, cmd.Target.ID) {
				return string(w.region), true
			}
		}
	case sim.CommandInteractNPC:
		if cmd.Target != nil {
			w.interactNPC(ctx, cmd.Target.ID)
		}
	case sim.CommandExitScene:
		w.exitScene(ctx)
	case sim.CommandAdoptPet:
		if cmd.Pet != nil {
			w.adoptPet(ctx, *cmd.Pet)
		}
	case sim.CommandHoldPet:
		if cmd.Target != nil {
			w.holdPet(cmd.Target.ID)
		}
	case sim.CommandRentVehicle:
		if cmd.Vehicle != nil {
			w.rentVehicle(ctx, *cmd.Vehicle)
		}
	case sim.CommandBuildVehicle:
		if cmd.Vehicle != nil {
			w.buildVehicle(ctx, *cmd.Vehicle)
		}
	case sim.CommandStartPatrol:
		if cmd.Vehicle != nil {
			w.startPatrol(ctx, *cmd.Vehicle)
		}
	case sim.CommandToggleDrive:
		if cmd.Target != nil {
			w.toggleDrive(cmd.Target.ID)
		}
	case sim.CommandWashVehicle:
		w.washVehicle(ctx)
	case sim.CommandBuyFurniture:
		if cmd.Furniture != nil {
			w.buyFurniture(ctx, cmd.Furniture.ItemID)
		}
	case sim.CommandRecruitStore:
		if cmd.Target != nil {
			w.recruitStore(cmd.Target.ID)
		}
	case sim.CommandSelectJob:
		if cmd.Job != nil {
			w.selectJob(cmd.Job.Job)
		}
	case sim.CommandAcquireRoyal:
		w.acquireRoyal(ctx)
	case sim.CommandSummonFriend:
		if cmd.Target != nil {
			w.summonFriend(cmd.Target.ID)
		}
	case sim.CommandDismissFriend:
		w.dismissFriend()
	case sim.CommandVisitFriend:
		if cmd.Target != nil {
			w.visitFriend(ctx, cmd.Target.ID)
		}
	case sim.CommandStartWork:
		if cmd.Target != nil {
			w.startWork(cmd.Target.ID)
		}
	case sim.CommandSleep:
		w.sleep(ctx)
	case sim.CommandStoryResult:
		if cmd.Story != nil {
			w.applyStoryResult(cmd.Story.Text)
		}
	}
	return "", false
}

func (h *Hub) updateHeartbeatLocked(beat *sim.HeartbeatCommand, now time.Time) {
	session, ok := h.sessions[beat.SessionID]
	if !ok {
		return
	}
	receivedAt := beat.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = now
	}
	session.lastHeartbeat = receivedAt
	if beat.ClientSent > 0 {
		clientTime := time.UnixMilli(beat.ClientSent)
		if rtt := receivedAt.Sub(clientTime); rtt >= 0 && rtt < 5*time.Second {
			session.lastRTT = rtt
		}
	}
}

// dropStaleSessionsLocked removes sessions whose heartbeats went quiet.
func (h *Hub) dropStaleSessionsLocked(now time.Time) []*subscriber {
	var toClose []*subscriber
	for id, session := range h.sessions {
		if now.Sub(session.lastHeartbeat) <= disconnectAfter {
			continue
		}
		if sub, ok := h.subscribers[id]; ok {
			toClose = append(toClose, sub)
			delete(h.subscribers, id)
		}
		delete(h.sessions, id)
		h.logger.Printf("disconnecting %s due to heartbeat timeout", id)
	}
	return toClose
}

// fetchStory asks the provider for hotel flavor text off the frame loop.
// The result re-enters the pipeline as a command, so the world only ever
// sees it at a frame boundary.
func (h *Hub) fetchStory(region string) {
	provider := h.story
	if provider == nil {
		h.Push(sim.Command{Type: sim.CommandStoryResult, Story: &sim.StoryCommand{
			Text: "The hotel owner welcomes you warmly. 'Pay your rent on time!' he grumbles.",
		}})
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storyModeTimeout)
		defer cancel()
		text := provider.HotelStory(ctx, hotelDisplayName, region)
		h.Push(sim.Command{Type: sim.CommandStoryResult, Story: &sim.StoryCommand{Text: text}})
	}()
}

// RunClock drives the coarse simulated-minutes loop until stop closes. The
// timer is re-armed after every tick because the cadence depends on whether
// a work montage is running. The loop exits for good once the checkout
// deadline freezes the world.
func (h *Hub) RunClock(stop <-chan struct{}) {
	h.mu.Lock()
	interval := h.world.nextClockInterval()
	h.mu.Unlock()

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			h.mu.Lock()
			h.world.advanceClock(context.Background())
			frozen := h.world.frozen
			interval = h.world.nextClockInterval()
			h.mu.Unlock()

			if frozen {
				return
			}
			timer.Reset(interval)
		}
	}
}

// Frame reports the current frame counter.
func (h *Hub) Frame() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.world.frame
}

// Snapshot returns a concurrency-safe copy of the current world state.
func (h *Hub) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.world.snapshot(time.Now())
}

// DiagnosticsSnapshot summarizes hub health for the diagnostics endpoint.
func (h *Hub) DiagnosticsSnapshot() diagnosticsMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := diagnosticsMessage{
		Frame:           h.world.frame,
		Phase:           string(h.world.phase),
		Day:             h.world.dayCount,
		TimeOfDay:       h.world.timeOfDay,
		PendingCommands: h.commands.Len(),
		Sessions:        make([]diagnosticsSession, 0, len(h.sessions)),
	}
	for _, session := range h.sessions {
		msg.Sessions = append(msg.Sessions, diagnosticsSession{
			ID:            session.id,
			LastHeartbeat: session.lastHeartbeat.UnixMilli(),
			RTTMillis:     session.lastRTT.Milliseconds(),
		})
	}
	return msg
}

// broadcastState fans the latest snapshot out to every subscriber. Slow or
// broken connections are dropped rather than waited on.
func (h *Hub) broadcastState(snap Snapshot, layout *LayoutSnapshot) {
	msg := stateMessage{
		Ver:        ProtocolVersion,
		Type:       "state",
		Snapshot:   snap,
		Layout:     layout,
		ServerTime: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Printf("failed to marshal state message: %v", err)
		return
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Printf("dropping subscriber %s: %v", id, err)
			h.Disconnect(id)
		}
	}
}
