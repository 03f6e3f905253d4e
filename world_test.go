package server

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"crownridge/server/internal/state"
	"crownridge/server/internal/telemetry"
	"crownridge/server/logging"
)

// eventRecorder captures published events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []logging.Event
}

func (r *eventRecorder) Publish(_ context.Context, event logging.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) byType(kind logging.EventType) []logging.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []logging.Event
	for _, event := range r.events {
		if event.Type == kind {
			matched = append(matched, event)
		}
	}
	return matched
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	return newTestWorldWithRecorder(t, &eventRecorder{})
}

func newTestWorldWithRecorder(t *testing.T, recorder *eventRecorder) *World {
	t.Helper()
	w := NewWorld("test-seed", recorder, telemetry.NopLogger())
	w.selectRegion(context.Background(), "riverside", 25)
	if w.phase != PhaseCharacterSelect {
		t.Fatalf("expected character select after region choice, got %s", w.phase)
	}
	w.confirmCharacter(context.Background())
	if w.phase != PhasePlaying {
		t.Fatalf("expected playing phase, got %s", w.phase)
	}
	return w
}

// findBuildingByKind returns the first generated building of the given kind.
func findBuildingByKind(t *testing.T, w *World, kind state.BuildingKind) *state.Building {
	t.Helper()
	for i := range w.layout.Buildings {
		if w.layout.Buildings[i].Kind == kind {
			return &w.layout.Buildings[i]
		}
	}
	t.Fatalf("no building of kind %s in generated layout", kind)
	return nil
}

// placeBuilding appends a building to the generated layout. The probability
// bands make hotels and stores possible but not guaranteed for a given seed,
// so tests that need one plant it instead of hoping.
func placeBuilding(w *World, kind state.BuildingKind, lot *state.Lot) *state.Building {
	w.layout.Buildings = append(w.layout.Buildings, state.Building{
		ID:       "planted-" + string(kind),
		Kind:     kind,
		Position: state.Vec3{X: -55, Z: -55},
		Lot:      lot,
	})
	return &w.layout.Buildings[len(w.layout.Buildings)-1]
}

func placeHotel(w *World) *state.Building {
	return placeBuilding(w, state.BuildingHotel, nil)
}

func placeStore(w *World) *state.Building {
	return placeBuilding(w, state.BuildingStore, &state.Lot{Price: 300})
}

// moveTo teleports the avatar next to a building so proximity checks pass.
func moveTo(w *World, b *state.Building) {
	w.player.Position = b.Position.Add(state.Vec3{Z: 2})
}

// buyHouse walks the player to an affordable house and buys it.
func buyHouse(t *testing.T, w *World) *state.Building {
	t.Helper()
	house := findBuildingByKind(t, w, state.BuildingHouseL1)
	moveTo(w, house)
	w.interactBuilding(context.Background(), house.ID)
	if !w.ownsBuilding(house.ID) {
		t.Fatalf("expected to own house %s after purchase", house.ID)
	}
	return house
}

func fixedNow(w *World, at time.Time) {
	w.now = func() time.Time { return at }
}

func TestNewWorldStartingState(t *testing.T) {
	w := NewWorld("", logging.NopPublisher(), telemetry.NopLogger())

	if w.phase != PhaseRegionSelect {
		t.Fatalf("expected region select, got %s", w.phase)
	}
	if w.money != 500 || w.parts != 100 {
		t.Fatalf("unexpected starting purse: money=%d parts=%d", w.money, w.parts)
	}
	if w.timeOfDay != 420 || w.dayCount != 1 {
		t.Fatalf("unexpected starting clock: time=%d day=%d", w.timeOfDay, w.dayCount)
	}
	if !w.rentPaidToday {
		t.Fatalf("rent must start settled so day 1 is never billed at the opening 07:00")
	}
}

func TestSelectRegionLogsGeneration(t *testing.T) {
	var lines []string
	logger := telemetry.LoggerFunc(func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	})
	w := NewWorld("test-seed", nil, logger)

	w.selectRegion(context.Background(), "riverside", 25)

	if len(lines) != 1 {
		t.Fatalf("expected one generation log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "riverside") {
		t.Fatalf("log line missing region: %q", lines[0])
	}
}

func TestIsNightWindow(t *testing.T) {
	w := newTestWorld(t)

	cases := []struct {
		minutes int
		night   bool
	}{
		{0, true},
		{239, true},
		{240, false},
		{720, false},
		{1199, false},
		{1200, true},
		{1439, true},
	}
	for _, tc := range cases {
		w.timeOfDay = tc.minutes
		if got := w.isNight(); got != tc.night {
			t.Fatalf("isNight(%d) = %v, want %v", tc.minutes, got, tc.night)
		}
	}
}
