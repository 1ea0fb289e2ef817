package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

// cornersPreset starts with a 2 in two opposite corners
func cornersPreset() *engine.GameConfig {
	config := &engine.GameConfig{
		Name:        "corners",
		Description: "Two tiles in opposite corners",
		Size:        4,
		Layout: [][]int{
			{2, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 2},
		},
	}
	config.Messages.Welcome = "Welcome!"
	return config
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	preset := cornersPreset()

	session, err := manager.Create("game-1", preset)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.Engine == nil {
		t.Fatal("Expected engine to be initialized")
	}
	if !session.Engine.GetBoard().Equal(engine.MustBoard(preset.Layout)) {
		t.Errorf("Expected the preset layout, got %v", session.Engine.GetBoard())
	}
	if session.Config != preset {
		t.Error("Session should keep the preset it was created from")
	}
	if session.CreatedAt.IsZero() || !session.LastAccessedAt.Equal(session.CreatedAt) {
		t.Errorf("Unexpected timestamps %v / %v", session.CreatedAt, session.LastAccessedAt)
	}

	tests := []struct {
		name    string
		id      string
		config  func() *engine.GameConfig
		wantErr error
	}{
		{"duplicate ID", "game-1", cornersPreset, ErrSessionAlreadyExists},
		{"duplicate ID in another case", "GAME-1", cornersPreset, ErrSessionAlreadyExists},
		{"preset without name", "game-2", func() *engine.GameConfig {
			c := cornersPreset()
			c.Name = ""
			return c
		}, nil},
		{"layout that is not square", "game-3", func() *engine.GameConfig {
			c := cornersPreset()
			c.Layout = [][]int{{2, 0}, {0}}
			return c
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Create(tt.id, tt.config())
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if manager.Count() != 1 {
		t.Errorf("Failed creates must not store sessions, have %d", manager.Count())
	}
}

func TestManager_GeneratedIDs(t *testing.T) {
	manager := NewManager()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := manager.Create("", cornersPreset())
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %q", session.ID)
		}
		if seen[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		seen[session.ID] = true
	}
}

func TestManager_Lookup(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("Lookup", cornersPreset())

	for _, id := range []string{"Lookup", "lookup", "LOOKUP"} {
		got, err := manager.Get(id)
		if err != nil {
			t.Fatalf("Get(%q): %v", id, err)
		}
		if got != created {
			t.Errorf("Get(%q) returned a different session", id)
		}
		if !manager.sessionExists(id) {
			t.Errorf("sessionExists(%q) = false", id)
		}
	}

	_, err := manager.Get("missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected the service sentinel, got %v", err)
	}
}

func TestManager_DeleteAndList(t *testing.T) {
	manager := NewManager()
	for _, id := range []string{"a", "b", "c"} {
		if _, err := manager.Create(id, cornersPreset()); err != nil {
			t.Fatalf("Create(%s): %v", id, err)
		}
	}

	if err := manager.Delete("B"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := manager.Delete("b"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Second delete should report ErrSessionNotFound, got %v", err)
	}

	ids := make(map[string]bool)
	for _, s := range manager.List() {
		ids[s.ID] = true
	}
	if len(ids) != 2 || !ids["a"] || !ids["c"] {
		t.Errorf("Expected sessions a and c, got %v", ids)
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("touch", cornersPreset())
	before := session.LastAccessedAt

	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("TOUCH"); err != nil {
		t.Fatalf("UpdateLastAccessed: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("Expected LastAccessedAt to move forward")
	}
	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	fresh, _ := manager.Create("fresh", cornersPreset())
	stale, _ := manager.Create("stale", cornersPreset())

	fresh.LastAccessedAt = time.Now()
	stale.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	if removed := manager.CleanupExpiredSessions(time.Hour); removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if _, err := manager.Get("stale"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Stale session should be gone")
	}
	if _, err := manager.Get("fresh"); err != nil {
		t.Error("Fresh session should remain")
	}
}

func TestManager_RunCleanup(t *testing.T) {
	manager := NewManager()

	stale, _ := manager.Create("stale", cornersPreset())
	stale.LastAccessedAt = time.Now().Add(-time.Hour)
	manager.Create("fresh", cornersPreset())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		manager.RunCleanup(ctx, time.Minute, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for manager.Count() != 1 {
		select {
		case <-deadline:
			t.Fatalf("Expected stale session to be removed, %d sessions left", manager.Count())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not stop after cancel")
	}

	if _, err := manager.Get("fresh"); err != nil {
		t.Errorf("Fresh session should survive cleanup: %v", err)
	}
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	manager := NewManager()
	preset := cornersPreset()

	one, _ := manager.Create("one", preset)
	two, _ := manager.Create("two", preset)

	one.Engine.Slide(engine.Right)
	if _, err := one.Engine.Insert(0, 4); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	want := engine.MustBoard(preset.Layout)
	if !two.Engine.GetBoard().Equal(want) {
		t.Errorf("Session two changed with session one: %v", two.Engine.GetBoard())
	}
	if one.Engine.GetBoard().Equal(want) {
		t.Error("Session one should have moved")
	}
	if preset.Layout[0][0] != 2 || preset.Layout[0][3] != 0 {
		t.Errorf("Playing must not write through to the preset layout: %v", preset.Layout)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("conc-%d", id%50)
			if _, err := manager.Create(sessionID, cornersPreset()); err != nil && !errors.Is(err, ErrSessionAlreadyExists) {
				errs <- err
				return
			}
			if _, err := manager.Get(strings.ToUpper(sessionID)); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}
