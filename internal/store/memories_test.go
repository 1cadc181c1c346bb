package store

import (
	"testing"
	"time"
)

func insertTestMemory(t *testing.T, db *DB, id string, createdAt int64, weight float64) {
	t.Helper()
	err := db.InsertMemory(&Memory{
		ID:              id,
		CharacterID:     "aiko",
		Type:            "conversation",
		Title:           "chat " + id,
		CreatedAt:       createdAt,
		EmotionalWeight: weight,
		RecallCount:     1,
		LastRecalledAt:  createdAt,
		FadeLevel:       100,
	})
	if err != nil {
		t.Fatalf("InsertMemory(%s): %v", id, err)
	}
}

func TestRecentMemoriesOrder(t *testing.T) {
	db := testDB(t)

	insertTestMemory(t, db, "m1", 1000, 5)
	insertTestMemory(t, db, "m2", 3000, -20)
	insertTestMemory(t, db, "m3", 2000, 10)

	got, err := db.RecentMemories("aiko", 2)
	if err != nil {
		t.Fatalf("RecentMemories: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "m2" || got[1].ID != "m3" {
		t.Errorf("order = [%s %s], want [m2 m3]", got[0].ID, got[1].ID)
	}
}

func TestStrongestMemoriesByAbsoluteWeight(t *testing.T) {
	db := testDB(t)

	insertTestMemory(t, db, "m1", 1000, 5)
	insertTestMemory(t, db, "m2", 2000, -20)
	insertTestMemory(t, db, "m3", 3000, 10)

	got, err := db.StrongestMemories("aiko", 2)
	if err != nil {
		t.Fatalf("StrongestMemories: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// |-20| > |10| > |5|
	if got[0].ID != "m2" || got[1].ID != "m3" {
		t.Errorf("order = [%s %s], want [m2 m3]", got[0].ID, got[1].ID)
	}
}

func TestGetMemoryMissing(t *testing.T) {
	db := testDB(t)

	got, err := db.GetMemory("nope")
	if err != nil {
		t.Fatalf("GetMemory: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestMemoryJSONColumns(t *testing.T) {
	db := testDB(t)

	err := db.InsertMemory(&Memory{
		ID:             "m1",
		CharacterID:    "aiko",
		Type:           "date",
		Title:          "picnic",
		CreatedAt:      1000,
		Tags:           []string{"outdoors", "food"},
		Participants:   []string{"player", "aiko"},
		Context:        map[string]string{"weather": "sunny"},
		EmotionDelta:   map[string]float64{"happiness": 8},
		Flags:          []string{"first_date"},
		RecallCount:    1,
		LastRecalledAt: 1000,
		FadeLevel:      100,
	})
	if err != nil {
		t.Fatalf("InsertMemory: %v", err)
	}

	got, err := db.GetMemory("m1")
	if err != nil {
		t.Fatalf("GetMemory: %v", err)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "outdoors" {
		t.Errorf("tags = %v", got.Tags)
	}
	if got.Context["weather"] != "sunny" {
		t.Errorf("context = %v", got.Context)
	}
	if got.EmotionDelta["happiness"] != 8 {
		t.Errorf("emotion delta = %v", got.EmotionDelta)
	}
}

func TestTouchMemory(t *testing.T) {
	db := testDB(t)
	insertTestMemory(t, db, "m1", 1000, 5)

	if err := db.TouchMemory("m1", 5000, 5); err != nil {
		t.Fatalf("TouchMemory: %v", err)
	}

	got, _ := db.GetMemory("m1")
	if got.RecallCount != 2 {
		t.Errorf("recall count = %d, want 2", got.RecallCount)
	}
	if got.LastRecalledAt != 5000 {
		t.Errorf("last recalled = %d, want 5000", got.LastRecalledAt)
	}
	if got.FadeLevel != 100 { // capped at 100
		t.Errorf("fade = %v, want 100", got.FadeLevel)
	}
}

func TestTouchMemoryNeverMovesRecallBackward(t *testing.T) {
	db := testDB(t)
	insertTestMemory(t, db, "m1", 9000, 5)

	if err := db.TouchMemory("m1", 100, 5); err != nil {
		t.Fatalf("TouchMemory: %v", err)
	}

	got, _ := db.GetMemory("m1")
	if got.LastRecalledAt != 9000 {
		t.Errorf("last recalled = %d, want 9000 (must not move backward)", got.LastRecalledAt)
	}
	if got.RecallCount != 2 {
		t.Errorf("recall count = %d, want 2", got.RecallCount)
	}
}

func TestDecayMemories(t *testing.T) {
	db := testDB(t)

	now := time.Now().UnixMilli()
	const dayMs = int64(24 * 60 * 60 * 1000)

	// Last recalled 5 days ago: 100 - 2*5 = 90
	insertTestMemory(t, db, "m1", now-5*dayMs, 20)

	updated, err := db.DecayMemories("aiko", now)
	if err != nil {
		t.Fatalf("DecayMemories: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	got, _ := db.GetMemory("m1")
	if got.FadeLevel != 90 {
		t.Errorf("fade = %v, want 90", got.FadeLevel)
	}
}

func TestDecayMemoriesFloor(t *testing.T) {
	db := testDB(t)

	now := time.Now().UnixMilli()
	const dayMs = int64(24 * 60 * 60 * 1000)

	// 300 days without recall would drop far below the floor
	insertTestMemory(t, db, "m1", now-300*dayMs, 20)

	if _, err := db.DecayMemories("aiko", now); err != nil {
		t.Fatalf("DecayMemories: %v", err)
	}

	got, _ := db.GetMemory("m1")
	if got.FadeLevel != MemoryFadeFloor {
		t.Errorf("fade = %v, want floor %v", got.FadeLevel, MemoryFadeFloor)
	}
}

func TestDecayMemoriesNonIncreasing(t *testing.T) {
	db := testDB(t)

	now := time.Now().UnixMilli()
	const dayMs = int64(24 * 60 * 60 * 1000)
	insertTestMemory(t, db, "m1", now-3*dayMs, 20)

	prev := 100.0
	for i := 0; i < 5; i++ {
		if _, err := db.DecayMemories("aiko", now); err != nil {
			t.Fatalf("DecayMemories: %v", err)
		}
		got, _ := db.GetMemory("m1")
		if got.FadeLevel > prev {
			t.Fatalf("fade increased from %v to %v on pass %d", prev, got.FadeLevel, i+1)
		}
		if got.FadeLevel < MemoryFadeFloor {
			t.Fatalf("fade %v below floor on pass %d", got.FadeLevel, i+1)
		}
		prev = got.FadeLevel
	}
}

func TestDecayMemoriesSameDayNoop(t *testing.T) {
	db := testDB(t)

	now := time.Now().UnixMilli()
	insertTestMemory(t, db, "m1", now-1000, 20)

	updated, err := db.DecayMemories("aiko", now)
	if err != nil {
		t.Fatalf("DecayMemories: %v", err)
	}
	if updated != 0 {
		t.Errorf("updated = %d, want 0 for same-day decay", updated)
	}
}
