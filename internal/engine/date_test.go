package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lunarpark/hearthside/internal/content"
)

// overlayContent loads the defaults overlaid with the given files, keyed by
// relative path inside a data dir.
func overlayContent(t *testing.T, files map[string]string) *content.Library {
	t.Helper()
	dir := t.TempDir()
	for rel, data := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	lib, err := content.Load(dir)
	if err != nil {
		t.Fatalf("load overlay content: %v", err)
	}
	return lib
}

// seqRand plays back a scripted sequence of rolls.
type seqRand struct {
	rolls []float64
	i     int
}

func (r *seqRand) Float64() float64 {
	v := r.rolls[r.i%len(r.rolls)]
	r.i++
	return v
}

func (r *seqRand) Intn(n int) int { return 0 }

func TestPlanDateUnknownLocation(t *testing.T) {
	e := testEngine(t)

	plan, refusal, err := e.PlanDate("aiko", "moon-base", []string{"walk"})
	if err != nil {
		t.Fatalf("PlanDate: %v", err)
	}
	if plan != nil {
		t.Error("expected no plan for unknown location")
	}
	if refusal == nil || !strings.Contains(refusal.Reason, "moon-base") {
		t.Errorf("refusal = %+v", refusal)
	}
}

func TestPlanDateStageGateBeatsFunds(t *testing.T) {
	e := testEngine(t)
	useFakeClock(e)

	// Plenty of money, but still strangers: the stage refusal must win.
	if err := e.DB.EnsureWallet(PlayerWallet, 1000); err != nil {
		t.Fatal(err)
	}
	plan, refusal, err := e.PlanDate("aiko", "park", []string{"walk"})
	if err != nil {
		t.Fatal(err)
	}
	if plan != nil {
		t.Error("expected refusal, got a plan")
	}
	if refusal == nil || !strings.Contains(refusal.Reason, "acquaintance") {
		t.Fatalf("refusal = %+v, want stage reason", refusal)
	}
	if refusal.Plan == nil || refusal.Plan.Status != "cancelled" {
		t.Errorf("refusal plan = %+v, want recorded cancelled row", refusal.Plan)
	}

	// Money untouched.
	bal, err := e.DB.Balance(PlayerWallet)
	if err != nil {
		t.Fatal(err)
	}
	if bal != 1000 {
		t.Errorf("balance = %d, want 1000", bal)
	}

	// The cancelled attempt shows up in the history with its reason.
	plans, err := e.DB.ListDatePlans("aiko")
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 1 || plans[0].Status != "cancelled" || plans[0].Reason == "" {
		t.Errorf("plans = %+v", plans)
	}
}

func TestPlanDateInsufficientFunds(t *testing.T) {
	e := testEngine(t)
	useFakeClock(e)

	if err := e.DB.EnsureWallet(PlayerWallet, 3); err != nil {
		t.Fatal(err)
	}
	if err := e.DB.SetAffection("aiko", 15); err != nil {
		t.Fatal(err)
	}

	// park venue 0 + picnic 15 = 15, wallet holds 3.
	plan, refusal, err := e.PlanDate("aiko", "park", []string{"picnic"})
	if err != nil {
		t.Fatal(err)
	}
	if plan != nil {
		t.Error("expected refusal, got a plan")
	}
	if refusal == nil || !strings.Contains(refusal.Reason, "afford") {
		t.Fatalf("refusal = %+v, want funds reason", refusal)
	}
	bal, _ := e.DB.Balance(PlayerWallet)
	if bal != 3 {
		t.Errorf("balance = %d, want 3 untouched", bal)
	}
}

func TestPlanDateDebitsUpFront(t *testing.T) {
	e := testEngine(t)
	useFakeClock(e)

	if err := e.DB.EnsureWallet(PlayerWallet, 100); err != nil {
		t.Fatal(err)
	}
	if err := e.DB.SetAffection("aiko", 15); err != nil {
		t.Fatal(err)
	}

	plan, refusal, err := e.PlanDate("aiko", "park", []string{"walk", "street-music"})
	if err != nil {
		t.Fatal(err)
	}
	if refusal != nil {
		t.Fatalf("unexpected refusal: %+v", refusal)
	}
	if plan.Status != "planned" {
		t.Errorf("status = %s, want planned", plan.Status)
	}
	if plan.TotalCost != 5 {
		t.Errorf("cost = %d, want 5", plan.TotalCost)
	}
	if plan.TotalDurationMinutes != 50 {
		t.Errorf("duration = %d, want 50", plan.TotalDurationMinutes)
	}
	bal, _ := e.DB.Balance(PlayerWallet)
	if bal != 95 {
		t.Errorf("balance = %d, want 95 after up-front debit", bal)
	}
}

func TestExecuteDateSuccessPath(t *testing.T) {
	e := testEngine(t)
	useFakeClock(e)

	if err := e.DB.EnsureWallet(PlayerWallet, 100); err != nil {
		t.Fatal(err)
	}
	if err := e.DB.SetAffection("aiko", 15); err != nil {
		t.Fatal(err)
	}

	plan, refusal, err := e.PlanDate("aiko", "park", []string{"walk"})
	if err != nil || refusal != nil {
		t.Fatalf("PlanDate: %v %+v", err, refusal)
	}

	// Roll 0.0 always lands under the success chance.
	e.SetRand(fixedRand{f: 0.0})
	results, err := e.ExecuteDate(plan.ID)
	if err != nil {
		t.Fatalf("ExecuteDate: %v", err)
	}
	if len(results.Activities) != 1 || !results.Activities[0].Success {
		t.Fatalf("results = %+v, want one successful activity", results)
	}
	if results.TotalAffectionGained != 6 {
		t.Errorf("affection gained = %v, want 6", results.TotalAffectionGained)
	}
	// 6 > 5 per activity, so the date reads as an overall success.
	if !results.OverallSuccess {
		t.Error("expected overall success")
	}
	if results.RelationshipProgression == "" {
		t.Error("missing relationship progression")
	}
	if len(results.MemoryIDs) != 1 {
		t.Fatalf("memory ids = %v, want 1", results.MemoryIDs)
	}

	// The activity left a date memory behind.
	mem, err := e.DB.GetMemory(results.MemoryIDs[0])
	if err != nil {
		t.Fatal(err)
	}
	if mem == nil || mem.Type != "date" || mem.Location != "park" {
		t.Errorf("memory = %+v", mem)
	}

	// The plan is completed with results attached; re-running fails.
	stored, err := e.DB.GetDatePlan(plan.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != "completed" || stored.Results == nil {
		t.Errorf("stored plan = %+v", stored)
	}
	if _, err := e.ExecuteDate(plan.ID); err == nil {
		t.Error("expected error re-executing a completed date")
	}
}

func TestExecuteDateFailureRoll(t *testing.T) {
	e := testEngine(t)
	useFakeClock(e)

	if err := e.DB.EnsureWallet(PlayerWallet, 100); err != nil {
		t.Fatal(err)
	}
	if err := e.DB.SetAffection("aiko", 15); err != nil {
		t.Fatal(err)
	}
	plan, refusal, err := e.PlanDate("aiko", "park", []string{"walk"})
	if err != nil || refusal != nil {
		t.Fatalf("PlanDate: %v %+v", err, refusal)
	}

	// The chance is capped at 0.9, so a 0.95 roll always fails.
	e.SetRand(fixedRand{f: 0.95})
	results, err := e.ExecuteDate(plan.ID)
	if err != nil {
		t.Fatal(err)
	}
	if results.Activities[0].Success {
		t.Error("expected failure branch")
	}
	if results.OverallSuccess {
		t.Error("failed walk should not read as overall success")
	}
	if results.Activities[0].Message == "" {
		t.Error("failure branch should carry its message")
	}
}

func TestExecuteDateStatGateForcesFailure(t *testing.T) {
	e := testEngine(t)
	useFakeClock(e)

	if err := e.DB.EnsureWallet(PlayerWallet, 100); err != nil {
		t.Fatal(err)
	}
	if err := e.DB.SetAffection("aiko", 15); err != nil {
		t.Fatal(err)
	}
	// The picnic gates on cooking 30.
	if err := e.DB.SetPlayerStat("cooking", 10); err != nil {
		t.Fatal(err)
	}

	plan, refusal, err := e.PlanDate("aiko", "park", []string{"picnic"})
	if err != nil || refusal != nil {
		t.Fatalf("PlanDate: %v %+v", err, refusal)
	}

	// Even a guaranteed roll can't save an ungated stat.
	e.SetRand(fixedRand{f: 0.0})
	results, err := e.ExecuteDate(plan.ID)
	if err != nil {
		t.Fatal(err)
	}
	if results.Activities[0].Success {
		t.Error("stat gate should force the failure branch")
	}
}

func TestExecuteDateChanceTracksMidDateEmotions(t *testing.T) {
	e := testEngine(t)
	useFakeClock(e)
	e.Content = overlayContent(t, map[string]string{
		"locations/arcade.yaml": `
id: arcade
name: Arcade
cost: 0
activities:
  - id: rhythm-game
    name: Rhythm game
    duration_minutes: 15
    cost: 0
    success:
      affection: 6
      message: "She clears the hard track on the first try."
      emotions: {calmness: 60, trust: 60, energy: 40}
    failure:
      affection: 1
      message: "The machine eats the combo."
  - id: crane-game
    name: Crane game
    duration_minutes: 10
    cost: 0
    success:
      affection: 6
      message: "The plush drops on the second credit."
    failure:
      affection: 1
      message: "The claw gives up immediately."
`,
	})

	if err := e.DB.EnsureWallet(PlayerWallet, 100); err != nil {
		t.Fatal(err)
	}
	plan, refusal, err := e.PlanDate("aiko", "arcade", []string{"rhythm-game", "crane-game"})
	if err != nil || refusal != nil {
		t.Fatalf("PlanDate: %v %+v", err, refusal)
	}

	// Aiko starts at composure 50 (chance 0.75): the 0.5 roll succeeds and
	// maxes calmness/trust/energy. The second roll of 0.8 only succeeds if
	// the chance is recomputed from the boosted vector (0.895), not reused
	// from the pre-date snapshot.
	e.SetRand(&seqRand{rolls: []float64{0.5, 0.8}})
	results, err := e.ExecuteDate(plan.ID)
	if err != nil {
		t.Fatalf("ExecuteDate: %v", err)
	}
	if len(results.Activities) != 2 {
		t.Fatalf("activities = %d, want 2", len(results.Activities))
	}
	if !results.Activities[0].Success {
		t.Error("first activity should succeed at the base chance")
	}
	if !results.Activities[1].Success {
		t.Error("second activity should succeed against the recomputed chance")
	}
	if results.TotalAffectionGained != 12 {
		t.Errorf("affection gained = %v, want 12", results.TotalAffectionGained)
	}
}

func TestExecuteDateCancelsWhenActivityVanishes(t *testing.T) {
	e := testEngine(t)
	useFakeClock(e)

	if err := e.DB.EnsureWallet(PlayerWallet, 100); err != nil {
		t.Fatal(err)
	}
	if err := e.DB.SetAffection("aiko", 15); err != nil {
		t.Fatal(err)
	}
	plan, refusal, err := e.PlanDate("aiko", "park", []string{"walk", "street-music"})
	if err != nil || refusal != nil {
		t.Fatalf("PlanDate: %v %+v", err, refusal)
	}
	if bal, _ := e.DB.Balance(PlayerWallet); bal != 95 {
		t.Fatalf("balance = %d, want 95 after debit", bal)
	}

	// A content reload replaces the park with a menu missing both activities.
	e.Content = overlayContent(t, map[string]string{
		"locations/park.yaml": `
id: park
name: Riverside Park
required_stage: acquaintance
cost: 0
activities:
  - id: stroll
    name: Stroll
`,
	})

	if _, err := e.ExecuteDate(plan.ID); err == nil {
		t.Fatal("expected error for vanished activity")
	}
	stored, err := e.DB.GetDatePlan(plan.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != "cancelled" || stored.Reason == "" {
		t.Errorf("plan = %+v, want cancelled with reason", stored)
	}

	// The up-front debit comes back, once.
	if bal, _ := e.DB.Balance(PlayerWallet); bal != 100 {
		t.Errorf("balance = %d, want 100 refunded", bal)
	}
	if _, err := e.ExecuteDate(plan.ID); err == nil {
		t.Error("expected error re-executing a cancelled plan")
	}
	if bal, _ := e.DB.Balance(PlayerWallet); bal != 100 {
		t.Errorf("balance = %d, want no double refund", bal)
	}
}

func TestExecuteDateUnknownPlan(t *testing.T) {
	e := testEngine(t)
	if _, err := e.ExecuteDate("nope"); err == nil {
		t.Error("expected error for unknown plan")
	}
}
