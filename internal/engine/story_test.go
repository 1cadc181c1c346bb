package engine

import (
	"testing"
	"time"
)

func TestSeasonForMonth(t *testing.T) {
	cases := map[time.Month]string{
		time.January: "winter", time.February: "winter", time.December: "winter",
		time.March: "spring", time.May: "spring",
		time.June: "summer", time.August: "summer",
		time.September: "autumn", time.November: "autumn",
	}
	for m, want := range cases {
		if got := seasonForMonth(m); got != want {
			t.Errorf("seasonForMonth(%s) = %s, want %s", m, got, want)
		}
	}
}

func TestCheckStoryEventMeeting(t *testing.T) {
	e := testEngine(t)
	useFakeClock(e)
	// 0.0 clears the 30% meeting roll.
	e.SetRand(fixedRand{f: 0.0, n: 0})

	ev, err := e.CheckStoryEvent("aiko", "afternoon", "park")
	if err != nil {
		t.Fatalf("CheckStoryEvent: %v", err)
	}
	if ev == nil || ev.Kind != "meeting" {
		t.Fatalf("event = %+v, want a meeting", ev)
	}
	if ev.ID != "park-run-in" {
		t.Errorf("event id = %s, want park-run-in", ev.ID)
	}
}

func TestCheckStoryEventNothingTriggers(t *testing.T) {
	e := testEngine(t)
	useFakeClock(e)
	// 0.99 fails both random rolls; an unknown character has no arcs.
	e.SetRand(fixedRand{f: 0.99})

	ev, err := e.CheckStoryEvent("nobody", "afternoon", "")
	if err != nil {
		t.Fatal(err)
	}
	if ev != nil {
		t.Errorf("event = %+v, want none", ev)
	}
}

func TestCheckStoryEventArcGating(t *testing.T) {
	e := testEngine(t)
	useFakeClock(e)
	e.SetRand(fixedRand{f: 0.99})

	// At zero affection only the zero-requirement arc is earned.
	ev, err := e.CheckStoryEvent("aiko", "morning", "")
	if err != nil {
		t.Fatal(err)
	}
	if ev == nil || ev.Kind != "arc" || ev.ID != "aiko-first-meeting" {
		t.Fatalf("event = %+v, want aiko-first-meeting", ev)
	}

	// Completing it sets the flag so it never re-fires.
	if _, err := e.CompleteStoryEvent("aiko", ev.ID, ""); err != nil {
		t.Fatalf("CompleteStoryEvent: %v", err)
	}
	ok, err := e.DB.HasFlag("aiko", "arc_aiko_first_meeting")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("completion flag not set")
	}
	ev, err = e.CheckStoryEvent("aiko", "morning", "")
	if err != nil {
		t.Fatal(err)
	}
	if ev != nil {
		t.Errorf("event = %+v, want none after completion", ev)
	}
}

func TestConfessionArcRequiresWindow(t *testing.T) {
	e := testEngine(t)
	clock := useFakeClock(e)
	e.SetRand(fixedRand{f: 0.99})

	if err := e.DB.SetFlag("aiko", "arc_aiko_first_meeting"); err != nil {
		t.Fatal(err)
	}
	if err := e.DB.SetFlag("aiko", "arc_aiko_late_walk"); err != nil {
		t.Fatal(err)
	}
	if err := e.DB.SetAffection("aiko", 70); err != nil {
		t.Fatal(err)
	}

	// Romantic interest but no interaction this session: tension is short,
	// the confession holds back, and nothing else is pending.
	ev, err := e.CheckStoryEvent("aiko", "evening", "")
	if err != nil {
		t.Fatal(err)
	}
	if ev != nil {
		t.Errorf("event = %+v, want none while confession is gated", ev)
	}

	// An interaction opens the window and the confession takes priority.
	if err := e.DB.MarkInteraction("aiko", clock.at.UnixMilli()); err != nil {
		t.Fatal(err)
	}
	ev, err = e.CheckStoryEvent("aiko", "evening", "")
	if err != nil {
		t.Fatal(err)
	}
	if ev == nil || ev.ID != "aiko-confession" {
		t.Fatalf("event = %+v, want aiko-confession", ev)
	}
	if len(ev.Branches) != 2 {
		t.Errorf("branches = %d, want 2", len(ev.Branches))
	}
}

func TestCompleteConfessionAcceptsIntoLover(t *testing.T) {
	e := testEngine(t)
	clock := useFakeClock(e)

	if err := e.DB.SetAffection("aiko", 70); err != nil {
		t.Fatal(err)
	}
	if err := e.DB.MarkInteraction("aiko", clock.at.UnixMilli()); err != nil {
		t.Fatal(err)
	}

	stage, err := e.CompleteStoryEvent("aiko", "aiko-confession", "accept")
	if err != nil {
		t.Fatalf("CompleteStoryEvent: %v", err)
	}
	if stage.Status != "lover" {
		t.Errorf("stage = %s, want lover after accepting", stage.Status)
	}
	a, _ := e.DB.GetAffection("aiko")
	if a != 82 {
		t.Errorf("affection = %v, want 82", a)
	}
}

func TestCompleteConfessionDecline(t *testing.T) {
	e := testEngine(t)
	useFakeClock(e)

	if err := e.DB.SetAffection("aiko", 70); err != nil {
		t.Fatal(err)
	}
	stage, err := e.CompleteStoryEvent("aiko", "aiko-confession", "gently-decline")
	if err != nil {
		t.Fatal(err)
	}
	if stage.Status != "close_friend" {
		t.Errorf("stage = %s, want close_friend after declining", stage.Status)
	}
	// Declined or not, the arc never replays.
	ok, _ := e.DB.HasFlag("aiko", "arc_aiko_confession")
	if !ok {
		t.Error("completion flag not set on decline")
	}
}

func TestCompleteStoryEventErrors(t *testing.T) {
	e := testEngine(t)

	if _, err := e.CompleteStoryEvent("aiko", "no-such-arc", ""); err == nil {
		t.Error("expected error for unknown arc")
	}
	if _, err := e.CompleteStoryEvent("aiko", "aiko-confession", "shrug"); err == nil {
		t.Error("expected error for unknown branch")
	}
	if _, err := e.CompleteStoryEvent("aiko", "aiko-confession", ""); err == nil {
		t.Error("expected error for missing branch choice")
	}
}
