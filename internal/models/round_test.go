package models

import (
	"testing"
	"time"
)

func testRound(start, end time.Time) *Round {
	return &Round{StartTime: start, EndTime: end, Status: RoundStatusActive}
}

func TestAcceptsBetsAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	lock := 10 * time.Minute
	round := testRound(start, end)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before start", start.Add(-time.Second), false},
		{"at start", start, true},
		{"mid window", start.Add(12 * time.Hour), true},
		{"just before lock", end.Add(-lock).Add(-time.Second), true},
		{"at lock", end.Add(-lock), false},
		{"inside lock window", end.Add(-5 * time.Minute), false},
		{"after end", end.Add(time.Minute), false},
	}
	for _, tc := range cases {
		if got := round.AcceptsBetsAt(tc.now, lock); got != tc.want {
			t.Errorf("%s: AcceptsBetsAt = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAcceptsBetsAtRequiresActiveStatus(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	round := testRound(start, start.Add(24*time.Hour))
	round.Status = RoundStatusCompleted

	if round.AcceptsBetsAt(start.Add(time.Hour), 10*time.Minute) {
		t.Error("completed round must not accept bets")
	}
}

func TestAllowsCancelAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	lock := 10 * time.Minute
	grace := 30 * time.Second
	round := testRound(start, end)

	cancelDeadline := end.Add(-lock).Add(-grace)

	if !round.AllowsCancelAt(cancelDeadline.Add(-time.Second), lock, grace) {
		t.Error("cancel just before the deadline should be allowed")
	}
	if round.AllowsCancelAt(cancelDeadline, lock, grace) {
		t.Error("cancel at the deadline should be rejected")
	}
	if round.AllowsCancelAt(end.Add(-lock), lock, grace) {
		t.Error("cancel inside the lock window should be rejected")
	}
}

func TestAllSettled(t *testing.T) {
	round := testRound(time.Now(), time.Now().Add(time.Hour))
	if round.AllSettled() {
		t.Error("fresh round must not report all settled")
	}

	round.ClassA.Settled = true
	round.ClassB.Settled = true
	round.ClassC.Settled = true
	if round.AllSettled() {
		t.Error("three of four settled must not report all settled")
	}

	round.ClassD.Settled = true
	if !round.AllSettled() {
		t.Error("all four settled must report all settled")
	}
}
