package services_test

import (
	"testing"
	"time"

	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
	"suffrage/contexts/election-lifecycle/election-engine/domain/services"
)

func TestVoteReceiptIsDeterministic(t *testing.T) {
	castAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	first := services.VoteReceipt(7, "voter-1", 3, castAt)
	second := services.VoteReceipt(7, "voter-1", 3, castAt)
	if first != second {
		t.Fatalf("expected deterministic receipt, got %s and %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected sha256 hex receipt, got length %d", len(first))
	}
}

func TestVoteReceiptChangesWithAnyInput(t *testing.T) {
	castAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	base := services.VoteReceipt(7, "voter-1", 3, castAt)

	variants := []string{
		services.VoteReceipt(8, "voter-1", 3, castAt),
		services.VoteReceipt(7, "voter-2", 3, castAt),
		services.VoteReceipt(7, "voter-1", 4, castAt),
		services.VoteReceipt(7, "voter-1", 3, castAt.Add(time.Nanosecond)),
	}
	for i, variant := range variants {
		if variant == base {
			t.Fatalf("variant %d collided with base receipt", i)
		}
	}
}

func TestWinnerPicksFirstStrictMaximum(t *testing.T) {
	candidates := []entities.Candidate{
		{CandidateID: 1, VoteCount: 2},
		{CandidateID: 2, VoteCount: 5},
		{CandidateID: 3, VoteCount: 5},
	}
	if got := services.Winner(candidates); got != 2 {
		t.Fatalf("expected winner 2, got %d", got)
	}
}

func TestWinnerZeroWhenNoVotes(t *testing.T) {
	candidates := []entities.Candidate{
		{CandidateID: 1},
		{CandidateID: 2},
	}
	if got := services.Winner(candidates); got != 0 {
		t.Fatalf("expected no winner, got %d", got)
	}
	if got := services.Winner(nil); got != 0 {
		t.Fatalf("expected no winner for empty roster, got %d", got)
	}
}
