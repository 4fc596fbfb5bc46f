package electionengine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	electionengine "suffrage/contexts/election-lifecycle/election-engine"
	domainerrors "suffrage/contexts/election-lifecycle/election-engine/domain/errors"
	httptransport "suffrage/contexts/election-lifecycle/election-engine/transport/http"
)

var (
	baseTime  = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	voteStart = baseTime.Add(24 * time.Hour)
	voteEnd   = baseTime.Add(48 * time.Hour)
)

func newEngine(t *testing.T) electionengine.Module {
	t.Helper()
	module := electionengine.NewInMemoryModule(nil)
	module.Store.SetRole("election_admin", "admin-1")
	module.Store.SetRole("super_admin", "root-1")
	module.Store.SetOrganization("org-1")
	return module
}

func createElection(t *testing.T, module electionengine.Module, electionType string) httptransport.ElectionResponse {
	t.Helper()
	resp, err := module.Handler.CreateElectionHandler(
		context.Background(),
		"admin-1",
		baseTime,
		httptransport.CreateElectionRequest{
			Title:             "city council 2026",
			Type:              electionType,
			OrgID:             "org-1",
			RegistrationStart: baseTime.Format(time.RFC3339),
			VotingStart:       voteStart.Format(time.RFC3339),
			VotingEnd:         voteEnd.Format(time.RFC3339),
		},
	)
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	return resp
}

func addCandidate(t *testing.T, module electionengine.Module, electionID uint64, name string) httptransport.CandidateResponse {
	t.Helper()
	resp, err := module.Handler.AddCandidateHandler(
		context.Background(),
		"admin-1",
		baseTime,
		electionID,
		httptransport.AddCandidateRequest{Name: name},
	)
	if err != nil {
		t.Fatalf("add candidate %s failed: %v", name, err)
	}
	return resp
}

func advance(t *testing.T, module electionengine.Module, electionID uint64, target string, now time.Time) httptransport.ElectionResponse {
	t.Helper()
	resp, err := module.Handler.AdvanceStatusHandler(
		context.Background(),
		"admin-1",
		now,
		electionID,
		httptransport.AdvanceStatusRequest{Target: target},
	)
	if err != nil {
		t.Fatalf("advance to %s failed: %v", target, err)
	}
	return resp
}

func registerAndApprove(t *testing.T, module electionengine.Module, electionID uint64, voter string) {
	t.Helper()
	if _, err := module.Handler.RegisterVoterHandler(
		context.Background(), voter, baseTime.Add(time.Hour), electionID,
		httptransport.RegisterVoterRequest{},
	); err != nil {
		t.Fatalf("register %s failed: %v", voter, err)
	}
	if _, err := module.Handler.ReviewRegistrationHandler(
		context.Background(), "admin-1", baseTime.Add(2*time.Hour), electionID,
		httptransport.ReviewRegistrationRequest{Voter: voter, NewStatus: "approved"},
	); err != nil {
		t.Fatalf("approve %s failed: %v", voter, err)
	}
}

func TestCreateElectionAssignsSequentialIDs(t *testing.T) {
	module := newEngine(t)
	first := createElection(t, module, "private")
	second := createElection(t, module, "private")
	if first.ElectionID != 1 || second.ElectionID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ElectionID, second.ElectionID)
	}
	if first.Status != "draft" {
		t.Fatalf("expected draft status, got %s", first.Status)
	}
}

func TestCreateElectionRequiresElectionAdmin(t *testing.T) {
	module := newEngine(t)
	_, err := module.Handler.CreateElectionHandler(
		context.Background(),
		"random-user",
		baseTime,
		httptransport.CreateElectionRequest{
			Title:             "rogue election",
			Type:              "public",
			RegistrationStart: baseTime.Format(time.RFC3339),
			VotingStart:       voteStart.Format(time.RFC3339),
			VotingEnd:         voteEnd.Format(time.RFC3339),
		},
	)
	if !errors.Is(err, domainerrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestCreateElectionRejectsInvertedWindows(t *testing.T) {
	module := newEngine(t)
	_, err := module.Handler.CreateElectionHandler(
		context.Background(),
		"admin-1",
		baseTime,
		httptransport.CreateElectionRequest{
			Title:             "bad windows",
			Type:              "public",
			RegistrationStart: baseTime.Format(time.RFC3339),
			VotingStart:       voteEnd.Format(time.RFC3339),
			VotingEnd:         voteStart.Format(time.RFC3339),
		},
	)
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestOrganizationElectionRequiresKnownOrg(t *testing.T) {
	module := newEngine(t)
	_, err := module.Handler.CreateElectionHandler(
		context.Background(),
		"admin-1",
		baseTime,
		httptransport.CreateElectionRequest{
			Title:             "org vote",
			Type:              "organization",
			OrgID:             "org-unknown",
			RegistrationStart: baseTime.Format(time.RFC3339),
			VotingStart:       voteStart.Format(time.RFC3339),
			VotingEnd:         voteEnd.Format(time.RFC3339),
		},
	)
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown org, got %v", err)
	}
}

func TestAdvanceToRegistrationRequiresCandidate(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")

	_, err := module.Handler.AdvanceStatusHandler(
		context.Background(), "admin-1", baseTime, election.ElectionID,
		httptransport.AdvanceStatusRequest{Target: "registration"},
	)
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition without candidates, got %v", err)
	}

	addCandidate(t, module, election.ElectionID, "alice")
	resp := advance(t, module, election.ElectionID, "registration", baseTime)
	if resp.Status != "registration" {
		t.Fatalf("expected registration status, got %s", resp.Status)
	}
}

func TestAdvanceForbidsSkippingStages(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")

	_, err := module.Handler.AdvanceStatusHandler(
		context.Background(), "admin-1", voteStart, election.ElectionID,
		httptransport.AdvanceStatusRequest{Target: "active"},
	)
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for draft->active, got %v", err)
	}
}

func TestAdvanceForbidsMovingBackward(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)

	_, err := module.Handler.AdvanceStatusHandler(
		context.Background(), "admin-1", baseTime, election.ElectionID,
		httptransport.AdvanceStatusRequest{Target: "draft"},
	)
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for registration->draft, got %v", err)
	}
}

func TestAdvanceToActiveWaitsForVotingStart(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)

	_, err := module.Handler.AdvanceStatusHandler(
		context.Background(), "admin-1", baseTime, election.ElectionID,
		httptransport.AdvanceStatusRequest{Target: "active"},
	)
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition before voting start, got %v", err)
	}

	resp := advance(t, module, election.ElectionID, "active", voteStart)
	if resp.Status != "active" {
		t.Fatalf("expected active status, got %s", resp.Status)
	}
}

func TestAdvanceRequiresManager(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")

	_, err := module.Handler.AdvanceStatusHandler(
		context.Background(), "random-user", baseTime, election.ElectionID,
		httptransport.AdvanceStatusRequest{Target: "registration"},
	)
	if !errors.Is(err, domainerrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestAddCandidateOnlyInDraft(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)

	_, err := module.Handler.AddCandidateHandler(
		context.Background(), "admin-1", baseTime, election.ElectionID,
		httptransport.AddCandidateRequest{Name: "late entry"},
	)
	if !errors.Is(err, domainerrors.ErrInvalidState) {
		t.Fatalf("expected invalid state after draft, got %v", err)
	}
}

func TestCandidateIDsAreSequentialPerElection(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	alice := addCandidate(t, module, election.ElectionID, "alice")
	bob := addCandidate(t, module, election.ElectionID, "bob")
	if alice.CandidateID != 1 || bob.CandidateID != 2 {
		t.Fatalf("expected candidate ids 1 and 2, got %d and %d", alice.CandidateID, bob.CandidateID)
	}

	other := createElection(t, module, "private")
	carol := addCandidate(t, module, other.ElectionID, "carol")
	if carol.CandidateID != 1 {
		t.Fatalf("expected fresh sequence per election, got %d", carol.CandidateID)
	}
}

func TestGetCandidateReturnsRosterEntry(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	alice := addCandidate(t, module, election.ElectionID, "alice")

	got, err := module.Handler.GetCandidateHandler(context.Background(), election.ElectionID, alice.CandidateID)
	if err != nil {
		t.Fatalf("get candidate failed: %v", err)
	}
	if got.CandidateID != alice.CandidateID || got.Name != "alice" {
		t.Fatalf("unexpected candidate %+v", got)
	}
}

func TestGetCandidateMissingIsNotFound(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")

	_, err := module.Handler.GetCandidateHandler(context.Background(), election.ElectionID, 42)
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found for missing roster entry, got %v", err)
	}

	_, err = module.Handler.GetCandidateHandler(context.Background(), 999, 1)
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found for missing election, got %v", err)
	}
}

func TestAdvanceAllowsSuperAdminManager(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")

	resp, err := module.Handler.AdvanceStatusHandler(
		context.Background(), "root-1", baseTime, election.ElectionID,
		httptransport.AdvanceStatusRequest{Target: "registration"},
	)
	if err != nil {
		t.Fatalf("super admin advance failed: %v", err)
	}
	if resp.Status != "registration" {
		t.Fatalf("expected registration status, got %s", resp.Status)
	}
}

func TestPrivateRegistrationLifecycle(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)

	reg, err := module.Handler.RegisterVoterHandler(
		context.Background(), "voter-1", baseTime.Add(time.Hour), election.ElectionID,
		httptransport.RegisterVoterRequest{VerificationRef: "doc-123"},
	)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if reg.Status != "pending" {
		t.Fatalf("expected pending status, got %s", reg.Status)
	}

	_, err = module.Handler.RegisterVoterHandler(
		context.Background(), "voter-1", baseTime.Add(time.Hour), election.ElectionID,
		httptransport.RegisterVoterRequest{},
	)
	if !errors.Is(err, domainerrors.ErrAlreadyRegistered) {
		t.Fatalf("expected already registered, got %v", err)
	}

	approved, err := module.Handler.ReviewRegistrationHandler(
		context.Background(), "admin-1", baseTime.Add(2*time.Hour), election.ElectionID,
		httptransport.ReviewRegistrationRequest{Voter: "voter-1", NewStatus: "approved"},
	)
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if approved.Status != "approved" {
		t.Fatalf("expected approved, got %s", approved.Status)
	}

	status, err := module.Handler.RegistrationStatusHandler(context.Background(), election.ElectionID, "voter-1")
	if err != nil {
		t.Fatalf("status lookup failed: %v", err)
	}
	if status.Status != "approved" {
		t.Fatalf("expected approved lookup, got %s", status.Status)
	}
}

func TestRejectedVoterMayReapply(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)

	if _, err := module.Handler.RegisterVoterHandler(
		context.Background(), "voter-2", baseTime.Add(time.Hour), election.ElectionID,
		httptransport.RegisterVoterRequest{},
	); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := module.Handler.ReviewRegistrationHandler(
		context.Background(), "admin-1", baseTime.Add(2*time.Hour), election.ElectionID,
		httptransport.ReviewRegistrationRequest{Voter: "voter-2", NewStatus: "rejected"},
	); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	reg, err := module.Handler.RegisterVoterHandler(
		context.Background(), "voter-2", baseTime.Add(3*time.Hour), election.ElectionID,
		httptransport.RegisterVoterRequest{},
	)
	if err != nil {
		t.Fatalf("reapply after rejection failed: %v", err)
	}
	if reg.Status != "pending" {
		t.Fatalf("expected pending after reapply, got %s", reg.Status)
	}
}

func TestBlacklistedVoterCannotReapply(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)

	if _, err := module.Handler.RegisterVoterHandler(
		context.Background(), "voter-3", baseTime.Add(time.Hour), election.ElectionID,
		httptransport.RegisterVoterRequest{},
	); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := module.Handler.ReviewRegistrationHandler(
		context.Background(), "admin-1", baseTime.Add(2*time.Hour), election.ElectionID,
		httptransport.ReviewRegistrationRequest{Voter: "voter-3", NewStatus: "blacklisted"},
	); err != nil {
		t.Fatalf("blacklist failed: %v", err)
	}

	_, err := module.Handler.RegisterVoterHandler(
		context.Background(), "voter-3", baseTime.Add(3*time.Hour), election.ElectionID,
		httptransport.RegisterVoterRequest{},
	)
	if !errors.Is(err, domainerrors.ErrNotEligible) {
		t.Fatalf("expected not eligible, got %v", err)
	}
}

func TestReviewRequiresPendingSource(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)
	registerAndApprove(t, module, election.ElectionID, "voter-4")

	_, err := module.Handler.ReviewRegistrationHandler(
		context.Background(), "admin-1", baseTime.Add(3*time.Hour), election.ElectionID,
		httptransport.ReviewRegistrationRequest{Voter: "voter-4", NewStatus: "rejected"},
	)
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on approved source, got %v", err)
	}
}

func TestBulkReviewSkipsNonPending(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)

	for _, voter := range []string{"bulk-1", "bulk-2"} {
		if _, err := module.Handler.RegisterVoterHandler(
			context.Background(), voter, baseTime.Add(time.Hour), election.ElectionID,
			httptransport.RegisterVoterRequest{},
		); err != nil {
			t.Fatalf("register %s failed: %v", voter, err)
		}
	}
	registerAndApprove(t, module, election.ElectionID, "bulk-3")

	resp, err := module.Handler.BulkReviewHandler(
		context.Background(), "admin-1", baseTime.Add(4*time.Hour), election.ElectionID,
		httptransport.BulkReviewRequest{
			Voters:    []string{"bulk-1", "bulk-2", "bulk-3", "bulk-missing"},
			NewStatus: "approved",
		},
	)
	if err != nil {
		t.Fatalf("bulk review failed: %v", err)
	}
	if resp.Updated != 2 {
		t.Fatalf("expected 2 updated, got %d", resp.Updated)
	}
	if resp.Skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d", resp.Skipped)
	}
}

func TestPublicElectionAutoApprovesAndAllowsUnregisteredVoters(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "public")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)

	reg, err := module.Handler.RegisterVoterHandler(
		context.Background(), "open-voter", baseTime.Add(time.Hour), election.ElectionID,
		httptransport.RegisterVoterRequest{},
	)
	if err != nil {
		t.Fatalf("public register failed: %v", err)
	}
	if reg.Status != "approved" {
		t.Fatalf("expected auto-approval, got %s", reg.Status)
	}

	advance(t, module, election.ElectionID, "active", voteStart)
	if _, err := module.Handler.CastVoteHandler(
		context.Background(), "walk-in-voter", voteStart.Add(time.Minute), election.ElectionID,
		httptransport.CastVoteRequest{CandidateID: 1},
	); err != nil {
		t.Fatalf("public walk-in vote failed: %v", err)
	}
}

func TestCastVoteOutsideWindowFails(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "public")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)

	_, err := module.Handler.CastVoteHandler(
		context.Background(), "early-voter", baseTime.Add(time.Hour), election.ElectionID,
		httptransport.CastVoteRequest{CandidateID: 1},
	)
	if !errors.Is(err, domainerrors.ErrInvalidState) {
		t.Fatalf("expected invalid state before voting opens, got %v", err)
	}

	advance(t, module, election.ElectionID, "active", voteStart)
	_, err = module.Handler.CastVoteHandler(
		context.Background(), "late-voter", voteEnd.Add(time.Hour), election.ElectionID,
		httptransport.CastVoteRequest{CandidateID: 1},
	)
	if !errors.Is(err, domainerrors.ErrInvalidState) {
		t.Fatalf("expected invalid state after voting ends, got %v", err)
	}
}

func TestCastVoteExactlyOnce(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "public")
	addCandidate(t, module, election.ElectionID, "alice")
	addCandidate(t, module, election.ElectionID, "bob")
	advance(t, module, election.ElectionID, "registration", baseTime)
	advance(t, module, election.ElectionID, "active", voteStart)

	first, err := module.Handler.CastVoteHandler(
		context.Background(), "voter-once", voteStart.Add(time.Minute), election.ElectionID,
		httptransport.CastVoteRequest{CandidateID: 1},
	)
	if err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	if first.Receipt == "" {
		t.Fatalf("expected a receipt")
	}

	_, err = module.Handler.CastVoteHandler(
		context.Background(), "voter-once", voteStart.Add(2*time.Minute), election.ElectionID,
		httptransport.CastVoteRequest{CandidateID: 2},
	)
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already voted, got %v", err)
	}

	voted, err := module.Handler.HasVotedHandler(context.Background(), election.ElectionID, "voter-once")
	if err != nil {
		t.Fatalf("has voted lookup failed: %v", err)
	}
	if !voted.HasVoted {
		t.Fatalf("expected has voted true")
	}
}

func TestCastVoteRejectsInactiveOrUnknownCandidate(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "public")
	addCandidate(t, module, election.ElectionID, "alice")
	retired := addCandidate(t, module, election.ElectionID, "retired")
	if _, err := module.Handler.DeactivateCandidateHandler(
		context.Background(), "admin-1", baseTime, election.ElectionID, retired.CandidateID,
	); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	advance(t, module, election.ElectionID, "registration", baseTime)
	advance(t, module, election.ElectionID, "active", voteStart)

	_, err := module.Handler.CastVoteHandler(
		context.Background(), "voter-a", voteStart.Add(time.Minute), election.ElectionID,
		httptransport.CastVoteRequest{CandidateID: retired.CandidateID},
	)
	if !errors.Is(err, domainerrors.ErrInvalidCandidate) {
		t.Fatalf("expected invalid candidate for inactive, got %v", err)
	}

	_, err = module.Handler.CastVoteHandler(
		context.Background(), "voter-a", voteStart.Add(time.Minute), election.ElectionID,
		httptransport.CastVoteRequest{CandidateID: 99},
	)
	if !errors.Is(err, domainerrors.ErrInvalidCandidate) {
		t.Fatalf("expected invalid candidate for unknown id, got %v", err)
	}
}

func TestPrivateElectionRequiresApprovedRegistrationToVote(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "private")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)

	if _, err := module.Handler.RegisterVoterHandler(
		context.Background(), "pending-voter", baseTime.Add(time.Hour), election.ElectionID,
		httptransport.RegisterVoterRequest{},
	); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	registerAndApprove(t, module, election.ElectionID, "approved-voter")
	advance(t, module, election.ElectionID, "active", voteStart)

	_, err := module.Handler.CastVoteHandler(
		context.Background(), "pending-voter", voteStart.Add(time.Minute), election.ElectionID,
		httptransport.CastVoteRequest{CandidateID: 1},
	)
	if !errors.Is(err, domainerrors.ErrNotEligible) {
		t.Fatalf("expected not eligible for pending registration, got %v", err)
	}

	_, err = module.Handler.CastVoteHandler(
		context.Background(), "stranger", voteStart.Add(time.Minute), election.ElectionID,
		httptransport.CastVoteRequest{CandidateID: 1},
	)
	if !errors.Is(err, domainerrors.ErrNotEligible) {
		t.Fatalf("expected not eligible for unregistered voter, got %v", err)
	}

	if _, err := module.Handler.CastVoteHandler(
		context.Background(), "approved-voter", voteStart.Add(time.Minute), election.ElectionID,
		httptransport.CastVoteRequest{CandidateID: 1},
	); err != nil {
		t.Fatalf("approved voter vote failed: %v", err)
	}
}

func TestReceiptVerification(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "public")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)
	advance(t, module, election.ElectionID, "active", voteStart)

	cast, err := module.Handler.CastVoteHandler(
		context.Background(), "receipt-voter", voteStart.Add(time.Minute), election.ElectionID,
		httptransport.CastVoteRequest{CandidateID: 1},
	)
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	valid, err := module.Handler.VerifyReceiptHandler(
		context.Background(), "receipt-voter", election.ElectionID,
		httptransport.VerifyReceiptRequest{Receipt: cast.Receipt},
	)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !valid.Valid {
		t.Fatalf("expected valid receipt")
	}

	forged, err := module.Handler.VerifyReceiptHandler(
		context.Background(), "receipt-voter", election.ElectionID,
		httptransport.VerifyReceiptRequest{Receipt: "deadbeef"},
	)
	if err != nil {
		t.Fatalf("verify forged failed: %v", err)
	}
	if forged.Valid {
		t.Fatalf("expected forged receipt to be invalid")
	}
}

func TestResultsTotalsMatchTallies(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "public")
	addCandidate(t, module, election.ElectionID, "alice")
	addCandidate(t, module, election.ElectionID, "bob")
	advance(t, module, election.ElectionID, "registration", baseTime)
	advance(t, module, election.ElectionID, "active", voteStart)

	votes := map[string]uint64{
		"t-voter-1": 1,
		"t-voter-2": 2,
		"t-voter-3": 2,
	}
	for voter, candidateID := range votes {
		if _, err := module.Handler.CastVoteHandler(
			context.Background(), voter, voteStart.Add(time.Minute), election.ElectionID,
			httptransport.CastVoteRequest{CandidateID: candidateID},
		); err != nil {
			t.Fatalf("vote by %s failed: %v", voter, err)
		}
	}

	results, err := module.Handler.ResultsHandler(context.Background(), election.ElectionID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results.TotalVotes != 3 {
		t.Fatalf("expected 3 total votes, got %d", results.TotalVotes)
	}
	var sum uint64
	for _, tally := range results.Tallies {
		sum += tally.VoteCount
	}
	if sum != results.TotalVotes {
		t.Fatalf("tally sum %d does not match total %d", sum, results.TotalVotes)
	}
	if results.WinnerID != 0 {
		t.Fatalf("expected no winner before finalization, got %d", results.WinnerID)
	}
}

func TestFinalizeRequiresEnded(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "public")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)
	advance(t, module, election.ElectionID, "active", voteStart)

	_, err := module.Handler.FinalizeHandler(
		context.Background(), "admin-1", voteStart.Add(time.Hour), election.ElectionID,
	)
	if !errors.Is(err, domainerrors.ErrInvalidState) {
		t.Fatalf("expected invalid state for active election, got %v", err)
	}
}

func TestFinalizePicksFirstStrictMaximum(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "public")
	addCandidate(t, module, election.ElectionID, "alice")
	addCandidate(t, module, election.ElectionID, "bob")
	advance(t, module, election.ElectionID, "registration", baseTime)
	advance(t, module, election.ElectionID, "active", voteStart)

	// One vote each: tie resolves to the lowest candidate id.
	for voter, candidateID := range map[string]uint64{"f-1": 1, "f-2": 2} {
		if _, err := module.Handler.CastVoteHandler(
			context.Background(), voter, voteStart.Add(time.Minute), election.ElectionID,
			httptransport.CastVoteRequest{CandidateID: candidateID},
		); err != nil {
			t.Fatalf("vote failed: %v", err)
		}
	}
	advance(t, module, election.ElectionID, "ended", voteEnd)

	final, err := module.Handler.FinalizeHandler(
		context.Background(), "admin-1", voteEnd.Add(time.Hour), election.ElectionID,
	)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if final.WinnerID != 1 {
		t.Fatalf("expected winner 1 on tie, got %d", final.WinnerID)
	}
	if final.Status != "finalized" {
		t.Fatalf("expected finalized, got %s", final.Status)
	}

	_, err = module.Handler.FinalizeHandler(
		context.Background(), "admin-1", voteEnd.Add(2*time.Hour), election.ElectionID,
	)
	if !errors.Is(err, domainerrors.ErrAlreadyFinalized) {
		t.Fatalf("expected already finalized, got %v", err)
	}
}

func TestFinalizeWithoutVotesHasNoWinner(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "public")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)
	advance(t, module, election.ElectionID, "active", voteStart)
	advance(t, module, election.ElectionID, "ended", voteEnd)

	final, err := module.Handler.FinalizeHandler(
		context.Background(), "admin-1", voteEnd.Add(time.Hour), election.ElectionID,
	)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if final.WinnerID != 0 {
		t.Fatalf("expected winner 0 with no votes, got %d", final.WinnerID)
	}
}

func TestMutationsAppendOutboxEvents(t *testing.T) {
	module := newEngine(t)
	election := createElection(t, module, "public")
	addCandidate(t, module, election.ElectionID, "alice")
	advance(t, module, election.ElectionID, "registration", baseTime)
	advance(t, module, election.ElectionID, "active", voteStart)
	if _, err := module.Handler.CastVoteHandler(
		context.Background(), "outbox-voter", voteStart.Add(time.Minute), election.ElectionID,
		httptransport.CastVoteRequest{CandidateID: 1},
	); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	// create + candidate + two advances + vote
	if got := module.Store.PendingOutboxCount(); got != 5 {
		t.Fatalf("expected 5 pending outbox events, got %d", got)
	}
}
