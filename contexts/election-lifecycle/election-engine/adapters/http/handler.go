package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"suffrage/contexts/election-lifecycle/election-engine/application/commands"
	"suffrage/contexts/election-lifecycle/election-engine/application/queries"
	"suffrage/contexts/election-lifecycle/election-engine/domain/entities"
	domainerrors "suffrage/contexts/election-lifecycle/election-engine/domain/errors"
	httptransport "suffrage/contexts/election-lifecycle/election-engine/transport/http"
)

// Handler adapts transport DTOs onto election-engine use cases and queries.
type Handler struct {
	Elections     commands.ElectionUseCase
	Candidates    commands.CandidateUseCase
	Registrations commands.RegistrationUseCase
	Ballots       commands.BallotUseCase
	Finalizer     commands.FinalizeUseCase

	ElectionReads queries.ElectionQueries
	ResultReads   queries.ResultsQueries
	VoterReads    queries.VoterQueries

	Logger *slog.Logger
}

func (h Handler) CreateElectionHandler(
	ctx context.Context,
	caller string,
	now time.Time,
	req httptransport.CreateElectionRequest,
) (httptransport.ElectionResponse, error) {
	registrationStart, err := parseTimestamp("registration_start", req.RegistrationStart)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	votingStart, err := parseTimestamp("voting_start", req.VotingStart)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	votingEnd, err := parseTimestamp("voting_end", req.VotingEnd)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	election, err := h.Elections.Create(ctx, commands.CreateElectionCommand{
		Principal:         caller,
		Title:             req.Title,
		DescriptionRef:    req.DescriptionRef,
		MetadataRef:       req.MetadataRef,
		Type:              entities.Type(req.Type),
		OrgID:             req.OrgID,
		RegistrationStart: registrationStart,
		VotingStart:       votingStart,
		VotingEnd:         votingEnd,
		Now:               now,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(election, 0), nil
}

func (h Handler) GetElectionHandler(ctx context.Context, electionID uint64) (httptransport.ElectionResponse, error) {
	details, err := h.ElectionReads.Details(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(details.Election, details.CandidateCount), nil
}

func (h Handler) ListElectionsHandler(ctx context.Context) (httptransport.ListElectionsResponse, error) {
	elections, err := h.ElectionReads.List(ctx)
	if err != nil {
		return httptransport.ListElectionsResponse{}, err
	}
	items := make([]httptransport.ElectionResponse, 0, len(elections))
	for _, election := range elections {
		items = append(items, electionResponse(election, 0))
	}
	return httptransport.ListElectionsResponse{Elections: items}, nil
}

func (h Handler) AdvanceStatusHandler(
	ctx context.Context,
	caller string,
	now time.Time,
	electionID uint64,
	req httptransport.AdvanceStatusRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.Advance(ctx, commands.AdvanceStatusCommand{
		Principal:  caller,
		ElectionID: electionID,
		Target:     entities.Status(req.Target),
		Now:        now,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(election, 0), nil
}

func (h Handler) AddCandidateHandler(
	ctx context.Context,
	caller string,
	now time.Time,
	electionID uint64,
	req httptransport.AddCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Candidates.Add(ctx, commands.AddCandidateCommand{
		Principal:  caller,
		ElectionID: electionID,
		Name:       req.Name,
		DetailsRef: req.DetailsRef,
		Now:        now,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return candidateResponse(candidate), nil
}

func (h Handler) DeactivateCandidateHandler(
	ctx context.Context,
	caller string,
	now time.Time,
	electionID uint64,
	candidateID uint64,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Candidates.Deactivate(ctx, commands.DeactivateCandidateCommand{
		Principal:   caller,
		ElectionID:  electionID,
		CandidateID: candidateID,
		Now:         now,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return candidateResponse(candidate), nil
}

func (h Handler) GetCandidateHandler(
	ctx context.Context,
	electionID uint64,
	candidateID uint64,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.ElectionReads.Candidate(ctx, electionID, candidateID)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return candidateResponse(candidate), nil
}

func (h Handler) ListCandidatesHandler(ctx context.Context, electionID uint64) (httptransport.ListCandidatesResponse, error) {
	candidates, err := h.ElectionReads.CandidateList(ctx, electionID)
	if err != nil {
		return httptransport.ListCandidatesResponse{}, err
	}
	items := make([]httptransport.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, candidateResponse(candidate))
	}
	return httptransport.ListCandidatesResponse{
		ElectionID: electionID,
		Candidates: items,
	}, nil
}

func (h Handler) RegisterVoterHandler(
	ctx context.Context,
	caller string,
	now time.Time,
	electionID uint64,
	req httptransport.RegisterVoterRequest,
) (httptransport.RegistrationResponse, error) {
	registration, err := h.Registrations.Register(ctx, commands.RegisterVoterCommand{
		Voter:           caller,
		ElectionID:      electionID,
		VerificationRef: req.VerificationRef,
		Now:             now,
	})
	if err != nil {
		return httptransport.RegistrationResponse{}, err
	}
	return registrationResponse(registration), nil
}

func (h Handler) ReviewRegistrationHandler(
	ctx context.Context,
	caller string,
	now time.Time,
	electionID uint64,
	req httptransport.ReviewRegistrationRequest,
) (httptransport.RegistrationResponse, error) {
	registration, err := h.Registrations.Review(ctx, commands.ReviewRegistrationCommand{
		Principal:  caller,
		ElectionID: electionID,
		Voter:      req.Voter,
		NewStatus:  entities.RegistrationStatus(req.NewStatus),
		Now:        now,
	})
	if err != nil {
		return httptransport.RegistrationResponse{}, err
	}
	return registrationResponse(registration), nil
}

func (h Handler) BulkReviewHandler(
	ctx context.Context,
	caller string,
	now time.Time,
	electionID uint64,
	req httptransport.BulkReviewRequest,
) (httptransport.BulkReviewResponse, error) {
	result, err := h.Registrations.BulkReview(ctx, commands.BulkReviewCommand{
		Principal:  caller,
		ElectionID: electionID,
		Voters:     req.Voters,
		NewStatus:  entities.RegistrationStatus(req.NewStatus),
		Now:        now,
	})
	if err != nil {
		return httptransport.BulkReviewResponse{}, err
	}
	return httptransport.BulkReviewResponse{
		ElectionID: electionID,
		Updated:    result.Updated,
		Skipped:    result.Skipped,
	}, nil
}

func (h Handler) RegistrationStatusHandler(
	ctx context.Context,
	electionID uint64,
	voter string,
) (httptransport.RegistrationResponse, error) {
	status, err := h.VoterReads.RegistrationStatus(ctx, electionID, voter)
	if err != nil {
		return httptransport.RegistrationResponse{}, err
	}
	return httptransport.RegistrationResponse{
		ElectionID: electionID,
		Voter:      strings.TrimSpace(voter),
		Status:     string(status),
	}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	caller string,
	now time.Time,
	electionID uint64,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.Ballots.Cast(ctx, commands.CastVoteCommand{
		Voter:       caller,
		ElectionID:  electionID,
		CandidateID: req.CandidateID,
		Now:         now,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		ElectionID: result.ElectionID,
		Voter:      result.Voter,
		Receipt:    result.Receipt,
		CastAt:     result.CastAt.Format(time.RFC3339Nano),
	}, nil
}

func (h Handler) HasVotedHandler(ctx context.Context, electionID uint64, voter string) (httptransport.HasVotedResponse, error) {
	voted, err := h.VoterReads.HasVoted(ctx, electionID, voter)
	if err != nil {
		return httptransport.HasVotedResponse{}, err
	}
	return httptransport.HasVotedResponse{
		ElectionID: electionID,
		Voter:      strings.TrimSpace(voter),
		HasVoted:   voted,
	}, nil
}

func (h Handler) VerifyReceiptHandler(
	ctx context.Context,
	caller string,
	electionID uint64,
	req httptransport.VerifyReceiptRequest,
) (httptransport.VerifyReceiptResponse, error) {
	valid, err := h.VoterReads.VerifyReceipt(ctx, electionID, caller, req.Receipt)
	if err != nil {
		return httptransport.VerifyReceiptResponse{}, err
	}
	return httptransport.VerifyReceiptResponse{
		ElectionID: electionID,
		Voter:      strings.TrimSpace(caller),
		Valid:      valid,
	}, nil
}

func (h Handler) ResultsHandler(ctx context.Context, electionID uint64) (httptransport.ResultsResponse, error) {
	results, err := h.ResultReads.Results(ctx, electionID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	tallies := make([]httptransport.CandidateTallyItem, 0, len(results.Tallies))
	for _, tally := range results.Tallies {
		tallies = append(tallies, httptransport.CandidateTallyItem{
			CandidateID: tally.CandidateID,
			Name:        tally.Name,
			VoteCount:   tally.VoteCount,
			Active:      tally.Active,
		})
	}
	return httptransport.ResultsResponse{
		ElectionID: results.ElectionID,
		Status:     string(results.Status),
		TotalVotes: results.TotalVotes,
		WinnerID:   results.WinnerID,
		Tallies:    tallies,
	}, nil
}

func (h Handler) FinalizeHandler(
	ctx context.Context,
	caller string,
	now time.Time,
	electionID uint64,
) (httptransport.FinalizeResponse, error) {
	result, err := h.Finalizer.Finalize(ctx, commands.FinalizeCommand{
		Principal:  caller,
		ElectionID: electionID,
		Now:        now,
	})
	if err != nil {
		return httptransport.FinalizeResponse{}, err
	}
	return httptransport.FinalizeResponse{
		ElectionID: result.Election.ElectionID,
		Status:     string(result.Election.Status),
		WinnerID:   result.WinnerID,
		TotalVotes: result.Election.TotalVotes,
	}, nil
}

func parseTimestamp(field string, value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC 3339", domainerrors.ErrInvalidInput, field)
	}
	return parsed.UTC(), nil
}

func electionResponse(election entities.Election, candidateCount uint64) httptransport.ElectionResponse {
	return httptransport.ElectionResponse{
		ElectionID:        election.ElectionID,
		Title:             election.Title,
		DescriptionRef:    election.DescriptionRef,
		MetadataRef:       election.MetadataRef,
		Type:              string(election.Type),
		OrgID:             election.OrgID,
		AdminID:           election.AdminID,
		Status:            string(election.Status),
		RegistrationStart: election.RegistrationStart.Format(time.RFC3339),
		VotingStart:       election.VotingStart.Format(time.RFC3339),
		VotingEnd:         election.VotingEnd.Format(time.RFC3339),
		TotalVotes:        election.TotalVotes,
		WinnerID:          election.WinnerID,
		CandidateCount:    candidateCount,
	}
}

func candidateResponse(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		ElectionID:  candidate.ElectionID,
		CandidateID: candidate.CandidateID,
		Name:        candidate.Name,
		DetailsRef:  candidate.DetailsRef,
		VoteCount:   candidate.VoteCount,
		Active:      candidate.Active,
	}
}

func registrationResponse(registration entities.Registration) httptransport.RegistrationResponse {
	return httptransport.RegistrationResponse{
		ElectionID: registration.ElectionID,
		Voter:      registration.Voter,
		Status:     string(registration.Status),
		ReviewedBy: registration.ReviewedBy,
	}
}
