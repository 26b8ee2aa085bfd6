package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/shithunt/internal/apperror"
	"github.com/sakif/shithunt/internal/repository"
)

// VoteService handles the single vote operation: the toggle.
type VoteService struct {
	votes  repository.VoteRepository
	logger *slog.Logger
}

// NewVoteService creates a VoteService with its dependencies.
func NewVoteService(votes repository.VoteRepository, logger *slog.Logger) *VoteService {
	return &VoteService{votes: votes, logger: logger}
}

// Toggle flips the viewer's vote on a product and reports the resulting
// state: true if the vote now stands, false if it was withdrawn. Voting
// twice is always an un-vote, never an error and never a double count.
func (s *VoteService) Toggle(ctx context.Context, viewerID, productID string) (bool, error) {
	if viewerID == "" {
		return false, apperror.Unauthenticated()
	}

	voted, err := s.votes.ToggleVote(ctx, viewerID, productID)
	if err != nil {
		return false, fmt.Errorf("toggling vote: %w", err)
	}

	s.logger.Info("vote toggled",
		slog.String("userID", viewerID),
		slog.String("productID", productID),
		slog.Bool("voted", voted),
	)
	return voted, nil
}
