package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/shithunt/internal/apperror"
	"github.com/sakif/shithunt/internal/model"
	"github.com/sakif/shithunt/internal/repository"
)

// MaxCommentLength bounds a single comment's content.
const MaxCommentLength = 2000

// CommentService handles product discussion threads.
type CommentService struct {
	comments repository.CommentRepository
	products repository.ProductRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

// NewCommentService creates a CommentService with its dependencies.
func NewCommentService(
	comments repository.CommentRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		products: products,
		users:    users,
		logger:   logger,
	}
}

// Add posts a comment on a product and returns it joined with the
// author's identity, ready to render without a second fetch.
func (s *CommentService) Add(ctx context.Context, viewerID, productID, content string) (*model.CommentWithAuthor, error) {
	if viewerID == "" {
		return nil, apperror.Unauthenticated()
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "comment cannot be empty")
	}
	if len(content) > MaxCommentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	// Commenting on a deleted product fails with NotFound up front.
	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		UserID:    viewerID,
		ProductID: productID,
		Content:   content,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("adding comment: %w", err)
	}

	author, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		slog.String("commentID", comment.ID),
		slog.String("productID", productID),
		slog.String("userID", viewerID),
	)

	return &model.CommentWithAuthor{
		Comment:        *comment,
		AuthorName:     author.Name,
		AuthorUsername: author.Username,
		AuthorAvatar:   author.AvatarURL,
	}, nil
}

// ListForProduct returns a product's comments oldest first, with authors.
func (s *CommentService) ListForProduct(ctx context.Context, productID string) ([]model.CommentWithAuthor, error) {
	comments, err := s.comments.ListCommentsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	if comments == nil {
		comments = []model.CommentWithAuthor{}
	}
	return comments, nil
}

// Delete removes a comment. Only its author may delete it; unlike
// products there is no admin override here.
func (s *CommentService) Delete(ctx context.Context, viewerID, commentID string) error {
	if viewerID == "" {
		return apperror.Unauthenticated()
	}

	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != viewerID {
		return apperror.Forbidden("you can only delete your own comments")
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	s.logger.Info("comment deleted",
		slog.String("commentID", commentID),
		slog.String("userID", viewerID),
	)
	return nil
}
