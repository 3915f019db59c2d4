package services

import (
	"context"
	"errors"
	"strings"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/RaheelArfeen/FitFlow-Server/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommunityService struct {
	db       *pgxpool.Pool
	postRepo *repository.PostRepository
}

func NewCommunityService(db *pgxpool.Pool, postRepo *repository.PostRepository) *CommunityService {
	return &CommunityService{db: db, postRepo: postRepo}
}

type voteAction int

const (
	voteInsert voteAction = iota
	voteDelete
	voteSwitch
)

// nextVoteAction resolves the three-state toggle for one (post, voter) pair:
// same vote again toggles it off, the opposite vote switches sides, and a
// fresh vote inserts. An empty or unknown type has nothing to toggle.
func nextVoteAction(current, requested string) (voteAction, error) {
	if requested != models.VoteLike && requested != models.VoteDislike {
		return 0, ErrInvalidInput
	}
	switch current {
	case "":
		return voteInsert, nil
	case requested:
		return voteDelete, nil
	default:
		return voteSwitch, nil
	}
}

// CastVote applies the toggle and recounts the cached counters from the vote
// rows inside one transaction. The post row is locked first so racing voters
// on the same post serialize.
func (s *CommunityService) CastVote(
	ctx context.Context,
	voterID int64,
	postID int64,
	voteType string,
) (*models.VoteCounts, error) {
	if postID <= 0 {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txPostRepo := repository.NewPostRepository(tx)

	if err := txPostRepo.LockByID(ctx, postID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	current, err := txPostRepo.GetVote(ctx, postID, voterID)
	if err != nil {
		return nil, err
	}

	action, err := nextVoteAction(current, voteType)
	if err != nil {
		return nil, err
	}

	switch action {
	case voteInsert:
		err = txPostRepo.InsertVote(ctx, postID, voterID, voteType)
	case voteDelete:
		err = txPostRepo.DeleteVote(ctx, postID, voterID)
	case voteSwitch:
		err = txPostRepo.UpdateVote(ctx, postID, voterID, voteType)
	}
	if err != nil {
		return nil, err
	}

	counts, err := txPostRepo.RecountVotes(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *CommunityService) CreatePost(ctx context.Context, authorID int64, title, content string) (*models.Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}
	return s.postRepo.Create(ctx, authorID, strings.TrimSpace(title), strings.TrimSpace(content))
}

func (s *CommunityService) ListPosts(ctx context.Context, page, limit int) ([]models.Post, int, error) {
	return s.postRepo.List(ctx, page, limit)
}

func (s *CommunityService) GetPost(ctx context.Context, postID int64) (*models.PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	comments, err := s.postRepo.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &models.PostDetail{Post: *post, Comments: comments}, nil
}

func (s *CommunityService) AddComment(ctx context.Context, authorID, postID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.postRepo.CreateComment(ctx, postID, authorID, strings.TrimSpace(text))
}

// DeleteComment removes a comment; only its author or an admin may.
func (s *CommunityService) DeleteComment(ctx context.Context, actorID int64, role string, commentID int64) error {
	comment, err := s.postRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin && comment.AuthorID != actorID {
		return ErrForbidden
	}
	return s.postRepo.DeleteComment(ctx, commentID)
}
