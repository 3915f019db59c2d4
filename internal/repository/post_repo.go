package repository

import (
	"context"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/jackc/pgx/v5"
)

const postColumns = `
	p.id, p.author_id, u.name, p.title, p.content, p.likes, p.dislikes, p.created_at, p.updated_at
`

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, authorID int64, title, content string) (*models.Post, error) {
	query := `
		INSERT INTO posts (author_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, likes, dislikes, created_at, updated_at
	`
	post := models.Post{AuthorID: authorID, Title: title, Content: content}
	err := r.db.QueryRow(ctx, query, authorID, title, content).Scan(
		&post.ID,
		&post.Likes,
		&post.Dislikes,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`
	var post models.Post
	err := r.db.QueryRow(ctx, query, postID).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Author,
		&post.Title,
		&post.Content,
		&post.Likes,
		&post.Dislikes,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) List(ctx context.Context, page, limit int) ([]models.Post, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Author,
			&post.Title,
			&post.Content,
			&post.Likes,
			&post.Dislikes,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// LockByID serializes voters on the same post so the toggle decision and the
// counter recomputation observe a stable vote set.
func (r *PostRepository) LockByID(ctx context.Context, postID int64) error {
	query := `SELECT id FROM posts WHERE id = $1 FOR UPDATE`
	var id int64
	return r.db.QueryRow(ctx, query, postID).Scan(&id)
}

func (r *PostRepository) GetVote(ctx context.Context, postID, userID int64) (string, error) {
	query := `SELECT vote_type FROM post_votes WHERE post_id = $1 AND user_id = $2`
	var voteType string
	err := r.db.QueryRow(ctx, query, postID, userID).Scan(&voteType)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return voteType, nil
}

func (r *PostRepository) InsertVote(ctx context.Context, postID, userID int64, voteType string) error {
	query := `INSERT INTO post_votes (post_id, user_id, vote_type) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, postID, userID, voteType)
	return err
}

func (r *PostRepository) UpdateVote(ctx context.Context, postID, userID int64, voteType string) error {
	query := `UPDATE post_votes SET vote_type = $3 WHERE post_id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, postID, userID, voteType)
	return err
}

func (r *PostRepository) DeleteVote(ctx context.Context, postID, userID int64) error {
	query := `DELETE FROM post_votes WHERE post_id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, postID, userID)
	return err
}

// RecountVotes refreshes the cached counters from the vote rows, which stay
// the source of truth.
func (r *PostRepository) RecountVotes(ctx context.Context, postID int64) (*models.VoteCounts, error) {
	query := `
		UPDATE posts
		SET likes = (SELECT COUNT(*) FROM post_votes WHERE post_id = $1 AND vote_type = 'like'),
		    dislikes = (SELECT COUNT(*) FROM post_votes WHERE post_id = $1 AND vote_type = 'dislike'),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING likes, dislikes
	`
	var counts models.VoteCounts
	if err := r.db.QueryRow(ctx, query, postID).Scan(&counts.Likes, &counts.Dislikes); err != nil {
		return nil, err
	}
	return &counts, nil
}

func (r *PostRepository) CreateComment(ctx context.Context, postID, authorID int64, text string) (*models.Comment, error) {
	query := `
		INSERT INTO comments (post_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	comment := models.Comment{PostID: postID, AuthorID: authorID, Text: text}
	if err := r.db.QueryRow(ctx, query, postID, authorID, text).Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *PostRepository) GetComment(ctx context.Context, commentID int64) (*models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, u.name, c.text, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`
	var comment models.Comment
	err := r.db.QueryRow(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Author,
		&comment.Text,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *PostRepository) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, u.name, c.text, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.id ASC
	`
	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.AuthorID,
			&comment.Author,
			&comment.Text,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *PostRepository) DeleteComment(ctx context.Context, commentID int64) error {
	query := `DELETE FROM comments WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, commentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
