package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-adoption/internal/domain/comments"
)

type CommentsRepo struct {
	db *sql.DB
}

func NewCommentsRepo(db *sql.DB) *CommentsRepo {
	return &CommentsRepo{db: db}
}

const commentColumns = `id, post_id, content, author_id, author_nickname, avatar_url, created_at, updated_at`

func (r *CommentsRepo) Create(ctx context.Context, c comments.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (`+commentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		c.ID,
		c.PostID,
		c.Content,
		c.AuthorID,
		c.AuthorNickname,
		c.AvatarURL,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *CommentsRepo) Update(ctx context.Context, c comments.Comment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE comments
		SET content = $2, updated_at = $3
		WHERE id = $1
	`, c.ID, c.Content, c.UpdatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return comments.ErrNotFound
	}
	return nil
}

func (r *CommentsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return comments.ErrNotFound
	}
	return nil
}

func (r *CommentsRepo) GetByID(ctx context.Context, id string) (comments.Comment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return comments.Comment{}, comments.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return comments.Comment{}, comments.ErrNotFound
		}
		return comments.Comment{}, err
	}
	return c, nil
}

func (r *CommentsRepo) ListByPost(ctx context.Context, postID string) ([]comments.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]comments.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteByPost es redundante con el ON DELETE CASCADE, pero el servicio lo llama igual.
func (r *CommentsRepo) DeleteByPost(ctx context.Context, postID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, postID)
	return err
}

func scanComment(s scanner) (comments.Comment, error) {
	var c comments.Comment
	err := s.Scan(
		&c.ID,
		&c.PostID,
		&c.Content,
		&c.AuthorID,
		&c.AuthorNickname,
		&c.AvatarURL,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
