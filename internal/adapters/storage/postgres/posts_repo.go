package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-adoption/internal/domain/posts"
)

type PostsRepo struct {
	db *sql.DB
}

func NewPostsRepo(db *sql.DB) *PostsRepo {
	return &PostsRepo{db: db}
}

const postColumns = `id, title, content, author_id, author_email, author_nickname, created_at, updated_at`

func (r *PostsRepo) Create(ctx context.Context, p posts.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		p.ID,
		p.Title,
		p.Content,
		p.AuthorID,
		p.AuthorEmail,
		p.AuthorNickname,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PostsRepo) Update(ctx context.Context, p posts.Post) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET
			title = $2,
			content = $3,
			updated_at = $4
		WHERE id = $1
	`,
		p.ID,
		p.Title,
		p.Content,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return posts.ErrNotFound
	}
	return nil
}

func (r *PostsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return posts.ErrNotFound
	}
	return nil
}

func (r *PostsRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return posts.Post{}, posts.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return posts.Post{}, posts.ErrNotFound
		}
		return posts.Post{}, err
	}
	return p, nil
}

func (r *PostsRepo) List(ctx context.Context) ([]posts.Post, error) {
	return r.query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
}

func (r *PostsRepo) ListByAuthor(ctx context.Context, authorID string) ([]posts.Post, error) {
	return r.query(ctx, `SELECT `+postColumns+` FROM posts WHERE author_id = $1 ORDER BY created_at DESC`, authorID)
}

func (r *PostsRepo) query(ctx context.Context, q string, args ...any) ([]posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]posts.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (posts.Post, error) {
	var p posts.Post
	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.AuthorID,
		&p.AuthorEmail,
		&p.AuthorNickname,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
