package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-adoption/internal/domain/comments"
)

type commentRepo struct {
	mu   sync.RWMutex
	byID map[string]comments.Comment
}

func NewCommentsRepo() comments.Repository {
	return &commentRepo{
		byID: make(map[string]comments.Comment),
	}
}

func (r *commentRepo) Create(ctx context.Context, c comments.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("comment id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("comment already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *commentRepo) Update(ctx context.Context, c comments.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; !exists {
		return comments.ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return comments.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (comments.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return comments.Comment{}, comments.ErrNotFound
	}
	return c, nil
}

func (r *commentRepo) ListByPost(ctx context.Context, postID string) ([]comments.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]comments.Comment, 0)
	for _, c := range r.byID {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *commentRepo) DeleteByPost(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.byID {
		if c.PostID == postID {
			delete(r.byID, id)
		}
	}
	return nil
}
