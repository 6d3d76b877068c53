package comments

import "context"

type Repository interface {
	Create(ctx context.Context, c Comment) error
	Update(ctx context.Context, c Comment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Comment, error)
	ListByPost(ctx context.Context, postID string) ([]Comment, error)
	DeleteByPost(ctx context.Context, postID string) error
}
