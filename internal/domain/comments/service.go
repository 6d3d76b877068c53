package comments

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"pet-adoption/internal/domain/posts"
	"pet-adoption/internal/ports/auth"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyContent = errors.New("content is required")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("comment not found")
	ErrPostNotFound = errors.New("post not found")
)

// PostLookup evita depender del servicio de posts completo.
type PostLookup interface {
	Exists(ctx context.Context, postID string) (bool, error)
}

// AvatarLookup resuelve el avatar actual del autor (opcional).
type AvatarLookup interface {
	AvatarURL(ctx context.Context, userID string) (string, error)
}

type Service struct {
	repo    Repository
	posts   PostLookup
	avatars AvatarLookup
	now     func() time.Time
}

func NewService(repo Repository, posts PostLookup) *Service {
	return &Service{
		repo:  repo,
		posts: posts,
		now:   time.Now,
	}
}

func (s *Service) SetAvatarLookup(a AvatarLookup) {
	s.avatars = a
}

func (s *Service) Create(ctx context.Context, author auth.Claims, postID, content string) (Comment, error) {
	authorID := strings.TrimSpace(author.UserID)
	postID = strings.TrimSpace(postID)
	if authorID == "" || postID == "" {
		return Comment{}, ErrInvalidInput
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Comment{}, ErrEmptyContent
	}

	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return Comment{}, err
	}
	if !ok {
		return Comment{}, ErrPostNotFound
	}

	var avatar string
	if s.avatars != nil {
		// sin avatar no es motivo para rechazar el comentario
		avatar, _ = s.avatars.AvatarURL(ctx, authorID)
	}

	now := s.now().UTC()
	c := Comment{
		ID:             uuid.NewString(),
		PostID:         postID,
		Content:        content,
		AuthorID:       authorID,
		AuthorNickname: posts.DisplayName(author),
		AvatarURL:      avatar,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Comment{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Comment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Comment{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListByPost: más viejos primero (orden de conversación).
func (s *Service) ListByPost(ctx context.Context, postID string) ([]Comment, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, ErrInvalidInput
	}
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPostNotFound
	}

	items, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Service) Update(ctx context.Context, id, actorID, content string) (Comment, error) {
	c, err := s.authorized(ctx, id, actorID)
	if err != nil {
		return Comment{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Comment{}, ErrEmptyContent
	}

	c.Content = content
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return Comment{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	c, err := s.authorized(ctx, id, actorID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, c.ID)
}

// DeleteByPost implementa posts.CommentPurger.
func (s *Service) DeleteByPost(ctx context.Context, postID string) error {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteByPost(ctx, postID)
}

func (s *Service) authorized(ctx context.Context, id, actorID string) (Comment, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return Comment{}, ErrInvalidInput
	}
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Comment{}, err
	}
	if c.AuthorID != actorID {
		return Comment{}, ErrForbidden
	}
	return c, nil
}
