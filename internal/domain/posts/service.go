package posts

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyTitle   = errors.New("title is required")
	ErrEmptyContent = errors.New("content is required")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("post not found")
)

// CommentPurger evita importar el paquete comments (rompe ciclos).
type CommentPurger interface {
	DeleteByPost(ctx context.Context, postID string) error
}

type Service struct {
	repo     Repository
	comments CommentPurger
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		log:  logger.NewNop(),
		now:  time.Now,
	}
}

func (s *Service) SetLogger(l logger.Logger) {
	if l == nil {
		l = logger.NewNop()
	}
	s.log = l.With(map[string]any{"component": "posts"})
}

// SetCommentPurger se llama desde el router una vez creado el servicio de comentarios.
func (s *Service) SetCommentPurger(c CommentPurger) {
	s.comments = c
}

type CreateInput struct {
	Title   string
	Content string
}

func (s *Service) Create(ctx context.Context, author auth.Claims, in CreateInput) (Post, error) {
	authorID := strings.TrimSpace(author.UserID)
	if authorID == "" {
		return Post{}, ErrInvalidInput
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Post{}, ErrEmptyTitle
	}
	if IsBlankHTML(in.Content) {
		return Post{}, ErrEmptyContent
	}

	now := s.now().UTC()
	p := Post{
		ID:             uuid.NewString(),
		Title:          title,
		Content:        in.Content,
		AuthorID:       authorID,
		AuthorEmail:    strings.TrimSpace(author.Email),
		AuthorNickname: DisplayName(author),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Post{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Post{}, ErrNotFound
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Post{}, err
	}
	return p, nil
}

// Exists implementa comments.PostLookup.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// List: más nuevos primero.
func (s *Service) List(ctx context.Context) ([]Post, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *Service) ListByAuthor(ctx context.Context, authorID string) ([]Post, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

// UpdateInput usa punteros: nil = no tocar.
type UpdateInput struct {
	Title   *string
	Content *string
}

// Update: solo el autor. Sin control de versiones, gana la última escritura.
func (s *Service) Update(ctx context.Context, id, actorID string, in UpdateInput) (Post, error) {
	p, err := s.authorized(ctx, id, actorID)
	if err != nil {
		return Post{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Post{}, ErrEmptyTitle
		}
		p.Title = title
	}
	if in.Content != nil {
		if IsBlankHTML(*in.Content) {
			return Post{}, ErrEmptyContent
		}
		p.Content = *in.Content
	}

	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// Delete: solo el autor. Los comentarios se borran después (best effort).
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	p, err := s.authorized(ctx, id, actorID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return err
	}
	if s.comments != nil {
		if err := s.comments.DeleteByPost(ctx, p.ID); err != nil {
			s.log.Warn("comment purge failed", map[string]any{"post_id": p.ID, "err": err})
		}
	}
	return nil
}

func (s *Service) authorized(ctx context.Context, id, actorID string) (Post, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return Post{}, ErrInvalidInput
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if p.AuthorID != actorID {
		return Post{}, ErrForbidden
	}
	return p, nil
}

// DisplayName: nickname de la sesión o, si falta, la parte local del email.
func DisplayName(c auth.Claims) string {
	if n := strings.TrimSpace(c.Nickname); n != "" {
		return n
	}
	email := strings.TrimSpace(c.Email)
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

func sortNewestFirst(items []Post) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
