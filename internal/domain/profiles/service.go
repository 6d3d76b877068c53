package profiles

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
	"pet-adoption/internal/ports/objectstore"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("profile not found")
	ErrTooLarge        = errors.New("avatar exceeds size limit")
	ErrUnsupportedType = errors.New("avatar must be an image")
)

const MaxAvatarBytes = 5 << 20 // 5 MiB

type Service struct {
	repo  Repository
	store objectstore.Store
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, store objectstore.Store) *Service {
	return &Service{
		repo:  repo,
		store: store,
		log:   logger.NewNop(),
		now:   time.Now,
	}
}

func (s *Service) SetLogger(l logger.Logger) {
	if l == nil {
		l = logger.NewNop()
	}
	s.log = l.With(map[string]any{"component": "profiles"})
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, userID)
}

// Current devuelve el perfil guardado o, si todavía no existe, uno armado con la sesión.
func (s *Service) Current(ctx context.Context, c auth.Claims) (Profile, error) {
	p, err := s.Get(ctx, c.UserID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}
	return fromClaims(c), nil
}

// Upsert crea o reemplaza el perfil (lo usa el alta de cuentas).
func (s *Service) Upsert(ctx context.Context, p Profile) error {
	p.UserID = strings.TrimSpace(p.UserID)
	p.Nickname = strings.TrimSpace(p.Nickname)
	p.Email = strings.TrimSpace(p.Email)
	if p.UserID == "" || p.Nickname == "" {
		return ErrInvalidInput
	}
	p.UpdatedAt = s.now().UTC()
	return s.repo.Upsert(ctx, p)
}

func (s *Service) UpdateNickname(ctx context.Context, c auth.Claims, nickname string) (Profile, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return Profile{}, ErrInvalidInput
	}
	p, err := s.Current(ctx, c)
	if err != nil {
		return Profile{}, err
	}
	p.Nickname = nickname
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Upsert(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// AvatarURL implementa comments.AvatarLookup.
func (s *Service) AvatarURL(ctx context.Context, userID string) (string, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.AvatarURL, nil
}

// UploadAvatar sube la imagen a profiles/{email}/{filename} y actualiza el perfil.
// Si falla la actualización, borra el objeto nuevo. El avatar anterior se borra
// solo si quedó con otra key (best effort).
func (s *Service) UploadAvatar(ctx context.Context, c auth.Claims, filename string, data []byte) (Profile, error) {
	if strings.TrimSpace(c.UserID) == "" || len(data) == 0 {
		return Profile{}, ErrInvalidInput
	}
	if len(data) > MaxAvatarBytes {
		return Profile{}, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Profile{}, ErrUnsupportedType
	}

	prev, err := s.Current(ctx, c)
	if err != nil {
		return Profile{}, err
	}

	key := AvatarKey(c, filename, mt.Extension())
	if err := s.store.Put(ctx, key, data, mt.String()); err != nil {
		return Profile{}, err
	}

	p := prev
	p.AvatarKey = key
	p.AvatarURL = s.store.PublicURL(key)
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Upsert(ctx, p); err != nil {
		if key != prev.AvatarKey {
			s.removeObject(ctx, key)
		}
		return Profile{}, err
	}

	if prev.AvatarKey != "" && prev.AvatarKey != key {
		s.removeObject(ctx, prev.AvatarKey)
	}
	return p, nil
}

func (s *Service) removeObject(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		s.log.Warn("avatar object cleanup failed", map[string]any{"key": key, "err": err})
	}
}

// AvatarKey arma "profiles/{email}/{filename}". Sin email usa el user id;
// sin nombre de archivo usa "avatar" + la extensión detectada.
func AvatarKey(c auth.Claims, filename, ext string) string {
	owner := strings.TrimSpace(c.Email)
	if owner == "" {
		owner = strings.TrimSpace(c.UserID)
	}

	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		name = "avatar" + ext
	}
	return "profiles/" + owner + "/" + name
}

func fromClaims(c auth.Claims) Profile {
	return Profile{
		UserID:   strings.TrimSpace(c.UserID),
		Email:    strings.TrimSpace(c.Email),
		Nickname: strings.TrimSpace(c.Nickname),
	}
}
