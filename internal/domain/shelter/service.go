package shelter

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"pet-adoption/internal/domain/listing"
)

var (
	ErrNotFound     = errors.New("animal not found")
	ErrInvalidInput = errors.New("invalid input")
)

// DeadlineWindowDays: cuántos días hacia adelante cuenta como "poco tiempo de aviso".
const DeadlineWindowDays = 10

const kakaoDirectionsBase = "https://map.kakao.com/link/to/"

type Service struct {
	src Source
	now func() time.Time
}

func NewService(src Source) *Service {
	return &Service{
		src: src,
		now: time.Now,
	}
}

func (s *Service) All(ctx context.Context) ([]Animal, error) {
	return s.src.FetchAnimals(ctx)
}

// List trae el lote, anota favoritos, filtra y pagina.
func (s *Service) List(ctx context.Context, cur listing.Cursor, pageSize int, favorites map[string]bool) (listing.Page[Annotated], error) {
	items, err := s.src.FetchAnimals(ctx)
	if err != nil {
		return listing.Page[Annotated]{}, err
	}
	return listing.Apply(Annotate(items, favorites), cur.Filter, cur.Page, pageSize)
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	items, err := s.src.FetchAnimals(ctx)
	if err != nil {
		return Animal{}, err
	}
	for _, a := range items {
		if a.ID == id {
			return a, nil
		}
	}
	return Animal{}, ErrNotFound
}

// ByIDs devuelve los registros cuyos IDs están en ids, en el orden del origen.
// IDs que ya no aparecen en el lote se ignoran.
func (s *Service) ByIDs(ctx context.Context, ids map[string]bool) ([]Animal, error) {
	items, err := s.src.FetchAnimals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Animal, 0, len(ids))
	for _, a := range items {
		if ids[a.ID] {
			out = append(out, a)
		}
	}
	return out, nil
}

// NearingDeadline: avisos que vencen entre hoy y hoy+DeadlineWindowDays.
func (s *Service) NearingDeadline(ctx context.Context) ([]Animal, error) {
	items, err := s.src.FetchAnimals(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := now.Format("2006-01-02")
	limit := now.AddDate(0, 0, DeadlineWindowDays).Format("2006-01-02")

	out := make([]Animal, 0)
	for _, a := range items {
		if a.NoticeEnd == "" {
			continue
		}
		if a.NoticeEnd >= today && a.NoticeEnd <= limit {
			out = append(out, a)
		}
	}

	// El que vence antes primero
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NoticeEnd < out[j].NoticeEnd
	})
	return out, nil
}

// Categories lista las categorías de especie presentes en el lote.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	items, err := s.src.FetchAnimals(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, a := range items {
		c := a.Category()
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// Annotate marca IsFavorite según el set de IDs del usuario (puede ser nil).
func Annotate(items []Animal, favorites map[string]bool) []Annotated {
	out := make([]Annotated, 0, len(items))
	for _, a := range items {
		out = append(out, Annotated{Animal: a, IsFavorite: favorites[a.ID]})
	}
	return out
}

// DirectionsURL arma el link de "cómo llegar" de Kakao Map hacia el refugio.
// Sin coordenadas devuelve "".
func DirectionsURL(a Animal) string {
	if strings.TrimSpace(a.Lat) == "" || strings.TrimSpace(a.Lng) == "" {
		return ""
	}
	parts := []string{
		url.PathEscape(strings.TrimSpace(a.ShelterName)),
		url.PathEscape(strings.TrimSpace(a.Lat)),
		url.PathEscape(strings.TrimSpace(a.Lng)),
	}
	return kakaoDirectionsBase + strings.Join(parts, ",")
}
