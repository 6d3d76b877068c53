package listing

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidPageSize = errors.New("page size must be greater than zero")
	ErrInvalidPage     = errors.New("page must be a positive integer")
)

// Tamaños de página por vista. Se declaran una sola vez para todas las pantallas.
const (
	PageSizeHome      = 12
	PageSizeCommunity = 10
	PageSizeComments  = 10
	PageSizeMyPage    = 9
	PageSizeDeadline  = 16
)

// Page es la porción visible de una colección junto con los datos
// necesarios para los controles anterior/siguiente.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

func (p Page[T]) HasPrev() bool { return p.Page > 1 }

func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage devuelve 0 si no hay página anterior.
func (p Page[T]) PrevPage() int {
	if !p.HasPrev() {
		return 0
	}
	return p.Page - 1
}

// NextPage devuelve 0 si no hay página siguiente.
func (p Page[T]) NextPage() int {
	if !p.HasNext() {
		return 0
	}
	return p.Page + 1
}

// Bounds calcula firstIndex/lastIndex de una página 1-based.
// page < 1 se trata como 1.
func Bounds(page, pageSize int) (first, last int) {
	if page < 1 {
		page = 1
	}
	first = (page - 1) * pageSize
	last = first + pageSize
	return first, last
}

// TotalPages = ceil(n / pageSize). 0 si no hay items.
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate corta items en la página pedida.
// Una página fuera de rango devuelve un slice vacío, nunca error.
func Paginate[T any](items []T, page, pageSize int) (Page[T], error) {
	if pageSize <= 0 {
		return Page[T]{}, ErrInvalidPageSize
	}
	if page < 1 {
		page = 1
	}

	// Más allá de la última página: sin multiplicar, page puede venir enorme.
	if page-1 > len(items)/pageSize {
		return Page[T]{
			Items:      []T{},
			Page:       page,
			PageSize:   pageSize,
			TotalItems: len(items),
			TotalPages: TotalPages(len(items), pageSize),
		}, nil
	}

	first, last := Bounds(page, pageSize)
	if first > len(items) {
		first = len(items)
	}
	if last > len(items) {
		last = len(items)
	}

	out := make([]T, last-first)
	copy(out, items[first:last])

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(items),
		TotalPages: TotalPages(len(items), pageSize),
	}, nil
}

// ParsePage interpreta el query param "page". Vacío => 1.
func ParsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ErrInvalidPage
	}
	return n, nil
}

// Filterable es lo mínimo que un item necesita exponer para los filtros.
type Filterable interface {
	// FilterDate en formato YYYY-MM-DD (zero-padded).
	FilterDate() string
	FilterLocation() string
	FilterCategory() string
}

// Filter agrupa los predicados. Un campo vacío está inactivo.
type Filter struct {
	BeginDate string `json:"begin,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Location  string `json:"location,omitempty" validate:"max=100"`
	Breed     string `json:"breed,omitempty" validate:"max=50"`
}

func (f Filter) normalized() Filter {
	return Filter{
		BeginDate: strings.TrimSpace(f.BeginDate),
		EndDate:   strings.TrimSpace(f.EndDate),
		Location:  strings.TrimSpace(f.Location),
		Breed:     strings.TrimSpace(f.Breed),
	}
}

// IsZero indica que ningún filtro está activo.
func (f Filter) IsZero() bool {
	return f.normalized() == Filter{}
}

// Key es una huella estable del filtro; el cliente la reenvía para
// detectar cambios de filtro entre requests.
func (f Filter) Key() string {
	n := f.normalized()
	return strings.Join([]string{
		n.BeginDate,
		n.EndDate,
		strings.ToLower(n.Location),
		n.Breed,
	}, "|")
}

// Match aplica todos los predicados activos con AND.
// Las fechas se comparan como strings: YYYY-MM-DD ordena igual que la fecha.
func (f Filter) Match(item Filterable) bool {
	n := f.normalized()

	if n.BeginDate != "" || n.EndDate != "" {
		d := item.FilterDate()
		if n.BeginDate != "" && d < n.BeginDate {
			return false
		}
		if n.EndDate != "" && d > n.EndDate {
			return false
		}
	}

	if n.Location != "" {
		loc := strings.ToLower(item.FilterLocation())
		if !strings.Contains(loc, strings.ToLower(n.Location)) {
			return false
		}
	}

	if n.Breed != "" && item.FilterCategory() != n.Breed {
		return false
	}

	return true
}

// Select devuelve los items que cumplen el filtro, en el orden original.
func Select[T Filterable](items []T, f Filter) []T {
	if f.IsZero() {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Apply = filtrar + paginar. Es lo que usan todas las vistas de listado.
func Apply[T Filterable](items []T, f Filter, page, pageSize int) (Page[T], error) {
	return Paginate(Select(items, f), page, pageSize)
}

// Cursor es el estado de navegación de una vista: filtro actual + página.
type Cursor struct {
	Filter Filter
	Page   int
}

// NewCursor arranca en la página 1.
func NewCursor(f Filter) Cursor {
	return Cursor{Filter: f, Page: 1}
}

// WithFilter reemplaza el filtro. Si cambia cualquier valor, vuelve a la página 1.
func (c Cursor) WithFilter(f Filter) Cursor {
	if f.Key() != c.Filter.Key() {
		return Cursor{Filter: f, Page: 1}
	}
	c.Filter = f
	return c
}

func (c Cursor) WithPage(page int) Cursor {
	if page < 1 {
		page = 1
	}
	c.Page = page
	return c
}

// Resume reconstruye el cursor de un request stateless: si el cliente manda
// la key del filtro anterior y no coincide con el filtro actual, página 1.
func Resume(f Filter, page int, previousKey string) Cursor {
	c := NewCursor(f).WithPage(page)
	if previousKey != "" && previousKey != f.Key() {
		c.Page = 1
	}
	return c
}
