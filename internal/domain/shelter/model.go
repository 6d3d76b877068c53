package shelter

import "strings"

// Animal es un registro de animal en custodia reportado por el gobierno.
// Es de solo lectura: la app nunca lo modifica.
type Animal struct {
	ID       string // ABDM_IDNTFY_NO
	NoticeID string // PBLANC_IDNTFY_NO

	// Fechas ya formateadas YYYY-MM-DD.
	IntakeDate  string
	NoticeBegin string
	NoticeEnd   string

	State    string
	Species  string // p.ej. "[개] 믹스견"
	Sex      string
	Age      string
	Weight   string
	Color    string
	Neutered string
	Features string

	DiscoveryPlace string
	ShelterName    string
	ShelterTel     string
	ShelterAddr    string
	ProtectPlace   string
	City           string // SIGUN_NM

	Lat string
	Lng string

	ImageURL string
	ThumbURL string
}

// Category devuelve el prefijo de especie hasta "]" inclusive ("[개]", "[고양이]").
// Si no hay corchete, devuelve la especie completa.
func (a Animal) Category() string {
	return CategoryOf(a.Species)
}

func CategoryOf(species string) string {
	species = strings.TrimSpace(species)
	i := strings.Index(species, "]")
	if i < 0 {
		return species
	}
	return species[:i+1]
}

func (a Animal) FilterDate() string     { return a.IntakeDate }
func (a Animal) FilterLocation() string { return a.City }
func (a Animal) FilterCategory() string { return a.Category() }

// Annotated agrega el flag derivado de favorito; se calcula por request.
type Annotated struct {
	Animal
	IsFavorite bool
}

// FormatDate convierte YYYYMMDD a YYYY-MM-DD.
// Cualquier otra cosa se devuelve tal cual.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) != 8 {
		return s
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}
	return s[0:4] + "-" + s[4:6] + "-" + s[6:8]
}
