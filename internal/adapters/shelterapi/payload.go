package shelterapi

import (
	"bytes"
	"encoding/json"
	"strings"

	"pet-adoption/internal/domain/shelter"
)

type envelope struct {
	Sections []section `json:"AbdmAnimalProtect"`

	// Errores globales (key inválida, sin datos) vienen sin el array.
	Result *result `json:"RESULT"`
}

type section struct {
	Head []headItem `json:"head"`
	Row  []row      `json:"row"`
}

type headItem struct {
	ListTotalCount int     `json:"list_total_count"`
	Result         *result `json:"RESULT"`
}

type result struct {
	Code    string `json:"CODE"`
	Message string `json:"MESSAGE"`
}

type row struct {
	AbdmIdntfyNo    text `json:"ABDM_IDNTFY_NO"`
	PblancIdntfyNo  text `json:"PBLANC_IDNTFY_NO"`
	ReceptDe        text `json:"RECEPT_DE"`
	PblancBeginDe   text `json:"PBLANC_BEGIN_DE"`
	PblancEndDe     text `json:"PBLANC_END_DE"`
	StateNm         text `json:"STATE_NM"`
	SpeciesNm       text `json:"SPECIES_NM"`
	SexNm           text `json:"SEX_NM"`
	AgeInfo         text `json:"AGE_INFO"`
	BdwghInfo       text `json:"BDWGH_INFO"`
	ColorNm         text `json:"COLOR_NM"`
	NeutYn          text `json:"NEUT_YN"`
	SfetrInfo       text `json:"SFETR_INFO"`
	DiscvryPlcInfo  text `json:"DISCVRY_PLC_INFO"`
	ShterNm         text `json:"SHTER_NM"`
	ShterTelno      text `json:"SHTER_TELNO"`
	RefineRoadnmAdr text `json:"REFINE_ROADNM_ADDR"`
	ProtectPlc      text `json:"PROTECT_PLC"`
	SigunNm         text `json:"SIGUN_NM"`
	Lat             text `json:"REFINE_WGS84_LAT"`
	Lng             text `json:"REFINE_WGS84_LOGT"`
	ImageCours      text `json:"IMAGE_COURS"`
	ThumbImageCours text `json:"THUMB_IMAGE_COURS"`
}

// text acepta string, número o null (la API no es consistente con las coordenadas).
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = text(n.String())
	return nil
}

func (r row) toAnimal() shelter.Animal {
	return shelter.Animal{
		ID:             string(r.AbdmIdntfyNo),
		NoticeID:       string(r.PblancIdntfyNo),
		IntakeDate:     shelter.FormatDate(string(r.ReceptDe)),
		NoticeBegin:    shelter.FormatDate(string(r.PblancBeginDe)),
		NoticeEnd:      shelter.FormatDate(string(r.PblancEndDe)),
		State:          string(r.StateNm),
		Species:        string(r.SpeciesNm),
		Sex:            string(r.SexNm),
		Age:            string(r.AgeInfo),
		Weight:         string(r.BdwghInfo),
		Color:          string(r.ColorNm),
		Neutered:       string(r.NeutYn),
		Features:       string(r.SfetrInfo),
		DiscoveryPlace: string(r.DiscvryPlcInfo),
		ShelterName:    string(r.ShterNm),
		ShelterTel:     string(r.ShterTelno),
		ShelterAddr:    string(r.RefineRoadnmAdr),
		ProtectPlace:   string(r.ProtectPlc),
		City:           string(r.SigunNm),
		Lat:            string(r.Lat),
		Lng:            string(r.Lng),
		ImageURL:       string(r.ImageCours),
		ThumbURL:       string(r.ThumbImageCours),
	}
}
