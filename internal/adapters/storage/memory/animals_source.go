package memory

import (
	"context"
	"sync"

	"pet-adoption/internal/domain/shelter"
)

// AnimalSource es un shelter.Source fijo, para correr sin API key y en tests.
type AnimalSource struct {
	mu    sync.RWMutex
	items []shelter.Animal
}

func NewAnimalSource(items []shelter.Animal) *AnimalSource {
	return &AnimalSource{items: items}
}

func (s *AnimalSource) FetchAnimals(ctx context.Context) ([]shelter.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]shelter.Animal, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *AnimalSource) Replace(items []shelter.Animal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

// SampleAnimals es el lote de dev cuando no hay SHELTER_API_KEY.
func SampleAnimals() []shelter.Animal {
	return []shelter.Animal{
		{
			ID: "41000-2024-00101", IntakeDate: "2024-05-01", NoticeBegin: "2024-05-02", NoticeEnd: "2024-05-12",
			State: "보호중", Species: "[개] 믹스견", Sex: "M", Age: "2023(년생)", Weight: "4.2(Kg)",
			ShelterName: "수원시 동물보호센터", ShelterTel: "031-000-0001", City: "수원시",
			Lat: "37.2636", Lng: "127.0286",
		},
		{
			ID: "41000-2024-00102", IntakeDate: "2024-05-03", NoticeBegin: "2024-05-04", NoticeEnd: "2024-05-14",
			State: "보호중", Species: "[고양이] 코리안숏헤어", Sex: "F", Age: "2024(년생)",
			ShelterName: "용인시 동물보호센터", ShelterTel: "031-000-0002", City: "용인시",
			Lat: "37.2410", Lng: "127.1776",
		},
		{
			ID: "41000-2024-00103", IntakeDate: "2024-05-07", NoticeBegin: "2024-05-08", NoticeEnd: "2024-05-18",
			State: "보호중", Species: "[개] 진돗개", Sex: "F", Age: "2021(년생)",
			ShelterName: "화성시 동물보호센터", ShelterTel: "031-000-0003", City: "화성시",
		},
		{
			ID: "41000-2024-00104", IntakeDate: "2024-05-09", NoticeBegin: "2024-05-10", NoticeEnd: "2024-05-20",
			State: "보호중", Species: "[기타축종] 토끼", Sex: "Q", Age: "2024(년생)",
			ShelterName: "성남시 동물보호센터", ShelterTel: "031-000-0004", City: "성남시",
		},
	}
}
