package pets

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// Sentinelas de inscripción. Viven acá y no en relations para evitar
	// ciclos de imports entre módulos (pets <-> relations).
	ErrAlreadyEnrolled = errors.New("pet already enrolled")
	ErrNotEnrolled     = errors.New("pet not enrolled at this school")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id int64) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, owner string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// AttributesInput son los atributos propios de la mascota (sin owner ni
// school). Lo comparten Replace y el registro vía el engine de relaciones.
type AttributesInput struct {
	Name  string
	Breed string
	Age   int
}

// Replace reescribe los atributos propios de la mascota preservando owner y
// school: esos dos solo cambian vía los protocolos de relación, nunca por acá.
func (s *Service) Replace(ctx context.Context, id int64, in AttributesInput) (Pet, error) {
	if !ValidAttributes(in.Name, in.Breed, in.Age) {
		return Pet{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	current.Name = in.Name
	current.Breed = in.Breed
	current.Age = in.Age

	if err := s.repo.Update(ctx, current); err != nil {
		return Pet{}, err
	}
	return current, nil
}
