package schools

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name       string
	Location   string
	Headmaster string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (School, error) {
	if !ValidAttributes(in.Name, in.Location, in.Headmaster) {
		return School{}, ErrInvalidInput
	}

	sch := School{
		Name:       in.Name,
		Location:   in.Location,
		Headmaster: in.Headmaster,
		Students:   []int64{},
	}
	return s.repo.Create(ctx, sch)
}

func (s *Service) GetByID(ctx context.Context, id int64) (School, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]School, error) {
	return s.repo.List(ctx)
}

type ReplaceInput struct {
	Name       string
	Location   string
	Headmaster string
}

// Replace reescribe los atributos propios preservando Students: la lista de
// inscritos solo cambia vía enroll/unenroll.
func (s *Service) Replace(ctx context.Context, id int64, in ReplaceInput) (School, error) {
	if !ValidAttributes(in.Name, in.Location, in.Headmaster) {
		return School{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return School{}, err
	}

	current.Name = in.Name
	current.Location = in.Location
	current.Headmaster = in.Headmaster

	if err := s.repo.Update(ctx, current); err != nil {
		return School{}, err
	}
	return current, nil
}
