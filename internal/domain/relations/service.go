// Package relations mantiene los vínculos bidireccionales entre documentos
// (owner.pets ↔ pet.owner, school.students ↔ pet.school) sobre un store sin
// transacciones multi-documento. Cada mutación es un protocolo de pasos
// ordenados: cada paso es un write atómico de UN documento, el siguiente solo
// se emite cuando el anterior fue confirmado, y no hay rollback de pasos ya
// completados. Re-ejecutar un protocolo interrumpido es seguro: los appends
// chequean presencia y los removes filtran por valor (quitar un ID ausente es
// no-op).
package relations

import (
	"context"
	"errors"

	"pet-school-registry/internal/domain/owners"
	"pet-school-registry/internal/domain/pets"
	"pet-school-registry/internal/domain/schools"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	owners  owners.Repository
	pets    pets.Repository
	schools schools.Repository
}

func NewService(ownerRepo owners.Repository, petRepo pets.Repository, schoolRepo schools.Repository) *Service {
	return &Service{
		owners:  ownerRepo,
		pets:    petRepo,
		schools: schoolRepo,
	}
}

// RegisterPet crea la mascota y la vincula a su dueño:
//  1. write del documento pet (owner seteado, school ausente)
//  2. get-or-create del documento owner
//  3. append del ID a owner.pets (con chequeo de presencia)
//  4. write del documento owner
//
// Entre (1) y (4) el invariante owner↔pet está transitoriamente roto; si (4)
// nunca llega, queda una mascota válida pero huérfana que el listado del dueño
// omite. Staleness tolerada, no corrupción.
func (s *Service) RegisterPet(ctx context.Context, ownerID string, in pets.AttributesInput) (pets.Pet, error) {
	if ownerID == "" {
		return pets.Pet{}, ErrInvalidInput
	}
	if !pets.ValidAttributes(in.Name, in.Breed, in.Age) {
		return pets.Pet{}, pets.ErrInvalidInput
	}

	created, err := s.pets.Create(ctx, pets.Pet{
		Name:  in.Name,
		Breed: in.Breed,
		Age:   in.Age,
		Owner: ownerID,
	})
	if err != nil {
		return pets.Pet{}, err
	}

	o, err := s.owners.GetOrCreateByIdentity(ctx, ownerID)
	if err != nil {
		return pets.Pet{}, err
	}

	o.Pets = appendID(o.Pets, created.ID)
	if err := s.owners.Update(ctx, o); err != nil {
		return pets.Pet{}, err
	}

	return created, nil
}

// RemovePet borra la mascota desvinculándola primero. El delete del documento
// pet va al final: si el proceso se interrumpe antes, la mascota sigue
// existiendo y un retry es idempotente.
func (s *Service) RemovePet(ctx context.Context, petID int64) error {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return err
	}

	o, err := s.owners.GetByIdentity(ctx, p.Owner)
	if err == nil {
		o.Pets = removeID(o.Pets, petID)
		if err := s.owners.Update(ctx, o); err != nil {
			return err
		}
	} else if !errors.Is(err, owners.ErrNotFound) {
		return err
	}

	if p.School != nil {
		if err := s.unenroll(ctx, p, p.School.ID); err != nil {
			return err
		}
	}

	return s.pets.Delete(ctx, petID)
}

// Enroll inscribe la mascota en la escuela. Precondición: sin escuela actual.
// Orden de writes: pet primero, school después. El nombre de la escuela se
// copia como snapshot para no hacer join en cada lectura de la mascota.
func (s *Service) Enroll(ctx context.Context, petID, schoolID int64) error {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	if p.School != nil {
		// A lo más una escuela por mascota; una segunda inscripción se
		// rechaza, no se encola.
		return pets.ErrAlreadyEnrolled
	}

	sch, err := s.schools.GetByID(ctx, schoolID)
	if err != nil {
		return err
	}

	p.School = &pets.SchoolRef{ID: sch.ID, Name: sch.Name}
	if err := s.pets.Update(ctx, p); err != nil {
		return err
	}

	sch.Students = appendID(sch.Students, p.ID)
	return s.schools.Update(ctx, sch)
}

// Unenroll saca a la mascota de la escuela indicada. Falla con ErrNotEnrolled
// si la mascota no está inscrita exactamente ahí.
func (s *Service) Unenroll(ctx context.Context, petID, schoolID int64) error {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	if _, err := s.schools.GetByID(ctx, schoolID); err != nil {
		return err
	}
	if p.School == nil || p.School.ID != schoolID {
		return pets.ErrNotEnrolled
	}
	return s.unenroll(ctx, p, schoolID)
}

// RemoveSchool borra la escuela desinscribiendo antes a cada alumno (clear de
// pet.school, un write por mascota). El orden de iteración no importa: cada
// unenroll es independiente e idempotente. El delete del documento school va
// al final.
func (s *Service) RemoveSchool(ctx context.Context, schoolID int64) error {
	sch, err := s.schools.GetByID(ctx, schoolID)
	if err != nil {
		return err
	}

	for _, pid := range sch.Students {
		p, err := s.pets.GetByID(ctx, pid)
		if errors.Is(err, pets.ErrNotFound) {
			// entrada stale en la lista; nada que limpiar
			continue
		}
		if err != nil {
			return err
		}
		p.School = nil
		if err := s.pets.Update(ctx, p); err != nil {
			return err
		}
	}

	return s.schools.Delete(ctx, schoolID)
}

// unenroll ejecuta los dos writes del protocolo: clear de pet.school primero,
// filtro de school.students después.
func (s *Service) unenroll(ctx context.Context, p pets.Pet, schoolID int64) error {
	p.School = nil
	if err := s.pets.Update(ctx, p); err != nil {
		return err
	}

	sch, err := s.schools.GetByID(ctx, schoolID)
	if errors.Is(err, schools.ErrNotFound) {
		// la escuela ya no existe; no queda lista que filtrar
		return nil
	}
	if err != nil {
		return err
	}

	sch.Students = removeID(sch.Students, p.ID)
	return s.schools.Update(ctx, sch)
}

// appendID agrega el ID solo si no está presente (re-ejecutar un paso tras un
// crash no debe duplicar).
func appendID(ids []int64, id int64) []int64 {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

// removeID filtra por valor, no por índice; quitar un ID ausente es no-op.
func removeID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
