package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"pet-school-registry/internal/domain/pets"
)

// petDoc es la representación persistida: sin id ni self (derivados en lectura).
type petDoc struct {
	Name   string          `json:"name"`
	Breed  string          `json:"breed"`
	Age    int             `json:"age"`
	Owner  string          `json:"owner"`
	School *pets.SchoolRef `json:"school"`
}

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	b, err := json.Marshal(petDoc{
		Name:   p.Name,
		Breed:  p.Breed,
		Age:    p.Age,
		Owner:  p.Owner,
		School: p.School,
	})
	if err != nil {
		return pets.Pet{}, err
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO pets (doc) VALUES ($1::jsonb) RETURNING id
	`, b)
	if err := row.Scan(&p.ID); err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT doc FROM pets WHERE id = $1`, id)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return decodePet(id, raw)
}

func (r *PetsRepo) ListByOwner(ctx context.Context, owner string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, doc FROM pets WHERE doc->>'owner' = $1 ORDER BY id
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		var id int64
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		p, err := decodePet(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	b, err := json.Marshal(petDoc{
		Name:   p.Name,
		Breed:  p.Breed,
		Age:    p.Age,
		Owner:  p.Owner,
		School: p.School,
	})
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `UPDATE pets SET doc = $2::jsonb WHERE id = $1`, p.ID, b)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func decodePet(id int64, raw []byte) (pets.Pet, error) {
	var d petDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return pets.Pet{}, err
	}
	return pets.Pet{
		ID:     id,
		Name:   d.Name,
		Breed:  d.Breed,
		Age:    d.Age,
		Owner:  d.Owner,
		School: d.School,
	}, nil
}
