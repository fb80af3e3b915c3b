package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"pet-school-registry/internal/domain/schools"
)

type schoolDoc struct {
	Name       string  `json:"name"`
	Location   string  `json:"location"`
	Headmaster string  `json:"headmaster"`
	Students   []int64 `json:"students"`
}

type SchoolsRepo struct {
	db *sql.DB
}

func NewSchoolsRepo(db *sql.DB) *SchoolsRepo {
	return &SchoolsRepo{db: db}
}

func (r *SchoolsRepo) Create(ctx context.Context, sch schools.School) (schools.School, error) {
	b, err := json.Marshal(toSchoolDoc(sch))
	if err != nil {
		return schools.School{}, err
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO schools (doc) VALUES ($1::jsonb) RETURNING id
	`, b)
	if err := row.Scan(&sch.ID); err != nil {
		return schools.School{}, err
	}
	return sch, nil
}

func (r *SchoolsRepo) GetByID(ctx context.Context, id int64) (schools.School, error) {
	row := r.db.QueryRowContext(ctx, `SELECT doc FROM schools WHERE id = $1`, id)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return schools.School{}, schools.ErrNotFound
		}
		return schools.School{}, err
	}
	return decodeSchool(id, raw)
}

func (r *SchoolsRepo) List(ctx context.Context) ([]schools.School, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, doc FROM schools ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schools.School, 0)
	for rows.Next() {
		var id int64
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		sch, err := decodeSchool(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, sch)
	}
	return out, rows.Err()
}

func (r *SchoolsRepo) Update(ctx context.Context, sch schools.School) error {
	b, err := json.Marshal(toSchoolDoc(sch))
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `UPDATE schools SET doc = $2::jsonb WHERE id = $1`, sch.ID, b)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schools.ErrNotFound
	}
	return nil
}

func (r *SchoolsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schools WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schools.ErrNotFound
	}
	return nil
}

func toSchoolDoc(sch schools.School) schoolDoc {
	return schoolDoc{
		Name:       sch.Name,
		Location:   sch.Location,
		Headmaster: sch.Headmaster,
		Students:   sch.Students,
	}
}

func decodeSchool(id int64, raw []byte) (schools.School, error) {
	var d schoolDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return schools.School{}, err
	}
	if d.Students == nil {
		d.Students = []int64{}
	}
	return schools.School{
		ID:         id,
		Name:       d.Name,
		Location:   d.Location,
		Headmaster: d.Headmaster,
		Students:   d.Students,
	}, nil
}
