package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"pet-school-registry/internal/domain/owners"
)

type ownerDoc struct {
	OwnerID string  `json:"owner_id"`
	Pets    []int64 `json:"pets"`
}

type OwnersRepo struct {
	db *sql.DB
}

func NewOwnersRepo(db *sql.DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

// GetOrCreateByIdentity es atómico para el caller: el insert apoya en el
// índice único sobre doc->>'owner_id' y pierde en silencio si otro request
// creó al dueño primero.
func (r *OwnersRepo) GetOrCreateByIdentity(ctx context.Context, ownerID string) (owners.Owner, error) {
	b, err := json.Marshal(ownerDoc{OwnerID: ownerID, Pets: []int64{}})
	if err != nil {
		return owners.Owner{}, err
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO owners (doc) VALUES ($1::jsonb)
		ON CONFLICT ((doc->>'owner_id')) DO NOTHING
	`, b); err != nil {
		return owners.Owner{}, err
	}

	return r.GetByIdentity(ctx, ownerID)
}

func (r *OwnersRepo) GetByIdentity(ctx context.Context, ownerID string) (owners.Owner, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, doc FROM owners WHERE doc->>'owner_id' = $1
	`, ownerID)

	var id int64
	var raw []byte
	if err := row.Scan(&id, &raw); err != nil {
		if err == sql.ErrNoRows {
			return owners.Owner{}, owners.ErrNotFound
		}
		return owners.Owner{}, err
	}
	return decodeOwner(id, raw)
}

func (r *OwnersRepo) List(ctx context.Context) ([]owners.Owner, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, doc FROM owners ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]owners.Owner, 0)
	for rows.Next() {
		var id int64
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		o, err := decodeOwner(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OwnersRepo) Update(ctx context.Context, o owners.Owner) error {
	b, err := json.Marshal(ownerDoc{OwnerID: o.OwnerID, Pets: o.Pets})
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE owners SET doc = $2::jsonb WHERE doc->>'owner_id' = $1
	`, o.OwnerID, b)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return owners.ErrNotFound
	}
	return nil
}

func decodeOwner(id int64, raw []byte) (owners.Owner, error) {
	var d ownerDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return owners.Owner{}, err
	}
	if d.Pets == nil {
		d.Pets = []int64{}
	}
	return owners.Owner{ID: id, OwnerID: d.OwnerID, Pets: d.Pets}, nil
}
