package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema crea las tablas si no existen. Cada entidad es un documento
// JSONB por fila con id asignado por la secuencia; el documento nunca guarda
// su propio id ni su locator. Ningún repo usa transacciones: cada write es
// una sola fila, y la consistencia entre documentos la maneja el engine de
// relaciones por protocolo, no el store.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS owners (id BIGSERIAL PRIMARY KEY, doc JSONB NOT NULL)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS owners_identity_idx ON owners ((doc->>'owner_id'))`,
		`CREATE TABLE IF NOT EXISTS pets (id BIGSERIAL PRIMARY KEY, doc JSONB NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS pets_owner_idx ON pets ((doc->>'owner'))`,
		`CREATE TABLE IF NOT EXISTS schools (id BIGSERIAL PRIMARY KEY, doc JSONB NOT NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
