package sandbox

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo stores directory users in PostgreSQL.
type PGRepo struct {
	DB *sql.DB
}

const pgSelectColumns = `id, name, username, email, phone, website, company_name, first_name, last_name, created_at, updated_at`

func (r *PGRepo) List(ctx context.Context) ([]Record, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+pgSelectColumns+` FROM directory_users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PGRepo) Get(ctx context.Context, id int64) (Record, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+pgSelectColumns+` FROM directory_users WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (r *PGRepo) Create(ctx context.Context, rec Record) (Record, error) {
	const query = `
INSERT INTO directory_users (name, username, email, phone, website, company_name, first_name, last_name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		rec.Name,
		nullableString(rec.Username),
		rec.Email,
		nullableString(rec.Phone),
		nullableString(rec.Website),
		nullableString(rec.CompanyName),
		nullableString(rec.FirstName),
		nullableString(rec.LastName),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (r *PGRepo) Update(ctx context.Context, rec Record) (Record, error) {
	const query = `
UPDATE directory_users SET
  name = $2,
  username = $3,
  email = $4,
  phone = $5,
  website = $6,
  company_name = $7,
  first_name = $8,
  last_name = $9,
  updated_at = now()
WHERE id = $1
RETURNING created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		rec.ID,
		rec.Name,
		nullableString(rec.Username),
		rec.Email,
		nullableString(rec.Phone),
		nullableString(rec.Website),
		nullableString(rec.CompanyName),
		nullableString(rec.FirstName),
		nullableString(rec.LastName),
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM directory_users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var username, phone, website, company, first, last sql.NullString
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&username,
		&rec.Email,
		&phone,
		&website,
		&company,
		&first,
		&last,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	rec.Username = username.String
	rec.Phone = phone.String
	rec.Website = website.String
	rec.CompanyName = company.String
	rec.FirstName = first.String
	rec.LastName = last.String
	return rec, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
