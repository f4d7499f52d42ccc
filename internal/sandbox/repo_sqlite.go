package sandbox

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLiteRepo stores directory users in a SQLite file.
type SQLiteRepo struct {
	DB  *sql.DB
	Now func() time.Time
}

func (r *SQLiteRepo) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *SQLiteRepo) List(ctx context.Context) ([]Record, error) {
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

func (r *SQLiteRepo) Get(ctx context.Context, id int64) (Record, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+pgSelectColumns+` FROM directory_users WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (r *SQLiteRepo) Create(ctx context.Context, rec Record) (Record, error) {
	now := r.now()
	res, err := r.DB.ExecContext(ctx, `
INSERT INTO directory_users (name, username, email, phone, website, company_name, first_name, last_name, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Name,
		nullableString(rec.Username),
		rec.Email,
		nullableString(rec.Phone),
		nullableString(rec.Website),
		nullableString(rec.CompanyName),
		nullableString(rec.FirstName),
		nullableString(rec.LastName),
		now,
		now,
	)
	if err != nil {
		return Record{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Record{}, err
	}
	rec.ID = id
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return rec, nil
}

func (r *SQLiteRepo) Update(ctx context.Context, rec Record) (Record, error) {
	now := r.now()
	res, err := r.DB.ExecContext(ctx, `
UPDATE directory_users SET
  name = ?,
  username = ?,
  email = ?,
  phone = ?,
  website = ?,
  company_name = ?,
  first_name = ?,
  last_name = ?,
  updated_at = ?
WHERE id = ?`,
		rec.Name,
		nullableString(rec.Username),
		rec.Email,
		nullableString(rec.Phone),
		nullableString(rec.Website),
		nullableString(rec.CompanyName),
		nullableString(rec.FirstName),
		nullableString(rec.LastName),
		now,
		rec.ID,
	)
	if err != nil {
		return Record{}, err
	}
	if err := requireAffected(res); err != nil {
		return Record{}, err
	}
	return r.Get(ctx, rec.ID)
}

func (r *SQLiteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM directory_users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
