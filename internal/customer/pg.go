package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PG implements Directory on PostgreSQL.
type PG struct {
	db *sql.DB
}

var _ Directory = (*PG)(nil)

// OpenPG opens a pooled connection for the customer directory.
func OpenPG(dsn string) (*PG, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &PG{db: db}, nil
}

// NewPG wraps an existing handle (used by tests and shared pools).
func NewPG(db *sql.DB) *PG { return &PG{db: db} }

func (p *PG) Close() error { return p.db.Close() }

func (p *PG) DB() *sql.DB { return p.db }

const recordColumns = `id, name, email, phone, tier, status, credential_hash,
	last_login, failed_attempts, locked_until, created_at, updated_at`

func (p *PG) Create(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	_, err := p.db.ExecContext(ctx, `
		insert into customers(id, name, email, phone, tier, status, credential_hash)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, rec.ID, rec.Name, rec.Email, rec.Phone, string(rec.Tier), string(rec.Status), rec.CredentialHash)
	return err
}

func (p *PG) Find(ctx context.Context, id string) (Record, error) {
	row := p.db.QueryRowContext(ctx,
		`select `+recordColumns+` from customers where id=$1`, id)
	return scanRecord(row)
}

func (p *PG) Update(ctx context.Context, id string, upd ProfileUpdate) (Record, error) {
	if err := upd.Normalize(); err != nil {
		return Record{}, err
	}
	if upd.Empty() {
		return p.Find(ctx, id)
	}

	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.Tier != nil {
		add("tier", string(*upd.Tier))
	}
	if upd.Status != nil {
		add("status", string(*upd.Status))
	}

	query := `update customers set ` + strings.Join(sets, ", ") +
		` where id=$1 returning ` + recordColumns
	return scanRecord(p.db.QueryRowContext(ctx, query, args...))
}

// RegisterAuthFailure is one statement so the counter increment and lockout
// transition cannot interleave with a concurrent attempt.
func (p *PG) RegisterAuthFailure(ctx context.Context, id string, threshold int, lockFor time.Duration, now time.Time) (Record, error) {
	until := now.Add(lockFor)
	row := p.db.QueryRowContext(ctx, `
		update customers
		set failed_attempts = failed_attempts + 1,
		    locked_until = case when failed_attempts + 1 >= $2 then $3 else locked_until end,
		    updated_at = $4
		where id=$1
		returning `+recordColumns, id, threshold, until, now)
	return scanRecord(row)
}

func (p *PG) RegisterAuthSuccess(ctx context.Context, id string, now time.Time) (Record, error) {
	row := p.db.QueryRowContext(ctx, `
		update customers
		set failed_attempts = 0, locked_until = null, last_login = $2, updated_at = $2
		where id=$1
		returning `+recordColumns, id, now)
	return scanRecord(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec         Record
		tier        string
		status      string
		lastLogin   sql.NullTime
		lockedUntil sql.NullTime
	)
	err := row.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Phone, &tier, &status,
		&rec.CredentialHash, &lastLogin, &rec.FailedAttempts, &lockedUntil,
		&rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	rec.Tier = Tier(tier)
	rec.Status = Status(status)
	if lastLogin.Valid {
		t := lastLogin.Time
		rec.LastLogin = &t
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		rec.LockedUntil = &t
	}
	return rec, nil
}
