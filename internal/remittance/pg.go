package remittance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PG is a Service backed by PostgreSQL.
type PG struct {
	db *sql.DB
}

var _ Service = (*PG)(nil)

// NewPG wraps an existing connection pool.
func NewPG(db *sql.DB) *PG {
	return &PG{db: db}
}

const detailColumns = `reference, customer_id, amount_minor, fees_minor, currency,
sender, recipient, recipient_bank, recipient_country, status, type, purpose,
initiated_at, processed_at, completed_at, failure_reason`

func (p *PG) ByReference(ctx context.Context, reference, customerID string) (Details, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	query := `select ` + detailColumns + ` from remittances where reference = $1`
	args := []any{reference}
	if customerID != "" {
		query += ` and customer_id = $2`
		args = append(args, customerID)
	}
	d, err := scanDetails(p.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Details{}, ErrNotFound
		}
		return Details{}, fmt.Errorf("remittance: query by reference: %w", err)
	}
	return d, nil
}

func (p *PG) ForCustomer(ctx context.Context, customerID string, limit int) ([]Details, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := p.db.QueryContext(ctx,
		`select `+detailColumns+` from remittances
		 where customer_id = $1 order by initiated_at desc limit $2`,
		customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("remittance: query for customer: %w", err)
	}
	defer rows.Close()

	var out []Details
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("remittance: scan row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("remittance: iterate rows: %w", err)
	}
	return out, nil
}

func (p *PG) Summary(ctx context.Context, customerID string, now time.Time) (StatusSummary, error) {
	rows, err := p.db.QueryContext(ctx,
		`select status, count(*), coalesce(sum(amount_minor), 0)
		 from remittances where customer_id = $1 group by status`,
		customerID)
	if err != nil {
		return StatusSummary{}, fmt.Errorf("remittance: query summary: %w", err)
	}
	defer rows.Close()

	sum := StatusSummary{ByStatus: make(map[Status]StatusBucket)}
	for rows.Next() {
		var status string
		var bucket StatusBucket
		if err := rows.Scan(&status, &bucket.Count, &bucket.AmountMinor); err != nil {
			return StatusSummary{}, fmt.Errorf("remittance: scan summary: %w", err)
		}
		sum.ByStatus[Status(status)] = bucket
		sum.TotalAmountMinor += bucket.AmountMinor
	}
	if err := rows.Err(); err != nil {
		return StatusSummary{}, fmt.Errorf("remittance: iterate summary: %w", err)
	}

	err = p.db.QueryRowContext(ctx,
		`select count(*) from remittances where customer_id = $1 and initiated_at >= $2`,
		customerID, now.Add(-recentWindow)).Scan(&sum.RecentCount)
	if err != nil {
		return StatusSummary{}, fmt.Errorf("remittance: count recent: %w", err)
	}
	return sum, nil
}

// Create inserts a remittance record. Used by seeding and tooling.
func (p *PG) Create(ctx context.Context, d Details) error {
	_, err := p.db.ExecContext(ctx,
		`insert into remittances (`+detailColumns+`)
		 values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		strings.ToUpper(d.Reference), d.CustomerID, d.AmountMinor, d.FeesMinor, d.Currency,
		d.Sender, d.Recipient, d.RecipientBank, d.RecipientCountry,
		string(d.Status), string(d.Type), d.Purpose,
		d.InitiatedAt, d.ProcessedAt, d.CompletedAt, nullableString(d.FailureReason))
	if err != nil {
		return fmt.Errorf("remittance: insert: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDetails(row rowScanner) (Details, error) {
	var d Details
	var processed, completed sql.NullTime
	var failure sql.NullString
	err := row.Scan(
		&d.Reference, &d.CustomerID, &d.AmountMinor, &d.FeesMinor, &d.Currency,
		&d.Sender, &d.Recipient, &d.RecipientBank, &d.RecipientCountry,
		&d.Status, &d.Type, &d.Purpose,
		&d.InitiatedAt, &processed, &completed, &failure,
	)
	if err != nil {
		return Details{}, err
	}
	if processed.Valid {
		t := processed.Time
		d.ProcessedAt = &t
	}
	if completed.Valid {
		t := completed.Time
		d.CompletedAt = &t
	}
	if failure.Valid {
		d.FailureReason = failure.String
	}
	return d, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
