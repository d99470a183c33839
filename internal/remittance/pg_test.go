package remittance

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

var detailCols = []string{
	"reference", "customer_id", "amount_minor", "fees_minor", "currency",
	"sender", "recipient", "recipient_bank", "recipient_country", "status",
	"type", "purpose", "initiated_at", "processed_at", "completed_at", "failure_reason",
}

func TestPGByReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	initiated := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`select .+ from remittances where reference = \$1 and customer_id = \$2`).
		WithArgs("REF123456", "CUST001").
		WillReturnRows(sqlmock.NewRows(detailCols).AddRow(
			"REF123456", "CUST001", int64(500000), int64(4500), "USD",
			"John Doe", "Anita Doe", "HDFC Bank", "India", "completed",
			"international", "family support", initiated, nil, nil, nil,
		))

	store := NewPG(db)
	d, err := store.ByReference(context.Background(), "ref123456", "CUST001")
	if err != nil {
		t.Fatalf("ByReference: %v", err)
	}
	if d.Status != StatusCompleted || d.AmountMinor != 500000 {
		t.Fatalf("unexpected details: %+v", d)
	}
	if d.ProcessedAt != nil || d.CompletedAt != nil || d.FailureReason != "" {
		t.Fatalf("null columns should stay zero: %+v", d)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGByReferenceNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`select .+ from remittances where reference = \$1`).
		WithArgs("REF000000").
		WillReturnRows(sqlmock.NewRows(detailCols))

	store := NewPG(db)
	if _, err := store.ByReference(context.Background(), "REF000000", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGForCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	initiated := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	processed := initiated.Add(2 * time.Hour)
	mock.ExpectQuery(`select .+ from remittances\s+where customer_id = \$1 order by initiated_at desc limit \$2`).
		WithArgs("CUST001", 10).
		WillReturnRows(sqlmock.NewRows(detailCols).
			AddRow("REF789012", "CUST001", int64(1250000), int64(9000), "USD",
				"John Doe", "Doe Holdings Ltd", "Standard Chartered", "Singapore",
				"processing", "wire_transfer", "business payment", initiated, processed, nil, nil).
			AddRow("REF123456", "CUST001", int64(500000), int64(4500), "USD",
				"John Doe", "Anita Doe", "HDFC Bank", "India",
				"completed", "international", "family support", initiated.Add(-42*time.Hour), nil, nil, nil))

	store := NewPG(db)
	list, err := store.ForCustomer(context.Background(), "CUST001", 0)
	if err != nil {
		t.Fatalf("ForCustomer: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ProcessedAt == nil || !list[0].ProcessedAt.Equal(processed) {
		t.Fatalf("processed_at not scanned: %+v", list[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`select status, count\(\*\), coalesce\(sum\(amount_minor\), 0\)`).
		WithArgs("CUST001").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "sum"}).
			AddRow("completed", 3, int64(1_200_000)).
			AddRow("failed", 1, int64(80_000)))
	mock.ExpectQuery(`select count\(\*\) from remittances where customer_id = \$1 and initiated_at >= \$2`).
		WithArgs("CUST001", now.Add(-recentWindow)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	store := NewPG(db)
	sum, err := store.Summary(context.Background(), "CUST001", now)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.ByStatus[StatusCompleted].Count != 3 || sum.ByStatus[StatusFailed].AmountMinor != 80_000 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.TotalAmountMinor != 1_280_000 || sum.RecentCount != 2 {
		t.Fatalf("totals wrong: %+v", sum)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
