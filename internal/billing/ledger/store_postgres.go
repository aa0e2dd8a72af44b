package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"entitle/internal/billing/models"
)

// PostgresStore persists the ledger in PostgreSQL. Insertion order is the
// serial primary key order.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed ledger store. The schema
// lives in schema.sql next to this file.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Add(ctx context.Context, t models.Transaction) error {
	query := `
		INSERT INTO billing_transactions
			(order_id, product_id, developer_payload, notification_id, purchase_state, purchase_time)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		t.OrderID, t.ProductID, t.DeveloperPayload, t.NotificationID, int(t.PurchaseState), t.PurchaseTime)
	if err != nil {
		return fmt.Errorf("add transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	query := `
		SELECT order_id, product_id, developer_payload, notification_id, purchase_state, purchase_time
		FROM billing_transactions
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *PostgresStore) GetByItem(ctx context.Context, obfuscatedItemID string) ([]models.Transaction, error) {
	query := `
		SELECT order_id, product_id, developer_payload, notification_id, purchase_state, purchase_time
		FROM billing_transactions
		WHERE product_id = $1
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, obfuscatedItemID)
	if err != nil {
		return nil, fmt.Errorf("list transactions for item: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *PostgresStore) IsPurchased(ctx context.Context, obfuscatedItemID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM billing_transactions
			WHERE product_id = $1 AND purchase_state = $2
		)
	`
	var purchased bool
	if err := s.db.QueryRowContext(ctx, query, obfuscatedItemID, int(models.StatePurchased)).Scan(&purchased); err != nil {
		return false, fmt.Errorf("check purchased: %w", err)
	}
	return purchased, nil
}

func (s *PostgresStore) CountPurchases(ctx context.Context, obfuscatedItemID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM billing_transactions
		WHERE product_id = $1 AND purchase_state = $2
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query, obfuscatedItemID, int(models.StatePurchased)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count purchases: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) RemoveByItems(ctx context.Context, obfuscatedItemIDs []string) error {
	if len(obfuscatedItemIDs) == 0 {
		return nil
	}
	query := `DELETE FROM billing_transactions WHERE product_id = ANY($1)`
	if _, err := s.db.ExecContext(ctx, query, pq.Array(obfuscatedItemIDs)); err != nil {
		return fmt.Errorf("remove transactions: %w", err)
	}
	return nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var out []models.Transaction
	for rows.Next() {
		var (
			t     models.Transaction
			state int
			at    time.Time
		)
		if err := rows.Scan(&t.OrderID, &t.ProductID, &t.DeveloperPayload, &t.NotificationID, &state, &at); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.PurchaseState = models.PurchaseState(state)
		t.PurchaseTime = at.UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
