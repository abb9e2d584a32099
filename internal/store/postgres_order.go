package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"security-shop-service/internal/domain"
)

// --- OrderStorer Implementation ---

// CreateOrder inserts the order header and all line items inside a single
// transaction and returns the generated order id. On any failure the
// transaction is rolled back, so no partial order can exist. The order
// number's unique constraint surfaces as ErrOrderNumberExists.
func (s *PostgresStore) CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: CreateOrder failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	headerQuery := `
		INSERT INTO orders (order_number, customer_name, customer_email, customer_phone, total_amount, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	var orderID int64
	err = tx.QueryRowContext(ctx, headerQuery,
		order.OrderNumber, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.TotalAmount, order.Status, order.PaymentStatus,
	).Scan(&orderID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // Unique violation
			if strings.Contains(pqErr.Constraint, "order_number") || strings.Contains(pqErr.Detail, "Key (order_number)") {
				return 0, ErrOrderNumberExists
			}
		}
		return 0, fmt.Errorf("store: CreateOrder failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, service_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)`
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, itemQuery, orderID, item.ProductID, item.ServiceID, item.Quantity, item.Price); err != nil {
			return 0, fmt.Errorf("store: CreateOrder failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: CreateOrder failed to commit transaction: %w", err)
	}
	return orderID, nil
}

// SetOrderPayment links the gateway's payment identifier onto an order that
// was created earlier in the same request.
func (s *PostgresStore) SetOrderPayment(ctx context.Context, orderID int64, paymentID string) error {
	query := `UPDATE orders SET payment_id = $1 WHERE id = $2`
	result, err := s.db.ExecContext(ctx, query, paymentID, orderID)
	if err != nil {
		return fmt.Errorf("store: SetOrderPayment failed to execute update: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: SetOrderPayment failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
