package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/littlefern/storefront-api/internal/models"
	"github.com/littlefern/storefront-api/internal/utils"
)

type OrderRepository interface {
	PlaceOrder(ctx context.Context, identity string, order *models.Order, coupon *models.Coupon) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, size int) ([]models.Order, int, error)
	ListOrders(ctx context.Context, page, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// PlaceOrder commits the whole placement as one transaction: conditional
// stock decrements, the order and its lines, coupon usage, and the cart
// clear. Any failure rolls everything back.
//
// The stock check and decrement are a single conditional UPDATE so that two
// concurrent placements against the same product cannot both pass a read
// check and oversell. Coupon limits are re-checked here, after locking the
// coupon row, because the earlier validation ran outside this transaction.
func (r *orderRepository) PlaceOrder(ctx context.Context, identity string, order *models.Order, coupon *models.Coupon) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	// Stock first: stock = stock - qty only where enough remains.
	decrementQuery := `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`

	for _, item := range order.Items {

		result, err := tx.ExecContext(dbCtx, decrementQuery, item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}

		if affected == 0 {
			return &InsufficientStockError{ProductID: item.ProductID}
		}
	}

	shippingAddress, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	orderQuery := `
		INSERT INTO orders (id, customer_id, status, subtotal, discount_amount, shipping_cost,
		                    total_amount, coupon_code, payment_method, payment_status,
		                    shipping_address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(dbCtx, orderQuery, order.ID, order.CustomerID, order.Status,
		order.Subtotal, order.DiscountAmount, order.ShippingCost, order.TotalAmount,
		order.CouponCode, order.PaymentMethod, order.PaymentStatus, shippingAddress, order.Notes).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	// The usage row references the order row, so the coupon block runs only
	// after the order insert. The FOR UPDATE lock still serializes concurrent
	// placements on the limit re-check.
	if coupon != nil {

		var usageCount int

		var usageLimit sql.NullInt64

		lockQuery := `SELECT usage_count, usage_limit FROM coupons WHERE id = $1 FOR UPDATE`

		if err := tx.QueryRowContext(dbCtx, lockQuery, coupon.ID).Scan(&usageCount, &usageLimit); err != nil {
			return fmt.Errorf("failed to lock coupon: %w", err)
		}

		if usageLimit.Valid && int64(usageCount) >= usageLimit.Int64 {
			return ErrCouponExhausted
		}

		var identityUsage int

		usageQuery := `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND identity = $2`

		if err := tx.QueryRowContext(dbCtx, usageQuery, coupon.ID, identity).Scan(&identityUsage); err != nil {
			return fmt.Errorf("failed to count coupon usage: %w", err)
		}

		if coupon.UserLimit > 0 && identityUsage >= coupon.UserLimit {
			return ErrCouponUserLimitReached
		}

		insertUsageQuery := `
			INSERT INTO coupon_usages (id, coupon_id, identity, order_id, used_at)
			VALUES ($1, $2, $3, $4, NOW())
		`

		if _, err := tx.ExecContext(dbCtx, insertUsageQuery, uuid.New(), coupon.ID, identity, order.ID); err != nil {
			return fmt.Errorf("failed to insert coupon usage: %w", err)
		}

		incrementQuery := `UPDATE coupons SET usage_count = usage_count + 1, updated_at = NOW() WHERE id = $1`

		if _, err := tx.ExecContext(dbCtx, incrementQuery, coupon.ID); err != nil {
			return fmt.Errorf("failed to increment coupon usage count: %w", err)
		}
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, size, color, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	for i := range order.Items {

		item := &order.Items[i]

		if _, err := tx.ExecContext(dbCtx, itemQuery, item.ID, order.ID, item.ProductID,
			item.Quantity, item.Size, item.Color, item.UnitPrice); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	clearQuery := `DELETE FROM cart_items WHERE identity = $1`

	if _, err := tx.ExecContext(dbCtx, clearQuery, identity); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

const orderColumns = `id, customer_id, status, subtotal, discount_amount, shipping_cost,
	       total_amount, coupon_code, payment_method, payment_status,
	       shipping_address, notes, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {

	order := &models.Order{}

	var shippingAddress []byte

	var couponCode sql.NullString

	err := row.Scan(&order.ID, &order.CustomerID, &order.Status, &order.Subtotal,
		&order.DiscountAmount, &order.ShippingCost, &order.TotalAmount, &couponCode,
		&order.PaymentMethod, &order.PaymentStatus, &shippingAddress, &order.Notes,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if couponCode.Valid {
		order.CouponCode = &couponCode.String
	}

	if err := json.Unmarshal(shippingAddress, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}

	return order, nil
}

func (r *orderRepository) getOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {

	query := `
		SELECT id, product_id, quantity, size, color, unit_price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	defer rows.Close()

	var items []models.OrderItem

	for rows.Next() {

		var item models.OrderItem

		err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Size, &item.Color, &item.UnitPrice, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		item.OrderID = orderID

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	items, err := r.getOrderItems(dbCtx, order.ID)
	if err != nil {
		return nil, err
	}

	order.Items = items

	return order, nil
}

func (r *orderRepository) listOrders(ctx context.Context, where string, args []any, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders` + where

	if err := r.DB.QueryRowContext(dbCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT `+orderColumns+` FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)

	rows, err := r.DB.QueryContext(dbCtx, query, append(args, size, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {

		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {

		items, err := r.getOrderItems(dbCtx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}

		orders[i].Items = items
	}

	return orders, total, nil
}

func (r *orderRepository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, size int) ([]models.Order, int, error) {
	return r.listOrders(ctx, ` WHERE customer_id = $1`, []any{customerID}, page, size)
}

func (r *orderRepository) ListOrders(ctx context.Context, page, size int) ([]models.Order, int, error) {
	return r.listOrders(ctx, ``, nil, page, size)
}

// UpdateOrderStatus is a compare-and-swap on the current status so that a
// concurrent transition cannot be silently overwritten. Zero affected rows
// means the order moved (or disappeared) underneath the caller.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	result, err := r.DB.ExecContext(dbCtx, query, to, time.Now(), id, from)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE orders SET payment_status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.DB.ExecContext(dbCtx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
