package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/campuseats/canteen/internal/domain/errors"
	"github.com/campuseats/canteen/internal/domain/model"
	"github.com/campuseats/canteen/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool used by the storage, extracted so
// tests can substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type slotRepository struct {
	storage *Storage
}

type menuRepository struct {
	storage *Storage
}

type notificationRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Slots() repository.SlotRepository {
	return &slotRepository{storage: s}
}

func (s *Storage) Menu() repository.MenuRepository {
	return &menuRepository{storage: s}
}

func (s *Storage) Notifications() repository.NotificationRepository {
	return &notificationRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
            id TEXT PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            full_name TEXT NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'student',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS menu_items (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT,
            price DOUBLE PRECISION NOT NULL,
            category TEXT NOT NULL,
            is_available BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS pickup_slots (
            id TEXT PRIMARY KEY,
            date TEXT NOT NULL,
            time_slot TEXT NOT NULL,
            max_capacity INTEGER NOT NULL,
            current_bookings INTEGER NOT NULL DEFAULT 0 CHECK (current_bookings >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (date, time_slot)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL REFERENCES profiles(id),
            total_amount DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL,
            pickup_date TEXT NOT NULL,
            pickup_time TEXT NOT NULL,
            pickup_slot TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            payment_token TEXT UNIQUE,
            payment_completed BOOLEAN NOT NULL DEFAULT FALSE,
            qr_code TEXT,
            token_used BOOLEAN NOT NULL DEFAULT FALSE,
            special_instructions TEXT,
            cancellation_reason TEXT,
            refund_amount DOUBLE PRECISION,
            refund_status TEXT,
            cancelled_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id TEXT PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            menu_item_id TEXT NOT NULL REFERENCES menu_items(id),
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            price DOUBLE PRECISION NOT NULL,
            customizations JSONB,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS notifications (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL REFERENCES profiles(id),
            order_id TEXT NOT NULL REFERENCES orders(id),
            title TEXT NOT NULL,
            message TEXT NOT NULL,
            type TEXT NOT NULL,
            old_status TEXT NOT NULL,
            new_status TEXT NOT NULL,
            is_read BOOLEAN NOT NULL DEFAULT FALSE,
            delivered BOOLEAN NOT NULL DEFAULT FALSE,
            attempts INTEGER NOT NULL DEFAULT 0,
            last_attempt_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_pickup ON orders(pickup_date, pickup_time)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_outbox ON notifications(delivered, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	const query = `INSERT INTO profiles (id, email, full_name, password_hash, role)
                   VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query, user.ID, user.Email, user.FullName, user.PasswordHash, user.Role).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, email, full_name, password_hash, role, created_at FROM profiles WHERE email=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	const query = `SELECT id, email, full_name, password_hash, role, created_at FROM profiles WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- MenuRepository implementation ---

func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	const query = `INSERT INTO menu_items (id, name, description, price, category, is_available)
                   VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
	return r.storage.pool.QueryRow(ctx, query, item.ID, item.Name, item.Description, item.Price, item.Category, item.IsAvailable).
		Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *menuRepository) GetByIDs(ctx context.Context, ids []string) ([]model.MenuItem, error) {
	const query = `SELECT id, name, description, price, category, is_available, created_at, updated_at
                   FROM menu_items WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenuItems(rows)
}

func (r *menuRepository) ListAvailable(ctx context.Context) ([]model.MenuItem, error) {
	const query = `SELECT id, name, description, price, category, is_available, created_at, updated_at
                   FROM menu_items WHERE is_available ORDER BY category, name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenuItems(rows)
}

func scanMenuItems(rows pgx.Rows) ([]model.MenuItem, error) {
	var result []model.MenuItem
	for rows.Next() {
		var m model.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Category, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- SlotRepository implementation ---

const slotColumns = `id, date, time_slot, max_capacity, current_bookings, created_at, updated_at`

func scanSlot(row pgx.Row) (*model.PickupSlot, error) {
	var s model.PickupSlot
	err := row.Scan(&s.ID, &s.Date, &s.TimeSlot, &s.MaxCapacity, &s.CurrentBookings, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *slotRepository) Get(ctx context.Context, date, timeSlot string) (*model.PickupSlot, error) {
	const query = `SELECT ` + slotColumns + ` FROM pickup_slots WHERE date=$1 AND time_slot=$2`
	return scanSlot(r.storage.pool.QueryRow(ctx, query, date, timeSlot))
}

func (r *slotRepository) GetByID(ctx context.Context, id string) (*model.PickupSlot, error) {
	const query = `SELECT ` + slotColumns + ` FROM pickup_slots WHERE id=$1`
	return scanSlot(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *slotRepository) List(ctx context.Context, startDate, endDate string) ([]model.PickupSlot, error) {
	const query = `SELECT ` + slotColumns + ` FROM pickup_slots
                   WHERE ($1 = '' OR date >= $1) AND ($2 = '' OR date <= $2)
                   ORDER BY date, time_slot`
	rows, err := r.storage.pool.Query(ctx, query, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PickupSlot
	for rows.Next() {
		var s model.PickupSlot
		if err := rows.Scan(&s.ID, &s.Date, &s.TimeSlot, &s.MaxCapacity, &s.CurrentBookings, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Reserve increments current_bookings only while it is below max_capacity.
// The check and the increment are one statement, so two concurrent reservations
// for the last place cannot both succeed. With lazyCreate the slot row is
// materialized on first booking with the configured default capacity.
func (r *slotRepository) Reserve(ctx context.Context, date, timeSlot string, defaultCapacity int, lazyCreate bool) (*model.PickupSlot, error) {
	if lazyCreate {
		const query = `INSERT INTO pickup_slots (id, date, time_slot, max_capacity, current_bookings)
                       VALUES ($1, $2, $3, $4, 1)
                       ON CONFLICT (date, time_slot) DO UPDATE
                       SET current_bookings = pickup_slots.current_bookings + 1, updated_at = NOW()
                       WHERE pickup_slots.current_bookings < pickup_slots.max_capacity
                       RETURNING ` + slotColumns
		slot, err := scanSlot(r.storage.pool.QueryRow(ctx, query, uuid.NewString(), date, timeSlot, defaultCapacity))
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return nil, domainErrors.ErrSlotFull
			}
			return nil, err
		}
		return slot, nil
	}

	const query = `UPDATE pickup_slots
                   SET current_bookings = current_bookings + 1, updated_at = NOW()
                   WHERE date=$1 AND time_slot=$2 AND current_bookings < max_capacity
                   RETURNING ` + slotColumns
	slot, err := scanSlot(r.storage.pool.QueryRow(ctx, query, date, timeSlot))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			// Either the slot does not exist or it is exhausted.
			if _, getErr := r.Get(ctx, date, timeSlot); getErr != nil {
				return nil, getErr
			}
			return nil, domainErrors.ErrSlotFull
		}
		return nil, err
	}
	return slot, nil
}

// Release decrements current_bookings floored at zero. Releasing an empty or
// unknown slot is a no-op.
func (r *slotRepository) Release(ctx context.Context, date, timeSlot string) error {
	const query = `UPDATE pickup_slots
                   SET current_bookings = current_bookings - 1, updated_at = NOW()
                   WHERE date=$1 AND time_slot=$2 AND current_bookings > 0`
	_, err := r.storage.pool.Exec(ctx, query, date, timeSlot)
	return err
}

func (r *slotRepository) Create(ctx context.Context, date, timeSlot string, maxCapacity int) (*model.PickupSlot, error) {
	const query = `INSERT INTO pickup_slots (id, date, time_slot, max_capacity, current_bookings)
                   VALUES ($1, $2, $3, $4, 0) RETURNING ` + slotColumns
	slot, err := scanSlot(r.storage.pool.QueryRow(ctx, query, uuid.NewString(), date, timeSlot, maxCapacity))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return slot, nil
}

// UpdateCapacity may set max_capacity below current_bookings: existing bookings
// are never evicted, new reservations are blocked until bookings drop.
func (r *slotRepository) UpdateCapacity(ctx context.Context, id string, maxCapacity int) (*model.PickupSlot, error) {
	const query = `UPDATE pickup_slots SET max_capacity=$2, updated_at=NOW() WHERE id=$1 RETURNING ` + slotColumns
	return scanSlot(r.storage.pool.QueryRow(ctx, query, id, maxCapacity))
}

func (r *slotRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM pickup_slots WHERE id=$1 AND current_bookings = 0`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domainErrors.ErrSlotNotEmpty
	}
	return nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, user_id, total_amount, status, pickup_date, pickup_time, pickup_slot,
                      payment_method, payment_token, payment_completed, qr_code, token_used,
                      special_instructions, cancellation_reason, refund_amount, refund_status,
                      cancelled_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PickupDate, &o.PickupTime, &o.PickupSlot,
		&o.PaymentMethod, &o.PaymentToken, &o.PaymentCompleted, &o.QRCode, &o.TokenUsed,
		&o.SpecialInstructions, &o.CancellationReason, &o.RefundAmount, &o.RefundStatus,
		&o.CancelledAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]model.Order, error) {
	var result []model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PickupDate, &o.PickupTime, &o.PickupSlot,
			&o.PaymentMethod, &o.PaymentToken, &o.PaymentCompleted, &o.QRCode, &o.TokenUsed,
			&o.SpecialInstructions, &o.CancellationReason, &o.RefundAmount, &o.RefundStatus,
			&o.CancelledAt, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order, items []model.OrderItem) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (id, user_id, total_amount, status, pickup_date, pickup_time, pickup_slot,
                                                 payment_method, payment_token, payment_completed, qr_code,
                                                 special_instructions)
                             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
                             RETURNING created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			order.ID, order.UserID, order.TotalAmount, order.Status, order.PickupDate, order.PickupTime, order.PickupSlot,
			order.PaymentMethod, order.PaymentToken, order.PaymentCompleted, order.QRCode,
			order.SpecialInstructions,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (id, order_id, menu_item_id, quantity, price, customizations)
                            VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
		for i := range items {
			items[i].OrderID = order.ID
			var customizations []byte
			if items[i].Customizations != nil {
				customizations, err = json.Marshal(items[i].Customizations)
				if err != nil {
					return err
				}
			}
			if err := tx.QueryRow(ctx, insertItem,
				items[i].ID, order.ID, items[i].MenuItemID, items[i].Quantity, items[i].Price, customizations,
			).Scan(&items[i].CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) ItemsByOrder(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	const query = `SELECT id, order_id, menu_item_id, quantity, price, customizations, created_at
                   FROM order_items WHERE order_id=$1 ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		var customizations []byte
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.Price, &customizations, &item.CreatedAt); err != nil {
			return nil, err
		}
		if len(customizations) > 0 {
			if err := json.Unmarshal(customizations, &item.Customizations); err != nil {
				return nil, err
			}
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepository) ListByPickupDate(ctx context.Context, date string) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE pickup_date=$1 ORDER BY pickup_time`
	rows, err := r.storage.pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

// FindByToken resolves an order by raw pickup token (case-insensitive) or by
// the full QR payload string.
func (r *orderRepository) FindByToken(ctx context.Context, identifier string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE UPPER(payment_token)=UPPER($1) OR qr_code=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, identifier))
}

func (r *orderRepository) insertNotificationTx(ctx context.Context, tx pgx.Tx, note *model.Notification) error {
	if note == nil {
		return nil
	}
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	const query = `INSERT INTO notifications (id, user_id, order_id, title, message, type, old_status, new_status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	return tx.QueryRow(ctx, query,
		note.ID, note.UserID, note.OrderID, note.Title, note.Message, note.Type, note.OldStatus, note.NewStatus,
	).Scan(&note.CreatedAt)
}

// classifyStatusConflict is called after a guarded update touched no rows.
func (r *orderRepository) classifyStatusConflict(ctx context.Context, tx pgx.Tx, orderID string) error {
	const query = `SELECT status, token_used FROM orders WHERE id=$1`
	var status model.OrderStatus
	var tokenUsed bool
	if err := tx.QueryRow(ctx, query, orderID).Scan(&status, &tokenUsed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	switch {
	case status == model.OrderStatusCancelled:
		return domainErrors.ErrOrderNotRedeemable
	case tokenUsed:
		return domainErrors.ErrTokenAlreadyUsed
	case status.Terminal():
		return domainErrors.ErrAlreadyTerminal
	default:
		return domainErrors.ErrInvalidTransition
	}
}

// UpdateStatus moves the order from one status to another with a guard on the
// current status, and writes the outbox notification in the same transaction.
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, from, to model.OrderStatus, note *model.Notification) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1 AND status=$3`
		tag, err := tx.Exec(ctx, query, orderID, to, from)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			const current = `SELECT status FROM orders WHERE id=$1`
			var status model.OrderStatus
			if err := tx.QueryRow(ctx, current, orderID).Scan(&status); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domainErrors.ErrNotFound
				}
				return err
			}
			if status.Terminal() {
				return domainErrors.ErrAlreadyTerminal
			}
			return domainErrors.ErrInvalidTransition
		}
		return r.insertNotificationTx(ctx, tx, note)
	})
}

// Cancel performs the full cancellation write set atomically: the guarded
// status flip with refund fields, the slot release, and the outbox row.
func (r *orderRepository) Cancel(ctx context.Context, p repository.CancelOrderParams, note *model.Notification) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `UPDATE orders
                       SET status=$2, refund_amount=$3, refund_status=$4, cancellation_reason=$5,
                           cancelled_at=$6, updated_at=NOW()
                       WHERE id=$1 AND status=$7
                       RETURNING pickup_date, pickup_slot`
		var pickupDate, pickupSlot string
		err := tx.QueryRow(ctx, query,
			p.OrderID, model.OrderStatusCancelled, p.RefundAmount, model.RefundStatusPending,
			p.Reason, p.CancelledAt, p.FromStatus,
		).Scan(&pickupDate, &pickupSlot)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				const current = `SELECT status FROM orders WHERE id=$1`
				var status model.OrderStatus
				if scanErr := tx.QueryRow(ctx, current, p.OrderID).Scan(&status); scanErr != nil {
					if errors.Is(scanErr, pgx.ErrNoRows) {
						return domainErrors.ErrNotFound
					}
					return scanErr
				}
				if status.Terminal() {
					return domainErrors.ErrAlreadyTerminal
				}
				return domainErrors.ErrInvalidTransition
			}
			return err
		}

		// Capacity is returned uniformly, regardless of refund percentage.
		const release = `UPDATE pickup_slots
                         SET current_bookings = current_bookings - 1, updated_at = NOW()
                         WHERE date=$1 AND time_slot=$2 AND current_bookings > 0`
		if _, err := tx.Exec(ctx, release, pickupDate, pickupSlot); err != nil {
			return err
		}

		return r.insertNotificationTx(ctx, tx, note)
	})
}

// CompleteWithToken redeems the pickup token and completes the order in one
// guarded statement, so two concurrent redemptions cannot both succeed.
func (r *orderRepository) CompleteWithToken(ctx context.Context, orderID string, note *model.Notification) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `UPDATE orders
                       SET status=$2, token_used=TRUE, payment_completed=TRUE, updated_at=NOW()
                       WHERE id=$1 AND token_used=FALSE AND status=$3`
		tag, err := tx.Exec(ctx, query, orderID, model.OrderStatusCompleted, model.OrderStatusReady)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return r.classifyStatusConflict(ctx, tx, orderID)
		}
		return r.insertNotificationTx(ctx, tx, note)
	})
}

// --- NotificationRepository implementation ---

const notificationColumns = `id, user_id, order_id, title, message, type, old_status, new_status,
                             is_read, delivered, attempts, last_attempt_at, created_at`

func scanNotifications(rows pgx.Rows) ([]model.Notification, error) {
	var result []model.Notification
	for rows.Next() {
		var n model.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.OrderID, &n.Title, &n.Message, &n.Type, &n.OldStatus, &n.NewStatus,
			&n.IsRead, &n.Delivered, &n.Attempts, &n.LastAttemptAt, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	const query = `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *notificationRepository) SelectUndelivered(ctx context.Context, limit int) ([]model.Notification, error) {
	const selectQuery = `SELECT ` + notificationColumns + `
                         FROM notifications
                         WHERE delivered = FALSE
                         ORDER BY created_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var notes []model.Notification
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		notes, err = scanNotifications(rows)
		if err != nil {
			return err
		}
		for i := range notes {
			if _, err := tx.Exec(ctx, `UPDATE notifications SET attempts = attempts + 1, last_attempt_at = NOW() WHERE id=$1`, notes[i].ID); err != nil {
				return err
			}
			notes[i].Attempts++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *notificationRepository) MarkDelivered(ctx context.Context, id string) error {
	const query = `UPDATE notifications SET delivered = TRUE WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, id)
	return err
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
