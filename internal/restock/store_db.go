package restock

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	saveTimeout  = 5 * time.Second
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id           INTEGER PRIMARY KEY,
	name         TEXT    NOT NULL,
	is_available BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS subscriptions (
	id                INTEGER PRIMARY KEY,
	email             TEXT    NOT NULL DEFAULT '',
	phone             TEXT    NOT NULL DEFAULT '',
	product_id        INTEGER NOT NULL,
	notified          BOOLEAN NOT NULL DEFAULT FALSE,
	notification_type TEXT    NOT NULL
);`

// PostgresStore keeps the collections in two tables. Saves replace the
// table contents in one transaction, mirroring the whole-document rewrite
// of FileStore.
type PostgresStore struct {
	db  *sql.DB
	log *zap.Logger
}

func OpenPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := withTimeout(ctx, pingTimeout, db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewPostgresStore(db *sql.DB, log *zap.Logger) *PostgresStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostgresStore{db: db, log: log}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, schema)
		return err
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, s.db.PingContext)
}

func (s *PostgresStore) LoadProducts(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0, 16)
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, is_available
			FROM products
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.IsAvailable); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) LoadSubscriptions(ctx context.Context) ([]Subscription, error) {
	out := make([]Subscription, 0, 16)
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, email, phone, product_id, notified, notification_type
			FROM subscriptions
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var sub Subscription
			if err := rows.Scan(&sub.ID, &sub.Email, &sub.Phone, &sub.ProductID, &sub.Notified, &sub.NotificationType); err != nil {
				return err
			}
			out = append(out, sub)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SaveProducts(ctx context.Context, products []Product) error {
	return s.replaceAll(ctx, "DELETE FROM products", `
		INSERT INTO products (id, name, is_available)
		VALUES ($1, $2, $3)
	`, len(products), func(ctx context.Context, stmt *sql.Stmt, i int) error {
		p := products[i]
		_, err := stmt.ExecContext(ctx, p.ID, p.Name, p.IsAvailable)
		return err
	})
}

func (s *PostgresStore) SaveSubscriptions(ctx context.Context, subs []Subscription) error {
	return s.replaceAll(ctx, "DELETE FROM subscriptions", `
		INSERT INTO subscriptions (id, email, phone, product_id, notified, notification_type)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, len(subs), func(ctx context.Context, stmt *sql.Stmt, i int) error {
		sub := subs[i]
		_, err := stmt.ExecContext(ctx, sub.ID, sub.Email, sub.Phone, sub.ProductID, sub.Notified, string(sub.NotificationType))
		return err
	})
}

func (s *PostgresStore) replaceAll(ctx context.Context, clearSQL, insertSQL string, n int, exec func(context.Context, *sql.Stmt, int) error) error {
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, clearSQL); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := exec(ctx, stmt, i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug("table rewritten", zap.String("stmt", clearSQL), zap.Int("rows", n))
	return nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
