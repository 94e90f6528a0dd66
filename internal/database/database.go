package database

import (
	"database/sql"
	"errors"
	"fmt"

	"pricehawk/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

// DB wraps the sqlite connection and exposes the store operations the rest of
// the system depends on.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the sqlite database at path and ensures the schema.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		image_url TEXT,
		current_price REAL,
		target_price REAL NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		is_active INTEGER NOT NULL DEFAULT 1,
		last_checked DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS price_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id TEXT NOT NULL,
		price REAL NOT NULL,
		recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id TEXT NOT NULL,
		message TEXT NOT NULL,
		old_price REAL,
		new_price REAL,
		is_read INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS push_tokens (
		token TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

const productColumns = "id, name, url, image_url, current_price, target_price, currency, is_active, last_checked, created_at"

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var imageURL sql.NullString
	var currentPrice sql.NullFloat64
	var lastChecked sql.NullTime
	err := row.Scan(&p.ID, &p.Name, &p.URL, &imageURL, &currentPrice, &p.TargetPrice,
		&p.Currency, &p.IsActive, &lastChecked, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	if currentPrice.Valid {
		p.CurrentPrice = &currentPrice.Float64
	}
	if lastChecked.Valid {
		p.LastChecked = &lastChecked.Time
	}
	return &p, nil
}

// CreateProduct inserts a new tracked product. The caller supplies the id.
func (db *DB) CreateProduct(p *models.Product) error {
	_, err := db.conn.Exec(
		"INSERT INTO products (id, name, url, image_url, current_price, target_price, currency, is_active) VALUES (?, ?, ?, ?, ?, ?, ?, 1)",
		p.ID, p.Name, p.URL, nullString(p.ImageURL), nullFloat(p.CurrentPrice), p.TargetPrice, p.Currency,
	)
	return err
}

// GetProduct returns the product with the given id, or ErrNotFound.
func (db *DB) GetProduct(id string) (*models.Product, error) {
	row := db.conn.QueryRow("SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// ListProducts returns all products, newest first.
func (db *DB) ListProducts() ([]models.Product, error) {
	return db.queryProducts("SELECT " + productColumns + " FROM products ORDER BY created_at DESC")
}

// GetActiveProducts returns the products the monitoring cycle should sweep.
func (db *DB) GetActiveProducts() ([]models.Product, error) {
	return db.queryProducts("SELECT " + productColumns + " FROM products WHERE is_active = 1")
}

func (db *DB) queryProducts(query string, args ...any) ([]models.Product, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// UpdateProduct applies a partial update: nil fields keep their stored value.
func (db *DB) UpdateProduct(id string, targetPrice *float64, isActive *bool, name *string) error {
	res, err := db.conn.Exec(
		`UPDATE products
		 SET target_price = COALESCE(?, target_price),
		     is_active = COALESCE(?, is_active),
		     name = COALESCE(?, name)
		 WHERE id = ?`,
		nullFloat(targetPrice), nullBool(isActive), nullString(name), id,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// UpdateProductPrice stores a newly observed price and bumps last_checked.
func (db *DB) UpdateProductPrice(id string, price float64) error {
	res, err := db.conn.Exec(
		"UPDATE products SET current_price = ?, last_checked = CURRENT_TIMESTAMP WHERE id = ?",
		price, id,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// DeleteProduct removes a product together with its price history and
// notifications.
func (db *DB) DeleteProduct(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM price_history WHERE product_id = ?",
		"DELETE FROM notifications WHERE product_id = ?",
		"DELETE FROM products WHERE id = ?",
	} {
		if _, err := tx.Exec(stmt, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AddPriceSample appends one observation to a product's price history.
func (db *DB) AddPriceSample(productID string, price float64) error {
	_, err := db.conn.Exec(
		"INSERT INTO price_history (product_id, price) VALUES (?, ?)",
		productID, price,
	)
	return err
}

// GetPriceHistory returns a product's samples in recording order.
func (db *DB) GetPriceHistory(productID string) ([]models.PriceSample, error) {
	rows, err := db.conn.Query(
		"SELECT id, product_id, price, recorded_at FROM price_history WHERE product_id = ? ORDER BY recorded_at ASC, id ASC",
		productID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []models.PriceSample
	for rows.Next() {
		var s models.PriceSample
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Price, &s.RecordedAt); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// CreateNotification records an unread price event for a product.
func (db *DB) CreateNotification(productID, message string, oldPrice, newPrice *float64) error {
	_, err := db.conn.Exec(
		"INSERT INTO notifications (product_id, message, old_price, new_price, is_read) VALUES (?, ?, ?, ?, 0)",
		productID, message, nullFloat(oldPrice), nullFloat(newPrice),
	)
	return err
}

// ListNotifications returns the 50 most recent notifications, newest first,
// with the owning product's name joined in.
func (db *DB) ListNotifications() ([]models.Notification, error) {
	rows, err := db.conn.Query(
		`SELECT n.id, n.product_id, COALESCE(p.name, ''), n.message, n.old_price, n.new_price, n.is_read, n.created_at
		 FROM notifications n
		 LEFT JOIN products p ON n.product_id = p.id
		 ORDER BY n.created_at DESC, n.id DESC
		 LIMIT 50`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var oldPrice, newPrice sql.NullFloat64
		err := rows.Scan(&n.ID, &n.ProductID, &n.ProductName, &n.Message, &oldPrice, &newPrice, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		if oldPrice.Valid {
			n.OldPrice = &oldPrice.Float64
		}
		if newPrice.Valid {
			n.NewPrice = &newPrice.Float64
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationsRead flips the read flag on the given notifications.
func (db *DB) MarkNotificationsRead(ids []int64) error {
	for _, id := range ids {
		if _, err := db.conn.Exec("UPDATE notifications SET is_read = 1 WHERE id = ?", id); err != nil {
			return err
		}
	}
	return nil
}

// MarkAllNotificationsRead flips the read flag on every notification.
func (db *DB) MarkAllNotificationsRead() error {
	_, err := db.conn.Exec("UPDATE notifications SET is_read = 1")
	return err
}

// SavePushToken registers a push destination. Re-registering an existing
// token refreshes its timestamp.
func (db *DB) SavePushToken(token string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO push_tokens (token, created_at) VALUES (?, CURRENT_TIMESTAMP)",
		token,
	)
	return err
}

// LatestPushToken returns the most recently registered push destination, or
// "" when none has been registered yet.
func (db *DB) LatestPushToken() (string, error) {
	var token string
	err := db.conn.QueryRow(
		"SELECT token FROM push_tokens ORDER BY created_at DESC, rowid DESC LIMIT 1",
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return token, err
}

func checkAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
