package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// LegacyComplaint is one row of the retired municipal system's complaint
// table, as it comes off the wire.
type LegacyComplaint struct {
	LegacyID     int64
	CitizenName  string
	CitizenEmail string
	Title        string
	Description  string
	Category     string
	Status       string
	Address      string
	CreatedAt    time.Time
}

// LegacyConnector streams complaint rows out of the retired system's SQL
// database. Driver is "postgres" or "mysql".
type LegacyConnector struct {
	driver string
	dsn    string
	db     *sql.DB
}

func NewLegacyConnector(driver, dsn string) (*LegacyConnector, error) {
	switch driver {
	case "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported legacy driver %q", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("legacy dsn is required")
	}
	return &LegacyConnector{driver: driver, dsn: dsn}, nil
}

func (c *LegacyConnector) Connect(ctx context.Context) error {
	db, err := sql.Open(c.driver, c.dsn)
	if err != nil {
		return fmt.Errorf("failed to open legacy database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping legacy database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	c.db = db
	return nil
}

func (c *LegacyConnector) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

const legacyQuery = `
	SELECT id, citizen_name, citizen_email, title, description,
	       category, status, address, created_at
	FROM complaints
	ORDER BY id`

// StreamComplaints walks the legacy complaint table row by row so an import
// never loads the whole table into memory. The handler returning an error
// aborts the stream.
func (c *LegacyConnector) StreamComplaints(ctx context.Context, handler func(*LegacyComplaint) error) error {
	if c.db == nil {
		return fmt.Errorf("legacy database connection not established")
	}

	rows, err := c.db.QueryContext(ctx, legacyQuery)
	if err != nil {
		return fmt.Errorf("failed to query legacy complaints: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row       LegacyComplaint
			name      sql.NullString
			email     sql.NullString
			desc      sql.NullString
			category  sql.NullString
			status    sql.NullString
			address   sql.NullString
			createdAt sql.NullTime
		)
		if err := rows.Scan(&row.LegacyID, &name, &email, &row.Title, &desc,
			&category, &status, &address, &createdAt); err != nil {
			return fmt.Errorf("failed to scan legacy row: %w", err)
		}
		row.CitizenName = name.String
		row.CitizenEmail = email.String
		row.Description = desc.String
		row.Category = category.String
		row.Status = status.String
		row.Address = address.String
		if createdAt.Valid {
			row.CreatedAt = createdAt.Time
		}

		if err := handler(&row); err != nil {
			return err
		}
	}
	return rows.Err()
}
