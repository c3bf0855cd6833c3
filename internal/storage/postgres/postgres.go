package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campusevents/internal/config"
	"campusevents/internal/models"
	"campusevents/internal/storage"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	s := &Storage{DB: db}

	if err = s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return s, nil
}

func (s *Storage) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			location TEXT NOT NULL,
			event_date TIMESTAMPTZ NOT NULL,
			event_time TEXT NOT NULL,
			category TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL,
			creator_email TEXT NOT NULL DEFAULT '',
			is_paid BOOLEAN NOT NULL DEFAULT FALSE,
			price NUMERIC(12,2) NOT NULL DEFAULT 0,
			tickets_available INTEGER,
			cancelled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS tickets (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			user_email TEXT NOT NULL DEFAULT '',
			event_id UUID NOT NULL REFERENCES events(id),
			amount_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			payment_provider TEXT NOT NULL DEFAULT 'free',
			reference TEXT,
			checked_in BOOLEAN NOT NULL DEFAULT FALSE,
			cancelled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS tickets_reference_uniq
			ON tickets (reference) WHERE reference IS NOT NULL;

		CREATE INDEX IF NOT EXISTS tickets_event_idx ON tickets (event_id);

		CREATE TABLE IF NOT EXISTS waitlist (
			pos BIGSERIAL PRIMARY KEY,
			event_id UUID NOT NULL REFERENCES events(id),
			user_id TEXT NOT NULL,
			user_email TEXT NOT NULL DEFAULT '',
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (event_id, user_id)
		);`

	if _, err := s.DB.Exec(schema); err != nil {
		return err
	}

	return nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (s *Storage) CreateEvent(ctx context.Context, event *models.Event) (string, error) {
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO events (id, title, description, location, event_date, event_time,
			category, image, created_by, creator_email, is_paid, price, tickets_available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := s.DB.ExecContext(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.Date,
		event.Time,
		event.Category,
		event.Image,
		event.CreatedBy,
		event.CreatorEmail,
		event.IsPaid,
		event.Price,
		event.TicketsAvailable,
		event.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}

	return event.ID, nil
}

const eventColumns = `id, title, description, location, event_date, event_time,
	category, image, created_by, creator_email, is_paid, price, tickets_available, cancelled, created_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	var event models.Event
	var available sql.NullInt64

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.Date,
		&event.Time,
		&event.Category,
		&event.Image,
		&event.CreatedBy,
		&event.CreatorEmail,
		&event.IsPaid,
		&event.Price,
		&available,
		&event.Cancelled,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if available.Valid {
		n := int(available.Int64)
		event.TicketsAvailable = &n
	}

	return &event, nil
}

func (s *Storage) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

func (s *Storage) GetAllEvents(ctx context.Context, filter storage.EventFilter) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	var args []any

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Location != "" {
		args = append(args, "%"+filter.Location+"%")
		query += fmt.Sprintf(" AND location ILIKE $%d", len(args))
	}
	if !filter.Date.IsZero() {
		args = append(args, filter.Date)
		query += fmt.Sprintf(" AND event_date >= $%d", len(args))
		args = append(args, filter.Date.AddDate(0, 0, 1))
		query += fmt.Sprintf(" AND event_date < $%d", len(args))
	}

	query += " ORDER BY event_date ASC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

func (s *Storage) UpdateEvent(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4, event_date = $5,
			event_time = $6, category = $7, image = $8
		WHERE id = $1`

	result, err := s.DB.ExecContext(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.Date,
		event.Time,
		event.Category,
		event.Image,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return storage.ErrEventNotFound
	}

	return nil
}

func (s *Storage) MarkEventCancelled(ctx context.Context, id string) error {
	result, err := s.DB.ExecContext(ctx, `UPDATE events SET cancelled = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to cancel event: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return storage.ErrEventNotFound
	}

	return nil
}

const ticketColumns = `id, user_id, user_email, event_id, amount_paid,
	payment_status, payment_provider, reference, checked_in, cancelled, created_at`

func scanTicket(row interface{ Scan(...any) error }) (*models.Ticket, error) {
	var ticket models.Ticket
	var reference sql.NullString

	err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.UserEmail,
		&ticket.EventID,
		&ticket.AmountPaid,
		&ticket.PaymentStatus,
		&ticket.PaymentProvider,
		&reference,
		&ticket.CheckedIn,
		&ticket.Cancelled,
		&ticket.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	ticket.Reference = reference.String

	return &ticket, nil
}

// CreateTicket inserts a ticket inside a transaction that re-counts active
// tickets when the event is capped. The count-then-insert runs in one
// transaction so concurrent issuance cannot exceed capacity; the partial
// unique index on reference turns duplicate webhook deliveries into
// storage.ErrDuplicateReference.
func (s *Storage) CreateTicket(ctx context.Context, ticket *models.Ticket, capacity *int) (string, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if capacity != nil {
		var sold int
		countQuery := `
			SELECT COUNT(*) FROM tickets
			WHERE event_id = $1 AND cancelled = FALSE`

		if err = tx.QueryRowContext(ctx, countQuery, ticket.EventID).Scan(&sold); err != nil {
			return "", fmt.Errorf("failed to count tickets: %w", err)
		}

		if sold >= *capacity {
			return "", storage.ErrSoldOut
		}
	}

	ticket.ID = uuid.NewString()
	ticket.CreatedAt = time.Now().UTC()

	var reference sql.NullString
	if ticket.Reference != "" {
		reference = sql.NullString{String: ticket.Reference, Valid: true}
	}

	insertQuery := `
		INSERT INTO tickets (id, user_id, user_email, event_id, amount_paid,
			payment_status, payment_provider, reference, checked_in, cancelled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, FALSE, $9)`

	_, err = tx.ExecContext(ctx, insertQuery,
		ticket.ID,
		ticket.UserID,
		ticket.UserEmail,
		ticket.EventID,
		ticket.AmountPaid,
		ticket.PaymentStatus,
		ticket.PaymentProvider,
		reference,
		ticket.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", storage.ErrDuplicateReference
		}
		return "", fmt.Errorf("failed to create ticket: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit ticket: %w", err)
	}

	return ticket.ID, nil
}

func (s *Storage) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

func (s *Storage) GetActiveTicketByUserAndEvent(ctx context.Context, userID, eventID string) (*models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + ` FROM tickets
		WHERE user_id = $1 AND event_id = $2 AND cancelled = FALSE
		ORDER BY created_at ASC
		LIMIT 1`

	ticket, err := scanTicket(s.DB.QueryRowContext(ctx, query, userID, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

func (s *Storage) GetTicketByReference(ctx context.Context, reference string) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE reference = $1`

	ticket, err := scanTicket(s.DB.QueryRowContext(ctx, query, reference))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket by reference: %w", err)
	}

	return ticket, nil
}

func (s *Storage) ListTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + ` FROM tickets
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return s.listTickets(ctx, query, userID)
}

func (s *Storage) ListActiveTicketsByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + ` FROM tickets
		WHERE event_id = $1 AND cancelled = FALSE
		ORDER BY created_at ASC`

	return s.listTickets(ctx, query, eventID)
}

func (s *Storage) listTickets(ctx context.Context, query string, arg any) ([]models.Ticket, error) {
	rows, err := s.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, *ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}

// CountActiveTickets counts non-cancelled tickets; this is the sold figure
// every capacity computation uses.
func (s *Storage) CountActiveTickets(ctx context.Context, eventID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM tickets
		WHERE event_id = $1 AND cancelled = FALSE`

	var count int
	if err := s.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	return count, nil
}

func (s *Storage) MarkTicketCancelled(ctx context.Context, id string) error {
	result, err := s.DB.ExecContext(ctx, `UPDATE tickets SET cancelled = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to cancel ticket: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return storage.ErrTicketNotFound
	}

	return nil
}

func (s *Storage) MarkTicketCheckedIn(ctx context.Context, id string) error {
	result, err := s.DB.ExecContext(ctx, `UPDATE tickets SET checked_in = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to check in ticket: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return storage.ErrTicketNotFound
	}

	return nil
}

func (s *Storage) JoinWaitlist(ctx context.Context, entry models.WaitlistEntry) error {
	query := `
		INSERT INTO waitlist (event_id, user_id, user_email, joined_at)
		VALUES ($1, $2, $3, NOW())`

	_, err := s.DB.ExecContext(ctx, query, entry.EventID, entry.UserID, entry.UserEmail)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyOnWaitlist
		}
		return fmt.Errorf("failed to join waitlist: %w", err)
	}

	return nil
}

// PopWaitlistHead removes and returns the oldest entry, or nil when the
// waitlist is empty. The row lock keeps two concurrent promotions from
// dequeuing the same entry.
func (s *Storage) PopWaitlistHead(ctx context.Context, eventID string) (*models.WaitlistEntry, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var pos int64
	var entry models.WaitlistEntry

	selectQuery := `
		SELECT pos, event_id, user_id, user_email, joined_at
		FROM waitlist
		WHERE event_id = $1
		ORDER BY pos ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED`

	err = tx.QueryRowContext(ctx, selectQuery, eventID).Scan(
		&pos,
		&entry.EventID,
		&entry.UserID,
		&entry.UserEmail,
		&entry.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read waitlist head: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM waitlist WHERE pos = $1`, pos); err != nil {
		return nil, fmt.Errorf("failed to dequeue waitlist entry: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit waitlist dequeue: %w", err)
	}

	return &entry, nil
}

func (s *Storage) ListWaitlist(ctx context.Context, eventID string) ([]models.WaitlistEntry, error) {
	query := `
		SELECT event_id, user_id, user_email, joined_at
		FROM waitlist
		WHERE event_id = $1
		ORDER BY pos ASC`

	rows, err := s.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist: %w", err)
	}
	defer rows.Close()

	var entries []models.WaitlistEntry
	for rows.Next() {
		var entry models.WaitlistEntry
		err = rows.Scan(&entry.EventID, &entry.UserID, &entry.UserEmail, &entry.JoinedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan waitlist entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating waitlist: %w", err)
	}

	return entries, nil
}

func (s *Storage) EventAnalytics(ctx context.Context, eventID string) (*models.Analytics, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE t.cancelled = FALSE),
			COUNT(*) FILTER (WHERE t.cancelled = FALSE AND t.checked_in = TRUE),
			COALESCE(SUM(t.amount_paid) FILTER (WHERE t.cancelled = FALSE AND t.payment_status = 'paid'), 0),
			(SELECT COUNT(*) FROM waitlist w WHERE w.event_id = $1)
		FROM tickets t
		WHERE t.event_id = $1`

	var a models.Analytics
	a.EventID = eventID

	err := s.DB.QueryRowContext(ctx, query, eventID).Scan(
		&a.TicketsSold,
		&a.CheckedIn,
		&a.Revenue,
		&a.WaitlistSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute analytics: %w", err)
	}

	return &a, nil
}
