package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trusttrip/backend/internal/domain"
)

// PGStore is the secondary durable backend, used when MongoDB is unreachable
// at startup.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PGStore{db: pool}, nil
}

func (s *PGStore) Name() string { return "postgres" }

func (s *PGStore) Close() {
	s.db.Close()
}

const bookingColumns = `booking_id, booking_type, provider, provider_did, destination, departure_date, return_date, price, currency, travelers, wallet_address, transaction_hash, simulated_payment, user_did, booking_status, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.BookingID, &b.BookingType, &b.Provider, &b.ProviderDID, &b.Destination,
		&b.DepartureDate, &b.ReturnDate, &b.Price, &b.Currency, &b.Travelers,
		&b.WalletAddress, &b.TransactionHash, &b.SimulatedPayment, &b.UserDID,
		&b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *PGStore) SaveBooking(ctx context.Context, booking *domain.Booking) error {
	_, err := s.db.Exec(ctx, `INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		booking.BookingID, booking.BookingType, booking.Provider, booking.ProviderDID, booking.Destination,
		booking.DepartureDate, booking.ReturnDate, booking.Price, booking.Currency, booking.Travelers,
		booking.WalletAddress, booking.TransactionHash, booking.SimulatedPayment, booking.UserDID,
		booking.Status, booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (s *PGStore) FindBookingsByWallet(ctx context.Context, walletAddress string) ([]domain.Booking, error) {
	rows, err := s.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE wallet_address=$1 ORDER BY created_at DESC`, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (s *PGStore) FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	row := s.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id=$1`, bookingID)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return b, nil
}

func (s *PGStore) UpsertUser(ctx context.Context, walletAddress, userDID, bookingID string, price float64) (*domain.User, error) {
	row := s.db.QueryRow(ctx, `INSERT INTO users (wallet_address, user_did, bookings, total_spent, created_at, updated_at)
		VALUES ($1, $2, ARRAY[$3::text], $4, now(), now())
		ON CONFLICT (wallet_address) DO UPDATE
		SET bookings = array_append(users.bookings, $3),
		    total_spent = users.total_spent + $4,
		    updated_at = now()
		RETURNING wallet_address, user_did, bookings, total_spent, created_at, updated_at`,
		walletAddress, userDID, bookingID, price)

	var u domain.User
	if err := row.Scan(&u.WalletAddress, &u.UserDID, &u.Bookings, &u.TotalSpent, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &u, nil
}

func (s *PGStore) FindUserByWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	row := s.db.QueryRow(ctx, `SELECT wallet_address, user_did, bookings, total_spent, created_at, updated_at FROM users WHERE wallet_address=$1`, walletAddress)
	var u domain.User
	err := row.Scan(&u.WalletAddress, &u.UserDID, &u.Bookings, &u.TotalSpent, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *PGStore) Stats(ctx context.Context) (*domain.Stats, error) {
	rows, err := s.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings`)
	if err != nil {
		return nil, fmt.Errorf("scan bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var totalUsers int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&totalUsers); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return buildStats(bookings, totalUsers), nil
}

// Migrate creates the schema when it does not exist yet.
func (s *PGStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bookings (
			booking_id        text PRIMARY KEY,
			booking_type      text NOT NULL,
			provider          text NOT NULL,
			provider_did      text NOT NULL DEFAULT '',
			destination       text NOT NULL,
			departure_date    text NOT NULL,
			return_date       text NOT NULL DEFAULT '',
			price             double precision NOT NULL,
			currency          text NOT NULL DEFAULT 'CHEQ',
			travelers         integer NOT NULL DEFAULT 1,
			wallet_address    text NOT NULL,
			transaction_hash  text NOT NULL DEFAULT '',
			simulated_payment boolean NOT NULL DEFAULT false,
			user_did          text NOT NULL DEFAULT '',
			booking_status    text NOT NULL DEFAULT 'confirmed',
			created_at        timestamptz NOT NULL DEFAULT now(),
			updated_at        timestamptz NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS bookings_wallet_idx ON bookings (wallet_address, created_at DESC);
		CREATE TABLE IF NOT EXISTS users (
			wallet_address text PRIMARY KEY,
			user_did       text NOT NULL DEFAULT '',
			bookings       text[] NOT NULL DEFAULT '{}',
			total_spent    double precision NOT NULL DEFAULT 0,
			created_at     timestamptz NOT NULL DEFAULT now(),
			updated_at     timestamptz NOT NULL DEFAULT now()
		);`)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

var _ BookingStore = (*PGStore)(nil)
