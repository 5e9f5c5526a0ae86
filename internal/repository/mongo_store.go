package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trusttrip/backend/config"
	"github.com/trusttrip/backend/internal/domain"
)

// MongoStore is the primary durable backend: a bookings collection with a
// unique index on bookingId and a users collection keyed by walletAddress.
type MongoStore struct {
	client   *mongo.Client
	bookings *mongo.Collection
	users    *mongo.Collection
}

type bookingDoc struct {
	BookingID        string    `bson:"bookingId"`
	BookingType      string    `bson:"bookingType"`
	Provider         string    `bson:"provider"`
	ProviderDID      string    `bson:"providerDID"`
	Destination      string    `bson:"destination"`
	DepartureDate    string    `bson:"departureDate"`
	ReturnDate       string    `bson:"returnDate"`
	Price            float64   `bson:"price"`
	Currency         string    `bson:"currency"`
	Travelers        int       `bson:"travelers"`
	WalletAddress    string    `bson:"walletAddress"`
	TransactionHash  string    `bson:"transactionHash,omitempty"`
	SimulatedPayment bool      `bson:"simulatedPayment"`
	UserDID          string    `bson:"userDID"`
	Status           string    `bson:"bookingStatus"`
	CreatedAt        time.Time `bson:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt"`
}

type userDoc struct {
	WalletAddress string    `bson:"walletAddress"`
	UserDID       string    `bson:"userDID"`
	Bookings      []string  `bson:"bookings"`
	TotalSpent    float64   `bson:"totalSpent"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func NewMongoStore(ctx context.Context, cfg config.MongoConfig) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(cfg.Database)
	store := &MongoStore{
		client:   client,
		bookings: db.Collection("bookings"),
		users:    db.Collection("users"),
	}

	_, err = store.bookings.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "bookingId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create bookings index: %w", err)
	}
	_, err = store.users.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "walletAddress", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create users index: %w", err)
	}

	return store, nil
}

func (s *MongoStore) Name() string { return "mongodb" }

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func toBookingDoc(b *domain.Booking) bookingDoc {
	return bookingDoc{
		BookingID:        b.BookingID,
		BookingType:      string(b.BookingType),
		Provider:         b.Provider,
		ProviderDID:      b.ProviderDID,
		Destination:      b.Destination,
		DepartureDate:    b.DepartureDate,
		ReturnDate:       b.ReturnDate,
		Price:            b.Price,
		Currency:         b.Currency,
		Travelers:        b.Travelers,
		WalletAddress:    b.WalletAddress,
		TransactionHash:  b.TransactionHash,
		SimulatedPayment: b.SimulatedPayment,
		UserDID:          b.UserDID,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (d bookingDoc) toDomain() domain.Booking {
	return domain.Booking{
		BookingID:        d.BookingID,
		BookingType:      domain.BookingType(d.BookingType),
		Provider:         d.Provider,
		ProviderDID:      d.ProviderDID,
		Destination:      d.Destination,
		DepartureDate:    d.DepartureDate,
		ReturnDate:       d.ReturnDate,
		Price:            d.Price,
		Currency:         d.Currency,
		Travelers:        d.Travelers,
		WalletAddress:    d.WalletAddress,
		TransactionHash:  d.TransactionHash,
		SimulatedPayment: d.SimulatedPayment,
		UserDID:          d.UserDID,
		Status:           domain.BookingStatus(d.Status),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (s *MongoStore) SaveBooking(ctx context.Context, booking *domain.Booking) error {
	_, err := s.bookings.InsertOne(ctx, toBookingDoc(booking))
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (s *MongoStore) FindBookingsByWallet(ctx context.Context, walletAddress string) ([]domain.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.bookings.Find(ctx, bson.M{"walletAddress": walletAddress}, opts)
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	bookings := make([]domain.Booking, 0, len(docs))
	for _, d := range docs {
		bookings = append(bookings, d.toDomain())
	}
	return bookings, nil
}

func (s *MongoStore) FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var doc bookingDoc
	err := s.bookings.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	b := doc.toDomain()
	return &b, nil
}

func (s *MongoStore) UpsertUser(ctx context.Context, walletAddress, userDID, bookingID string, price float64) (*domain.User, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"userDID":   userDID,
			"createdAt": now,
		},
		"$set":  bson.M{"updatedAt": now},
		"$push": bson.M{"bookings": bookingID},
		"$inc":  bson.M{"totalSpent": price},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc userDoc
	err := s.users.FindOneAndUpdate(ctx, bson.M{"walletAddress": walletAddress}, update, opts).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &domain.User{
		WalletAddress: doc.WalletAddress,
		UserDID:       doc.UserDID,
		Bookings:      doc.Bookings,
		TotalSpent:    doc.TotalSpent,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}

func (s *MongoStore) FindUserByWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"walletAddress": walletAddress}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &domain.User{
		WalletAddress: doc.WalletAddress,
		UserDID:       doc.UserDID,
		Bookings:      doc.Bookings,
		TotalSpent:    doc.TotalSpent,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}

func (s *MongoStore) Stats(ctx context.Context) (*domain.Stats, error) {
	cursor, err := s.bookings.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("scan bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	bookings := make([]domain.Booking, 0, len(docs))
	for _, d := range docs {
		bookings = append(bookings, d.toDomain())
	}

	totalUsers, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return buildStats(bookings, int(totalUsers)), nil
}

var _ BookingStore = (*MongoStore)(nil)
