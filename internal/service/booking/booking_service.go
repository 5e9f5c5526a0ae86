package booking

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trusttrip/backend/internal/catalog"
	"github.com/trusttrip/backend/internal/credential"
	"github.com/trusttrip/backend/internal/domain"
	"github.com/trusttrip/backend/internal/kafka"
	"github.com/trusttrip/backend/internal/repository"
	"github.com/trusttrip/backend/internal/trust"
)

var (
	walletAddressRe = regexp.MustCompile(`^cheqd1[0-9a-z]{38}$`)
	bookingDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*Confirmation, error)
	EstimatePrice(ctx context.Context, input EstimateInput) (*domain.Estimate, error)
	BookingsByWallet(ctx context.Context, walletAddress string) ([]domain.Booking, error)
	BookingByID(ctx context.Context, bookingID string) (*domain.Booking, error)
	UserProfile(ctx context.Context, walletAddress string) (*UserProfile, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

// Selector picks one catalog offer for the request.
type Selector interface {
	Select(ctx context.Context, t domain.BookingType, destination string, budget float64) (*domain.Offer, error)
}

// Identity creates DIDs through the identity layer. Optional: without it the
// pipeline derives placeholder DIDs.
type Identity interface {
	CreateDID(ctx context.Context, entityName string) (string, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Cache is optional; every method tolerates a nil cache. Estimates are keyed
// by type, destination and budget so a budget-free quote is never served to a
// budget-constrained request.
type Cache interface {
	GetEstimate(ctx context.Context, t domain.BookingType, destination string, budget float64) (*domain.Estimate, error)
	SetEstimate(ctx context.Context, t domain.BookingType, destination string, budget float64, estimate *domain.Estimate) error
	GetStats(ctx context.Context) (*domain.Stats, error)
	SetStats(ctx context.Context, stats *domain.Stats) error
}

type CreateBookingInput struct {
	BookingType      string  `json:"bookingType"`
	Destination      string  `json:"destination"`
	DepartureDate    string  `json:"departureDate" binding:"omitempty,bookdate"`
	ReturnDate       string  `json:"returnDate" binding:"omitempty,bookdate"`
	Travelers        int     `json:"travelers"`
	Budget           float64 `json:"budget"`
	WalletAddress    string  `json:"walletAddress" binding:"omitempty,cheqdaddr"`
	TransactionHash  string  `json:"transactionHash"`
	SimulatedPayment bool    `json:"simulatedPayment"`
}

type EstimateInput struct {
	BookingType   string  `json:"bookingType"`
	Destination   string  `json:"destination"`
	Budget        float64 `json:"budget"`
	WalletAddress string  `json:"walletAddress"`
}

// Confirmation is the outcome of a successful booking pipeline run.
type Confirmation struct {
	Booking    *domain.Booking
	Credential *domain.Credential
}

// UserProfile is assembled on read: totalSpent and the per-type counts are
// recomputed from the booking list rather than trusted from the stored user
// aggregate, so partial writes can never skew them.
type UserProfile struct {
	WalletAddress     string                `json:"walletAddress"`
	Bookings          []domain.Booking      `json:"bookings"`
	TotalSpent        float64               `json:"totalSpent"`
	BookingsByType    domain.BookingsByType `json:"bookingsByType"`
	MostRecentBooking *domain.Booking       `json:"mostRecentBooking"`
	MemberSince       time.Time             `json:"memberSince"`
}

type Service struct {
	store              repository.BookingStore
	selector           Selector
	registry           *trust.Registry
	checker            trust.Checker
	identity           Identity
	issuer             credential.Issuer
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	providerAddress    string
}

type ServiceOption func(*Service)

func WithIdentity(identity Identity) ServiceOption {
	return func(s *Service) { s.identity = identity }
}

func WithCache(cache Cache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

func WithProducer(producer Producer, topic string) ServiceOption {
	return func(s *Service) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

func WithNotificationsTopic(topic string) ServiceOption {
	return func(s *Service) { s.notificationsTopic = topic }
}

func WithProviderAddress(address string) ServiceOption {
	return func(s *Service) { s.providerAddress = address }
}

func NewService(
	store repository.BookingStore,
	selector Selector,
	registry *trust.Registry,
	checker trust.Checker,
	issuer credential.Issuer,
	opts ...ServiceOption,
) *Service {
	service := &Service{
		store:    store,
		selector: selector,
		registry: registry,
		checker:  checker,
		issuer:   issuer,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func validateCreateInput(input CreateBookingInput) error {
	if input.BookingType == "" || input.Destination == "" || input.WalletAddress == "" ||
		input.DepartureDate == "" || input.ReturnDate == "" {
		return domain.NewValidationError("missing required fields: destination, budget, bookingType, walletAddress, departureDate, or returnDate")
	}
	if input.Budget <= 0 {
		return domain.NewValidationError("invalid budget provided")
	}
	if !walletAddressRe.MatchString(input.WalletAddress) {
		return domain.NewValidationError("invalid wallet address format")
	}
	if !bookingDateRe.MatchString(input.DepartureDate) || !bookingDateRe.MatchString(input.ReturnDate) {
		return domain.NewValidationError("invalid date format (use YYYY-MM-DD)")
	}
	if !domain.BookingType(input.BookingType).Valid() {
		return domain.NewValidationError(fmt.Sprintf("invalid booking type: %s (valid types: %v)", input.BookingType, domain.BookingTypes()))
	}
	return nil
}

// CreateBooking runs the full pipeline: validate, select a provider, resolve
// trust, issue a credential, persist, publish. Failures before persistence
// produce no side effects; external-service failures degrade silently.
func (s *Service) CreateBooking(ctx context.Context, input CreateBookingInput) (*Confirmation, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	bookingType := domain.BookingType(input.BookingType)
	offer, err := s.selector.Select(ctx, bookingType, input.Destination, input.Budget)
	if err != nil {
		return nil, fmt.Errorf("no trusted %s providers found for %s: %w",
			input.BookingType, catalog.Normalize(input.Destination), err)
	}
	// Re-check against the budget in case the advisory AI path misbehaved.
	if offer.Price > input.Budget {
		return nil, fmt.Errorf("no %s options found within your budget of %g: %w",
			input.BookingType, input.Budget, domain.ErrOverBudget)
	}

	userDID := s.resolveUserDID(ctx, input.WalletAddress)
	providerDID := s.registry.ResolveDID(bookingType, offer.Provider)

	trusted, err := s.checker.IsTrusted(ctx, providerDID)
	if err != nil {
		logrus.WithField("providerDID", providerDID).Warnf("trust registry check failed, continuing: %v", err)
	} else if !trusted {
		// Demo behavior: an untrusted provider is logged, not rejected.
		logrus.WithFields(logrus.Fields{
			"provider":    offer.Provider,
			"providerDID": providerDID,
		}).Warn("provider is not verified in the trust registry, continuing")
	}

	cred := s.issueCredential(ctx, userDID, providerDID, offer, input)

	now := time.Now().UTC()
	booking := &domain.Booking{
		BookingID:        uuid.NewString(),
		BookingType:      bookingType,
		Provider:         offer.Provider,
		ProviderDID:      providerDID,
		Destination:      offer.Destination,
		DepartureDate:    input.DepartureDate,
		ReturnDate:       input.ReturnDate,
		Price:            offer.Price,
		Currency:         offer.Currency,
		Travelers:        travelersOrDefault(input.Travelers),
		WalletAddress:    input.WalletAddress,
		TransactionHash:  input.TransactionHash,
		SimulatedPayment: input.SimulatedPayment,
		UserDID:          userDID,
		Status:           domain.BookingStatusConfirmed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.SaveBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}
	if _, err := s.store.UpsertUser(ctx, input.WalletAddress, userDID, booking.BookingID, offer.Price); err != nil {
		// The booking itself is safe; the aggregate is recomputed on read.
		logrus.WithField("wallet", input.WalletAddress).Errorf("failed to update user aggregate: %v", err)
	}

	s.publishConfirmed(ctx, booking)

	return &Confirmation{Booking: booking, Credential: cred}, nil
}

func travelersOrDefault(travelers int) int {
	if travelers <= 0 {
		return 1
	}
	return travelers
}

func (s *Service) resolveUserDID(ctx context.Context, walletAddress string) string {
	if s.identity == nil {
		return trust.UserDID(walletAddress)
	}
	did, err := s.identity.CreateDID(ctx, "user-"+walletAddress)
	if err != nil {
		logrus.Warnf("did creation failed, using placeholder: %v", err)
		return trust.UserDID(walletAddress)
	}
	return did
}

func (s *Service) issueCredential(ctx context.Context, userDID, providerDID string, offer *domain.Offer, input CreateBookingInput) *domain.Credential {
	data := map[string]any{
		"bookingType":      input.BookingType,
		"provider":         offer.Provider,
		"providerDID":      providerDID,
		"destination":      offer.Destination,
		"price":            offer.Price,
		"currency":         offer.Currency,
		"dates":            fmt.Sprintf("%s to %s", input.DepartureDate, input.ReturnDate),
		"travelers":        travelersOrDefault(input.Travelers),
		"transactionHash":  input.TransactionHash,
		"simulatedPayment": input.SimulatedPayment,
	}
	cred, err := s.issuer.Issue(ctx, trust.AgentDID, userDID, data)
	if err != nil {
		logrus.Warnf("credential issuance failed, using minimal credential: %v", err)
		return credential.Minimal(domain.BookingType(input.BookingType), offer.Provider, offer.Destination)
	}
	return cred
}

func (s *Service) publishConfirmed(ctx context.Context, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:          "booking_confirmed",
		BookingID:     booking.BookingID,
		BookingType:   string(booking.BookingType),
		Provider:      booking.Provider,
		Destination:   booking.Destination,
		Price:         booking.Price,
		Currency:      booking.Currency,
		WalletAddress: booking.WalletAddress,
		CreatedAt:     booking.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.BookingID, event); err != nil {
		logrus.WithField("bookingId", booking.BookingID).Warnf("failed to publish booking event: %v", err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.BookingID, event); err != nil {
			logrus.WithField("bookingId", booking.BookingID).Warnf("failed to publish notification event: %v", err)
		}
	}
}

// EstimatePrice quotes the cheapest matching offer without creating anything.
func (s *Service) EstimatePrice(ctx context.Context, input EstimateInput) (*domain.Estimate, error) {
	if input.BookingType == "" || input.Destination == "" || input.WalletAddress == "" {
		return nil, domain.NewValidationError("missing required fields: destination, bookingType, or walletAddress")
	}
	if !walletAddressRe.MatchString(input.WalletAddress) {
		return nil, domain.NewValidationError("invalid wallet address format")
	}
	bookingType := domain.BookingType(input.BookingType)
	if !bookingType.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid booking type: %s", input.BookingType))
	}

	destination := catalog.Normalize(input.Destination)
	if s.cache != nil {
		if cached, err := s.cache.GetEstimate(ctx, bookingType, destination, input.Budget); err == nil && cached != nil {
			return cached, nil
		}
	}

	offer, err := s.selector.Select(ctx, bookingType, input.Destination, input.Budget)
	if err != nil {
		return nil, fmt.Errorf("no %s options found for %s: %w", input.BookingType, destination, err)
	}

	estimate := &domain.Estimate{
		Price:           offer.Price,
		Currency:        offer.Currency,
		Provider:        offer.Provider,
		Destination:     offer.Destination,
		ProviderDID:     s.registry.ResolveDID(bookingType, offer.Provider),
		ProviderAddress: s.providerAddress,
	}
	if s.cache != nil {
		_ = s.cache.SetEstimate(ctx, bookingType, destination, input.Budget, estimate)
	}
	return estimate, nil
}

func (s *Service) BookingsByWallet(ctx context.Context, walletAddress string) ([]domain.Booking, error) {
	if !walletAddressRe.MatchString(walletAddress) {
		return nil, domain.NewValidationError("invalid wallet address format")
	}
	return s.store.FindBookingsByWallet(ctx, walletAddress)
}

func (s *Service) BookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, domain.NewValidationError("booking id is required")
	}
	return s.store.FindBookingByID(ctx, bookingID)
}

// UserProfile recomputes the aggregate from the booking list on every call.
func (s *Service) UserProfile(ctx context.Context, walletAddress string) (*UserProfile, error) {
	if !walletAddressRe.MatchString(walletAddress) {
		return nil, domain.NewValidationError("invalid wallet address format")
	}

	bookings, err := s.store.FindBookingsByWallet(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	user, userErr := s.store.FindUserByWallet(ctx, walletAddress)
	if len(bookings) == 0 && userErr != nil {
		return nil, domain.ErrNotFound
	}

	profile := &UserProfile{
		WalletAddress: walletAddress,
		Bookings:      bookings,
	}
	for i := range bookings {
		profile.TotalSpent += bookings[i].Price
		switch bookings[i].BookingType {
		case domain.BookingTypeFlight:
			profile.BookingsByType.Flight++
		case domain.BookingTypeHotel:
			profile.BookingsByType.Hotel++
		case domain.BookingTypeCar:
			profile.BookingsByType.Car++
		}
	}
	if len(bookings) > 0 {
		profile.MostRecentBooking = &bookings[0]
		profile.MemberSince = bookings[len(bookings)-1].CreatedAt
	} else if user != nil {
		profile.MemberSince = user.CreatedAt
	}
	return profile, nil
}

func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetStats(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetStats(ctx, stats)
	}
	return stats, nil
}

var _ BookingUseCase = (*Service)(nil)
