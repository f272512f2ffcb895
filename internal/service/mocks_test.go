package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adeolu/ridebid/internal/models"
	"github.com/adeolu/ridebid/internal/repository"
	"github.com/google/uuid"
)

// In-memory fakes for the repository interfaces. Each mirrors the store
// contract its Postgres counterpart documents, including the sentinel
// errors atomic operations return.

type mockRequestRepo struct {
	mu       sync.RWMutex
	requests map[string]*models.RideRequest
	bids     map[string]*models.Bid

	// Error injection
	CreateError error
	GetError    error

	// Hooks run just before a guarded write applies, letting tests
	// interleave a concurrent state change.
	UpdateStatusHook func()
	DeleteHook       func()

	DeleteCallCount int32
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{
		requests: make(map[string]*models.RideRequest),
		bids:     make(map[string]*models.Bid),
	}
}

func (m *mockRequestRepo) addRequest(request *models.RideRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[request.ID] = request
}

func (m *mockRequestRepo) addBid(bid *models.Bid) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bids[bid.ID] = bid
}

func (m *mockRequestRepo) getRequest(id string) *models.RideRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[id]
}

func (m *mockRequestRepo) setStatus(id, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if request, ok := m.requests[id]; ok {
		request.Status = status
	}
}

func (m *mockRequestRepo) Create(ctx context.Context, request *models.RideRequest) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	request.Status = models.RequestStatusPending
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt

	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *request
	m.requests[request.ID] = &copy
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id string) (*models.RideRequest, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	request, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	copy := *request
	return &copy, nil
}

func (m *mockRequestRepo) GetActiveByPassengerID(ctx context.Context, passengerID string) (*models.RideRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *models.RideRequest
	for _, r := range m.requests {
		if r.PassengerID != passengerID || !r.IsActive() {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, nil
	}
	copy := *latest
	return &copy, nil
}

func (m *mockRequestRepo) GetOpen(ctx context.Context) ([]*models.RideRequest, error) {
	return m.selectByStatus(models.RequestStatusPending, ""), nil
}

func (m *mockRequestRepo) GetHistoryByPassengerID(ctx context.Context, passengerID string) ([]*models.RideRequest, error) {
	return m.selectByStatus(models.RequestStatusCompleted, passengerID), nil
}

func (m *mockRequestRepo) GetLatestCompletedByPassengerID(ctx context.Context, passengerID string) (*models.RideRequest, error) {
	completed := m.selectByStatus(models.RequestStatusCompleted, passengerID)
	if len(completed) == 0 {
		return nil, nil
	}
	return completed[0], nil
}

func (m *mockRequestRepo) GetRecent(ctx context.Context, limit int) ([]*models.RideRequest, error) {
	all := m.selectByStatus("", "")
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// selectByStatus returns copies, newest first; empty filters match all.
func (m *mockRequestRepo) selectByStatus(status, passengerID string) []*models.RideRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*models.RideRequest
	for _, r := range m.requests {
		if status != "" && r.Status != status {
			continue
		}
		if passengerID != "" && r.PassengerID != passengerID {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (m *mockRequestRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	if m.UpdateStatusHook != nil {
		m.UpdateStatusHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok || request.Status != from {
		return fmt.Errorf("ride request %s is not %s: %w", id, from, repository.ErrWrongState)
	}
	request.Status = to
	request.UpdatedAt = time.Now()
	return nil
}

func (m *mockRequestRepo) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteHook != nil {
		m.DeleteHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok || request.Status != models.RequestStatusPending {
		return fmt.Errorf("ride request %s is not %s: %w", id, models.RequestStatusPending, repository.ErrWrongState)
	}
	delete(m.requests, id)
	for bidID, bid := range m.bids {
		if bid.RequestID == id {
			delete(m.bids, bidID)
		}
	}
	return nil
}

func (m *mockRequestRepo) AcceptBid(ctx context.Context, id, bidID string) (*models.RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	request, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("ride request %s: %w", id, repository.ErrNotFound)
	}
	if request.Status != models.RequestStatusPending {
		return nil, fmt.Errorf("ride request %s is %s: %w", id, request.Status, repository.ErrWrongState)
	}

	bid, ok := m.bids[bidID]
	if !ok || bid.RequestID != id {
		return nil, fmt.Errorf("bid %s: %w", bidID, repository.ErrNotFound)
	}

	snapshot := models.SnapshotBid(bid)
	request.Status = models.RequestStatusAccepted
	request.AcceptedBidID = &bid.ID
	request.AcceptedBid = snapshot
	request.UpdatedAt = time.Now()

	copy := *request
	return &copy, nil
}

type mockBidRepo struct {
	mu   sync.RWMutex
	bids []*models.Bid

	CreateError     error
	CreateCallCount int32
}

func newMockBidRepo() *mockBidRepo {
	return &mockBidRepo{}
}

func (m *mockBidRepo) addBid(bid *models.Bid) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bids = append(m.bids, bid)
}

func (m *mockBidRepo) Create(ctx context.Context, bid *models.Bid) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	if bid.ID == "" {
		bid.ID = uuid.New().String()
	}
	bid.CreatedAt = time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *bid
	m.bids = append(m.bids, &copy)
	return nil
}

func (m *mockBidRepo) GetByID(ctx context.Context, id string) (*models.Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bids {
		if b.ID == id {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *mockBidRepo) ListByRequestID(ctx context.Context, requestID string) ([]*models.Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*models.Bid
	for _, b := range m.bids {
		if b.RequestID == requestID {
			copy := *b
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Amount != result[j].Amount {
			return result[i].Amount < result[j].Amount
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

type mockRatingRepo struct {
	mu      sync.RWMutex
	drivers map[string]*models.User
	ratings map[string]*models.Rating // keyed by ride_request_id

	SubmitError error
}

func newMockRatingRepo() *mockRatingRepo {
	return &mockRatingRepo{
		drivers: make(map[string]*models.User),
		ratings: make(map[string]*models.Rating),
	}
}

func (m *mockRatingRepo) addDriver(driver *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *mockRatingRepo) getDriver(id string) *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

func (m *mockRatingRepo) SubmitWithAggregate(ctx context.Context, rating *models.Rating) error {
	if m.SubmitError != nil {
		return m.SubmitError
	}
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	rating.CreatedAt = time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	driver, ok := m.drivers[rating.DriverID]
	if !ok {
		return fmt.Errorf("driver %s: %w", rating.DriverID, repository.ErrNotFound)
	}
	if _, exists := m.ratings[rating.RideRequestID]; exists {
		return fmt.Errorf("ride %s already rated: %w", rating.RideRequestID, repository.ErrDuplicate)
	}

	copy := *rating
	m.ratings[rating.RideRequestID] = &copy
	driver.RatingAverage, driver.RatingCount = models.FoldRating(driver.RatingAverage, driver.RatingCount, rating.Rating)
	return nil
}

func (m *mockRatingRepo) GetByRequestID(ctx context.Context, requestID string) (*models.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rating, ok := m.ratings[requestID]
	if !ok {
		return nil, nil
	}
	copy := *rating
	return &copy, nil
}

func (m *mockRatingRepo) ListByDriverID(ctx context.Context, driverID string) ([]*models.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*models.Rating
	for _, r := range m.ratings {
		if r.DriverID == driverID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

type mockMessageRepo struct {
	mu       sync.RWMutex
	messages []*models.Message

	CreateError error
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{}
}

func (m *mockMessageRepo) Create(ctx context.Context, message *models.Message) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *message
	m.messages = append(m.messages, &copy)
	return nil
}

func (m *mockMessageRepo) ListByRequestID(ctx context.Context, requestID string) ([]*models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*models.Message
	for _, msg := range m.messages {
		if msg.RequestID == requestID {
			copy := *msg
			result = append(result, &copy)
		}
	}
	return result, nil
}

type mockFareRepo struct {
	mu  sync.RWMutex
	cfg *models.FareConfig

	GetError error
}

func newMockFareRepo(cfg *models.FareConfig) *mockFareRepo {
	return &mockFareRepo{cfg: cfg}
}

func (m *mockFareRepo) Get(ctx context.Context) (*models.FareConfig, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cfg == nil {
		return nil, nil
	}
	copy := *m.cfg
	return &copy, nil
}

func (m *mockFareRepo) Seed(ctx context.Context, baseFare, ratePerKm, ratePerMinute int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		m.cfg = &models.FareConfig{
			ID:            1,
			BaseFare:      baseFare,
			RatePerKm:     ratePerKm,
			RatePerMinute: ratePerMinute,
			UpdatedAt:     time.Now(),
		}
	}
	return nil
}

func (m *mockFareRepo) Merge(ctx context.Context, req *models.UpdateFareConfigRequest) (*models.FareConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return nil, nil
	}
	if req.BaseFare != nil {
		m.cfg.BaseFare = *req.BaseFare
	}
	if req.RatePerKm != nil {
		m.cfg.RatePerKm = *req.RatePerKm
	}
	if req.RatePerMinute != nil {
		m.cfg.RatePerMinute = *req.RatePerMinute
	}
	m.cfg.UpdatedAt = time.Now()
	copy := *m.cfg
	return &copy, nil
}

type mockUserRepo struct {
	mu    sync.RWMutex
	users map[string]*models.User

	CreateError error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) addUser(user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *mockUserRepo) getUser(id string) *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copy := *user
	return &copy, nil
}

func (m *mockUserRepo) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ExternalID == externalID {
			copy := *u
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetAll(ctx context.Context) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.users[user.ID]; ok {
		stored.Name = user.Name
		stored.CarMake = user.CarMake
		stored.CarModel = user.CarModel
		stored.CarColor = user.CarColor
		stored.LicensePlate = user.LicensePlate
		stored.LicenseURL = user.LicenseURL
		stored.IsAvailable = user.IsAvailable
		stored.UpdatedAt = time.Now()
	}
	return nil
}

func (m *mockUserRepo) UpdateIdentity(ctx context.Context, id, name, email string, avatarURL *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.users[id]; ok {
		stored.Name = name
		stored.Email = email
		stored.AvatarURL = avatarURL
		stored.UpdatedAt = time.Now()
	}
	return nil
}

func (m *mockUserRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.users[id]; ok {
		stored.IsVerified = verified
		stored.UpdatedAt = time.Now()
	}
	return nil
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	RequestID string
	Type      string
}

func (p *capturePublisher) Publish(ctx context.Context, requestID, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{RequestID: requestID, Type: eventType})
}

func (p *capturePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}
