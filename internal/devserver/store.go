package devserver

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mediride/transit-client/internal/core/domain"
)

// memoryStore keeps the dev server's state in process so `transitctl
// devserver` runs with zero infrastructure. Everything is lost on restart,
// which is the point.
type memoryStore struct {
	mu      sync.RWMutex
	users   map[string]*userRecord // by id
	byEmail map[string]string      // email → id
	rides   map[string]*domain.Ride
	history map[string][]domain.HistoryEntry // by user id
}

type userRecord struct {
	user         domain.User
	passwordHash string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:   map[string]*userRecord{},
		byEmail: map[string]string{},
		rides:   map[string]*domain.Ride{},
		history: map[string][]domain.HistoryEntry{},
	}
}

func (s *memoryStore) createUser(input domain.RegisterInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, exists := s.byEmail[email]; exists {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     email,
		Phone:     input.Phone,
		Role:      input.Role,
		Medical:   input.Medical,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.users[user.ID] = &userRecord{user: user, passwordHash: string(hash)}
	s.byEmail[email] = user.ID

	out := user
	return &out, nil
}

func (s *memoryStore) authenticate(email, password string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	rec := s.users[id]
	if bcrypt.CompareHashAndPassword([]byte(rec.passwordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	out := rec.user
	return &out, nil
}

func (s *memoryStore) getUser(id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := rec.user
	return &out, nil
}

func (s *memoryStore) updateUser(id string, update domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	// Identity and role are immutable here; the rest follows the payload.
	if update.Name != "" {
		rec.user.Name = update.Name
	}
	if update.Phone != "" {
		rec.user.Phone = update.Phone
	}
	if update.Medical != nil {
		rec.user.Medical = update.Medical
	}
	if update.AvatarURL != "" {
		rec.user.AvatarURL = update.AvatarURL
	}
	rec.user.UpdatedAt = time.Now().UTC()

	out := rec.user
	return &out, nil
}

func (s *memoryStore) createRide(userID string, req domain.RideRequest) *domain.Ride {
	s.mu.Lock()
	defer s.mu.Unlock()

	ride := &domain.Ride{
		ID:          uuid.NewString(),
		UserID:      userID,
		Pickup:      req.Pickup,
		Dropoff:     req.Dropoff,
		Status:      domain.RideRequested,
		ScheduledAt: req.ScheduledAt,
		CreatedAt:   time.Now().UTC(),
	}
	s.rides[ride.ID] = ride

	s.history[userID] = append(s.history[userID], domain.HistoryEntry{
		ID:         uuid.NewString(),
		RideID:     ride.ID,
		Status:     ride.Status,
		OccurredAt: ride.CreatedAt,
	})

	out := *ride
	return &out
}

func (s *memoryStore) getRide(id string) (*domain.Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ride, ok := s.rides[id]
	if !ok {
		return nil, domain.ErrRideNotFound
	}
	out := *ride
	return &out, nil
}

// listRides returns every ride visible to the actor: admins see all, riders
// see assignments, everyone else sees their own requests.
func (s *memoryStore) listRides(userID string, role domain.Role) []domain.Ride {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rides := make([]domain.Ride, 0, len(s.rides))
	for _, ride := range s.rides {
		switch {
		case role == domain.RoleAdmin:
		case role == domain.RoleRider && ride.RiderID != userID:
			continue
		case role != domain.RoleRider && ride.UserID != userID:
			continue
		}
		rides = append(rides, *ride)
	}
	return rides
}

func (s *memoryStore) cancelRide(id, userID string, role domain.Role) (*domain.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ride, ok := s.rides[id]
	if !ok {
		return nil, domain.ErrRideNotFound
	}
	if role != domain.RoleAdmin && ride.UserID != userID {
		return nil, domain.ErrForbidden
	}

	ride.Status = domain.RideCancelled
	s.history[ride.UserID] = append(s.history[ride.UserID], domain.HistoryEntry{
		ID:         uuid.NewString(),
		RideID:     ride.ID,
		Status:     ride.Status,
		OccurredAt: time.Now().UTC(),
	})

	out := *ride
	return &out, nil
}

func (s *memoryStore) listHistory(userID string) []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.history[userID]
	out := make([]domain.HistoryEntry, len(entries))
	copy(out, entries)
	return out
}
