package repositories

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globerise/globerise_backend/models"
)

// MemoryUserRepository is an in-memory UserRepository. It backs unit tests
// and the demo fallback mode when Mongo is unreachable; it is not a
// production consistency guarantee.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserRepository(seed ...models.User) *MemoryUserRepository {
	repo := &MemoryUserRepository{users: make(map[primitive.ObjectID]models.User)}
	for _, user := range seed {
		if user.ID.IsZero() {
			user.ID = primitive.NewObjectID()
		}
		repo.users[user.ID] = user
	}
	return repo
}

func (r *MemoryUserRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			user := user
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.ReferralCode == code {
			user := user
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// List applies the structured criteria, then the free-text search stage,
// then paginates. Predicates are shared with the Mongo path through
// UserFilterCriteria.
func (r *MemoryUserRepository) List(ctx context.Context, criteria UserFilterCriteria, search string, page, limit int) ([]models.User, int64, error) {
	r.mu.RLock()
	snapshot := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		if user.UserType == "member" {
			snapshot = append(snapshot, user)
		}
	}
	r.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].CreatedAt.After(snapshot[j].CreatedAt)
	})

	filtered := criteria.Apply(snapshot)
	filtered = ApplySearch(filtered, search)

	total := int64(len(filtered))
	start := (page - 1) * limit
	if start >= len(filtered) {
		return []models.User{}, total, nil
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

var demoCountries = []string{"Afghanistan", "Brazil", "Canada", "Germany", "India", "Nigeria", "United States"}

// SeedDemoUsers generates a deterministic demo dataset for offline use
func SeedDemoUsers(n int) []models.User {
	rng := rand.New(rand.NewSource(42))
	users := make([]models.User, 0, n)

	base := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		teamBusiness := float64(rng.Intn(200000))
		rank, _ := models.ClassifyRank(teamBusiness)

		user := models.User{
			ID:                   primitive.NewObjectID(),
			Username:             fmt.Sprintf("member%03d", i+1),
			Email:                fmt.Sprintf("member%03d@example.com", i+1),
			FullName:             fmt.Sprintf("Demo Member %d", i+1),
			UserType:             "member",
			Status:               []string{"active", "active", "active", "banned", "pending"}[rng.Intn(5)],
			Country:              demoCountries[rng.Intn(len(demoCountries))],
			EmailVerified:        rng.Intn(4) != 0,
			PhoneVerified:        rng.Intn(2) == 0,
			Points:               rng.Intn(500),
			DepositWallet:        float64(rng.Intn(10000)),
			WithdrawalWallet:     float64(rng.Intn(2000)),
			TeamBusiness:         teamBusiness,
			Rank:                 rank,
			HasPendingWithdrawal: rng.Intn(5) == 0,
			HasPendingInvestment: rng.Intn(5) == 0,
			CreatedAt:            base.AddDate(0, 0, i),
			UpdatedAt:            base.AddDate(0, 0, i),
		}
		users = append(users, user)
	}
	return users
}
