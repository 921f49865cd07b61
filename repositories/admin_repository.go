package repositories

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/globerise/globerise_backend/models"
)

// AdminRepository is the storage contract for back-office operators. The
// permission middleware reads through it, so it stays a small interface with
// an in-memory implementation for tests.
type AdminRepository interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	List(ctx context.Context) ([]models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	UpdatePermissions(ctx context.Context, id primitive.ObjectID, permissions []models.PermissionEntry) error
}

type MongoAdminRepository struct {
	collection *mongo.Collection
}

func NewMongoAdminRepository(db *mongo.Database) *MongoAdminRepository {
	return &MongoAdminRepository{collection: db.Collection("admins")}
}

func (r *MongoAdminRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var admin models.Admin
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *MongoAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var admin models.Admin
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *MongoAdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var admins []models.Admin
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *MongoAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	admin.Permissions = models.DedupePermissions(admin.Permissions)

	result, err := r.collection.InsertOne(ctx, admin)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		admin.ID = oid
	}
	return nil
}

func (r *MongoAdminRepository) UpdatePermissions(ctx context.Context, id primitive.ObjectID, permissions []models.PermissionEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"permissions": models.DedupePermissions(permissions),
		"updatedAt":   time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MemoryAdminRepository backs the permission middleware in tests
type MemoryAdminRepository struct {
	mu     sync.RWMutex
	admins map[primitive.ObjectID]models.Admin
}

func NewMemoryAdminRepository(seed ...models.Admin) *MemoryAdminRepository {
	repo := &MemoryAdminRepository{admins: make(map[primitive.ObjectID]models.Admin)}
	for _, admin := range seed {
		if admin.ID.IsZero() {
			admin.ID = primitive.NewObjectID()
		}
		repo.admins[admin.ID] = admin
	}
	return repo
}

func (r *MemoryAdminRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.admins[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &admin, nil
}

func (r *MemoryAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, admin := range r.admins {
		if admin.Email == email {
			admin := admin
			return &admin, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryAdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admins := make([]models.Admin, 0, len(r.admins))
	for _, admin := range r.admins {
		admins = append(admins, admin)
	}
	return admins, nil
}

func (r *MemoryAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	admin.Permissions = models.DedupePermissions(admin.Permissions)
	r.admins[admin.ID] = *admin
	return nil
}

func (r *MemoryAdminRepository) UpdatePermissions(ctx context.Context, id primitive.ObjectID, permissions []models.PermissionEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	admin, ok := r.admins[id]
	if !ok {
		return ErrNotFound
	}
	admin.Permissions = models.DedupePermissions(permissions)
	admin.UpdatedAt = time.Now()
	r.admins[id] = admin
	return nil
}
