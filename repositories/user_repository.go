package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globerise/globerise_backend/models"
)

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = errors.New("not found")

// UserRepository is the storage contract for members. The Mongo
// implementation backs production; the in-memory one backs tests and the
// demo fallback when the database is unreachable.
type UserRepository interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByReferralCode(ctx context.Context, code string) (*models.User, error)
	List(ctx context.Context, criteria UserFilterCriteria, search string, page, limit int) ([]models.User, int64, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoUserRepository implements UserRepository over the users collection
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

func (r *MongoUserRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"referralCode": code}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of members matching the structured criteria, then the
// free-text search term. Search runs as its own match stage so it composes
// with any filter state.
func (r *MongoUserRepository) List(ctx context.Context, criteria UserFilterCriteria, search string, page, limit int) ([]models.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	filter := criteria.ToBSON()
	clause := searchClause(search)

	pipeline := []bson.M{{"$match": filter}}
	if clause != nil {
		pipeline = append(pipeline, bson.M{"$match": clause})
	}
	pipeline = append(pipeline,
		bson.M{"$sort": bson.M{"createdAt": -1}},
		bson.M{"$skip": int64((page - 1) * limit)},
		bson.M{"$limit": int64(limit)},
	)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, listCountFilter(filter, clause))
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// listCountFilter combines the structured filter with the search clause so
// the reported total counts exactly what the page pipeline matches
func listCountFilter(filter, clause bson.M) bson.M {
	if clause == nil {
		return filter
	}
	return bson.M{"$and": []bson.M{filter, clause}}
}

// searchClause builds the free-text match over the identity fields
func searchClause(search string) bson.M {
	term := searchRegex(search)
	if term == nil {
		return nil
	}
	return bson.M{"$or": []bson.M{
		{"username": term},
		{"email": term},
		{"fullName": term},
	}}
}

func searchRegex(search string) bson.M {
	if search == "" {
		return nil
	}
	return bson.M{"$regex": primitive.Regex{Pattern: regexEscape(search), Options: "i"}}
}

func regexEscape(s string) string {
	special := `\.+*?()|[]{}^$`
	escaped := make([]rune, 0, len(s))
	for _, r := range s {
		for _, c := range special {
			if r == c {
				escaped = append(escaped, '\\')
				break
			}
		}
		escaped = append(escaped, r)
	}
	return string(escaped)
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	user.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, options.Replace())
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
