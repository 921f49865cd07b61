package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globerise/globerise_backend/models"
)

type WithdrawalRepository interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Withdrawal, error)
	ListByStatus(ctx context.Context, status string) ([]models.Withdrawal, error)
	Create(ctx context.Context, withdrawal *models.Withdrawal) error
	Update(ctx context.Context, withdrawal *models.Withdrawal) error
}

type MongoWithdrawalRepository struct {
	collection *mongo.Collection
}

func NewMongoWithdrawalRepository(db *mongo.Database) *MongoWithdrawalRepository {
	return &MongoWithdrawalRepository{collection: db.Collection("withdrawals")}
}

func (r *MongoWithdrawalRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var withdrawal models.Withdrawal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&withdrawal)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func (r *MongoWithdrawalRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Withdrawal, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *MongoWithdrawalRepository) ListByStatus(ctx context.Context, status string) ([]models.Withdrawal, error) {
	return r.list(ctx, bson.M{"status": status})
}

func (r *MongoWithdrawalRepository) list(ctx context.Context, filter bson.M) ([]models.Withdrawal, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	var withdrawals []models.Withdrawal
	if err := cursor.All(ctx, &withdrawals); err != nil {
		return nil, err
	}
	return withdrawals, nil
}

func (r *MongoWithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	withdrawal.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, withdrawal)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		withdrawal.ID = oid
	}
	return nil
}

func (r *MongoWithdrawalRepository) Update(ctx context.Context, withdrawal *models.Withdrawal) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": withdrawal.ID}, withdrawal)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
