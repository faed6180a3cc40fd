package refundRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookline/database"
	"bookline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRefundRepo implements RefundRepository using MongoDB.
type MongoRefundRepo struct {
	coll *mongo.Collection
}

// NewMongoRefundRepo creates a RefundRepository backed by the "refunds"
// collection.
func NewMongoRefundRepo() RefundRepository {
	repo := &MongoRefundRepo{coll: database.Collection("refunds")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("warning: failed to ensure refund indexes: %v\n", err)
	}
	return repo
}

func (r *MongoRefundRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "appointmentId", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *MongoRefundRepo) Create(refund *models.Refund) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := r.coll.InsertOne(ctx, refund)
	if err != nil {
		return fmt.Errorf("failed to create refund: %w", err)
	}
	return nil
}

func (r *MongoRefundRepo) GetByID(id string) (*models.Refund, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var refund models.Refund
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&refund); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch refund with id %s: %w", id, err)
	}
	return &refund, nil
}

// UpdateStatus compare-and-sets the refund status so concurrent callbacks
// cannot double-apply a transition.
func (r *MongoRefundRepo) UpdateStatus(id, from, to string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update refund %s status: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRefundRepo) ListByClient(clientID string) ([]models.Refund, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"clientId": clientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list refunds for client %s: %w", clientID, err)
	}
	defer cursor.Close(ctx)

	var refunds []models.Refund
	if err := cursor.All(ctx, &refunds); err != nil {
		return nil, fmt.Errorf("failed to decode refunds: %w", err)
	}
	return refunds, nil
}
