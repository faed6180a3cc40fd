package policyRepo

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

// ErrNotFound is returned when an establishment has no stored policy.
var ErrNotFound = errors.New("establishment policy not found")

// PolicyRepository stores the per-establishment scheduling knobs.
type PolicyRepository interface {
	Get(establishmentID string) (*models.EstablishmentPolicy, error)
	Upsert(policy *models.EstablishmentPolicy) error
}

// MongoPolicyRepo implements PolicyRepository using MongoDB.
type MongoPolicyRepo struct {
	coll *mongo.Collection
}

// NewMongoPolicyRepo creates a PolicyRepository backed by the "policies"
// collection.
func NewMongoPolicyRepo() PolicyRepository {
	repo := &MongoPolicyRepo{coll: database.Collection("policies")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "establishmentId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		fmt.Printf("warning: failed to ensure policy index: %v\n", err)
	}
	return repo
}

func (r *MongoPolicyRepo) Get(establishmentID string) (*models.EstablishmentPolicy, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var policy models.EstablishmentPolicy
	if err := r.coll.FindOne(ctx, bson.M{"establishmentId": establishmentID}).Decode(&policy); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch policy for establishment %s: %w", establishmentID, err)
	}
	return &policy, nil
}

func (r *MongoPolicyRepo) Upsert(policy *models.EstablishmentPolicy) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{"establishmentId": policy.EstablishmentID}
	update := bson.M{"$set": policy}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert policy for establishment %s: %w", policy.EstablishmentID, err)
	}
	return nil
}
