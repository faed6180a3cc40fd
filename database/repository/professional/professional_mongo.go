package professionalRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookline/database"
	"bookline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProfessionalRepo implements ProfessionalRepository using MongoDB.
type MongoProfessionalRepo struct {
	coll *mongo.Collection
}

// NewMongoProfessionalRepo creates a ProfessionalRepository backed by the
// "professionals" collection.
func NewMongoProfessionalRepo() ProfessionalRepository {
	repo := &MongoProfessionalRepo{coll: database.Collection("professionals")}
	if err := repo.ensureIndexes(); err != nil {
		// Index creation failing is not fatal; queries degrade to scans.
		fmt.Printf("warning: failed to ensure professional indexes: %v\n", err)
	}
	return repo
}

func (r *MongoProfessionalRepo) Create(professional *models.Professional) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := r.coll.InsertOne(ctx, professional)
	if err != nil {
		return fmt.Errorf("failed to create professional: %w", err)
	}
	return nil
}

func (r *MongoProfessionalRepo) GetByID(id string) (*models.Professional, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var professional models.Professional
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&professional); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch professional with id %s: %w", id, err)
	}
	return &professional, nil
}

func (r *MongoProfessionalRepo) Update(professional *models.Professional) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	professional.UpdatedAt = time.Now()
	filter := bson.M{"id": professional.ID}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": professional})
	if err != nil {
		return fmt.Errorf("failed to update professional with id %s: %w", professional.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProfessionalRepo) AddService(professionalID string, svc models.Service) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{"id": professionalID}
	update := bson.M{
		"$push": bson.M{"services": svc},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add service to professional %s: %w", professionalID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDayAvailability overwrites a single weekday's interval set in one
// update, so a day is never observed half-replaced.
func (r *MongoProfessionalRepo) SetDayAvailability(professionalID string, day time.Weekday, intervals []models.OpenInterval) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if intervals == nil {
		intervals = []models.OpenInterval{}
	}
	filter := bson.M{"id": professionalID}
	update := bson.M{
		"$set": bson.M{
			fmt.Sprintf("weekly.days.%d", int(day)): intervals,
			"updatedAt":                             time.Now(),
		},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set availability for professional %s: %w", professionalID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
