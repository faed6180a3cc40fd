package refundRepo

import (
	"context"
	"fmt"
	"time"

	"bookline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TotalsByClient computes the refund totals projection in a single
// aggregation: COMPLETED amounts in one bucket, PENDING and APPROVED in the
// other. REJECTED refunds count toward neither.
func (r *MongoRefundRepo) TotalsByClient(clientID string) (models.RefundTotals, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"clientId": clientID}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"completed": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.RefundCompleted}},
				"$amount",
				0,
			}}},
			"outstanding": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{"$status", bson.A{models.RefundPending, models.RefundApproved}}},
				"$amount",
				0,
			}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RefundTotals{}, fmt.Errorf("failed to aggregate refund totals for client %s: %w", clientID, err)
	}
	defer cursor.Close(ctx)

	var results []models.RefundTotals
	if err := cursor.All(ctx, &results); err != nil {
		return models.RefundTotals{}, fmt.Errorf("failed to decode refund totals: %w", err)
	}
	if len(results) == 0 {
		return models.RefundTotals{}, nil
	}
	return results[0], nil
}
