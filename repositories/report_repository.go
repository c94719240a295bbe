package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MHaddad/fieldtrack_backend/models"
)

type MongoSalesReportRepository struct {
	collection *mongo.Collection
}

func NewSalesReportRepository(db *mongo.Database) *MongoSalesReportRepository {
	return &MongoSalesReportRepository{collection: db.Collection("salesReports")}
}

func (r *MongoSalesReportRepository) Insert(ctx context.Context, report *models.SalesReport) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoSalesReportRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SalesReport, error) {
	var report models.SalesReport
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *MongoSalesReportRepository) FindPending(ctx context.Context) ([]models.SalesReport, error) {
	return r.find(ctx, bson.M{"status": models.StatusPending})
}

func (r *MongoSalesReportRepository) FindByBDEIDs(ctx context.Context, bdeIDs []primitive.ObjectID) ([]models.SalesReport, error) {
	if len(bdeIDs) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"bdeId": bson.M{"$in": bdeIDs}})
}

func (r *MongoSalesReportRepository) find(ctx context.Context, filter bson.M) ([]models.SalesReport, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []models.SalesReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Approve performs the pending -> approved transition as a single
// conditional update, so two concurrent approvals cannot both succeed.
func (r *MongoSalesReportRepository) Approve(ctx context.Context, id, approvedBy primitive.ObjectID, at time.Time) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": bson.M{
			"status":     models.StatusApproved,
			"approvedBy": approvedBy,
			"approvedAt": at,
			"updatedAt":  at,
		}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *MongoSalesReportRepository) SumApprovedPoints(ctx context.Context, from, to time.Time, bdeIDs []primitive.ObjectID) (int, error) {
	if len(bdeIDs) == 0 {
		return 0, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":    models.StatusApproved,
			"bdeId":     bson.M{"$in": bdeIDs},
			"createdAt": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$points"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

type MongoVerificationReportRepository struct {
	collection *mongo.Collection
}

func NewVerificationReportRepository(db *mongo.Database) *MongoVerificationReportRepository {
	return &MongoVerificationReportRepository{collection: db.Collection("verificationReports")}
}

func (r *MongoVerificationReportRepository) Insert(ctx context.Context, report *models.VerificationReport) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoVerificationReportRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.VerificationReport, error) {
	var report models.VerificationReport
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *MongoVerificationReportRepository) FindPending(ctx context.Context) ([]models.VerificationReport, error) {
	return r.find(ctx, bson.M{"status": models.StatusPending})
}

func (r *MongoVerificationReportRepository) FindByBDEIDs(ctx context.Context, bdeIDs []primitive.ObjectID) ([]models.VerificationReport, error) {
	if len(bdeIDs) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"bdeId": bson.M{"$in": bdeIDs}})
}

func (r *MongoVerificationReportRepository) find(ctx context.Context, filter bson.M) ([]models.VerificationReport, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []models.VerificationReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *MongoVerificationReportRepository) Approve(ctx context.Context, id, approvedBy primitive.ObjectID, at time.Time) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": bson.M{
			"status":     models.StatusApproved,
			"approvedBy": approvedBy,
			"approvedAt": at,
			"updatedAt":  at,
		}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *MongoVerificationReportRepository) Reject(ctx context.Context, id, rejectedBy primitive.ObjectID, reason string, at time.Time) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": bson.M{
			"status":          models.StatusRejected,
			"rejectedBy":      rejectedBy,
			"rejectedAt":      at,
			"rejectionReason": reason,
			"updatedAt":       at,
		}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}
