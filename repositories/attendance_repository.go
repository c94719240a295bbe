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

type MongoAttendanceRepository struct {
	collection *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *MongoAttendanceRepository {
	return &MongoAttendanceRepository{collection: db.Collection("attendance")}
}

// UpsertLogin relies on the unique (employeeId, day) index: the upsert
// inserts the record only when the day has none yet, and concurrent
// logins for the same employee and day converge on one document.
func (r *MongoAttendanceRepository) UpsertLogin(ctx context.Context, employeeID primitive.ObjectID, day string, loginTime time.Time) (*models.AttendanceRecord, error) {
	filter := bson.M{"employeeId": employeeID, "day": day}
	update := bson.M{"$setOnInsert": bson.M{
		"employeeId": employeeID,
		"day":        day,
		"loginTime":  loginTime,
		"createdAt":  loginTime,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var record models.AttendanceRecord
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *MongoAttendanceRepository) CloseOpen(ctx context.Context, employeeID primitive.ObjectID, day string, logoutTime time.Time) (*models.AttendanceRecord, error) {
	filter := bson.M{
		"employeeId": employeeID,
		"day":        day,
		"logoutTime": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{"logoutTime": logoutTime}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var record models.AttendanceRecord
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *MongoAttendanceRepository) FindByEmployeeAndDay(ctx context.Context, employeeID primitive.ObjectID, day string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.collection.FindOne(ctx, bson.M{"employeeId": employeeID, "day": day}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *MongoAttendanceRepository) FindByDay(ctx context.Context, day string) ([]models.AttendanceRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"day": day})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.AttendanceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
