package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MHaddad/fieldtrack_backend/models"
)

type MongoEmployeeRepository struct {
	collection *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *MongoEmployeeRepository {
	return &MongoEmployeeRepository{collection: db.Collection("employees")}
}

func (r *MongoEmployeeRepository) Insert(ctx context.Context, employee *models.Employee) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, employee)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoEmployeeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	var employee models.Employee
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&employee)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *MongoEmployeeRepository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&employee)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *MongoEmployeeRepository) FindAll(ctx context.Context) ([]models.Employee, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoEmployeeRepository) FindByRole(ctx context.Context, role string) ([]models.Employee, error) {
	return r.find(ctx, bson.M{"role": role})
}

func (r *MongoEmployeeRepository) FindByManagerID(ctx context.Context, managerID primitive.ObjectID) ([]models.Employee, error) {
	return r.find(ctx, bson.M{"managerId": managerID})
}

func (r *MongoEmployeeRepository) FindByBDMID(ctx context.Context, bdmID primitive.ObjectID) ([]models.Employee, error) {
	return r.find(ctx, bson.M{"bdmId": bdmID})
}

func (r *MongoEmployeeRepository) find(ctx context.Context, filter bson.M) ([]models.Employee, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var employees []models.Employee
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *MongoEmployeeRepository) SetLinks(ctx context.Context, id primitive.ObjectID, managerID, bdmID *primitive.ObjectID) error {
	set := bson.M{"updatedAt": time.Now()}
	unset := bson.M{}
	if managerID != nil {
		set["managerId"] = *managerID
	} else {
		unset["managerId"] = ""
	}
	if bdmID != nil {
		set["bdmId"] = *bdmID
	} else {
		unset["bdmId"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoEmployeeRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.EmployeeUpdate) error {
	set := bson.M{"updatedAt": time.Now()}
	if update.FullName != "" {
		set["fullName"] = update.FullName
	}
	if update.Email != "" {
		set["email"] = update.Email
	}
	if update.PhoneNumber != "" {
		set["phoneNumber"] = update.PhoneNumber
	}
	if update.Password != "" {
		set["password"] = update.Password
	}
	if update.FCMToken != "" {
		set["fcmToken"] = update.FCMToken
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// Deactivate soft-deletes the employee. Ids are never reused, so
// records are flagged inactive rather than removed.
func (r *MongoEmployeeRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"isActive":  false,
			"updatedAt": time.Now(),
		},
	})
	return err
}
