// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hope

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/itve/donorapi/internal/platform/constants"
	"github.com/itve/donorapi/internal/platform/dberr"
	"github.com/itve/donorapi/pkg/slice"
)

// hopeDocument is the BSON shape of a hope. The category is stored as "fields".
type hopeDocument struct {
	ID               bson.ObjectID `bson:"_id,omitempty"`
	Name             string        `bson:"name"`
	Details          string        `bson:"details"`
	TypeOfDonation   string        `bson:"type_of_donation"`
	Fields           string        `bson:"fields"`
	Amount           float64       `bson:"amount"`
	GradeRequirement *string       `bson:"grade_requirement"`
	Students         []string      `bson:"students"`
	CreatedAt        time.Time     `bson:"created_at"`
}

func toDocument(hope *Hope) hopeDocument {
	students := hope.Students
	if students == nil {
		students = []string{}
	}

	return hopeDocument{
		Name:             hope.Name,
		Details:          hope.Details,
		TypeOfDonation:   hope.TypeOfDonation,
		Fields:           hope.SupportField,
		Amount:           hope.Amount,
		GradeRequirement: hope.GradeRequirement,
		Students:         students,
		CreatedAt:        hope.CreatedAt,
	}
}

func (document *hopeDocument) toHope() *Hope {
	students := document.Students
	if students == nil {
		students = []string{}
	}

	return &Hope{
		ID:               document.ID.Hex(),
		Name:             document.Name,
		Details:          document.Details,
		TypeOfDonation:   document.TypeOfDonation,
		SupportField:     document.Fields,
		Amount:           document.Amount,
		GradeRequirement: document.GradeRequirement,
		Students:         students,
		CreatedAt:        document.CreatedAt,
	}
}

// MongoRepository implements [Repository] on the "hopes" collection.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository binds the repository to the hopes collection of database.
func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: database.Collection(constants.CollectionHopes)}
}

// Insert stores the hope and returns the hex ObjectID.
func (repository *MongoRepository) Insert(ctx context.Context, hope *Hope) (string, error) {
	result, err := repository.collection.InsertOne(ctx, toDocument(hope))
	if err != nil {
		return "", dberr.Wrap(err, "mongo_hope_insert")
	}

	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		return id.Hex(), nil
	}
	return "", dberr.Wrap(errUnexpectedID, "mongo_hope_insert")
}

// List performs a full scan ordered by _id.
func (repository *MongoRepository) List(ctx context.Context) ([]*Hope, error) {
	cursor, err := repository.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, dberr.Wrap(err, "mongo_hope_list")
	}

	var documents []hopeDocument
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, dberr.Wrap(err, "mongo_hope_list_decode")
	}

	return slice.MapRef(documents, (*hopeDocument).toHope), nil
}
