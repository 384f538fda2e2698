// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package donor

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/itve/donorapi/internal/platform/constants"
	"github.com/itve/donorapi/internal/platform/dberr"
	"github.com/itve/donorapi/pkg/money"
	"github.com/itve/donorapi/pkg/slice"
)

// # Document Mapping

// donorDocument is the BSON shape of a donor in the "donors" collection.
type donorDocument struct {
	ID                 bson.ObjectID         `bson:"_id,omitempty"`
	Email              string                `bson:"email"`
	Password           string                `bson:"password"`
	Phone              string                `bson:"phone"`
	Name               string                `bson:"name"`
	Username           string                `bson:"username"`
	About              string                `bson:"about,omitempty"`
	FollowersCount     int                   `bson:"followers_count"`
	FollowingCount     int                   `bson:"following_count"`
	BeneficiariesCount int                   `bson:"beneficiaries_count"`
	TotalAmountDonated int64                 `bson:"total_amount_donated"`
	DonorClass         string                `bson:"donor_class"`
	DonorRank          int                   `bson:"donor_rank"`
	Achievements       []achievementDocument `bson:"achievements"`
	ProfileImageURL    string                `bson:"profile_image_url,omitempty"`
	CreatedAt          time.Time             `bson:"created_at"`
}

type achievementDocument struct {
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	IconURL     string    `bson:"icon_url"`
	DateEarned  time.Time `bson:"date_earned"`
}

func toDocument(donor *Donor) donorDocument {
	return donorDocument{
		Email:              donor.Email,
		Password:           donor.PasswordHash,
		Phone:              donor.Phone,
		Name:               donor.Name,
		Username:           donor.Username,
		About:              donor.About,
		FollowersCount:     donor.FollowersCount,
		FollowingCount:     donor.FollowingCount,
		BeneficiariesCount: donor.BeneficiariesCount,
		TotalAmountDonated: int64(donor.TotalAmountDonated),
		DonorClass:         donor.DonorClass,
		DonorRank:          donor.DonorRank,
		Achievements:       toAchievementDocuments(donor.Achievements),
		ProfileImageURL:    donor.ProfileImageURL,
		CreatedAt:          donor.CreatedAt,
	}
}

func (document *donorDocument) toDonor() *Donor {
	return &Donor{
		ID:                 document.ID.Hex(),
		Username:           document.Username,
		Email:              document.Email,
		PasswordHash:       document.Password,
		Phone:              document.Phone,
		Name:               document.Name,
		About:              document.About,
		FollowersCount:     document.FollowersCount,
		FollowingCount:     document.FollowingCount,
		BeneficiariesCount: document.BeneficiariesCount,
		TotalAmountDonated: money.Amount(document.TotalAmountDonated),
		DonorClass:         document.DonorClass,
		DonorRank:          document.DonorRank,
		Achievements:       slice.Map(document.Achievements, func(item achievementDocument) Achievement { return Achievement(item) }),
		ProfileImageURL:    document.ProfileImageURL,
		CreatedAt:          document.CreatedAt,
	}
}

func toAchievementDocuments(achievements []Achievement) []achievementDocument {
	return slice.Map(achievements, func(item Achievement) achievementDocument { return achievementDocument(item) })
}

// profileSet builds the $set document of a partial profile update.
func profileSet(update ProfileUpdate) bson.D {
	set := bson.D{}
	if update.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *update.Name})
	}
	if update.About != nil {
		set = append(set, bson.E{Key: "about", Value: *update.About})
	}
	if update.ProfileImageURL != nil {
		set = append(set, bson.E{Key: "profile_image_url", Value: *update.ProfileImageURL})
	}
	return set
}

// # Mongo Repository

// MongoRepository implements [Repository] on the "donors" collection.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository binds the repository to the donors collection of database.
func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: database.Collection(constants.CollectionDonors)}
}

// FindByEmailOrUsername matches either identity field.
func (repository *MongoRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*Donor, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "username", Value: username}},
	}}}
	return repository.findOne(ctx, filter, "mongo_donor_find_by_identity")
}

// FindByUsername returns the donor with the given username.
func (repository *MongoRepository) FindByUsername(ctx context.Context, username string) (*Donor, error) {
	return repository.findOne(ctx, bson.D{{Key: "username", Value: username}}, "mongo_donor_find_by_username")
}

func (repository *MongoRepository) findOne(ctx context.Context, filter bson.D, action string) (*Donor, error) {
	var document donorDocument
	if err := repository.collection.FindOne(ctx, filter).Decode(&document); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return document.toDonor(), nil
}

// List performs a full scan ordered by _id, which follows insertion time.
func (repository *MongoRepository) List(ctx context.Context) ([]*Donor, error) {
	cursor, err := repository.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, dberr.Wrap(err, "mongo_donor_list")
	}

	var documents []donorDocument
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, dberr.Wrap(err, "mongo_donor_list_decode")
	}

	return slice.MapRef(documents, (*donorDocument).toDonor), nil
}

// Insert stores the donor; the unique indexes reject duplicate identities.
func (repository *MongoRepository) Insert(ctx context.Context, donor *Donor) (string, error) {
	result, err := repository.collection.InsertOne(ctx, toDocument(donor))
	if err != nil {
		return "", dberr.Wrap(err, "mongo_donor_insert")
	}

	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		return id.Hex(), nil
	}
	return "", dberr.Wrap(errUnexpectedID, "mongo_donor_insert")
}

// UpdateProfile applies a $set of the supplied fields.
func (repository *MongoRepository) UpdateProfile(ctx context.Context, username string, update ProfileUpdate) (bool, error) {
	return repository.set(ctx, username, profileSet(update), "mongo_donor_update_profile")
}

// ReplaceAchievements overwrites the list with a single $set.
func (repository *MongoRepository) ReplaceAchievements(ctx context.Context, username string, achievements []Achievement) (bool, error) {
	set := bson.D{{Key: "achievements", Value: toAchievementDocuments(achievements)}}
	return repository.set(ctx, username, set, "mongo_donor_replace_achievements")
}

// SetProfileImage stores the image reference.
func (repository *MongoRepository) SetProfileImage(ctx context.Context, username, reference string) (bool, error) {
	set := bson.D{{Key: "profile_image_url", Value: reference}}
	return repository.set(ctx, username, set, "mongo_donor_set_profile_image")
}

func (repository *MongoRepository) set(ctx context.Context, username string, set bson.D, action string) (bool, error) {
	result, err := repository.collection.UpdateOne(ctx,
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return false, dberr.Wrap(err, action)
	}
	return result.MatchedCount > 0, nil
}
