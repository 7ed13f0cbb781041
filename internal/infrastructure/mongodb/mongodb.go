package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flowboard/flowboard-api/internal/domain/repository"
)

// Collection names.
const (
	colUsers    = "users"
	colProjects = "projects"
	colMembers  = "project_members"
	colBoards   = "boards"
	colColumns  = "columns"
	colCards    = "cards"
)

// Connect opens a client, pings the deployment, and returns the database.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(c, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(c, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client.Database(dbName), nil
}

// EnsureIndexes creates the unique and query indexes the repositories rely
// on. Safe to call on every startup; existing indexes are no-ops.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	c, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := db.Collection(colUsers).Indexes().CreateMany(c, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "googleId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "invitationToken", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(colMembers).Indexes().CreateOne(c, mongo.IndexModel{
		Keys:    bson.D{{Key: "projectId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(colBoards).Indexes().CreateOne(c, mongo.IndexModel{
		Keys: bson.D{{Key: "projectId", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(colColumns).Indexes().CreateOne(c, mongo.IndexModel{
		Keys: bson.D{{Key: "boardId", Value: 1}, {Key: "order", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(colCards).Indexes().CreateOne(c, mongo.IndexModel{
		Keys: bson.D{{Key: "columnId", Value: 1}, {Key: "order", Value: 1}},
	})
	return err
}

// objectID parses a 24-hex id. Callers validate format at the boundary, so a
// parse failure here is treated as not-found rather than a malformed request.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

// mapWriteErr translates driver errors into repository sentinels.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}

// mapReadErr translates ErrNoDocuments into the repository sentinel.
func mapReadErr(err error) error {
	if err == mongo.ErrNoDocuments {
		return repository.ErrNotFound
	}
	return err
}

// bulkOrderModels builds the unordered update set for a bulk reorder.
func bulkOrderModels(updates []repository.OrderUpdate) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(updates))
	for _, u := range updates {
		oid, err := objectID(u.ID)
		if err != nil {
			continue
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid}).
			SetUpdate(bson.M{"$set": bson.M{"order": u.Order}}))
	}
	return models
}
