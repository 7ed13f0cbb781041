package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/domain/repository"
)

type boardDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProjectID primitive.ObjectID `bson:"projectId"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *boardDoc) toEntity() entity.Board {
	return entity.Board{
		ID:        d.ID.Hex(),
		ProjectID: d.ProjectID.Hex(),
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
	}
}

// BoardRepository is the Mongo-backed repository.BoardRepository.
type BoardRepository struct {
	col *mongo.Collection
}

func NewBoardRepository(db *mongo.Database) *BoardRepository {
	return &BoardRepository{col: db.Collection(colBoards)}
}

func (r *BoardRepository) Create(ctx context.Context, b *entity.Board) error {
	pid, err := objectID(b.ProjectID)
	if err != nil {
		return err
	}
	res, err := r.col.InsertOne(ctx, &boardDoc{
		ProjectID: pid,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
	})
	if err != nil {
		return mapWriteErr(err)
	}
	b.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *BoardRepository) GetByID(ctx context.Context, id string) (*entity.Board, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d boardDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, mapReadErr(err)
	}
	b := d.toEntity()
	return &b, nil
}

func (r *BoardRepository) ListByProject(ctx context.Context, projectID string) ([]entity.Board, error) {
	pid, err := objectID(projectID)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, bson.M{"projectId": pid})
}

func (r *BoardRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.Board, error) {
	if len(ids) == 0 {
		return []entity.Board{}, nil
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": objectIDs(ids)}})
}

func (r *BoardRepository) list(ctx context.Context, filter bson.M) ([]entity.Board, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []entity.Board{}
	for cur.Next(ctx) {
		var d boardDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toEntity())
	}
	return out, cur.Err()
}

func (r *BoardRepository) Update(ctx context.Context, b *entity.Board) error {
	oid, err := objectID(b.ID)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"name": b.Name}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BoardRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BoardRepository) DeleteByProject(ctx context.Context, projectID string) error {
	pid, err := objectID(projectID)
	if err != nil {
		return err
	}
	_, err = r.col.DeleteMany(ctx, bson.M{"projectId": pid})
	return err
}
