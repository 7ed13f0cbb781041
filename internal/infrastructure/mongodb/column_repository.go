package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/domain/repository"
)

type columnDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	BoardID primitive.ObjectID `bson:"boardId"`
	Name    string             `bson:"name"`
	Color   string             `bson:"color"`
	Order   int                `bson:"order"`
}

func (d *columnDoc) toEntity() entity.Column {
	return entity.Column{
		ID:      d.ID.Hex(),
		BoardID: d.BoardID.Hex(),
		Name:    d.Name,
		Color:   d.Color,
		Order:   d.Order,
	}
}

// ColumnRepository is the Mongo-backed repository.ColumnRepository.
type ColumnRepository struct {
	col *mongo.Collection
}

func NewColumnRepository(db *mongo.Database) *ColumnRepository {
	return &ColumnRepository{col: db.Collection(colColumns)}
}

func (r *ColumnRepository) Create(ctx context.Context, c *entity.Column) error {
	bid, err := objectID(c.BoardID)
	if err != nil {
		return err
	}
	res, err := r.col.InsertOne(ctx, &columnDoc{
		BoardID: bid,
		Name:    c.Name,
		Color:   c.Color,
		Order:   c.Order,
	})
	if err != nil {
		return mapWriteErr(err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *ColumnRepository) GetByID(ctx context.Context, id string) (*entity.Column, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d columnDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, mapReadErr(err)
	}
	c := d.toEntity()
	return &c, nil
}

func (r *ColumnRepository) ListByBoard(ctx context.Context, boardID string) ([]entity.Column, error) {
	bid, err := objectID(boardID)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, bson.M{"boardId": bid})
}

func (r *ColumnRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.Column, error) {
	if len(ids) == 0 {
		return []entity.Column{}, nil
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": objectIDs(ids)}})
}

func (r *ColumnRepository) ListByBoards(ctx context.Context, boardIDs []string) ([]entity.Column, error) {
	if len(boardIDs) == 0 {
		return []entity.Column{}, nil
	}
	return r.list(ctx, bson.M{"boardId": bson.M{"$in": objectIDs(boardIDs)}})
}

func (r *ColumnRepository) list(ctx context.Context, filter bson.M) ([]entity.Column, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []entity.Column{}
	for cur.Next(ctx) {
		var d columnDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toEntity())
	}
	return out, cur.Err()
}

func (r *ColumnRepository) MaxOrder(ctx context.Context, boardID string) (int, bool, error) {
	bid, err := objectID(boardID)
	if err != nil {
		return 0, false, err
	}
	var d columnDoc
	err = r.col.FindOne(ctx, bson.M{"boardId": bid},
		options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return d.Order, true, nil
}

func (r *ColumnRepository) Update(ctx context.Context, c *entity.Column) error {
	oid, err := objectID(c.ID)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":  c.Name,
		"color": c.Color,
		"order": c.Order,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ColumnRepository) BulkSetOrder(ctx context.Context, updates []repository.OrderUpdate) error {
	models := bulkOrderModels(updates)
	if len(models) == 0 {
		return nil
	}
	_, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (r *ColumnRepository) Delete(ctx context.Context, id string) error {
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

func (r *ColumnRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	bid, err := objectID(boardID)
	if err != nil {
		return err
	}
	_, err = r.col.DeleteMany(ctx, bson.M{"boardId": bid})
	return err
}

func (r *ColumnRepository) DeleteByBoards(ctx context.Context, boardIDs []string) error {
	if len(boardIDs) == 0 {
		return nil
	}
	_, err := r.col.DeleteMany(ctx, bson.M{"boardId": bson.M{"$in": objectIDs(boardIDs)}})
	return err
}
