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

type cardDoc struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty"`
	ColumnID             primitive.ObjectID   `bson:"columnId"`
	Title                string               `bson:"title"`
	Description          string               `bson:"description,omitempty"`
	Priority             string               `bson:"priority"`
	ExpectedDeliveryDate *time.Time           `bson:"expectedDeliveryDate,omitempty"`
	AssignedTo           []primitive.ObjectID `bson:"assignedTo"`
	Order                int                  `bson:"order"`
	CreatedBy            primitive.ObjectID   `bson:"createdBy"`
	CreatedAt            time.Time            `bson:"createdAt"`
}

func (d *cardDoc) toEntity() entity.Card {
	assigned := make([]string, 0, len(d.AssignedTo))
	for _, oid := range d.AssignedTo {
		assigned = append(assigned, oid.Hex())
	}
	return entity.Card{
		ID:                   d.ID.Hex(),
		ColumnID:             d.ColumnID.Hex(),
		Title:                d.Title,
		Description:          d.Description,
		Priority:             entity.CardPriority(d.Priority),
		ExpectedDeliveryDate: d.ExpectedDeliveryDate,
		AssignedTo:           assigned,
		Order:                d.Order,
		CreatedBy:            d.CreatedBy.Hex(),
		CreatedAt:            d.CreatedAt,
	}
}

func fromCard(c *entity.Card) (*cardDoc, error) {
	columnID, err := objectID(c.ColumnID)
	if err != nil {
		return nil, err
	}
	createdBy, err := objectID(c.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &cardDoc{
		ColumnID:             columnID,
		Title:                c.Title,
		Description:          c.Description,
		Priority:             string(c.Priority),
		ExpectedDeliveryDate: c.ExpectedDeliveryDate,
		AssignedTo:           objectIDs(c.AssignedTo),
		Order:                c.Order,
		CreatedBy:            createdBy,
		CreatedAt:            c.CreatedAt,
	}, nil
}

// CardRepository is the Mongo-backed repository.CardRepository.
type CardRepository struct {
	col *mongo.Collection
}

func NewCardRepository(db *mongo.Database) *CardRepository {
	return &CardRepository{col: db.Collection(colCards)}
}

func (r *CardRepository) Create(ctx context.Context, c *entity.Card) error {
	doc, err := fromCard(c)
	if err != nil {
		return err
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return mapWriteErr(err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *CardRepository) GetByID(ctx context.Context, id string) (*entity.Card, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d cardDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, mapReadErr(err)
	}
	c := d.toEntity()
	return &c, nil
}

func (r *CardRepository) ListByColumn(ctx context.Context, columnID string) ([]entity.Card, error) {
	cid, err := objectID(columnID)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, bson.M{"columnId": cid})
}

func (r *CardRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.Card, error) {
	if len(ids) == 0 {
		return []entity.Card{}, nil
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": objectIDs(ids)}})
}

func (r *CardRepository) ListByColumns(ctx context.Context, columnIDs []string) ([]entity.Card, error) {
	if len(columnIDs) == 0 {
		return []entity.Card{}, nil
	}
	return r.list(ctx, bson.M{"columnId": bson.M{"$in": objectIDs(columnIDs)}})
}

func (r *CardRepository) list(ctx context.Context, filter bson.M) ([]entity.Card, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []entity.Card{}
	for cur.Next(ctx) {
		var d cardDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toEntity())
	}
	return out, cur.Err()
}

func (r *CardRepository) MaxOrder(ctx context.Context, columnID string) (int, bool, error) {
	cid, err := objectID(columnID)
	if err != nil {
		return 0, false, err
	}
	var d cardDoc
	err = r.col.FindOne(ctx, bson.M{"columnId": cid},
		options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return d.Order, true, nil
}

func (r *CardRepository) Update(ctx context.Context, c *entity.Card) error {
	oid, err := objectID(c.ID)
	if err != nil {
		return err
	}
	doc, err := fromCard(c)
	if err != nil {
		return err
	}
	// Full replace so cleared optional fields (description, delivery date)
	// are removed from the stored document.
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CardRepository) BulkSetOrder(ctx context.Context, updates []repository.OrderUpdate) error {
	models := bulkOrderModels(updates)
	if len(models) == 0 {
		return nil
	}
	_, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (r *CardRepository) Delete(ctx context.Context, id string) error {
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

func (r *CardRepository) DeleteByColumn(ctx context.Context, columnID string) error {
	cid, err := objectID(columnID)
	if err != nil {
		return err
	}
	_, err = r.col.DeleteMany(ctx, bson.M{"columnId": cid})
	return err
}

func (r *CardRepository) DeleteByColumns(ctx context.Context, columnIDs []string) error {
	if len(columnIDs) == 0 {
		return nil
	}
	_, err := r.col.DeleteMany(ctx, bson.M{"columnId": bson.M{"$in": objectIDs(columnIDs)}})
	return err
}
