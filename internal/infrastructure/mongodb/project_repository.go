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

type projectDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedBy primitive.ObjectID `bson:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *projectDoc) toEntity() entity.Project {
	return entity.Project{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		CreatedBy: d.CreatedBy.Hex(),
		CreatedAt: d.CreatedAt,
	}
}

// ProjectRepository is the Mongo-backed repository.ProjectRepository.
type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(colProjects)}
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	createdBy, err := objectID(p.CreatedBy)
	if err != nil {
		return err
	}
	res, err := r.col.InsertOne(ctx, &projectDoc{
		Name:      p.Name,
		CreatedBy: createdBy,
		CreatedAt: p.CreatedAt,
	})
	if err != nil {
		return mapWriteErr(err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d projectDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, mapReadErr(err)
	}
	p := d.toEntity()
	return &p, nil
}

func (r *ProjectRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.Project, error) {
	if len(ids) == 0 {
		return []entity.Project{}, nil
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": objectIDs(ids)}})
}

func (r *ProjectRepository) ListAll(ctx context.Context) ([]entity.Project, error) {
	return r.list(ctx, bson.M{})
}

func (r *ProjectRepository) list(ctx context.Context, filter bson.M) ([]entity.Project, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []entity.Project{}
	for cur.Next(ctx) {
		var d projectDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toEntity())
	}
	return out, cur.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, p *entity.Project) error {
	oid, err := objectID(p.ID)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"name": p.Name}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
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

type memberDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProjectID primitive.ObjectID `bson:"projectId"`
	UserID    primitive.ObjectID `bson:"userId"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *memberDoc) toEntity() entity.ProjectMember {
	return entity.ProjectMember{
		ID:        d.ID.Hex(),
		ProjectID: d.ProjectID.Hex(),
		UserID:    d.UserID.Hex(),
		Role:      entity.ProjectRole(d.Role),
		CreatedAt: d.CreatedAt,
	}
}

// ProjectMemberRepository is the Mongo-backed repository.ProjectMemberRepository.
type ProjectMemberRepository struct {
	col *mongo.Collection
}

func NewProjectMemberRepository(db *mongo.Database) *ProjectMemberRepository {
	return &ProjectMemberRepository{col: db.Collection(colMembers)}
}

func (r *ProjectMemberRepository) Create(ctx context.Context, m *entity.ProjectMember) error {
	projectID, err := objectID(m.ProjectID)
	if err != nil {
		return err
	}
	userID, err := objectID(m.UserID)
	if err != nil {
		return err
	}
	res, err := r.col.InsertOne(ctx, &memberDoc{
		ProjectID: projectID,
		UserID:    userID,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	})
	if err != nil {
		return mapWriteErr(err)
	}
	m.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *ProjectMemberRepository) Get(ctx context.Context, projectID, userID string) (*entity.ProjectMember, error) {
	pid, err := objectID(projectID)
	if err != nil {
		return nil, err
	}
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	var d memberDoc
	if err := r.col.FindOne(ctx, bson.M{"projectId": pid, "userId": uid}).Decode(&d); err != nil {
		return nil, mapReadErr(err)
	}
	m := d.toEntity()
	return &m, nil
}

func (r *ProjectMemberRepository) ListByProject(ctx context.Context, projectID string) ([]entity.ProjectMember, error) {
	pid, err := objectID(projectID)
	if err != nil {
		return nil, err
	}
	// Admins sort before members; ties break on join time.
	return r.list(ctx, bson.M{"projectId": pid}, bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: 1}})
}

func (r *ProjectMemberRepository) ListByUser(ctx context.Context, userID string) ([]entity.ProjectMember, error) {
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, bson.M{"userId": uid}, bson.D{{Key: "createdAt", Value: -1}})
}

func (r *ProjectMemberRepository) list(ctx context.Context, filter bson.M, sort bson.D) ([]entity.ProjectMember, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []entity.ProjectMember{}
	for cur.Next(ctx) {
		var d memberDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toEntity())
	}
	return out, cur.Err()
}

func (r *ProjectMemberRepository) CountMembershipIn(ctx context.Context, projectIDs []string, userID string) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}
	uid, err := objectID(userID)
	if err != nil {
		return 0, err
	}
	return r.col.CountDocuments(ctx, bson.M{
		"projectId": bson.M{"$in": objectIDs(projectIDs)},
		"userId":    uid,
	})
}

func (r *ProjectMemberRepository) Delete(ctx context.Context, projectID, userID string) error {
	pid, err := objectID(projectID)
	if err != nil {
		return err
	}
	uid, err := objectID(userID)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"projectId": pid, "userId": uid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectMemberRepository) DeleteByProject(ctx context.Context, projectID string) error {
	pid, err := objectID(projectID)
	if err != nil {
		return err
	}
	_, err = r.col.DeleteMany(ctx, bson.M{"projectId": pid})
	return err
}
