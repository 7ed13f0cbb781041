package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/domain/repository"
)

type userDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"passwordHash,omitempty"`
	GoogleID          string             `bson:"googleId,omitempty"`
	AvatarURL         string             `bson:"avatarUrl,omitempty"`
	AuthProvider      string             `bson:"authProvider"`
	Role              string             `bson:"role"`
	InvitationToken   string             `bson:"invitationToken,omitempty"`
	InvitationExpires time.Time          `bson:"invitationExpires,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
}

func (d *userDoc) toEntity() *entity.User {
	return &entity.User{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		GoogleID:          d.GoogleID,
		AvatarURL:         d.AvatarURL,
		AuthProvider:      entity.AuthProvider(d.AuthProvider),
		Role:              entity.GlobalRole(d.Role),
		InvitationToken:   d.InvitationToken,
		InvitationExpires: d.InvitationExpires,
		CreatedAt:         d.CreatedAt,
	}
}

func fromUser(u *entity.User) *userDoc {
	return &userDoc{
		Name:              u.Name,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		GoogleID:          u.GoogleID,
		AvatarURL:         u.AvatarURL,
		AuthProvider:      string(u.AuthProvider),
		Role:              string(u.Role),
		InvitationToken:   u.InvitationToken,
		InvitationExpires: u.InvitationExpires,
		CreatedAt:         u.CreatedAt,
	}
}

// UserRepository is the Mongo-backed repository.UserRepository.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(colUsers)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	res, err := r.col.InsertOne(ctx, fromUser(u))
	if err != nil {
		return mapWriteErr(err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	if googleID == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"googleId": googleID})
}

func (r *UserRepository) GetByInvitationToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"invitationToken": token})
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	oid, err := objectID(u.ID)
	if err != nil {
		return err
	}
	// Full replace keeps cleared optional fields (invitation token, google
	// id) absent in the stored document.
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, fromUser(u))
	if err != nil {
		return mapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var d userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, mapReadErr(err)
	}
	return d.toEntity(), nil
}
