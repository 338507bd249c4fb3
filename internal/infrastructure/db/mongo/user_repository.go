package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cra-adv/cra-backend/internal/core/domain"
)

const (
	usersCollection = "usuarios"
	usersSequence   = "usuarios"
)

// UserRepository is the MongoDB-backed identity store.
type UserRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{db: db, coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID              int64  `bson:"_id"`
	Login           string `bson:"login"`
	PasswordHash    string `bson:"password_hash"`
	FullName        string `bson:"nome_completo"`
	PrimaryEmail    string `bson:"email_principal,omitempty"`
	Type            int    `bson:"tipo"`
	Active          bool   `bson:"ativo"`
	CorrespondentID *int64 `bson:"correspondente_id,omitempty"`
	CreatedAt       int64  `bson:"created_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := nextID(ctx, r.db, usersSequence)
	if err != nil {
		return nil, err
	}

	doc := mongoUser{
		ID:              id,
		Login:           user.Login,
		PasswordHash:    user.PasswordHash,
		FullName:        user.FullName,
		PrimaryEmail:    user.PrimaryEmail,
		Type:            user.Type,
		Active:          user.Active,
		CorrespondentID: user.CorrespondentID,
		CreatedAt:       user.CreatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateLogin
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"login": login})
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"login": login})
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"ativo": active}})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete deactivates the user instead of removing the document. Historical
// records keep referencing the user id, so a hard delete would orphan them.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.SetActive(ctx, id, false)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []domain.User
	for cursor.Next(ctx) {
		var mu mongoUser
		if err := cursor.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, *mu.toDomain())
	}
	return users, cursor.Err()
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:              mu.ID,
		Login:           mu.Login,
		PasswordHash:    mu.PasswordHash,
		FullName:        mu.FullName,
		PrimaryEmail:    mu.PrimaryEmail,
		Type:            mu.Type,
		Active:          mu.Active,
		CorrespondentID: mu.CorrespondentID,
		CreatedAt:       unixToTime(mu.CreatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
