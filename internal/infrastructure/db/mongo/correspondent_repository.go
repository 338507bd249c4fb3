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
	correspondentsCollection = "correspondentes"
	correspondentsSequence   = "correspondentes"
)

// CorrespondentRepository is the MongoDB-backed correspondent store.
type CorrespondentRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewCorrespondentRepository(db *mongo.Database) *CorrespondentRepository {
	return &CorrespondentRepository{db: db, coll: db.Collection(correspondentsCollection)}
}

type mongoCorrespondent struct {
	ID        int64  `bson:"_id"`
	Name      string `bson:"nome"`
	OAB       string `bson:"oab,omitempty"`
	Type      string `bson:"tipo,omitempty"`
	Email     string `bson:"email_primario,omitempty"`
	Phone     string `bson:"telefone_primario,omitempty"`
	Active    bool   `bson:"ativo"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *CorrespondentRepository) FindByID(ctx context.Context, id int64) (*domain.Correspondent, error) {
	var mc mongoCorrespondent
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUnknownCorrespondent
		}
		return nil, fmt.Errorf("find correspondent: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CorrespondentRepository) Create(ctx context.Context, correspondent *domain.Correspondent) (*domain.Correspondent, error) {
	id, err := nextID(ctx, r.db, correspondentsSequence)
	if err != nil {
		return nil, err
	}

	doc := mongoCorrespondent{
		ID:        id,
		Name:      correspondent.Name,
		OAB:       correspondent.OAB,
		Type:      correspondent.Type,
		Email:     correspondent.Email,
		Phone:     correspondent.Phone,
		Active:    correspondent.Active,
		CreatedAt: correspondent.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert correspondent: %w", err)
	}

	created := *correspondent
	created.ID = id
	return &created, nil
}

func (r *CorrespondentRepository) List(ctx context.Context) ([]domain.Correspondent, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list correspondents: %w", err)
	}
	defer cursor.Close(ctx)

	var correspondents []domain.Correspondent
	for cursor.Next(ctx) {
		var mc mongoCorrespondent
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode correspondent: %w", err)
		}
		correspondents = append(correspondents, *mc.toDomain())
	}
	return correspondents, cursor.Err()
}

func (mc *mongoCorrespondent) toDomain() *domain.Correspondent {
	return &domain.Correspondent{
		ID:        mc.ID,
		Name:      mc.Name,
		OAB:       mc.OAB,
		Type:      mc.Type,
		Email:     mc.Email,
		Phone:     mc.Phone,
		Active:    mc.Active,
		CreatedAt: time.Unix(mc.CreatedAt, 0).UTC(),
	}
}
