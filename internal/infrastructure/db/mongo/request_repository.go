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
	requestsCollection = "solicitacoes"
	requestsSequence   = "solicitacoes"
)

// RequestRepository is the MongoDB-backed legal-request store.
type RequestRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{db: db, coll: db.Collection(requestsCollection)}
}

type mongoRequest struct {
	ID              int64  `bson:"_id"`
	UserID          int64  `bson:"usuario_id"`
	CorrespondentID *int64 `bson:"correspondente_id,omitempty"`
	Subject         string `bson:"assunto"`
	Observation     string `bson:"observacao,omitempty"`
	Status          string `bson:"status"`
	CreatedAt       int64  `bson:"created_at"`
	ConcludedAt     *int64 `bson:"concluded_at,omitempty"`
}

func (r *RequestRepository) Create(ctx context.Context, request *domain.Request) (*domain.Request, error) {
	id, err := nextID(ctx, r.db, requestsSequence)
	if err != nil {
		return nil, err
	}

	doc := mongoRequest{
		ID:              id,
		UserID:          request.UserID,
		CorrespondentID: request.CorrespondentID,
		Subject:         request.Subject,
		Observation:     request.Observation,
		Status:          request.Status,
		CreatedAt:       request.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}

	created := *request
	created.ID = id
	return &created, nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id int64) (*domain.Request, error) {
	var mr mongoRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status string, concludedAt *time.Time) error {
	set := bson.M{"status": status}
	if concludedAt != nil {
		set["concluded_at"] = concludedAt.Unix()
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) List(ctx context.Context) ([]domain.Request, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []domain.Request
	for cursor.Next(ctx) {
		var mr mongoRequest
		if err := cursor.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
		requests = append(requests, *mr.toDomain())
	}
	return requests, cursor.Err()
}

func (mr *mongoRequest) toDomain() *domain.Request {
	request := &domain.Request{
		ID:              mr.ID,
		UserID:          mr.UserID,
		CorrespondentID: mr.CorrespondentID,
		Subject:         mr.Subject,
		Observation:     mr.Observation,
		Status:          mr.Status,
		CreatedAt:       unixToTime(mr.CreatedAt),
	}
	if mr.ConcludedAt != nil {
		t := unixToTime(*mr.ConcludedAt)
		request.ConcludedAt = &t
	}
	return request
}
