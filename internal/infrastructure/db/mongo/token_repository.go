package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinicbook/appointment-system/internal/core/domain"
)

const tokensCollection = "auth_tokens"

// TokenRepository persists opaque bearer tokens. The unique index on user_id
// makes "one active token per user" a storage guarantee rather than a
// get-or-create race.
type TokenRepository struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{coll: db.Collection(tokensCollection)}
}

type mongoToken struct {
	Token    string    `bson:"_id"`
	UserID   string    `bson:"user_id"`
	IssuedAt time.Time `bson:"issued_at"`
}

func (mt *mongoToken) toDomain() *domain.AuthToken {
	return &domain.AuthToken{Token: mt.Token, UserID: mt.UserID, IssuedAt: mt.IssuedAt.UTC()}
}

func (r *TokenRepository) Create(ctx context.Context, t *domain.AuthToken) error {
	doc := mongoToken{Token: t.Token, UserID: t.UserID, IssuedAt: t.IssuedAt.UTC()}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *TokenRepository) FindByUserID(ctx context.Context, userID string) (*domain.AuthToken, error) {
	var mt mongoToken
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find token by user: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TokenRepository) FindByToken(ctx context.Context, token string) (*domain.AuthToken, error) {
	var mt mongoToken
	if err := r.coll.FindOne(ctx, bson.M{"_id": token}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique user_id index. The token itself is the
// document key, so its uniqueness comes for free.
func (r *TokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
