package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dailykharcha/kharcha/internal/core/domain"
)

const profilesCollection = "profiles"

// ProfileRepository stores per-user display documents keyed by the identity
// provider's user id.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profilesCollection)}
}

type profileDoc struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	Email     string `bson:"email"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var doc profileDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	return &domain.Profile{Name: doc.Name, Email: doc.Email}, nil
}

func (r *ProfileRepository) Save(ctx context.Context, userID string, profile domain.Profile) error {
	doc := profileDoc{
		ID:        userID,
		Name:      profile.Name,
		Email:     profile.Email,
		UpdatedAt: time.Now().UTC().Unix(),
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": userID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
