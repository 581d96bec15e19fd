package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/dailykharcha/kharcha/internal/core/domain"
)

const usersCollection = "users"

// LocalGateway is a self-hosted identity backend storing bcrypt-hashed
// credentials in MongoDB. It exists for deployments without an external
// provider; the rest of the application only sees the AuthGateway port.
type LocalGateway struct {
	coll *mongo.Collection
}

func NewLocalGateway(db *mongo.Database) *LocalGateway {
	return &LocalGateway{coll: db.Collection(usersCollection)}
}

type localUser struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	DisplayName  string `bson:"display_name"`
	CreatedAt    int64  `bson:"created_at"`
}

func (g *LocalGateway) CreateAccount(ctx context.Context, email, password, displayName string) (*domain.UserIdentity, error) {
	email = strings.ToLower(email)

	if err := g.coll.FindOne(ctx, bson.M{"email": email}).Err(); err == nil {
		return nil, domain.ErrAccountExists
	} else if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := localUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		CreatedAt:    time.Now().UTC().Unix(),
	}

	if _, err := g.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &domain.UserIdentity{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName}, nil
}

func (g *LocalGateway) VerifyCredentials(ctx context.Context, email, password string) (*domain.UserIdentity, error) {
	var user localUser
	err := g.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrAuthenticationFailed
	}

	return &domain.UserIdentity{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName}, nil
}
