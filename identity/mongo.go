package identity

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/milopalmaerts/travel-planner-app/models"
)

// MongoProvider keeps accounts in the users collection, passwords bcrypt
// hashed.
type MongoProvider struct {
	col *mongo.Collection
}

func NewMongoProvider(client *mongo.Client, dbName string) *MongoProvider {
	return &MongoProvider{col: client.Database(dbName).Collection("users")}
}

func (p *MongoProvider) Register(ctx context.Context, reg Registration) (models.User, error) {
	if len(reg.Password) < 6 {
		return models.User{}, ErrWeakPassword
	}
	email := normalizeEmail(reg.Email)

	var existing models.User
	err := p.col.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		return models.User{}, ErrEmailTaken
	}
	if err != mongo.ErrNoDocuments {
		return models.User{}, fmt.Errorf("lookup user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), 10)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:  reg.Name,
		Email:     email,
		Password:  string(hashed),
		CreatedAt: time.Now().UTC(),
	}

	res, err := p.col.InsertOne(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	user.Password = ""
	return user, nil
}

func (p *MongoProvider) Authenticate(ctx context.Context, creds Credentials) (models.User, error) {
	email := normalizeEmail(creds.Email)

	var user models.User
	err := p.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user.Password = ""
	return user, nil
}
