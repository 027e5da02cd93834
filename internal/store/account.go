package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yojanasetu/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const accountsCollection = "users"

// AccountRepository handles persistence for accounts.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(accountsCollection)}
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (types.Account, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return types.Account{}, ErrNotFound
	}

	var account types.Account
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	var account types.Account
	err := r.col.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) Create(ctx context.Context, account types.Account) (types.Account, error) {
	now := time.Now().UTC()
	account.ID = primitive.NewObjectID()
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	account.CreatedAt = now
	account.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return types.Account{}, ErrDuplicate
		}
		return types.Account{}, err
	}
	return account, nil
}

// ReplaceProfile overwrites the embedded profile sub-document in a single
// atomic update and returns the updated account.
func (r *AccountRepository) ReplaceProfile(ctx context.Context, id string, profile types.Profile) (types.Account, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return types.Account{}, ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"profile":   profile,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var account types.Account
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) SetPicture(ctx context.Context, id, pictureURL string) error {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"picture":   pictureURL,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
