package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

const userCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

// mongoUser is the stored shape. Timestamps are kept as BSON datetimes; the
// leaderboard tie-break depends on their sub-second ordering.
type mongoUser struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty"`
	FullName                string             `bson:"full_name,omitempty"`
	Username                string             `bson:"username"`
	Email                   string             `bson:"email"`
	PasswordHash            string             `bson:"password_hash"`
	Role                    string             `bson:"role"`
	Active                  bool               `bson:"active"`
	QuestionNumber          int                `bson:"question_number"`
	QuestionNumberUpdatedAt time.Time          `bson:"question_number_updated_at"`
	CreatedAt               time.Time          `bson:"created_at"`
	UpdatedAt               time.Time          `bson:"updated_at"`
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                      mu.ID.Hex(),
		FullName:                mu.FullName,
		Username:                mu.Username,
		Email:                   mu.Email,
		PasswordHash:            mu.PasswordHash,
		Role:                    mu.Role,
		Active:                  mu.Active,
		QuestionNumber:          mu.QuestionNumber,
		QuestionNumberUpdatedAt: mu.QuestionNumberUpdatedAt.UTC(),
		CreatedAt:               mu.CreatedAt.UTC(),
		UpdatedAt:               mu.UpdatedAt.UTC(),
	}
}

// EnsureIndexes creates the unique indexes the duplicate checks rely on.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		FullName:                user.FullName,
		Username:                user.Username,
		Email:                   user.Email,
		PasswordHash:            user.PasswordHash,
		Role:                    user.Role,
		Active:                  user.Active,
		QuestionNumber:          user.QuestionNumber,
		QuestionNumberUpdatedAt: user.QuestionNumberUpdatedAt,
		CreatedAt:               user.CreatedAt,
		UpdatedAt:               user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	created := *user
	created.ID = oid.Hex()
	return &created, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not a valid object id, so no document can match it.
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.User, 0, len(docs))
	for _, mu := range docs {
		out = append(out, mu.toDomain())
	}
	return out, nil
}

// Update persists the mutable fields. The username is fixed at creation and
// deliberately left out of the set.
func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	update := bson.M{"$set": bson.M{
		"full_name":                  user.FullName,
		"email":                      user.Email,
		"password_hash":              user.PasswordHash,
		"active":                     user.Active,
		"question_number":            user.QuestionNumber,
		"question_number_updated_at": user.QuestionNumberUpdatedAt,
		"updated_at":                 user.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mu mongoUser
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	update := bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) Deactivate(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	update := bson.M{"$set": bson.M{"active": false, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) Leaderboard(ctx context.Context) ([]*domain.User, error) {
	filter := bson.M{"active": true, "role": domain.RoleRegular}
	opts := options.Find().SetSort(bson.D{
		{Key: "question_number", Value: -1},
		{Key: "question_number_updated_at", Value: 1},
		{Key: "username", Value: 1},
	})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}

	out := make([]*domain.User, 0, len(docs))
	for _, mu := range docs {
		out = append(out, mu.toDomain())
	}
	return out, nil
}
