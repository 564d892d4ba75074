package repositories

import (
	"context"

	"go-restaurant-orders/database"
	"go-restaurant-orders/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	users collection[models.User]
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{users: newCollection[models.User](db, database.UserCollection)}
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.users.exists(ctx, bson.M{"email": email})
}

func (r *UserRepository) Insert(ctx context.Context, u models.User) error {
	return r.users.insertOne(ctx, u)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.users.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return r.users.findOne(ctx, bson.M{"_id": id})
}
