package services

import (
	"context"
	"strings"

	"go-restaurant-orders/common"
	"go-restaurant-orders/helpers"
	"go-restaurant-orders/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errBadCredentials = common.Unauthorized("email or password is incorrect")

type TokenIssuer interface {
	GenerateToken(email, name, uid, role string) (string, error)
}

type UserService struct {
	users  UserStore
	tokens TokenIssuer
	clock  Clock
}

func NewUserService(users UserStore, tokens TokenIssuer, clock Clock) *UserService {
	return &UserService{users: users, tokens: tokens, clock: clock}
}

func (s *UserService) SignUp(ctx context.Context, name, email, password string, role models.Role) (models.User, error) {
	if !role.Valid() {
		return models.User{}, common.BadRequest("invalid role")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return models.User{}, common.Classify(err)
	}
	if taken {
		return models.User{}, common.BadRequest("this email already exists")
	}

	hashed, err := helpers.HashPassword(password)
	if err != nil {
		return models.User{}, common.Internal(err)
	}
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		Role:      role,
		CreatedAt: s.clock.Now(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return models.User{}, common.Classify(err)
	}
	return user, nil
}

// Login returns the user and a signed session token.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return models.User{}, "", notFoundAs(err, errBadCredentials)
	}
	if !helpers.VerifyPassword(user.Password, password) {
		return models.User{}, "", errBadCredentials
	}

	token, err := s.tokens.GenerateToken(user.Email, user.Name, user.ID.Hex(), string(user.Role))
	if err != nil {
		return models.User{}, "", common.Internal(err)
	}
	return user, token, nil
}
