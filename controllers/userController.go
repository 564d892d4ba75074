package controllers

import (
	"context"
	"net/http"

	"go-restaurant-orders/models"

	"github.com/gin-gonic/gin"
)

type Accounts interface {
	SignUp(ctx context.Context, name, email, password string, role models.Role) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, string, error)
}

type UserController struct {
	accounts Accounts
}

func NewUserController(accounts Accounts) *UserController {
	return &UserController{accounts: accounts}
}

type signUpRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=client waiter admin"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (uc *UserController) SignUp() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var req signUpRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := uc.accounts.SignUp(ctx, req.Name, req.Email, req.Password, models.Role(req.Role))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func (uc *UserController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var req loginRequest
		if !bindJSON(c, &req) {
			return
		}
		user, token, err := uc.accounts.Login(ctx, req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}
