package service

import (
	"context"
	"fmt"
	"time"

	"github.com/radieske/sports-data-api/internal/sports-api/auth"
	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

// TokenIssuer emite o token de acesso (auth.Tokens)
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// PublicUser é a projeção do usuário devolvida pela API (sem hash)
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Session struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}

type Auth struct {
	base
	tokens TokenIssuer
}

func NewAuth(d Deps, tokens TokenIssuer) *Auth {
	return &Auth{base: newBase(d), tokens: tokens}
}

// Register: email duplicado vira ErrConflict (checado de forma atômica no store)
func (s *Auth) Register(ctx context.Context, email, password string, name *string) (Session, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.store.CreateUser(ctx, model.User{Email: email, PasswordHash: hash, Name: name})
	if err != nil {
		return Session{}, err
	}
	return s.session(u)
}

// Login: usuário inexistente e senha errada dão o mesmo ErrUnauthorized
func (s *Auth) Login(ctx context.Context, email, password string) (Session, error) {
	u, ok, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if !ok || !auth.ComparePassword(password, u.PasswordHash) {
		return Session{}, fmt.Errorf("invalid email or password: %w", model.ErrUnauthorized)
	}
	return s.session(u)
}

func (s *Auth) session(u model.User) (Session, error) {
	tok, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{
		User:  PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt},
		Token: tok,
	}, nil
}
