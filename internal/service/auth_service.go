// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"time"

	"notevault-be/internal/dto"
	"notevault-be/internal/entity"
	"notevault-be/internal/pkg/apperror"
	"notevault-be/internal/repository/specification"
	"notevault-be/internal/repository/unitofwork"

	"notevault-be/pkg/events"
	pktNats "notevault-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)

	// ResolveUsernames maps usernames to users for sharing. Unknown names are
	// returned in the second slice, never dropped silently.
	ResolveUsernames(ctx context.Context, usernames []string) ([]*entity.User, []string, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	jwtSecret      string
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, jwtSecret string) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		jwtSecret:      jwtSecret,
	}
}

func (s *authService) signToken(userId uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: req.Username})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Validation("username already taken")
	}

	existing, err = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Validation("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hashStr,
		FullName:     req.FullName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	// Registration logs the user straight in.
	signedToken, err := s.signToken(user.Id)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "USER_REGISTERED",
			Data: map[string]interface{}{
				"user_id":  user.Id,
				"username": user.Username,
			},
			OccurredAt: time.Now(),
		}
		_ = s.eventPublisher.Publish(ctx, evt)
	}

	return &dto.RegisterResponse{
		Id:       user.Id,
		Username: user.Username,
		Token:    signedToken,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: req.Username})
	if err != nil {
		return nil, apperror.Auth("invalid credentials")
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperror.Auth("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Auth("invalid credentials")
	}

	signedToken, err := s.signToken(user.Id)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "USER_LOGIN",
			Data: map[string]interface{}{
				"user_id": user.Id,
			},
			OccurredAt: time.Now(),
		}
		_ = s.eventPublisher.Publish(ctx, evt)
	}

	return &dto.LoginResponse{Token: signedToken}, nil
}

func (s *authService) ResolveUsernames(ctx context.Context, usernames []string) ([]*entity.User, []string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Dedupe, preserving request order for the unresolved report.
	seen := make(map[string]bool, len(usernames))
	unique := make([]string, 0, len(usernames))
	for _, name := range usernames {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}

	users, err := uow.UserRepository().FindAll(ctx, specification.ByUsernames{Usernames: unique})
	if err != nil {
		return nil, nil, err
	}

	resolved := make(map[string]bool, len(users))
	for _, u := range users {
		resolved[u.Username] = true
	}

	var unresolved []string
	for _, name := range unique {
		if !resolved[name] {
			unresolved = append(unresolved, name)
		}
	}

	return users, unresolved, nil
}
