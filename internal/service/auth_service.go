package service

import (
	"context"
	"errors"

	"kidlearn_backend/internal/config"
	"kidlearn_backend/internal/model"
	"kidlearn_backend/internal/repository"
	"kidlearn_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	ParentRepo *repository.ParentRepository
	Config     *config.Config
}

func NewAuthService(parentRepo *repository.ParentRepository, cfg *config.Config) *AuthService {
	return &AuthService{ParentRepo: parentRepo, Config: cfg}
}

func (s *AuthService) Register(ctx context.Context, email, name, password string) (*model.Parent, error) {
	existing, err := s.ParentRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrEmailRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	parent := &model.Parent{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         model.RoleParent,
	}
	if err := s.ParentRepo.Create(ctx, parent); err != nil {
		return nil, err
	}
	return parent, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.Parent, error) {
	parent, err := s.ParentRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if parent == nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(parent.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(parent, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, parent, nil
}
