package service

import (
	"context"
	"fmt"
	"strings"

	"nnact/models"
	"nnact/repository"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer 为用户签发访问令牌
type TokenIssuer func(userID, phone string) (string, error)

// RegisterInput 注册参数
type RegisterInput struct {
	Phone    string `json:"phone" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,min=2"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// LoginInput 登录参数
type LoginInput struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult 登录结果
type LoginResult struct {
	AccessToken string             `json:"accessToken"`
	User        models.UserProfile `json:"user"`
}

// AuthService 注册、登录和当前用户
type AuthService struct {
	users  repository.UserRepository
	issuer TokenIssuer
	cost   int
}

// NewAuthService 创建认证服务
func NewAuthService(users repository.UserRepository, issuer TokenIssuer) *AuthService {
	return &AuthService{users: users, issuer: issuer, cost: bcrypt.DefaultCost}
}

// Register 创建用户，手机号不可重复
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.UserProfile, error) {
	phone := strings.TrimSpace(in.Phone)
	if _, err := s.users.FindByPhone(ctx, phone); err == nil {
		return nil, errors.NewAlreadyExists(nil, fmt.Sprintf("User with phone %s already exists", phone))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, errors.Trace(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, errors.Annotate(err, "hash password")
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Phone:    phone,
		Email:    in.Email,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewAlreadyExists(nil, fmt.Sprintf("User with phone %s already exists", phone))
		}
		return nil, errors.Annotate(err, "create user")
	}

	logrus.WithField("id", user.ID).Info("user registered")
	profile := user.Profile()
	return &profile, nil
}

// Login 校验手机号和密码并签发令牌
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByPhone(ctx, strings.TrimSpace(in.Phone))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewUnauthorized(nil, "Invalid credentials")
		}
		return nil, errors.Trace(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, errors.NewUnauthorized(nil, "Invalid credentials")
	}

	token, err := s.issuer(user.ID, user.Phone)
	if err != nil {
		return nil, errors.Annotate(err, "issue token")
	}
	logrus.WithField("id", user.ID).Info("user logged in")
	return &LoginResult{AccessToken: token, User: user.Profile()}, nil
}

// Me 返回当前登录用户
func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewUnauthorized(nil, "User no longer exists")
		}
		return nil, errors.Trace(err)
	}
	profile := user.Profile()
	return &profile, nil
}
