package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leon37/SnapFeed/internal/config"
	"github.com/leon37/SnapFeed/internal/model"
	"github.com/leon37/SnapFeed/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 负责登录 / 退出 / Token 校验。
// Token 是带 jti 的 JWT，jti 必须同时存在于会话存储里才算有效，
// 这样退出登录可以精确吊销单个 Token
type AuthService struct {
	userRepo repository.UserRepo
	sessions repository.SessionRepo
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepo, sessions repository.SessionRepo, cfg config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		secret:   []byte(cfg.Secret),
		tokenTTL: time.Duration(cfg.ExpireHours) * time.Hour,
	}
}

// Login 校验邮箱密码，签发新 Token。
// 账号不存在和密码错误统一返回 ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout 只吊销当次请求携带的那个 Token，同一用户的其他会话继续有效
func (s *AuthService) Logout(ctx context.Context, jti string) error {
	return s.sessions.Delete(jti)
}

// Authenticate 解析 Token 并确认会话未被吊销，返回用户 ID 和 jti
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrUnauthenticated
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return 0, "", ErrUnauthenticated
	}

	// 会话存储里没有这个 jti，说明已退出或从未登录
	userID, err := s.sessions.Get(jti)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return 0, "", ErrUnauthenticated
		}
		return 0, "", err
	}
	return userID, jti, nil
}

func (s *AuthService) issueToken(userID uint) (string, error) {
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     jti,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	if err := s.sessions.Save(jti, userID, s.tokenTTL); err != nil {
		return "", err
	}
	return ss, nil
}
