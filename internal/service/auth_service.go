package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/carbonlog/internal/db"
	"github.com/carbonlog/internal/footprint"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken 邮箱已被注册
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidToken 令牌无法解析或已过期
	ErrInvalidToken = errors.New("invalid or expired token")
)

// AuthService 负责注册、登录以及 Bearer 令牌的签发与校验
type AuthService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	clock  func() time.Time
}

// SignupInput 注册时的输入
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// NewAuthService 构造 AuthService
func NewAuthService(gdb *gorm.DB, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{db: gdb, secret: []byte(secret), ttl: ttl, clock: time.Now}
}

// WithClock 替换时间来源，便于测试令牌过期。
func (s *AuthService) WithClock(clock func() time.Time) *AuthService {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// Signup 创建用户并签发令牌
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*db.User, string, error) {
	name := strings.TrimSpace(input.Name)
	email := db.NormalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", footprint.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("%w: malformed email", footprint.ErrValidation)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, "", ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := db.User{Name: name, Email: email, Password: string(hashed)}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login 校验邮箱与密码并签发令牌
func (s *AuthService) Login(ctx context.Context, email, password string) (*db.User, string, error) {
	var user db.User
	if err := s.db.WithContext(ctx).Where("email = ?", db.NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Profile 返回用户资料
func (s *AuthService) Profile(ctx context.Context, id uint) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", footprint.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// IssueToken 签发 HS256 令牌，载荷包含 id 与 email
func (s *AuthService) IssueToken(user db.User) (string, error) {
	now := s.clock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken 校验令牌并返回用户 ID
func (s *AuthService) ParseToken(raw string) (uint, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
