package service

import (
	"alcyxob/coach-platform/internal/config"
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/repository"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrInvalidCredentials = errors.New("wrong login or password")
	ErrAccountBlocked     = errors.New("account blocked, contact admin")
	ErrTooManyAttempts    = errors.New("too many failed logins, try again later")
	ErrTokenGeneration    = errors.New("failed to generate authentication token")
	ErrInvalidToken       = errors.New("invalid token")
)

// Issuer is the JWT "iss" claim of every token this service signs.
const Issuer = "coach-platform"

// AuthOutcome is the result class of a credential check.
type AuthOutcome int

const (
	OutcomeInvalidCredentials AuthOutcome = iota
	OutcomeSuccess
	OutcomeBlocked
	OutcomeCreator
)

func (o AuthOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeCreator:
		return "creator"
	default:
		return "invalid_credentials"
	}
}

// AuthResult carries the outcome of Authenticate. User is set only for
// OutcomeSuccess.
type AuthResult struct {
	Outcome AuthOutcome
	User    *domain.User
}

// Role returns the role the outcome grants, or RoleGuest.
func (r AuthResult) Role() domain.Role {
	switch r.Outcome {
	case OutcomeCreator:
		return domain.RoleCreator
	case OutcomeSuccess:
		return r.User.Role
	}
	return domain.RoleGuest
}

// LoginResult is a signed token plus who it was issued to. User is nil for
// the creator, which has no roster entry.
type LoginResult struct {
	Token     string
	Role      domain.Role
	Subject   string
	ExpiresAt time.Time
	User      *domain.User
}

// Claims is the JWT payload.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService checks credentials and issues tokens.
type AuthService interface {
	// Authenticate checks the superuser pair first, then the roster. The
	// error is reserved for storage failures.
	Authenticate(ctx context.Context, username, password string) (AuthResult, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	ParseToken(token string) (*Claims, error)
}

type authService struct {
	userRepo      repository.UserRepository
	superuser     config.SuperuserConfig
	guard         LoginGuard
	jwtSecret     string
	jwtExpiration time.Duration
	now           Clock
	logger        *zap.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo repository.UserRepository,
	superuser config.SuperuserConfig,
	guard LoginGuard,
	jwtCfg config.JWTConfig,
	logger *zap.Logger,
) AuthService {
	if jwtCfg.Secret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtCfg.Expiration <= 0 {
		jwtCfg.Expiration = time.Hour
	}
	if guard == nil {
		guard = NewNoopLoginGuard()
	}
	return &authService{
		userRepo:      userRepo,
		superuser:     superuser,
		guard:         guard,
		jwtSecret:     jwtCfg.Secret,
		jwtExpiration: jwtCfg.Expiration,
		now:           time.Now,
		logger:        logger,
	}
}

func (s *authService) isSuperuser(username, password string) bool {
	// Both comparisons always run so timing does not reveal which half matched.
	u := subtle.ConstantTimeCompare([]byte(username), []byte(s.superuser.Username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(s.superuser.Password))
	return s.superuser.Username != "" && u&p == 1
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (AuthResult, error) {
	if s.isSuperuser(username, password) {
		return AuthResult{Outcome: OutcomeCreator}, nil
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{Outcome: OutcomeInvalidCredentials}, nil
		}
		return AuthResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{Outcome: OutcomeInvalidCredentials}, nil
	}
	if user.IsBlocked {
		return AuthResult{Outcome: OutcomeBlocked}, nil
	}
	user.PasswordHash = ""
	return AuthResult{Outcome: OutcomeSuccess, User: user}, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if !s.guard.Allow(ctx, username) {
		s.logger.Warn("login rejected by guard", zap.String("username", username))
		return nil, ErrTooManyAttempts
	}

	res, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	var subject string
	switch res.Outcome {
	case OutcomeInvalidCredentials:
		s.guard.RecordFailure(ctx, username)
		return nil, ErrInvalidCredentials
	case OutcomeBlocked:
		return nil, ErrAccountBlocked
	case OutcomeCreator:
		subject = s.superuser.Username
	case OutcomeSuccess:
		subject = res.User.ID
	}
	s.guard.Reset(ctx, username)

	role := res.Role()
	token, expiresAt, err := s.generateJWT(subject, role)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		return nil, ErrTokenGeneration
	}
	s.logger.Info("login", zap.String("subject", subject), zap.String("role", string(role)))
	return &LoginResult{
		Token:     token,
		Role:      role,
		Subject:   subject,
		ExpiresAt: expiresAt,
		User:      res.User,
	}, nil
}

// --- JWT Helper ---

func (s *authService) generateJWT(subject string, role domain.Role) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.jwtExpiration)
	claims := &Claims{
		UserID: subject,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken validates signature, expiry and issuer.
func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" || claims.Role == "" || !claims.VerifyIssuer(Issuer, true) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
