package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ratehub/internal/apperr"
	"ratehub/internal/config"
	"ratehub/internal/dto"
	"ratehub/internal/mailer"
	"ratehub/internal/models"
	"ratehub/internal/repository"
)

var (
	ErrInvalidToken = errors.New("invalid token")

	usernamePattern = regexp.MustCompile(`^[0-9A-Za-z_.@+-]+$`)
)

const confirmationCodeLength = 40

// Claims is the access-token payload.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Signup registers a pending user and dispatches a confirmation code.
	// Repeating the exact (email, username) pair rotates the code and
	// resends it; a partial match is a terminal conflict.
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	// Token exchanges a valid (username, confirmation_code) pair for an
	// access token, activating the user and consuming the code.
	Token(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	notifier       mailer.Notifier
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, notifier mailer.Notifier, cfg *config.Config) AuthService {
	return &authService{
		userRepo:       userRepo,
		notifier:       notifier,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	if err := validateUsername(req.Username); err != nil {
		return nil, err
	}

	byEmail, err := findOrNil(s.userRepo.FindByEmail(ctx, req.Email))
	if err != nil {
		return nil, err
	}
	byUsername, err := findOrNil(s.userRepo.FindByUsername(ctx, req.Username))
	if err != nil {
		return nil, err
	}

	// Exact pair already registered: idempotent repeat, rotate and resend.
	if byEmail != nil && byUsername != nil && byEmail.ID == byUsername.ID {
		return s.reissue(ctx, byEmail)
	}

	// Partial matches are terminal conflicts named per field.
	fields := apperr.FieldErrors{}
	if byEmail != nil {
		fields["email"] = []string{"user with this email already registered"}
	}
	if byUsername != nil {
		fields["username"] = []string{"user with this username already registered"}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	code, hash, err := newConfirmationCode()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:         req.Username,
		Email:            req.Email,
		Role:             models.RoleUser,
		ConfirmationCode: &hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("user already registered")
		}
		return nil, err
	}

	if err := s.notifier.SendConfirmationCode(ctx, user.Email, user.Username, code); err != nil {
		// No pending row without a deliverable code.
		_ = s.userRepo.Delete(ctx, user.ID)
		return nil, fmt.Errorf("failed to send confirmation code: %w", err)
	}

	return &dto.SignupResponse{Email: user.Email, Username: user.Username}, nil
}

// reissue rotates the confirmation code for an already-registered identity.
// Rotation is what makes codes single-use-until-next-signup.
func (s *authService) reissue(ctx context.Context, user *models.User) (*dto.SignupResponse, error) {
	code, hash, err := newConfirmationCode()
	if err != nil {
		return nil, err
	}

	user.ConfirmationCode = &hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.notifier.SendConfirmationCode(ctx, user.Email, user.Username, code); err != nil {
		return nil, fmt.Errorf("failed to send confirmation code: %w", err)
	}

	return &dto.SignupResponse{Email: user.Email, Username: user.Username}, nil
}

func (s *authService) Token(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}

	// A consumed or never-issued code fails the same way as a wrong one.
	if user.ConfirmationCode == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.ConfirmationCode), []byte(req.ConfirmationCode)) != nil {
		return nil, apperr.ValidationField("confirmation_code", "invalid confirmation code")
	}

	user.Active = true
	user.ConfirmationCode = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// findOrNil turns gorm's not-found into a nil user so signup can reason about
// which identity fields are occupied.
func findOrNil(user *models.User, err error) (*models.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func validateUsername(username string) error {
	if username == models.SelfAlias {
		return apperr.ValidationField("username", fmt.Sprintf("username %q is not allowed", models.SelfAlias))
	}
	if !usernamePattern.MatchString(username) {
		return apperr.ValidationField("username",
			"username may only contain letters, digits and @/./+/-/_ characters")
	}
	return nil
}

// newConfirmationCode returns a random code and its bcrypt hash. Only the
// hash is persisted.
func newConfirmationCode() (code string, hash string, err error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	buf := make([]byte, confirmationCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	code = string(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return code, string(hashed), nil
}
