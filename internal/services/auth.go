package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

var (
	ErrUsernameTaken      = fmt.Errorf("%w: username already exists", pkgerrors.ErrConflict)
	ErrEmailTaken         = fmt.Errorf("%w: email already exists", pkgerrors.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", pkgerrors.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", pkgerrors.ErrUnauthorized)
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

// AuthTokens is an issued access/refresh pair.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*AuthTokens, error)
	Login(ctx context.Context, username, password string) (*AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	bcryptCost    int
	now           func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		bcryptCost:    bcrypt.DefaultCost,
		now:           time.Now,
	}
}

func (as *authService) Register(ctx context.Context, username, email, password string) (*AuthTokens, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", pkgerrors.ErrInvalidArgument)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid email", pkgerrors.ErrInvalidArgument)
	}
	// Store the bare address so display-name forms collide with it.
	email = strings.ToLower(addr.Address)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), as.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var tokens *AuthTokens
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		taken, err := as.userRepo.UsernameExists(dbc, username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			return ErrUsernameTaken
		}
		taken, err = as.userRepo.EmailExists(dbc, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return ErrEmailTaken
		}

		user := &types.User{Username: username, Email: email, Password: string(hash)}
		if _, err := as.userRepo.Create(dbc, []*types.User{user}); err != nil {
			// Lost a race with a concurrent registration.
			if errors.Is(err, pkgerrors.ErrConflict) {
				if strings.Contains(err.Error(), "email") {
					return ErrEmailTaken
				}
				return ErrUsernameTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		tokens, err = as.issueTokens(dbc, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("User registered", "username", username)
	return tokens, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (*AuthTokens, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := as.userRepo.GetByUsername(dbctx.Context{Ctx: ctx}, username)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	var tokens *AuthTokens
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if n, err := as.userTokenRepo.FullDeleteExpired(dbc, user.ID, as.now()); err != nil {
			return fmt.Errorf("purge expired tokens: %w", err)
		} else if n > 0 {
			as.log.Debug("Purged expired user tokens", "user_id", user.ID, "count", n)
		}
		tokens, err = as.issueTokens(dbc, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}

	var tokens *AuthTokens
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		found, err := as.userTokenRepo.GetByRefreshTokens(dbc, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("load refresh token: %w", err)
		}
		if len(found) == 0 {
			return ErrInvalidToken
		}
		existing := found[0]
		// Expired rows are left for the purge on the next login.
		if existing.ExpiresAt.Before(as.now()) {
			return ErrInvalidToken
		}

		users, err := as.userRepo.GetByIDs(dbc, []uuid.UUID{existing.UserID})
		if err != nil {
			return fmt.Errorf("load user for refresh: %w", err)
		}
		if len(users) == 0 {
			return ErrInvalidToken
		}
		if err := as.userTokenRepo.FullDeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
			return fmt.Errorf("remove old refresh token: %w", err)
		}
		tokens, err = as.issueTokens(dbc, users[0])
		return err
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenID == uuid.Nil {
		return ErrInvalidToken
	}
	return as.userTokenRepo.FullDeleteByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{rd.TokenID})
}

// SetContextFromToken verifies the bearer token and attaches the caller to
// ctx. Tokens that were logged out or rotated are rejected even when their
// signature is still valid.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	found, err := as.userTokenRepo.GetByAccessTokens(dbctx.Context{Ctx: ctx}, []string{tokenString})
	if err != nil {
		as.log.Warn("Error fetching user token by access token", "error", err)
		return ctx, fmt.Errorf("load user token: %w", err)
	}
	if len(found) == 0 || found[0].UserID != userID {
		return ctx, ErrInvalidToken
	}

	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		TokenID:     found[0].ID,
		UserID:      userID,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) issueTokens(dbc dbctx.Context, user *types.User) (*AuthTokens, error) {
	access, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	row := &types.UserToken{
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    as.now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{row}); err != nil {
		as.log.Warn("Create user token error", "error", err)
		return nil, fmt.Errorf("create user token: %w", err)
	}
	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: row.RefreshToken,
		ExpiresIn:    as.accessTTL,
	}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
