package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-imagegen-be/internal/config"
	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/apperr"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/repository/memory"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (*dto.OAuthURLResponse, error)
	HandleCallback(ctx context.Context, provider, state, code string) (*dto.OAuthCallbackResponse, error)
}

type oauthService struct {
	uowFactory     unitofwork.RepositoryFactory
	stateRepo      *memory.StateRepository
	googleConf     *oauth2.Config
	jwtCfg         config.JWTConfig
	initialCredits int
	log            logger.ILogger
}

func NewOAuthService(
	uowFactory unitofwork.RepositoryFactory,
	stateRepo *memory.StateRepository,
	oauthCfg config.OAuthConfig,
	jwtCfg config.JWTConfig,
	initialCredits int,
	log logger.ILogger,
) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     oauthCfg.GoogleClientID,
		ClientSecret: oauthCfg.GoogleClientSecret,
		RedirectURL:  oauthCfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory:     uowFactory,
		stateRepo:      stateRepo,
		googleConf:     conf,
		jwtCfg:         jwtCfg,
		initialCredits: initialCredits,
		log:            log,
	}
}

func (s *oauthService) GetLoginURL(provider string) (*dto.OAuthURLResponse, error) {
	if provider != "google" {
		return nil, apperr.Validation("unsupported provider")
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	// The state must come back on the callback; anything else is a replay
	// or a forged redirect.
	s.stateRepo.Save(state, provider)

	return &dto.OAuthURLResponse{
		Provider: provider,
		URL:      s.googleConf.AuthCodeURL(state),
	}, nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider, state, code string) (*dto.OAuthCallbackResponse, error) {
	if provider != "google" {
		return nil, apperr.Validation("unsupported provider")
	}

	savedProvider, ok := s.stateRepo.Consume(state)
	if !ok || savedProvider != provider {
		return nil, apperr.New(401, "invalid or expired oauth state")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %v", err)
	}

	userInfoURL := "https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken
	resp, err := http.Get(userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %v", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %v", err)
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}

	if err := json.Unmarshal(content, &googleUser); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
	if err != nil {
		return nil, err
	}

	// Soft-deleted accounts come back when the owner signs in again.
	if user == nil {
		user, err = uow.UserRepository().FindOneUnscoped(ctx, specification.ByEmail{Email: googleUser.Email})
		if err != nil {
			return nil, err
		}

		if user != nil {
			if err := uow.UserRepository().Restore(ctx, user.Id); err != nil {
				return nil, err
			}
			user, _ = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
		}
	}

	isNewUser := false

	if user == nil {
		isNewUser = true
		newUser := &entity.User{
			Id:           uuid.New(),
			Email:        googleUser.Email,
			FullName:     googleUser.Name,
			PasswordHash: nil,
			Role:         entity.UserRoleUser,
			Status:       entity.UserStatusActive,
			AvatarURL:    &googleUser.Picture,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}

		if err := uow.UserRepository().Create(ctx, newUser); err != nil {
			uow.Rollback()
			return nil, err
		}

		profile := &entity.Profile{
			Id:        uuid.New(),
			UserId:    newUser.Id,
			Credits:   s.initialCredits,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := uow.ProfileRepository().Create(ctx, profile); err != nil {
			uow.Rollback()
			return nil, err
		}

		if err := uow.Commit(); err != nil {
			return nil, err
		}

		user = newUser
		s.log.Info("oauth", "Created new user from Google login", map[string]interface{}{"user_id": user.Id})
	}

	userProvider := &entity.UserProvider{
		Id:             uuid.New(),
		UserId:         user.Id,
		ProviderName:   "google",
		ProviderUserId: googleUser.ID,
		AvatarURL:      googleUser.Picture,
		CreatedAt:      time.Now(),
	}

	if err := uow.UserRepository().SaveUserProvider(ctx, userProvider); err != nil {
		return nil, fmt.Errorf("failed to save provider info: %v", err)
	}

	if googleUser.Picture != "" {
		if err := uow.UserRepository().UpdateAvatar(ctx, user.Id, googleUser.Picture); err != nil {
			s.log.Warn("oauth", "Failed to sync avatar", map[string]interface{}{"error": err.Error()})
		}
	}

	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Duration(s.jwtCfg.AccessTTLMinutes) * time.Minute).Unix(),
	}
	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := jwtToken.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return nil, err
	}

	return &dto.OAuthCallbackResponse{
		AccessToken: signedToken,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     string(user.Role),
		},
		IsNewUser: isNewUser,
	}, nil
}
