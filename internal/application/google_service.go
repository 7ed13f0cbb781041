package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/domain/repository"
	"github.com/flowboard/flowboard-api/pkg/apperror"
)

// stateTTL bounds how long an OAuth state nonce stays valid.
const stateTTL = 10 * time.Minute

// GoogleService implements the Google OAuth login flow. State nonces live in
// Redis so the callback can reject forged or replayed requests.
type GoogleService struct {
	Config    *oauth2.Config
	Users     repository.UserRepository
	Auth      *AuthService
	Redis     *redis.Client
	Directory *UserDirectory
	Logger    *logrus.Logger
}

func stateKey(state string) string { return "oauth:state:" + state }

// AuthURL returns the Google consent URL with a fresh state nonce.
func (s *GoogleService) AuthURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if s.Redis != nil {
		if err := s.Redis.Set(ctx, stateKey(state), "1", stateTTL).Err(); err != nil {
			return "", err
		}
	}
	return s.Config.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// HandleCallback exchanges the authorization code, resolves the Google
// profile, and finds or creates the matching account. An existing account
// with the same email is linked rather than duplicated.
func (s *GoogleService) HandleCallback(ctx context.Context, code, state string) (*entity.User, TokenPair, error) {
	if err := s.consumeState(ctx, state); err != nil {
		return nil, TokenPair{}, err
	}

	token, err := s.Config.Exchange(ctx, code)
	if err != nil {
		return nil, TokenPair{}, apperror.Unauthorized(apperror.CodeInvalidCredentials, "Google authentication failed")
	}

	info, err := s.fetchUserinfo(ctx, token)
	if err != nil {
		return nil, TokenPair{}, err
	}

	u, err := s.findOrCreate(ctx, info)
	if err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.Auth.IssueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *GoogleService) consumeState(ctx context.Context, state string) error {
	if s.Redis == nil {
		return nil
	}
	n, err := s.Redis.Del(ctx, stateKey(state)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.Unauthorized(apperror.CodeInvalidCredentials, "Invalid or expired OAuth state")
	}
	return nil
}

func (s *GoogleService) fetchUserinfo(ctx context.Context, token *oauth2.Token) (*oauth2v2.Userinfo, error) {
	svc, err := oauth2v2.NewService(ctx, option.WithTokenSource(s.Config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, apperror.Unauthorized(apperror.CodeInvalidCredentials, "Google account has no email")
	}
	return info, nil
}

func (s *GoogleService) findOrCreate(ctx context.Context, info *oauth2v2.Userinfo) (*entity.User, error) {
	u, err := s.Users.GetByGoogleID(ctx, info.Id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// Link by email when the account pre-exists (password or invited).
	u, err = s.Users.GetByEmail(ctx, info.Email)
	if err == nil {
		u.GoogleID = info.Id
		if u.AvatarURL == "" {
			u.AvatarURL = info.Picture
		}
		// Accepting via Google clears a pending invitation.
		u.InvitationToken = ""
		u.InvitationExpires = time.Time{}
		if uErr := s.Users.Update(ctx, u); uErr != nil {
			return nil, uErr
		}
		if s.Directory != nil {
			_ = s.Directory.IndexUser(ctx, u)
		}
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	u = &entity.User{
		Name:         info.Name,
		Email:        info.Email,
		GoogleID:     info.Id,
		AvatarURL:    info.Picture,
		AuthProvider: entity.ProviderGoogle,
		Role:         entity.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("email", u.Email).Info("created account from google login")
	}
	if s.Directory != nil {
		_ = s.Directory.IndexUser(ctx, u)
	}
	return u, nil
}
