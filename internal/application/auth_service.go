package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/domain/repository"
	"github.com/flowboard/flowboard-api/pkg/apperror"
	"github.com/flowboard/flowboard-api/pkg/helpers"
)

// TokenPair is the access/refresh token bundle returned on authentication.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// AuthService handles account registration, credential auth, token refresh,
// invitation acceptance, and profile management.
type AuthService struct {
	Users     repository.UserRepository
	JWT       *helpers.JWTManager
	GCS       *storage.Client
	GCSBucket string
	Directory *UserDirectory
	Logger    *logrus.Logger
}

// IssueTokens generates an access/refresh pair carrying the user's identity
// triple {id, email, global role}.
func (s *AuthService) IssueTokens(u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Register creates an email/password account and returns it with tokens.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, TokenPair{}, apperror.Validation(apperror.CodeUserExists, "User with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, TokenPair{}, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	u := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		AuthProvider: entity.ProviderEmail,
		Role:         entity.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, TokenPair{}, apperror.Validation(apperror.CodeUserExists, "User with this email already exists")
		}
		return nil, TokenPair{}, err
	}

	if s.Directory != nil {
		_ = s.Directory.IndexUser(ctx, u)
	}

	pair, err := s.IssueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Login validates email/password credentials. Accounts with a pending
// invitation or no password (Google-only) fail the same way as a wrong
// password so the response does not leak account state.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, apperror.Unauthorized(apperror.CodeInvalidCredentials, "Invalid email or password")
		}
		return nil, TokenPair{}, err
	}
	if u.PasswordHash == "" || u.HasPendingInvitation() || !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, TokenPair{}, apperror.Unauthorized(apperror.CodeInvalidCredentials, "Invalid email or password")
	}
	pair, err := s.IssueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The user record is
// reloaded so a role change since issuance is reflected in the new tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.User, TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, apperror.Unauthorized(apperror.CodeInvalidRefreshToken, "Invalid or expired refresh token")
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, apperror.Unauthorized(apperror.CodeInvalidRefreshToken, "Invalid or expired refresh token")
		}
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// AcceptInvitation activates an invited account: sets the password, clears
// the invitation token, and returns the user logged in.
func (s *AuthService) AcceptInvitation(ctx context.Context, token, name, password string) (*entity.User, TokenPair, error) {
	u, err := s.Users.GetByInvitationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, apperror.Validation(apperror.CodeInvalidInvitationToken, "Invalid invitation token")
		}
		return nil, TokenPair{}, err
	}
	if time.Now().UTC().After(u.InvitationExpires) {
		return nil, TokenPair{}, apperror.Validation(apperror.CodeInvitationExpired, "Invitation has expired")
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if name != "" {
		u.Name = name
	}
	u.PasswordHash = hash
	u.AuthProvider = entity.ProviderEmail
	u.InvitationToken = ""
	u.InvitationExpires = time.Time{}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, TokenPair{}, err
	}

	if s.Directory != nil {
		_ = s.Directory.IndexUser(ctx, u)
	}

	pair, err := s.IssueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// InvitationDetails looks up a pending invitation by email. Superadmin only.
func (s *AuthService) InvitationDetails(ctx context.Context, actor Actor, email string) (*entity.User, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperror.Forbidden(apperror.CodeSuperAdminRequired, "Access denied: SuperAdmin role required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(apperror.CodeUserNotFound, "User not found")
		}
		return nil, err
	}
	if !u.HasPendingInvitation() {
		return nil, apperror.NotFound(apperror.CodeNoInvitation, "User has no pending invitation")
	}
	return u, nil
}

// GetProfile returns the authenticated user's record.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(apperror.CodeUserNotFound, "User not found")
		}
		return nil, err
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name      string
	AvatarURL string
}

// UpdateProfile applies non-empty fields and re-indexes the directory entry.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	if s.Directory != nil {
		_ = s.Directory.IndexUser(ctx, u)
	}
	return u, nil
}

// UploadAvatar stores the image in GCS and points the profile at it.
func (s *AuthService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	if s.Directory != nil {
		_ = s.Directory.IndexUser(ctx, u)
	}
	return url, nil
}
