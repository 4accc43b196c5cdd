package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rideshare-backend/internal/config"
	domainUser "rideshare-backend/internal/domain/user"
	"rideshare-backend/internal/logger"
	"rideshare-backend/internal/metrics"
	appErrors "rideshare-backend/pkg/errors"
	"rideshare-backend/pkg/utils"
)

// Service implements user use cases
type Service struct {
	userRepo         domainUser.Repository
	refreshTokenRepo domainUser.RefreshTokenRepository
	blacklist        domainUser.TokenBlacklist
	images           domainUser.ImageStore
	config           *config.Config
	metrics          *metrics.Metrics
}

// NewService creates a new user service. images may be nil when no bucket is
// configured; uploads then fail with ErrStorageUnavailable.
func NewService(
	userRepo domainUser.Repository,
	refreshTokenRepo domainUser.RefreshTokenRepository,
	blacklist domainUser.TokenBlacklist,
	images domainUser.ImageStore,
	cfg *config.Config,
	m *metrics.Metrics,
) *Service {
	return &Service{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		blacklist:        blacklist,
		images:           images,
		config:           cfg,
		metrics:          m,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.PhoneNumber != nil {
		phone := utils.SanitizePhone(*req.PhoneNumber)
		req.PhoneNumber = &phone
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, weakPassword(err)
	}

	if err := s.ensureAvailable(ctx, 0, req.Email, req.Username); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = domainUser.RoleClient
	}

	user := &domainUser.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHashed: hashedPassword,
		PhoneNumber:    req.PhoneNumber,
		Age:            req.Age,
		Role:           role,
		IsActive:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, conflictError(err)
	}

	auth, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info("User registered successfully",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("username", user.Username),
		zap.String("role", user.Role),
		zap.String("event", "user_registered"),
	)

	return auth, nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "user_not_found"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.Uint("user_id", user.ID),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.Warn("Login attempt for inactive user",
			zap.Uint("user_id", user.ID),
			zap.String("event", "login_failed_inactive_user"),
		)
		return nil, appErrors.ErrUserInactive
	}

	auth, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in successfully",
		zap.Uint("user_id", user.ID),
		zap.String("role", user.Role),
		zap.String("event", "login_success"),
	)

	return auth, nil
}

// RefreshToken rotates a refresh token: the presented one is revoked and a
// fresh pair is issued. A token can be rotated only once.
func (s *Service) RefreshToken(ctx context.Context, req *RefreshRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	claims, err := utils.ValidateTokenOfType(req.Refresh, s.config.JWT.Secret, utils.TokenTypeRefresh)
	if err != nil {
		logger.Warn("Token refresh attempt with invalid token",
			zap.String("event", "token_refresh_failed_invalid_token"),
			zap.Error(err),
		)
		return nil, appErrors.ErrInvalidToken
	}

	dbToken, err := s.refreshTokenRepo.GetByToken(ctx, req.Refresh)
	if err != nil {
		logger.Warn("Token refresh attempt with unknown or revoked token",
			zap.Uint("user_id", claims.UserID),
			zap.String("event", "token_refresh_failed_token_not_found"),
		)
		return nil, appErrors.ErrInvalidToken
	}

	if dbToken.UserID != claims.UserID {
		logger.Warn("Token refresh attempt with mismatched user ID",
			zap.Uint("token_user_id", dbToken.UserID),
			zap.Uint("claim_user_id", claims.UserID),
			zap.String("event", "token_refresh_failed_user_mismatch"),
		)
		return nil, appErrors.ErrInvalidToken
	}

	if err := s.refreshTokenRepo.Revoke(ctx, dbToken.ID); err != nil {
		if errors.Is(err, domainUser.ErrTokenInvalid) {
			return nil, appErrors.ErrInvalidToken
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, appErrors.ErrUserInactive
	}

	auth, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	auth.User = nil

	logger.Debug("Token refreshed successfully",
		zap.Uint("user_id", user.ID),
		zap.String("old_token_id", dbToken.ID.String()),
		zap.String("event", "token_refresh_success"),
	)

	return auth, nil
}

// Logout revokes the caller's refresh token and blacklists the access token
// used for the request until it would have expired.
func (s *Service) Logout(ctx context.Context, userID uint, accessJTI string, accessExpiresAt time.Time, req *RefreshRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationError(err)
	}

	dbToken, err := s.refreshTokenRepo.GetByToken(ctx, req.Refresh)
	if err != nil {
		return appErrors.ErrInvalidToken
	}
	if dbToken.UserID != userID {
		return appErrors.ErrInvalidToken
	}

	if err := s.refreshTokenRepo.Revoke(ctx, dbToken.ID); err != nil {
		if errors.Is(err, domainUser.ErrTokenInvalid) {
			return appErrors.ErrInvalidToken
		}
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if accessJTI != "" {
		if err := s.blacklist.Revoke(ctx, accessJTI, time.Until(accessExpiresAt)); err != nil {
			logger.Warn("Failed to blacklist access token",
				zap.Uint("user_id", userID),
				zap.String("event", "access_token_blacklist_failed"),
				zap.Error(err),
			)
		}
	}

	logger.Info("User logged out",
		zap.Uint("user_id", userID),
		zap.String("token_id", dbToken.ID.String()),
		zap.String("event", "user_logged_out"),
	)

	return nil
}

func (s *Service) Update(ctx context.Context, userID uint, req *UpdateRequest) (*UserResponse, error) {
	if req.Email != nil {
		email := utils.SanitizeEmail(*req.Email)
		req.Email = &email
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		req.Username = &username
	}
	if req.PhoneNumber != nil {
		phone := utils.SanitizePhone(*req.PhoneNumber)
		req.PhoneNumber = &phone
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	email, username := user.Email, user.Username
	if req.Email != nil {
		email = *req.Email
	}
	if req.Username != nil {
		username = *req.Username
	}
	if err := s.ensureAvailable(ctx, user.ID, email, username); err != nil {
		return nil, err
	}

	user.PasswordHashed = ""
	if req.Password != nil {
		if err := utils.ValidatePassword(*req.Password); err != nil {
			return nil, weakPassword(err)
		}
		if user.PasswordHashed, err = utils.HashPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	user.Email = email
	user.Username = username
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, conflictError(err)
	}

	if user.PasswordHashed != "" {
		logger.Info("Password changed successfully",
			zap.Uint("user_id", user.ID),
			zap.String("event", "password_change_success"),
		)
	}

	logger.Info("User profile updated",
		zap.Uint("user_id", user.ID),
		zap.String("event", "user_updated"),
	)

	return s.toResponse(user), nil
}

// Delete removes the caller's own account. Deleting anybody else is forbidden.
func (s *Service) Delete(ctx context.Context, actorID uint, username string) error {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if target.ID != actorID {
		logger.Warn("Attempt to delete another account",
			zap.Uint("actor_id", actorID),
			zap.Uint("target_id", target.ID),
			zap.String("event", "user_delete_forbidden"),
		)
		return appErrors.ErrInsufficientPermissions
	}

	if err := s.userRepo.Delete(ctx, target.ID); err != nil {
		return err
	}

	for _, key := range []*string{target.AvatarKey, target.PermitKey} {
		s.dropImage(ctx, key)
	}

	logger.Info("User deleted successfully",
		zap.Uint("user_id", target.ID),
		zap.String("event", "user_deleted"),
	)

	return nil
}

func (s *Service) GetByID(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(user), nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*UserResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.toResponse(user), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*UserResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.toResponse(user), nil
}

// UploadImage stores a new avatar or permit scan and drops the object it replaces.
func (s *Service) UploadImage(ctx context.Context, userID uint, kind domainUser.ImageKind, file ImageUpload, body io.Reader) (*UserResponse, error) {
	if s.images == nil {
		return nil, appErrors.ErrStorageUnavailable
	}

	if !kind.Valid() {
		return nil, appErrors.NewValidationError("Invalid image kind",
			map[string]string{"kind": "must be one of: avatar, permit"}, appErrors.ErrInvalidInput)
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return nil, appErrors.NewValidationError("Invalid image",
			map[string]string{"file": "must be an image"}, appErrors.ErrInvalidInput)
	}
	if maxBytes := s.config.Storage.MaxImageBytes; maxBytes > 0 && file.Size > maxBytes {
		return nil, appErrors.NewValidationError("Invalid image",
			map[string]string{"file": fmt.Sprintf("must be at most %d bytes", maxBytes)}, appErrors.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%d/%s%s", kind, userID, uuid.NewString(), strings.ToLower(filepath.Ext(file.Filename)))
	if err := s.images.Upload(ctx, key, body, file.Size, file.ContentType); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateImage(ctx, userID, kind, &key); err != nil {
		s.dropImage(ctx, &key)
		return nil, err
	}

	previous := user.AvatarKey
	if kind == domainUser.ImagePermit {
		previous = user.PermitKey
		user.PermitKey = &key
	} else {
		user.AvatarKey = &key
	}
	s.dropImage(ctx, previous)

	logger.Info("User image uploaded",
		zap.Uint("user_id", userID),
		zap.String("kind", string(kind)),
		zap.String("key", key),
		zap.String("event", "user_image_uploaded"),
	)

	return s.toResponse(user), nil
}

func (s *Service) dropImage(ctx context.Context, key *string) {
	if key == nil || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, *key); err != nil {
		logger.Warn("Failed to delete stored image",
			zap.String("key", *key),
			zap.Error(err),
		)
	}
}

func (s *Service) issueTokens(ctx context.Context, user *domainUser.User) (*AuthResponse, error) {
	tokenPair, err := utils.GenerateTokenPair(
		user.ID,
		user.Email,
		user.Role,
		s.config.JWT.Secret,
		s.config.JWT.AccessTTL(),
		s.config.JWT.RefreshTTL(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	refreshToken := &domainUser.RefreshToken{
		UserID:    user.ID,
		Token:     tokenPair.RefreshToken,
		JTI:       tokenPair.RefreshJTI,
		ExpiresAt: tokenPair.RefreshExpiresAt,
	}
	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &AuthResponse{
		User:         s.toResponse(user),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt,
	}, nil
}

// ensureAvailable rejects an email or username already held by another user.
func (s *Service) ensureAvailable(ctx context.Context, selfID uint, email, username string) error {
	details := map[string]string{}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		details["email"] = domainUser.ErrEmailTaken.Error()
	}

	existing, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		details["username"] = domainUser.ErrUsernameTaken.Error()
	}

	if len(details) == 0 {
		return nil
	}

	logger.Warn("Registration or update with a taken identity",
		zap.String("email", email),
		zap.String("username", username),
		zap.String("event", "user_identity_taken"),
	)
	return appErrors.NewValidationError("User already exists", details, appErrors.ErrUserAlreadyExists)
}

func (s *Service) toResponse(u *domainUser.User) *UserResponse {
	resp := &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Age:         u.Age,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
	if s.images != nil {
		resp.AvatarURL = s.imageURL(u.AvatarKey)
		resp.PermitURL = s.imageURL(u.PermitKey)
	}
	return resp
}

func (s *Service) imageURL(key *string) *string {
	if key == nil {
		return nil
	}
	url := s.images.URL(*key)
	return &url
}

// conflictError turns a unique-key race lost in the repository into the same
// validation error the pre-check produces.
func conflictError(err error) error {
	switch {
	case errors.Is(err, domainUser.ErrEmailTaken):
		return appErrors.NewValidationError("User already exists",
			map[string]string{"email": err.Error()}, appErrors.ErrUserAlreadyExists)
	case errors.Is(err, domainUser.ErrUsernameTaken):
		return appErrors.NewValidationError("User already exists",
			map[string]string{"username": err.Error()}, appErrors.ErrUserAlreadyExists)
	}
	return err
}

func weakPassword(err error) error {
	appErr := appErrors.NewAppError(appErrors.CodeWeakPass, "Password does not meet requirements", err)
	appErr.Details = map[string]string{"password": err.Error()}
	return appErr
}
