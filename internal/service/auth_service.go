package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rblog/rblog/internal/config"
	"github.com/rblog/rblog/internal/mailer"
	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/repository"
	"github.com/rblog/rblog/internal/token"
	"github.com/rblog/rblog/internal/utils"
	"github.com/rblog/rblog/pkg/logger"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserNotFound          = errors.New("user does not exist")
	// ErrInvalidInput wraps every field-validation failure so handlers can
	// map the whole family to one rejection status.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidOrExpiredToken is what every token verification failure
	// collapses into toward the caller. Logs keep the distinction.
	ErrInvalidOrExpiredToken = errors.New("token is invalid or has expired")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

type AuthService struct {
	userRepo    *repository.UserRepository
	roleRepo    *repository.RoleRepository
	followRepo  *repository.FollowRepository
	codec       *token.Codec
	mail        mailer.Mailer
	cfg         *config.Config
	environment string
}

func NewAuthService(
	userRepo *repository.UserRepository,
	roleRepo *repository.RoleRepository,
	followRepo *repository.FollowRepository,
	codec *token.Codec,
	mail mailer.Mailer,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		followRepo:  followRepo,
		codec:       codec,
		mail:        mail,
		cfg:         cfg,
		environment: cfg.Environment,
	}
}

// IsProduction returns true if running in production environment
func (s *AuthService) IsProduction() bool {
	return s.environment == "production"
}

// Register creates an unconfirmed account, assigns its role, plants the
// self-follow edge and mails a confirmation token. Returns the user plus a
// session token so the client is signed in immediately.
func (s *AuthService) Register(username, email, password string) (*models.User, string, error) {
	start := time.Now()

	logger.Log.Debug("Processing user registration",
		zap.String("username", username),
		zap.String("email", email),
	)

	if err := s.validateRegisterInput(username, email, password); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("username", username),
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to check email existence", zap.String("email", email), zap.Error(err))
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailAlreadyExists
	}

	existing, err = s.userRepo.GetByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to check username existence", zap.String("username", username), zap.Error(err))
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUsernameAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, "", err
	}

	role, err := s.roleForRegistration(email)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		RoleID:       role.ID,
		Role:         role,
		AvatarHash:   models.GravatarHash(email),
		MemberSince:  now,
		LastSeen:     now,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("username", username),
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}

	// Every account follows itself so the followed-posts feed includes the
	// user's own writing.
	if err := s.followRepo.Create(user.ID, user.ID); err != nil {
		logger.Log.Error("Failed to create self-follow edge",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	if err := s.SendConfirmation(user); err != nil {
		// The account exists; the user can request a new confirmation mail.
		logger.Log.Warn("Failed to send confirmation email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	sessionToken, err := utils.GenerateSessionToken(user, s.cfg.JWTSecret, s.cfg.JWTExpiry)
	if err != nil {
		logger.Log.Error("Failed to generate session token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", username),
		zap.String("role", role.Name),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, sessionToken, nil
}

// roleForRegistration grants the 0xfff role to the configured admin email,
// everyone else gets the default role.
func (s *AuthService) roleForRegistration(email string) (*models.Role, error) {
	if s.cfg.AdminEmail != "" && email == s.cfg.AdminEmail {
		role, err := s.roleRepo.GetByPermissions(models.AdministratorPermissions)
		if err != nil {
			return nil, err
		}
		if role != nil {
			return role, nil
		}
	}
	role, err := s.roleRepo.GetDefault()
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, errors.New("no default role seeded")
	}
	return role, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	start := time.Now()

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to get user by email", zap.String("email", email), zap.Error(err))
		return nil, "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found", zap.String("email", email))
		return nil, "", ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password", zap.String("email", email), zap.Error(err))
		return nil, "", err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("email", email),
			zap.String("user_id", user.ID.String()),
		)
		return nil, "", ErrInvalidCredentials
	}

	sessionToken, err := utils.GenerateSessionToken(user, s.cfg.JWTSecret, s.cfg.JWTExpiry)
	if err != nil {
		logger.Log.Error("Failed to generate session token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, sessionToken, nil
}

// IssueConfirmation mints a fresh confirmation token. Earlier tokens are not
// revoked; both stay valid until expiry.
func (s *AuthService) IssueConfirmation(user *models.User) (string, error) {
	return s.codec.Issue(token.PurposeConfirm, user.ID, nil, s.cfg.ConfirmTokenTTL)
}

// SendConfirmation mails a confirmation token to the user's address.
func (s *AuthService) SendConfirmation(user *models.User) error {
	t, err := s.IssueConfirmation(user)
	if err != nil {
		return err
	}
	body := fmt.Sprintf(
		"Dear %s,\n\nWelcome to Rblog! To confirm your account please use the following token:\n\n%s\n",
		user.Username, t,
	)
	return s.mail.Send(user.Email, "Confirm Your Account", body)
}

// Confirm marks the account confirmed after verifying a confirmation token
// bound to this user. Already-confirmed accounts short-circuit without
// touching the token, so a stale link is harmless.
func (s *AuthService) Confirm(userID uuid.UUID, tokenString string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Confirmed {
		logger.Log.Debug("Confirm short-circuit: already confirmed",
			zap.String("user_id", userID.String()),
		)
		return nil
	}

	if _, err := s.codec.VerifyFor(token.PurposeConfirm, userID, tokenString); err != nil {
		logger.Log.Warn("Confirmation token rejected",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return ErrInvalidOrExpiredToken
	}

	user.Confirmed = true
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Log.Info("Account confirmed", zap.String("user_id", userID.String()))
	return nil
}

func (s *AuthService) ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	valid, err := utils.VerifyPassword(oldPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !valid {
		return ErrInvalidCredentials
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Log.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}

func (s *AuthService) ChangeUsername(userID uuid.UUID, newUsername string) error {
	if err := validateUsername(newUsername); err != nil {
		return err
	}

	existing, err := s.userRepo.GetByUsername(newUsername)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != userID {
		return ErrUsernameAlreadyExists
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	user.Username = newUsername
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Log.Info("Username changed",
		zap.String("user_id", userID.String()),
		zap.String("username", newUsername),
	)
	return nil
}

// RequestPasswordReset mails a reset token. Unknown addresses are reported
// back as such and no token is issued.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		logger.Log.Warn("Password reset requested for unknown email", zap.String("email", email))
		return ErrUserNotFound
	}

	t, err := s.codec.Issue(token.PurposeReset, user.ID, nil, s.cfg.ResetTokenTTL)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Dear %s,\n\nTo reset your password please use the following token:\n\n%s\n\nIf you did not request a reset, ignore this email.\n",
		user.Username, t,
	)
	if err := s.mail.Send(user.Email, "Reset Your Password", body); err != nil {
		return err
	}

	logger.Log.Info("Password reset token issued", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) ResetPassword(email, tokenString, newPassword string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if _, err := s.codec.VerifyFor(token.PurposeReset, user.ID, tokenString); err != nil {
		logger.Log.Warn("Reset token rejected",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return ErrInvalidOrExpiredToken
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Log.Info("Password reset completed", zap.String("user_id", user.ID.String()))
	return nil
}

// RequestEmailChange verifies the caller's password, then mails a token
// carrying the new address to that address.
func (s *AuthService) RequestEmailChange(userID uuid.UUID, password, newEmail string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return err
	}
	if !valid {
		return ErrInvalidCredentials
	}

	if !emailRegex.MatchString(newEmail) {
		return errors.New("invalid email format")
	}

	existing, err := s.userRepo.GetByEmail(newEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailAlreadyExists
	}

	t, err := s.codec.Issue(
		token.PurposeChangeEmail,
		user.ID,
		map[string]string{"new_email": newEmail},
		s.cfg.ChangeEmailTokenTTL,
	)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Dear %s,\n\nTo confirm your new email address please use the following token:\n\n%s\n",
		user.Username, t,
	)
	if err := s.mail.Send(newEmail, "Change Your Email", body); err != nil {
		return err
	}

	logger.Log.Info("Email change token issued",
		zap.String("user_id", user.ID.String()),
		zap.String("new_email", newEmail),
	)
	return nil
}

// ChangeEmail applies the new address carried in a verified change-email
// token and refreshes the avatar hash.
func (s *AuthService) ChangeEmail(userID uuid.UUID, tokenString string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	claims, err := s.codec.VerifyFor(token.PurposeChangeEmail, userID, tokenString)
	if err != nil {
		logger.Log.Warn("Email change token rejected",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return ErrInvalidOrExpiredToken
	}

	newEmail := claims.Payload["new_email"]
	if newEmail == "" {
		return ErrInvalidOrExpiredToken
	}

	user.Email = newEmail
	user.AvatarHash = models.GravatarHash(newEmail)
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Log.Info("Email changed",
		zap.String("user_id", userID.String()),
		zap.String("email", newEmail),
	)
	return nil
}

// Ping refreshes last_seen for clients that poll outside the normal
// authenticated request path, which bumps it in middleware.
func (s *AuthService) Ping(userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	user.LastSeen = time.Now().UTC()
	return s.userRepo.Update(user)
}

func (s *AuthService) validateRegisterInput(username, email, password string) error {
	if err := validateUsername(username); err != nil {
		return err
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if len(email) > 64 {
		return fmt.Errorf("%w: email too long", ErrInvalidInput)
	}
	return validatePassword(password)
}

func validateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("%w: username must be at least 3 characters", ErrInvalidInput)
	}
	if len(username) > 64 {
		return fmt.Errorf("%w: username must be at most 64 characters", ErrInvalidInput)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	if len(password) > 128 {
		return fmt.Errorf("%w: password too long", ErrInvalidInput)
	}
	return nil
}
