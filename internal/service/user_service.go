package service

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/repository"
	"github.com/rblog/rblog/pkg/logger"
)

var ErrRoleNotFound = errors.New("role not found")

type UserService struct {
	userRepo *repository.UserRepository
	roleRepo *repository.RoleRepository
}

func NewUserService(userRepo *repository.UserRepository, roleRepo *repository.RoleRepository) *UserService {
	return &UserService{userRepo: userRepo, roleRepo: roleRepo}
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile edits the caller's own profile fields.
func (s *UserService) UpdateProfile(userID uuid.UUID, name, location, aboutMe string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Name = name
	user.Location = location
	user.AboutMe = aboutMe
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Log.Info("Profile updated", zap.String("user_id", userID.String()))
	return user, nil
}

// AdminUpdate is the administrator's profile editor: it may also reassign
// email, username, role and confirmation state.
type AdminUpdate struct {
	Email     *string
	Username  *string
	Confirmed *bool
	RoleID    *uint
	Name      *string
	Location  *string
	AboutMe   *string
}

func (s *UserService) AdminUpdateUser(userID uuid.UUID, update AdminUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if update.Email != nil && *update.Email != user.Email {
		existing, err := s.userRepo.GetByEmail(*update.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = *update.Email
		user.AvatarHash = models.GravatarHash(*update.Email)
	}
	if update.Username != nil && *update.Username != user.Username {
		existing, err := s.userRepo.GetByUsername(*update.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUsernameAlreadyExists
		}
		user.Username = *update.Username
	}
	if update.Confirmed != nil {
		user.Confirmed = *update.Confirmed
	}
	if update.RoleID != nil {
		role, err := s.roleRepo.GetByID(*update.RoleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrRoleNotFound
		}
		user.RoleID = role.ID
		user.Role = role
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Location != nil {
		user.Location = *update.Location
	}
	if update.AboutMe != nil {
		user.AboutMe = *update.AboutMe
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Log.Info("User updated by administrator", zap.String("user_id", userID.String()))
	return user, nil
}

func (s *UserService) ListUsers(page repository.Page) ([]models.User, int64, error) {
	return s.userRepo.List(page)
}

func (s *UserService) ListRoles() ([]models.Role, error) {
	return s.roleRepo.List()
}
