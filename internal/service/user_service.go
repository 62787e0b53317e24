package service

import (
	"context"
	"time"

	"quiz-master/internal/config"
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/idgen"
	"quiz-master/internal/logger"
	"quiz-master/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const dateOfBirthLayout = "2006-01-02"

// Bootstrap credentials for the very first administrator. Only used when the
// users table has no admin and bootstrap is enabled in config.
const (
	bootstrapAdminUsername = "admin"
	bootstrapAdminPassword = "admin123"
	bootstrapAdminEmail    = "admin@quizmaster.local"
	bootstrapAdminFullName = "Administrator"
)

// UserService defines the interface for user account operations.
type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) (*dto.UserListResponse, error)
	// DeleteUser removes the target user and all of their scores in one
	// transaction. Admins cannot delete their own account.
	DeleteUser(ctx context.Context, actorID, targetID int64) error
	// EnsureAdminAccount creates the bootstrap admin when none exists.
	EnsureAdminAccount(ctx context.Context) error
}

type userServiceImpl struct {
	userRepo  repository.UserRepository
	scoreRepo repository.ScoreRepository
	txManager domain.TransactionManager
	creator   *entityCreator
	appConfig *config.Config
}

// NewUserService creates a new instance of UserService.
func NewUserService(
	userRepo repository.UserRepository,
	scoreRepo repository.ScoreRepository,
	txManager domain.TransactionManager,
	allocator *idgen.Allocator,
	sequences repository.SequenceReconciler,
	appConfig *config.Config,
) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		scoreRepo: scoreRepo,
		txManager: txManager,
		creator:   newEntityCreator(txManager, allocator, sequences),
		appConfig: appConfig,
	}
}

func toUserResponse(u *domain.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		FullName:      u.FullName,
		Email:         u.Email,
		Qualification: u.Qualification,
		IsAdmin:       u.IsAdmin,
	}
	if u.DateOfBirth != nil {
		resp.DateOfBirth = u.DateOfBirth.Format(dateOfBirthLayout)
	}
	return resp
}

func (s *userServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	if req.Username == "" || req.Password == "" || req.Email == "" || req.FullName == "" {
		return nil, domain.NewInvalidInputError("username, password, full_name and email are required")
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse(dateOfBirthLayout, req.DateOfBirth)
		if err != nil {
			return nil, domain.NewInvalidInputError("date_of_birth must be in YYYY-MM-DD format")
		}
		dob = &parsed
	}

	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, domain.NewInternalError("failed to check username", err)
	}
	if existing != nil {
		return nil, domain.NewInvalidOperationError("username is already taken")
	}

	existing, err = s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.NewInternalError("failed to check email", err)
	}
	if existing != nil {
		return nil, domain.NewInvalidOperationError("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := &domain.User{
		Username:      req.Username,
		PasswordHash:  string(hash),
		FullName:      req.FullName,
		Email:         req.Email,
		Qualification: req.Qualification,
		DateOfBirth:   dob,
		IsAdmin:       false,
		CreatedAt:     time.Now(),
	}

	id, err := s.creator.create(ctx, idgen.EntityUser, func(txCtx context.Context, id int64) error {
		user.ID = id
		return s.userRepo.Create(txCtx, user)
	})
	if err != nil {
		return nil, err
	}
	user.ID = id

	logger.Get().Info("User registered",
		zap.Int64("userID", user.ID),
		zap.String("username", user.Username))

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found")
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found")
	}

	if req.Email != nil && *req.Email != user.Email {
		other, err := s.userRepo.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, domain.NewInternalError("failed to check email", err)
		}
		if other != nil && other.ID != user.ID {
			return nil, domain.NewInvalidOperationError("email is already registered")
		}
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Qualification != nil {
		user.Qualification = *req.Qualification
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			user.DateOfBirth = nil
		} else {
			parsed, err := time.Parse(dateOfBirthLayout, *req.DateOfBirth)
			if err != nil {
				return nil, domain.NewInvalidInputError("date_of_birth must be in YYYY-MM-DD format")
			}
			user.DateOfBirth = &parsed
		}
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, domain.NewInvalidInputError("password must not be empty")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, domain.NewInternalError("failed to hash password", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, domain.NewInternalError("failed to update user", err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list users", err)
	}

	resp := &dto.UserListResponse{Users: make([]dto.UserResponse, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, toUserResponse(&users[i]))
	}
	return resp, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return domain.NewInvalidOperationError("cannot delete your own account")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return domain.NewInternalError("failed to get user", err)
	}
	if target == nil {
		return domain.NewNotFoundError("user not found")
	}

	var scoresRemoved int64
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		removed, err := s.scoreRepo.DeleteByUser(txCtx, targetID)
		if err != nil {
			return err
		}
		scoresRemoved = removed
		return s.userRepo.Delete(txCtx, targetID)
	})
	if err != nil {
		return domain.NewInternalError("failed to delete user", err)
	}

	logger.Get().Info("User deleted",
		zap.Int64("userID", targetID),
		zap.Int64("actorID", actorID),
		zap.Int64("scoresRemoved", scoresRemoved))
	return nil
}

func (s *userServiceImpl) EnsureAdminAccount(ctx context.Context) error {
	if !s.appConfig.Bootstrap.CreateAdmin {
		return nil
	}

	hasAdmin, err := s.userRepo.HasAdmin(ctx)
	if err != nil {
		return err
	}
	if hasAdmin {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(bootstrapAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username:     bootstrapAdminUsername,
		PasswordHash: string(hash),
		FullName:     bootstrapAdminFullName,
		Email:        bootstrapAdminEmail,
		IsAdmin:      true,
		CreatedAt:    time.Now(),
	}

	id, err := s.creator.create(ctx, idgen.EntityUser, func(txCtx context.Context, id int64) error {
		admin.ID = id
		return s.userRepo.Create(txCtx, admin)
	})
	if err != nil {
		return err
	}

	logger.Get().Warn("Bootstrap admin account created with default credentials, change the password immediately",
		zap.Int64("userID", id),
		zap.String("username", bootstrapAdminUsername))
	return nil
}
