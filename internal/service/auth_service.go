package service

import (
	"context"
	"strings"

	apperrors "github.com/adeolu/ridebid/internal/errors"
	"github.com/adeolu/ridebid/internal/models"
	"github.com/adeolu/ridebid/internal/repository"
)

type AuthService interface {
	SignIn(ctx context.Context, req *models.SignInRequest) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, req *models.UpdateProfileRequest) (*models.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	adminEmail string
}

func NewAuthService(userRepo repository.UserRepository, adminEmail string) AuthService {
	return &authService{
		userRepo:   userRepo,
		adminEmail: adminEmail,
	}
}

// SignIn upserts a profile from the identity provider's result. The admin
// role is granted only when the email matches the configured admin
// credential; an existing profile never changes role on sign-in.
func (s *authService) SignIn(ctx context.Context, req *models.SignInRequest) (*models.User, error) {
	existing, err := s.userRepo.GetByExternalID(ctx, req.ExternalID)
	if err != nil {
		return nil, err
	}

	var avatarURL *string
	if req.PhotoURL != "" {
		avatarURL = &req.PhotoURL
	}

	if existing != nil {
		if err := s.userRepo.UpdateIdentity(ctx, existing.ID, req.Name, req.Email, avatarURL); err != nil {
			return nil, err
		}
		existing.Name = req.Name
		existing.Email = req.Email
		existing.AvatarURL = avatarURL
		return existing, nil
	}

	role := req.Role
	if role == "" {
		role = models.RolePassenger
	}
	if role == models.RoleAdmin {
		return nil, apperrors.Forbidden("admin role cannot be requested")
	}
	if s.isAdminEmail(req.Email) {
		role = models.RoleAdmin
	}

	user := &models.User{
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Email:      req.Email,
		AvatarURL:  avatarURL,
		Role:       role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, user *models.User, req *models.UpdateProfileRequest) (*models.User, error) {
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.CarMake != nil {
		user.CarMake = req.CarMake
	}
	if req.CarModel != nil {
		user.CarModel = req.CarModel
	}
	if req.CarColor != nil {
		user.CarColor = req.CarColor
	}
	if req.LicensePlate != nil {
		user.LicensePlate = req.LicensePlate
	}
	if req.LicenseURL != nil {
		user.LicenseURL = req.LicenseURL
	}
	if req.IsAvailable != nil {
		user.IsAvailable = *req.IsAvailable
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) isAdminEmail(email string) bool {
	return s.adminEmail != "" && strings.EqualFold(email, s.adminEmail)
}
