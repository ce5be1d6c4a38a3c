package service

import (
	"context"
	"time"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/pkg/apperr"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
	GetCreditBalance(ctx context.Context, userId uuid.UUID) (*dto.CreditBalanceResponse, error)
	AddCredits(ctx context.Context, req *dto.AddCreditsRequest) (*dto.CreditBalanceResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}

	profile, err := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperr.NotFound("profile")
	}

	avatar := ""
	if user.AvatarURL != nil {
		avatar = *user.AvatarURL
	}

	return &dto.UserProfileResponse{
		Id:              user.Id,
		Email:           user.Email,
		FullName:        user.FullName,
		Role:            string(user.Role),
		Status:          string(user.Status),
		AvatarURL:       avatar,
		Credits:         profile.Credits,
		ImagesGenerated: profile.ImagesGenerated,
		CreatedAt:       user.CreatedAt,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}

	user.FullName = req.FullName
	user.UpdatedAt = time.Now()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userId)
}

func (s *userService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user")
	}

	return uow.UserRepository().Delete(ctx, userId)
}

func (s *userService) GetCreditBalance(ctx context.Context, userId uuid.UUID) (*dto.CreditBalanceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperr.NotFound("profile")
	}

	return &dto.CreditBalanceResponse{
		UserId:  userId,
		Credits: profile.Credits,
	}, nil
}

// AddCredits is the admin top-up path. Payments add credits through the
// payment service instead.
func (s *userService) AddCredits(ctx context.Context, req *dto.AddCreditsRequest) (*dto.CreditBalanceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: req.UserId})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperr.NotFound("profile")
	}

	if err := uow.ProfileRepository().Credit(ctx, req.UserId, req.Credits); err != nil {
		return nil, err
	}

	return s.GetCreditBalance(ctx, req.UserId)
}
