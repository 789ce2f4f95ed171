package service

import (
	"context"
	"strings"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"github.com/Amaytushin/Ratatouille-tusul/internal/repository"
	"github.com/Amaytushin/Ratatouille-tusul/internal/storage"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
	"github.com/sirupsen/logrus"
)

// UserService manages accounts. Self-service operations always act on the
// caller's own record.
type UserService struct {
	users  repository.UserRepository
	images storage.Store
}

func NewUserService(users repository.UserRepository, images storage.Store) *UserService {
	return &UserService{users: users, images: images}
}

// Register creates an active account. avatar may be nil.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest, avatar *Upload) (*models.User, error) {
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" || req.Password == "" {
		return nil, validationError("email, username and password are required")
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		IsActive:     true,
	}

	if avatar != nil {
		user.Avatar, err = saveImage(ctx, s.images, storage.DirAvatars, avatar)
		if err != nil {
			return nil, err
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		discardImage(ctx, s.images, user.Avatar)
		return nil, mapRepoError(err, "user")
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return user, nil
}

// Me returns the caller's account.
func (s *UserService) Me(ctx context.Context, caller *Caller) (*models.User, error) {
	if err := Authorize(caller, OpUserRead, nil); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	return user, nil
}

// UpdateMe applies a partial update. A new avatar replaces the stored one;
// RemoveAvatar clears it without a replacement.
func (s *UserService) UpdateMe(ctx context.Context, caller *Caller, req *types.UpdateMeRequest, avatar *Upload) (*models.User, error) {
	user, err := s.Me(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, OpUserUpdate, user); err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return nil, validationError("email cannot be blank")
		}
		user.Email = email
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, validationError("username cannot be blank")
		}
		user.Username = username
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, validationError("password cannot be blank")
		}
		if user.PasswordHash, err = HashPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	previousAvatar := user.Avatar
	switch {
	case avatar != nil:
		if user.Avatar, err = saveImage(ctx, s.images, storage.DirAvatars, avatar); err != nil {
			return nil, err
		}
	case req.RemoveAvatar:
		user.Avatar = ""
	}

	if err := s.users.Update(ctx, user); err != nil {
		if user.Avatar != previousAvatar {
			discardImage(ctx, s.images, user.Avatar)
		}
		return nil, mapRepoError(err, "user")
	}
	if user.Avatar != previousAvatar {
		discardImage(ctx, s.images, previousAvatar)
	}
	return user, nil
}

// DeleteMe removes the caller's account. Their recipes stay without an author.
func (s *UserService) DeleteMe(ctx context.Context, caller *Caller) error {
	user, err := s.Me(ctx, caller)
	if err != nil {
		return err
	}
	if err := Authorize(caller, OpUserDelete, user); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return mapRepoError(err, "user")
	}
	discardImage(ctx, s.images, user.Avatar)
	logrus.WithField("user_id", user.ID).Info("user deleted")
	return nil
}
