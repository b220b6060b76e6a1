package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ratehub/internal/apperr"
	"ratehub/internal/authz"
	"ratehub/internal/dto"
	"ratehub/internal/models"
	"ratehub/internal/repository"
)

type UserService interface {
	List(ctx context.Context, actor authz.Actor, search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error)
	// Create is the admin path: it may set an arbitrary role and does not
	// issue a confirmation code; the account activates through signup.
	Create(ctx context.Context, actor authz.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error)
	// Get resolves the self alias to the acting user.
	Get(ctx context.Context, actor authz.Actor, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, actor authz.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, actor authz.Actor, username string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, actor authz.Actor, search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	// Listing has no single owner; only admins pass.
	if err := check(authz.Authorize(actor, authz.Read, authz.ResourceUser, "")); err != nil {
		return nil, err
	}

	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, actor authz.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := check(authz.Authorize(actor, authz.Write, authz.ResourceUser, "")); err != nil {
		return nil, err
	}
	if err := validateUsername(req.Username); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("username or email already registered")
		}
		return nil, err
	}

	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Get(ctx context.Context, actor authz.Actor, username string) (*dto.UserResponse, error) {
	user, err := s.resolve(ctx, actor, username)
	if err != nil {
		return nil, err
	}
	if err := check(authz.Authorize(actor, authz.Read, authz.ResourceUser, user.ID)); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, actor authz.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.resolve(ctx, actor, username)
	if err != nil {
		return nil, err
	}
	if err := check(authz.Authorize(actor, authz.Write, authz.ResourceUser, user.ID)); err != nil {
		return nil, err
	}

	if req.Username != nil {
		if err := validateUsername(*req.Username); err != nil {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	// Role is allow-listed: non-admins get it dropped, never rejected, so a
	// role-escalation attempt cannot break an otherwise valid self-edit.
	if req.Role != nil && authz.CanAssignRole(actor) {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("username or email already registered")
		}
		return nil, err
	}

	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, actor authz.Actor, username string) error {
	user, err := s.resolve(ctx, actor, username)
	if err != nil {
		return err
	}
	if err := check(authz.Authorize(actor, authz.Destroy, authz.ResourceUser, user.ID)); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, user.ID)
}

// resolve maps the self alias to the acting user, otherwise looks up by
// username.
func (s *userService) resolve(ctx context.Context, actor authz.Actor, username string) (*models.User, error) {
	if username == models.SelfAlias {
		if actor.Anonymous() {
			return nil, apperr.AuthRequired()
		}
		user, err := s.userRepo.FindByID(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("user")
			}
			return nil, err
		}
		return user, nil
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	return user, nil
}

// check translates an authz decision into the error taxonomy.
func check(decision authz.Decision) error {
	if decision.Allowed {
		return nil
	}
	if decision.Denial == authz.DenialUnauthenticated {
		return apperr.AuthRequired()
	}
	return apperr.Forbidden(decision.Reason)
}
