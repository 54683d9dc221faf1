package services

import (
	"fmt"

	"bookswap/internal/domain"
	"bookswap/internal/repos"
)

type UserService struct {
	Users *repos.UserRepo
}

func NewUserService(users *repos.UserRepo) *UserService {
	return &UserService{Users: users}
}

func (s *UserService) Get(userID string) (*domain.User, error) {
	u, err := s.Users.ByID(userID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

type ProfileUpdate struct {
	Username *string
	Address  *domain.ShippingAddress
}

// UpdateProfile changes a user's own settings. Callers can never touch
// another user's profile.
func (s *UserService) UpdateProfile(userID, callerID string, upd ProfileUpdate) (*domain.User, error) {
	if userID != callerID {
		return nil, fmt.Errorf("%w: you can only update your own settings", domain.ErrForbidden)
	}
	u, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Address != nil {
		u.ShipName = upd.Address.Name
		u.Street = upd.Address.Street
		u.City = upd.Address.City
		u.State = upd.Address.State
		u.Zip = upd.Address.Zip
	}
	if err := s.Users.UpdateProfile(*u); err != nil {
		return nil, err
	}
	return s.Get(userID)
}
