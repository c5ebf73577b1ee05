package user

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Linkedin string `json:"linkedin"`
	Github   string `json:"github"`
}

type UserService interface {
	GetProfile(ctx context.Context, id primitive.ObjectID) (*User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req UpdateProfileRequest) (*User, error)
	ChangePassword(ctx context.Context, id primitive.ObjectID, currentPassword, newPassword string) error
}

type UserServiceImpl struct {
	Repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &UserServiceImpl{Repo: repo}
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, id primitive.ObjectID, req UpdateProfileRequest) (*User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		u.Name = name
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		u.Email = email
	}
	u.Phone = req.Phone
	u.Bio = req.Bio
	u.Title = req.Title
	u.Company = req.Company
	u.Location = req.Location
	u.Website = req.Website
	u.Linkedin = req.Linkedin
	u.Github = req.Github

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, id primitive.ObjectID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)); err != nil {
		return errors.New("current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hashed)
	return s.Repo.Update(ctx, u)
}
