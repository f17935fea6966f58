package user

import (
	"errors"
	"strings"
)

type CreateUserDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (dto CreateUserDTO) Validate() error {
	if strings.TrimSpace(dto.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(dto.Email, "@") {
		return errors.New("email is invalid")
	}
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if dto.Role == "" {
		return errors.New("role is required")
	}
	return nil
}
