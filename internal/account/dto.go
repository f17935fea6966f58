package account

import (
	"errors"
	"strings"
)

type CreateAccountDTO struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (dto CreateAccountDTO) Validate() error {
	if strings.TrimSpace(dto.Code) == "" {
		return errors.New("code is required")
	}
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type UpdateAccountDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (dto UpdateAccountDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}
