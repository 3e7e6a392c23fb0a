package user

import (
	"time"

	"webapp/internal/domain"
)

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=4"`
}

type UpdateRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Password  string `json:"password" validate:"required,min=4"`
}

// AccountView is the public account representation. The password hash
// and verification fields never appear here.
type AccountView struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	AccountCreated time.Time `json:"account_created"`
	AccountUpdated time.Time `json:"account_updated"`
}

func NewAccountView(u *domain.User) AccountView {
	return AccountView{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		AccountCreated: u.AccountCreated,
		AccountUpdated: u.AccountUpdated,
	}
}
