package form

import (
	"net/http"
	"strings"
)

// SignupInput is a submitted signup form.
type SignupInput struct {
	Username string `form:"username" validate:"required,min=3,max=50"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// LoginInput is a submitted login form.
type LoginInput struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// ParseSignup reads and validates a signup form.
func ParseSignup(r *http.Request) (*SignupInput, error) {
	if err := parse(r); err != nil {
		return nil, err
	}

	in := &SignupInput{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.ToLower(strings.TrimSpace(r.PostFormValue("email"))),
		Password: r.PostFormValue("password"),
	}
	if err := Struct(in); err != nil {
		return nil, err
	}
	return in, nil
}

// ParseLogin reads and validates a login form.
func ParseLogin(r *http.Request) (*LoginInput, error) {
	if err := parse(r); err != nil {
		return nil, err
	}

	in := &LoginInput{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	if err := Struct(in); err != nil {
		return nil, err
	}
	return in, nil
}
