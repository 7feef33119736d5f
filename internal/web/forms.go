package web

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

type credentialsForm struct {
	Username string `validate:"required,max=80"`
	Password string `validate:"required"`
}

func parseCredentials(r *http.Request) credentialsForm {
	return credentialsForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
}

type uploadForm struct {
	Category string `validate:"required,max=128"`
	Name     string `validate:"max=128"`
}

func parseUpload(r *http.Request) uploadForm {
	return uploadForm{
		Category: strings.TrimSpace(r.FormValue("category")),
		Name:     strings.TrimSpace(r.FormValue("name")),
	}
}

type rpsForm struct {
	Choice string `validate:"required,oneof=rock paper scissors"`
}

func parseRPS(r *http.Request) rpsForm {
	return rpsForm{Choice: strings.ToLower(strings.TrimSpace(r.FormValue("choice")))}
}

// validationMessage turns the first failed field into a flash message.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Invalid form submission"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " is too long"
	case "oneof":
		return "Please choose rock, paper or scissors"
	}
	return fe.Field() + " is invalid"
}
