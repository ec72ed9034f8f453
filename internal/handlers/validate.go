package handlers

import (
	"regexp"
	"strings"
)

const (
	minPasswordLength = 8
	minNameLength     = 2
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// violation identifies the first failed field of a request.
// A nil violation means the request shape is valid.
type violation struct {
	Field   string
	Message string
}

func checkEmail(email string) *violation {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &violation{Field: "email", Message: "Invalid email format"}
	}
	return nil
}

func checkPassword(password string) *violation {
	if len(password) < minPasswordLength {
		return &violation{Field: "password", Message: "Password must be at least 8 characters"}
	}
	return nil
}

func checkName(name string) *violation {
	if len(strings.TrimSpace(name)) < minNameLength {
		return &violation{Field: "name", Message: "Name must be at least 2 characters"}
	}
	return nil
}

// validateRegister checks fields in declaration order and reports the
// first violation only.
func validateRegister(req RegisterRequest) *violation {
	if v := checkEmail(req.Email); v != nil {
		return v
	}
	if v := checkPassword(req.Password); v != nil {
		return v
	}
	return checkName(req.Name)
}

func validateLogin(req LoginRequest) *violation {
	if v := checkEmail(req.Email); v != nil {
		return v
	}
	if req.Password == "" {
		return &violation{Field: "password", Message: "Password is required"}
	}
	return nil
}
