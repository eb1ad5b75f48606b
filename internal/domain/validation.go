package domain

import "regexp"

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	passwordRegex = regexp.MustCompile(`^.{3,20}$`)
	emailRegex    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// Form field names shared by validation errors and templates.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldVerify   = "verify"
	FieldEmail    = "email"
	FieldSubject  = "subject"
	FieldContent  = "content"
	FieldForm     = "form"
)

// ValidUsername accepts 3-20 letters, digits, underscores or hyphens.
func ValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// ValidPassword accepts 3-20 characters of anything.
func ValidPassword(password string) bool {
	return passwordRegex.MatchString(password)
}

// ValidEmail accepts an empty address or a loosely shaped one.
func ValidEmail(email string) bool {
	return email == "" || emailRegex.MatchString(email)
}
