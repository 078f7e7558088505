package user

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/kud0/mindsy/core"
)

var (
	usernameOrEmailTag  = "username_or_email"
	usernameOrEmailText = "one of username or email is required"

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"
)

func init() {
	core.Validate.RegisterStructValidation(userStructValidation, NewUser{})
	core.Validate.RegisterStructValidation(userStructValidation, UpdateUser{})
	core.RegisterCustomTranslation(usernameOrEmailTag, usernameOrEmailText)
	core.RegisterCustomTranslation(pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

// userStructValidation does struct level validation on NewUser and UpdateUser structs.
func userStructValidation(sl validator.StructLevel) {
	switch usr := sl.Current().Interface().(type) {
	case NewUser:
		validateUsernameAndEmail(usr, sl)
		validatePassword(usr.Password, usr.Name, usr.Username, usr.Email, sl)
	case UpdateUser:
		if usr.Password != "" {
			validatePassword(usr.Password, usr.Name, usr.Username, usr.Email, sl)
		}
	}
}

// validateUsernameAndEmail checks that one of Username or Email is provided.
func validateUsernameAndEmail(nu NewUser, sl validator.StructLevel) {
	if len(nu.Username) == 0 && len(nu.Email) == 0 {
		sl.ReportError(nu.Username, "username", "Username", usernameOrEmailTag, "")
		sl.ReportError(nu.Email, "email", "Email", usernameOrEmailTag, "")
	}
}

// validatePassword applies the password policy.
func validatePassword(pass, name, uname, email string, sl validator.StructLevel) {
	reportError := func(tag string) {
		sl.ReportError(pass, "password", "Password", tag, "")
	}

	if len(pass) < pwdMinLen {
		reportError(pwdMinLenTag)
	}

	var allNum = true
	for _, r := range pass {
		if unicode.IsSpace(r) {
			reportError(pwdNoSpaceTag)
			break
		}
	}
	for _, r := range pass {
		if !unicode.IsDigit(r) {
			allNum = false
			break
		}
	}
	if allNum {
		reportError(pwdNotAllNumTag)
	}

	if passwordSimilarToAttributes(pass, name, uname, email) {
		reportError(pwdAttrSimTag)
	}
}

// passwordSimilarToAttributes checks that the password is not too similar to
// the user's name, username or email.
func passwordSimilarToAttributes(pass string, attrs ...string) bool {
	pass = strings.ToLower(pass)
	for _, attr := range attrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if attr == "" {
			continue
		}
		// also match parts of attrs split on common delimiters. eg. emails
		parts := strings.FieldsFunc(attr, func(r rune) bool { return r == '@' || r == '.' || r == '-' || r == '_' })
		parts = append(parts, attr)
		for _, part := range parts {
			if stringsSimilarity(pass, part) >= pwdMaxSim {
				return true
			}
		}
	}
	return false
}

func stringsSimilarity(s1, s2 string) float64 {
	return difflib.NewMatcher(strings.Split(s1, ""), strings.Split(s2, "")).QuickRatio()
}
