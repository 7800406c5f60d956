package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSignup() SignupForm {
	return SignupForm{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Smith",
		Mobile:    "555-0100",
		Email:     "alice@Example.COM",
		Password1: "s3cret-pass",
		Password2: "s3cret-pass",
	}
}

func TestSignupFormClean(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*SignupForm)
		wantField string
		wantMsg   string
	}{
		{name: "valid"},
		{name: "missing username", mutate: func(f *SignupForm) { f.Username = "  " }, wantField: "username", wantMsg: msgRequired},
		{name: "username with space", mutate: func(f *SignupForm) { f.Username = "al ice" }, wantField: "username", wantMsg: msgInvalidUsername},
		{name: "username too long", mutate: func(f *SignupForm) { f.Username = strings.Repeat("a", 151) }, wantField: "username",
			wantMsg: "Ensure this value has at most 150 characters (it has 151)."},
		{name: "mobile too long", mutate: func(f *SignupForm) { f.Mobile = "1234567890123456" }, wantField: "mobile"},
		{name: "bad email", mutate: func(f *SignupForm) { f.Email = "not-an-email" }, wantField: "email", wantMsg: msgInvalidEmail},
		{name: "password mismatch", mutate: func(f *SignupForm) { f.Password2 = "other" }, wantField: "password2", wantMsg: msgPasswordMismatch},
		{name: "name that is only markup", mutate: func(f *SignupForm) { f.FirstName = "<b></b>" }, wantField: "first_name", wantMsg: msgRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validSignup()
			if tt.mutate != nil {
				tt.mutate(&f)
			}
			result := f.Clean()
			if tt.wantField == "" {
				assert.True(t, result.Valid(), "unexpected errors: %v", result.Errors)
				return
			}
			assert.False(t, result.Valid())
			msg, ok := result.Map()[tt.wantField]
			assert.True(t, ok, "expected error on %s, got %v", tt.wantField, result.Errors)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, msg)
			}
		})
	}
}

func TestSignupFormNormalizes(t *testing.T) {
	f := validSignup()
	f.FirstName = "<script>alert(1)</script>Al<i>ice</i>"
	f.LastName = "O'Brien"

	result := f.Clean()
	assert.True(t, result.Valid())
	assert.Equal(t, "Alice", f.FirstName)
	assert.Equal(t, "O'Brien", f.LastName)
	assert.Equal(t, "alice@example.com", f.Email)
}

func TestLoginFormClean(t *testing.T) {
	f := LoginForm{Username: strings.Repeat("u", 31), Password: ""}
	result := f.Clean()

	errs := result.Map()
	assert.Contains(t, errs["username"], "at most 30 characters")
	assert.Equal(t, msgRequired, errs["password"])
}

func TestValidationResultMapKeepsFirst(t *testing.T) {
	var r ValidationResult
	r.Add("username", "first")
	r.Add("username", "second")
	assert.Equal(t, map[string]string{"username": "first"}, r.Map())
}
