package user

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/veta-academy/backend/core"
)

func fieldTags(t *testing.T, err error) map[string]string {
	t.Helper()
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("error is %T, want validator.ValidationErrors: %v", err, err)
	}
	tags := make(map[string]string, len(vErrs))
	for _, vErr := range vErrs {
		tags[vErr.Field()] = vErr.Tag()
	}
	return tags
}

func Test_passwordPolicy(t *testing.T) {
	tests := []struct {
		name    string
		pwd     string
		wantTag string
	}{
		{name: "valid", pwd: "Str0ng.Pass!"},
		{name: "too short", pwd: "L0l.", wantTag: pwdMinLenTag},
		{name: "whitespace", pwd: "Str0ng Pass!", wantTag: pwdNoSpaceTag},
		{name: "all numeric", pwd: "123456789", wantTag: pwdNotAllNumTag},
		{name: "no special char", pwd: "Str0ngPass", wantTag: pwdComplexityTag},
		{name: "no uppercase", pwd: "str0ng.pass!", wantTag: pwdComplexityTag},
		{name: "common password", pwd: "P@ssw0rd", wantTag: pwdNoCommonTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp := ResetUserPassword{Token: "tok", UID: "uid", Password: tt.pwd, PasswordConfirm: tt.pwd}
			tags := fieldTags(t, core.Validate.Struct(rp))
			if tt.wantTag == "" {
				if len(tags) != 0 {
					t.Errorf("Validate() = %v; want no errors", tags)
				}
				return
			}
			if tags["password"] != tt.wantTag {
				t.Errorf("password tag = %q; want %q (all: %v)", tags["password"], tt.wantTag, tags)
			}
		})
	}
}

func Test_passwordSimilarity(t *testing.T) {
	nu := NewUser{
		Name:            "Juana Perez",
		Username:        "juanaperez",
		Email:           "juana@test.pe",
		Password:        "Juanaperez1!",
		PasswordConfirm: "Juanaperez1!",
	}
	tags := fieldTags(t, core.Validate.Struct(nu))
	if tags["password"] != pwdAttrSimTag {
		t.Errorf("password tag = %q; want %q (all: %v)", tags["password"], pwdAttrSimTag, tags)
	}
}

func Test_newUserValidation(t *testing.T) {
	t.Run("username or email required", func(t *testing.T) {
		nu := NewUser{Name: "Juana", Password: "Str0ng.Pass!", PasswordConfirm: "Str0ng.Pass!"}
		tags := fieldTags(t, core.Validate.Struct(nu))
		if tags["username"] != usernameOrEmailTag || tags["email"] != usernameOrEmailTag {
			t.Errorf("tags = %v; want %q on both username and email", tags, usernameOrEmailTag)
		}
	})

	t.Run("confirm must match", func(t *testing.T) {
		nu := NewUser{
			Name: "Juana", Username: "juanap", Password: "Str0ng.Pass!", PasswordConfirm: "Other.Pass1!",
		}
		tags := fieldTags(t, core.Validate.Struct(nu))
		if tags["password_confirm"] != "eqfield" {
			t.Errorf("tags = %v; want eqfield on password_confirm", tags)
		}
	})

	t.Run("bad roles", func(t *testing.T) {
		nu := NewUser{
			Name: "Juana", Username: "juanap", Password: "Str0ng.Pass!", PasswordConfirm: "Str0ng.Pass!",
			Roles: []string{"superuser:"},
		}
		tags := fieldTags(t, core.Validate.Struct(nu))
		if tags["roles"] != allRolesTag {
			t.Errorf("tags = %v; want %q on roles", tags, allRolesTag)
		}
	})

	t.Run("one error per field", func(t *testing.T) {
		nu := NewUser{Name: "Juana", Email: "nope", Password: "Str0ng.Pass!", PasswordConfirm: "Str0ng.Pass!"}
		err := core.Validate.Struct(nu)
		vErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			t.Fatalf("error is %T: %v", err, err)
		}
		var emailErrs int
		for _, vErr := range vErrs {
			if vErr.Field() == "email" {
				emailErrs++
			}
		}
		if emailErrs != 1 {
			t.Errorf("email errors = %d; want 1", emailErrs)
		}
	})
}
