package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	maxRoleLen        = 64
	maxPermissionLen  = 128
	asciiControlStart = 32
	asciiDelete       = 127
	permissionSep     = ":"

	tagPermission = "permission"
	tagRole       = "role"

	errRoleEmptyFmt              = "role cannot be empty"
	errRoleMaxLengthFmt          = "role must not exceed %d characters"
	errRoleInvalidCharsFmt       = "role cannot contain whitespace or control characters"
	errPermissionEmptyFmt        = "permission cannot be empty"
	errPermissionMaxLengthFmt    = "permission must not exceed %d characters"
	errPermissionFormatFmt       = "permission %q must have the form resource:action"
	errPermissionInvalidCharsFmt = "permission cannot contain whitespace or control characters"
)

// New returns a validator with the "role" and "permission" tags registered.
// Field names in errors use the json tag when present.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation(tagRole, func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation(tagPermission, func(fl validator.FieldLevel) bool {
		return Permission(fl.Field().String()) == nil
	})

	return v
}

func Role(role string) error {
	if role == "" {
		return fmt.Errorf(errRoleEmptyFmt)
	}

	if len(role) > maxRoleLen {
		return fmt.Errorf(errRoleMaxLengthFmt, maxRoleLen)
	}

	if !printableToken(role) {
		return fmt.Errorf(errRoleInvalidCharsFmt)
	}

	return nil
}

// Permission checks the resource:action shape. It does not check that the
// permission is known to any registry.
func Permission(permission string) error {
	if permission == "" {
		return fmt.Errorf(errPermissionEmptyFmt)
	}

	if len(permission) > maxPermissionLen {
		return fmt.Errorf(errPermissionMaxLengthFmt, maxPermissionLen)
	}

	if !printableToken(permission) {
		return fmt.Errorf(errPermissionInvalidCharsFmt)
	}

	resource, action, ok := strings.Cut(permission, permissionSep)
	if !ok || resource == "" || action == "" || strings.Contains(action, permissionSep) {
		return fmt.Errorf(errPermissionFormatFmt, permission)
	}

	return nil
}

// Describe flattens validation errors into one line, e.g.
// "permissions[0] failed permission; match failed oneof".
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fieldPath(fe), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func printableToken(s string) bool {
	for _, char := range s {
		if char <= asciiControlStart || char == asciiDelete {
			return false
		}
	}
	return true
}
