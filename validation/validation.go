package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	validator "github.com/go-playground/validator/v10"

	"github.com/gravitl/scimdir/models"
)

var urnPattern = regexp.MustCompile(`^urn:[A-Za-z0-9][A-Za-z0-9-]{0,31}:[^\s]+$`)

var (
	once     sync.Once
	validate *validator.Validate
)

// CheckURN - checks a field holds a namespace identifier
func CheckURN(fl validator.FieldLevel) bool {
	return urnPattern.MatchString(fl.Field().String())
}

// CheckNotBlank - rejects whitespace only strings
func CheckNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// CheckRegex - check if a struct's field passes regex test
func CheckRegex(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(fl.Param())
	return re.MatchString(fl.Field().String())
}

func validatorInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("urn", CheckURN)
		_ = validate.RegisterValidation("notblank", CheckNotBlank)
		_ = validate.RegisterValidation("regex", CheckRegex)
	})
	return validate
}

// ValidateUser - checks an inbound user before it reaches the directory
func ValidateUser(user *models.User) error {
	v := validatorInstance()
	if err := v.Struct(user); err != nil {
		return err
	}
	for ns := range user.Custom {
		if err := v.Var(ns, "urn"); err != nil {
			return fmt.Errorf("invalid custom namespace %q", ns)
		}
	}
	return nil
}

// ValidateGroup - checks an inbound group before it reaches the directory
func ValidateGroup(group *models.Group) error {
	return validatorInstance().Struct(group)
}
