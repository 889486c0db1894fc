package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/analysis"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// recordRules holds the rules every stored record must satisfy, checked
// after defaults and patches are applied.
type recordRules struct {
	SleepStartTime time.Time `json:"sleepStartTime" validate:"required"`
	SleepEndTime   time.Time `json:"sleepEndTime" validate:"required,gtfield=SleepStartTime"`
	Satisfaction   int       `json:"satisfaction" validate:"gte=1,lte=5"`
}

func validateRecord(r internal.SleepRecord) error {
	return invalid(validate.Struct(recordRules{
		SleepStartTime: r.SleepStartTime,
		SleepEndTime:   r.SleepEndTime,
		Satisfaction:   r.Satisfaction,
	}))
}

// invalid turns a validator error into ErrInvalidInput with a readable
// message. nil stays nil.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gtfield":
		return fe.Field() + " must be after " + lowerFirst(fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func parseTimestamp(field, value string) (time.Time, error) {
	t, err := analysis.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be an ISO-8601 timestamp", ErrInvalidInput, field)
	}
	return t, nil
}

// Authorize resolves the target user of a request. An empty userID means the
// caller; any other user is forbidden.
func Authorize(user *internal.User, userID string) (string, error) {
	if user == nil {
		return "", ErrForbidden
	}
	userID = strings.TrimSpace(userID)
	if userID == "" || userID == user.ID {
		return user.ID, nil
	}
	return "", ErrForbidden
}
