// Package validate holds the client-side form checks that run before any
// request is sent. A failing check yields an *Error whose message is shown
// to the user as-is.
package validate

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^\d{10}$`)
)

// Error is a validation failure on a single field
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

var labels = map[string]string{
	"FlightNo":      "Flight No.",
	"TotalSeats":    "Total Seats",
	"TotalPrice":    "Price",
	"DepartureTime": "Departure Time",
	"ArrivalTime":   "Arrival Time",
	"FirstName":     "First Name",
	"LastName":      "Last Name",
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	must(val.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}))
	must(val.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	}))
	must(val.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		cents := fl.Field().Float() * 100
		return math.Abs(cents-math.Round(cents)) < 1e-6
	}))
	must(val.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(models.DateLayout, models.DatePart(fl.Field().String()))
		return err == nil
	}))
	must(val.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if _, err := time.Parse("15:04", s); err == nil {
			return true
		}
		_, err := time.Parse("15:04:05", s)
		return err == nil
	}))
	return val
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Feedback checks the contact form: name, email, mobile, subject, message.
func Feedback(fb models.Feedback) error { return check(fb) }

// Profile checks the profile edit form.
func Profile(p models.ProfileUpdate) error { return check(p) }

// Search checks the flight search form; every field is required.
func Search(r models.SearchRequest) error { return check(r) }

// Flight checks a flight record against the record invariants.
func Flight(f models.FlightRecord) error { return check(f) }

// check reports the first failing field in declaration order.
func check(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}
	fe := verrs[0]
	return &Error{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	label, ok := labels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "contactemail":
		return "Valid email is required"
	case "mobile":
		return "Mobile number must be 10 digits"
	case "oneof":
		return label + " must be one of Economy, Business, First"
	case "money":
		return label + " must have at most 2 decimal places"
	case "gte":
		return label + " must not be negative"
	case "calendardate":
		return label + " must be a date in YYYY-MM-DD form"
	case "clock":
		return label + " must be a time in HH:MM form"
	default:
		return label + " is required"
	}
}
