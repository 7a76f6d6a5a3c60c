// Package forms decodes and validates the web forms of the application.
package forms

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type SignUpForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	FullName string `validate:"required,max=120"`
}

type SignInForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type EventForm struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=5000"`
	Category    string `validate:"required"`
	Location    string `validate:"max=200"`
	StartTime   string `validate:"omitempty"`
	EndTime     string `validate:"omitempty"`
	IsOngoing   bool
	Capacity    *int `validate:"omitempty,min=1"`
}

type HelpRequestForm struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=5000"`
	Urgency     string `validate:"required,oneof=low medium urgent"`
	Category    string `validate:"required"`
	Location    string `validate:"max=200"`
	IsOngoing   bool
}

type CommentForm struct {
	Content string `validate:"required,max=2000"`
}

func ParseSignUp(r *http.Request) (SignUpForm, error) {
	f := SignUpForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		FullName: strings.TrimSpace(r.FormValue("full_name")),
	}
	return f, Validate(f)
}

func ParseSignIn(r *http.Request) (SignInForm, error) {
	f := SignInForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	return f, Validate(f)
}

func ParseEvent(r *http.Request) (EventForm, error) {
	f := EventForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Location:    strings.TrimSpace(r.FormValue("location")),
		StartTime:   r.FormValue("start_time"),
		EndTime:     r.FormValue("end_time"),
		IsOngoing:   r.FormValue("is_ongoing") == "on",
	}
	if raw := r.FormValue("capacity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, fmt.Errorf("capacity must be a number")
		}
		f.Capacity = &n
	}
	if err := Validate(f); err != nil {
		return f, err
	}
	return f, f.checkSchedule()
}

func ParseHelpRequest(r *http.Request) (HelpRequestForm, error) {
	f := HelpRequestForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
		Urgency:     r.FormValue("urgency"),
		Category:    r.FormValue("category"),
		Location:    strings.TrimSpace(r.FormValue("location")),
		IsOngoing:   r.FormValue("is_ongoing") == "on",
	}
	return f, Validate(f)
}

func ParseComment(r *http.Request) (CommentForm, error) {
	f := CommentForm{Content: strings.TrimSpace(r.FormValue("content"))}
	return f, Validate(f)
}

// checkSchedule enforces the scheduling invariant: ongoing posts carry no
// timestamps, scheduled ones may not end before they start. Times come
// from datetime-local inputs.
func (f EventForm) checkSchedule() error {
	if f.IsOngoing {
		if f.StartTime != "" || f.EndTime != "" {
			return fmt.Errorf("an ongoing event cannot have start or end times")
		}
		return nil
	}
	start, err := f.ParsedStart()
	if err != nil {
		return fmt.Errorf("start time is not a valid date")
	}
	end, err := f.ParsedEnd()
	if err != nil {
		return fmt.Errorf("end time is not a valid date")
	}
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("end time cannot be before start time")
	}
	return nil
}

func (f EventForm) ParsedStart() (*time.Time, error) { return parseLocalTime(f.StartTime) }
func (f EventForm) ParsedEnd() (*time.Time, error)   { return parseLocalTime(f.EndTime) }

func parseLocalTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	// datetime-local has no zone or seconds
	for _, layout := range []string{"2006-01-02T15:04", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q", raw)
}

// Validate runs struct validation and turns violations into one
// human-readable message for the form layer.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var msgs []string
	for _, fe := range errs {
		switch fe.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fieldName(fe.Field())))
		case "email":
			msgs = append(msgs, "email address is not valid")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", fieldName(fe.Field()), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s is too long", fieldName(fe.Field())))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fieldName(fe.Field()), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is not valid", fieldName(fe.Field())))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, ", "))
}

func fieldName(s string) string {
	switch s {
	case "FullName":
		return "full name"
	case "StartTime":
		return "start time"
	case "EndTime":
		return "end time"
	default:
		return strings.ToLower(s)
	}
}
