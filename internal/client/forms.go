package client

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"linkcook-go/internal/api"
	"linkcook-go/internal/domain/countdown"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateForm is the raw input of the create group buy form.
type CreateForm struct {
	Title         string `validate:"required,max=200"`
	Item          string `validate:"required,max=200"`
	Description   string `validate:"max=5000"`
	TotalQuantity string `validate:"required"`
	PricePerUnit  string `validate:"required"`
	Deadline      string `validate:"required"`
	Location      string `validate:"max=200"`
	Region        string `validate:"max=100"`
	Image         string `validate:"omitempty,url"`
}

// Request checks the form and coerces it into the wire request. Every
// failure is a Validation error raised before any request is made.
func (f CreateForm) Request() (api.CreateGroupBuyRequest, error) {
	f = CreateForm{
		Title:         strings.TrimSpace(f.Title),
		Item:          strings.TrimSpace(f.Item),
		Description:   strings.TrimSpace(f.Description),
		TotalQuantity: strings.TrimSpace(f.TotalQuantity),
		PricePerUnit:  strings.TrimSpace(f.PricePerUnit),
		Deadline:      strings.TrimSpace(f.Deadline),
		Location:      strings.TrimSpace(f.Location),
		Region:        strings.TrimSpace(f.Region),
		Image:         strings.TrimSpace(f.Image),
	}
	if err := validate.Struct(f); err != nil {
		return api.CreateGroupBuyRequest{}, describeValidation(err)
	}

	quantity, err := parseQuantity(f.TotalQuantity)
	if err != nil {
		return api.CreateGroupBuyRequest{}, err
	}
	price, err := parsePrice(f.PricePerUnit)
	if err != nil {
		return api.CreateGroupBuyRequest{}, err
	}
	if _, err := countdown.ParseDeadline(f.Deadline); err != nil {
		return api.CreateGroupBuyRequest{}, validationError("deadline: %v", err)
	}

	return api.CreateGroupBuyRequest{
		Title:         f.Title,
		Item:          f.Item,
		Description:   f.Description,
		TotalQuantity: quantity,
		PricePerUnit:  &price,
		Deadline:      f.Deadline,
		Location:      f.Location,
		Region:        f.Region,
		Image:         f.Image,
	}, nil
}

// EditForm is the raw input of the edit form. A nil field is unchanged.
// Numeric and deadline fields treat blank input as unchanged; optional text
// fields treat blank input as cleared.
type EditForm struct {
	Title         *string
	Item          *string
	Description   *string
	TotalQuantity *string
	PricePerUnit  *string
	Deadline      *string
	Location      *string
	Region        *string
	Image         *string
}

func (f EditForm) Request() (api.UpdateGroupBuyRequest, error) {
	var req api.UpdateGroupBuyRequest

	var err error
	if req.Title, err = requiredText("title", f.Title); err != nil {
		return req, err
	}
	if req.Item, err = requiredText("item", f.Item); err != nil {
		return req, err
	}
	req.Description = optionalText(f.Description)
	req.Location = optionalText(f.Location)
	req.Region = optionalText(f.Region)
	req.Image = optionalText(f.Image)

	if raw := blankToNil(f.TotalQuantity); raw != nil {
		quantity, err := parseQuantity(*raw)
		if err != nil {
			return req, err
		}
		req.TotalQuantity = &quantity
	}
	if raw := blankToNil(f.PricePerUnit); raw != nil {
		price, err := parsePrice(*raw)
		if err != nil {
			return req, err
		}
		req.PricePerUnit = &price
	}
	if raw := blankToNil(f.Deadline); raw != nil {
		if _, err := countdown.ParseDeadline(*raw); err != nil {
			return req, validationError("deadline: %v", err)
		}
		req.Deadline = raw
	}

	if err := validate.Struct(req); err != nil {
		return req, describeValidation(err)
	}
	return req, nil
}

func isEmptyUpdate(req api.UpdateGroupBuyRequest) bool {
	return req.Title == nil && req.Item == nil && req.Description == nil &&
		req.TotalQuantity == nil && req.PricePerUnit == nil && req.Deadline == nil &&
		req.Location == nil && req.Region == nil && req.Image == nil
}

func requiredText(field string, value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, validationError("%s cannot be empty", field)
	}
	return &trimmed, nil
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func blankToNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseQuantity(raw string) (int, error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, validationError("totalQuantity must be a whole number")
	}
	if quantity <= 0 {
		return 0, validationError("totalQuantity must be positive")
	}
	return quantity, nil
}

func parsePrice(raw string) (int64, error) {
	price, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, validationError("pricePerUnit must be a whole number")
	}
	if price < 0 {
		return 0, validationError("pricePerUnit cannot be negative")
	}
	return price, nil
}

func describeValidation(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return &Error{Kind: KindValidation, Message: "invalid input", Err: err}
	}

	fe := fieldErrors[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return validationError("%s is required", field)
	case "max":
		return validationError("%s is too long", field)
	case "url":
		return validationError("%s must be a URL", field)
	default:
		return validationError("%s is invalid", field)
	}
}

func lowerFirst(value string) string {
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
