package services

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterInput is the account creation form.
type RegisterInput struct {
	Name     string `form:"name" json:"name" validate:"required,min=2,max=120"`
	Email    string `form:"email" json:"email" validate:"required,email,max=255"`
	Password string `form:"password" json:"password" validate:"required,min=8"`
	Confirm  string `form:"confirm" json:"confirm" validate:"required,eqfield=Password"`
}

// LoginInput is the sign-in form, also accepted as JSON by the token endpoint.
type LoginInput struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

// AddToCartInput is posted from the product list.
type AddToCartInput struct {
	ProductID uint `form:"product_id" validate:"required"`
	Quantity  int  `form:"quantity" validate:"required,min=1,max=100"`
}

// StatusInput is posted from the admin order page. The label is checked
// against the status vocabulary by OrderService.UpdateStatus, so an empty
// value is rejected there as an unknown status.
type StatusInput struct {
	Status string `form:"status"`
}

// newValidator reports field errors under their form names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}
