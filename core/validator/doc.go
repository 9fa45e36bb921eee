// Package validator checks form input and reports failures as translation
// keys.
//
// Rules can be applied programmatically:
//
//	err := validator.Apply(
//		validator.Required("phone", form.Phone),
//		validator.IranianPhone("phone", form.Phone),
//		validator.Match("confirmPassword", form.Password, form.ConfirmPassword),
//	)
//
// or declared with struct tags (rules separated by semicolons, the field name
// taken from the form tag when present):
//
//	type LoginForm struct {
//		Phone    string `form:"entity" validate:"required;iranian_phone"`
//		Password string `form:"password" validate:"required"`
//	}
//	err := validator.ValidateStruct(&form)
//
// Both return ValidationErrors. Use ExtractValidationErrors and Keys to get a
// field to translation key map for rendering.
//
// The password helpers mirror the sign-up form: PasswordScore awards a point
// each for length of at least 8, an uppercase letter, a digit, and a
// non-alphanumeric character; PasswordStrengthKey names the score.
package validator
