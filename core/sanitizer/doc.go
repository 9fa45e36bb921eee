// Package sanitizer normalizes user input before validation.
//
// Struct fields opt in with a "sanitize" tag holding a comma separated list
// of sanitizer names, applied left to right:
//
//	type signupForm struct {
//		FullName string `form:"fullName" sanitize:"strip_html,text,max:50"`
//		Phone    string `form:"phone" sanitize:"phone"`
//	}
//
//	if err := sanitizer.SanitizeStruct(&f); err != nil {
//		return err
//	}
//
// Unknown names are ignored. Custom sanitizers are added with Register.
package sanitizer
