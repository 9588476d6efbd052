// Package validation checks configuration and request input.
//
// Struct tags are validated with go-playground/validator; field names in
// messages come from the mapstructure, form or json tag, in that order.
//
//	type Form struct {
//	    Model string `form:"model" validate:"omitempty,printascii,max=256"`
//	}
//	err := validation.Validate(form)
//
// The Validator type collects programmatic checks:
//
//	v := validation.New()
//	v.OneOf("whisper.device", cfg.Device, []string{"cpu", "cuda", "auto"})
//	err := v.Err()
package validation
