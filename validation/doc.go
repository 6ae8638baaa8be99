// Package validation provides input validation utilities for shellcmd.
//
// It supports struct tag validation (using the validator library) for
// configuration structs, and programmatic validation with error collection
// for values such as command descriptors.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Name    string        `yaml:"name" validate:"required,max=64"`
//	    Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("program", program).NoNUL("program", program)
//	err := v.Error()
package validation
