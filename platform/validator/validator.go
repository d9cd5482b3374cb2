// Package validator provides validation infrastructure for the
// application. This is part of the platform layer and contains no
// business logic.
package validator

import "github.com/go-playground/validator/v10"

// Validate is the shared validator instance used by the HTTP handlers.
var Validate = validator.New()
