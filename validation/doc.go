// Package validation checks request DTOs against their `validate` struct
// tags and reports failures as INVALID_REQUEST application errors.
//
//	type SignUpRequest struct {
//	    Username string `json:"username" validate:"required"`
//	    Password string `json:"password" validate:"required,max=72"`
//	}
//	if err := validation.Validate(req); err != nil {
//	    server.RespondWithError(c, err)
//	}
package validation
