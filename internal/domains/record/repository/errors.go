package repository

import (
	"errors"
	"fmt"

	"vinyl-collection/internal/domains/record/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// wrapWrite keeps domain errors as-is and tags storage failures
func wrapWrite(err error) error {
	var verrs validation.Errors
	switch {
	case errors.Is(err, model.ErrRecordNotFound),
		errors.Is(err, model.ErrDocumentCorrupt),
		errors.As(err, &verrs):
		return err
	}
	return fmt.Errorf("%w: %v", model.ErrDocumentWrite, err)
}
