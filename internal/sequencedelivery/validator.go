package sequencedelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-bill/billcore/internal/domain"
)

// ValidSequenceKind validates whether the counter kind is recognized.
var ValidSequenceKind validator.Func = func(fl validator.FieldLevel) bool {
	if k, ok := fl.Field().Interface().(string); ok {
		return domain.SequenceKind(k).Valid()
	}
	return false
}
