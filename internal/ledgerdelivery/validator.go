package ledgerdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-bill/billcore/internal/domain"
)

// ValidTransactionType validates whether the posting kind is recognized.
var ValidTransactionType validator.Func = func(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(string); ok {
		return domain.TransactionType(t).Valid()
	}
	return false
}
