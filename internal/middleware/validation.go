package middleware

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	pkgvalidator "github.com/jwalitptl/hospital-scheduling/pkg/validator"
)

// RegisterValidators installs the domain enum tags on gin's validator and
// makes it report fields by their json names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding is not backed by validator/v10")
	}
	return pkgvalidator.Configure(v, map[string]validator.Func{
		"procedure_status": pkgvalidator.EnumFold(model.ProcedureStatuses...),
		"gender":           pkgvalidator.EnumFold(model.Genders...),
	})
}
