package study

import (
	"github.com/go-playground/validator/v10"

	"github.com/kud0/mindsy/core"
)

var (
	nodeKindTag  = "nodekind"
	nodeKindText = "invalid node kind"
)

func init() {
	_ = core.Validate.RegisterValidation(nodeKindTag, nodeKindValidation)
	core.RegisterCustomTranslation(nodeKindTag, nodeKindText)
}

// nodeKindValidation checks that the provided kind is one of Kinds.
func nodeKindValidation(fl validator.FieldLevel) bool {
	return Kind(fl.Field().String()).Valid()
}
