package generator

import (
	"github.com/cloudblocks/tfgen/emit"
	"github.com/cloudblocks/tfgen/graph"
	"github.com/cloudblocks/tfgen/lower"
	"github.com/cloudblocks/tfgen/template"
	"github.com/pkg/errors"
)

// IsUserError reports whether err was caused by invalid input rather than a
// failure to fetch or render templates.
func IsUserError(err error) bool {
	switch errors.Cause(err).(type) {
	case *UnsupportedCloudError,
		*InvalidRecordError,
		*graph.ResolutionError,
		*graph.NotFoundError,
		*lower.BindingRuleError,
		*lower.MissingParamError,
		*lower.ParamTypeError,
		*lower.UnsupportedCategoryError,
		*lower.CycleError,
		*emit.CycleError:
		return true
	}
	return false
}

// IsTemplateMissing reports whether err was caused by a node kind with no
// configured template or a template reference that could not be resolved.
func IsTemplateMissing(err error) bool {
	switch errors.Cause(err).(type) {
	case *emit.NoTemplateError,
		*template.UnknownReferenceError:
		return true
	}
	return false
}
