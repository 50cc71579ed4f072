package lower

import (
	"fmt"
	"strings"

	"github.com/cloudblocks/tfgen/graph"
)

// BindingRuleError is returned when a resource has a binding that is not
// allowed for its category.
type BindingRuleError struct {
	UID  string
	Rule string
}

func (e *BindingRuleError) Error() string {
	return fmt.Sprintf("resource %q: %s", e.UID, e.Rule)
}

// MissingParamError is returned when a required parameter is not set.
type MissingParamError struct {
	UID   string
	Param string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("resource %q: required parameter %q is not set", e.UID, e.Param)
}

// ParamTypeError is returned when a parameter has an invalid value.
type ParamTypeError struct {
	UID   string
	Param string
	Want  string
	Value interface{}
}

func (e *ParamTypeError) Error() string {
	return fmt.Sprintf("resource %q: parameter %q must be %s, got %v", e.UID, e.Param, e.Want, e.Value)
}

// UnsupportedCategoryError is returned for resources whose category cannot
// be lowered.
type UnsupportedCategoryError struct {
	UID      string
	Category graph.Category
}

func (e *UnsupportedCategoryError) Error() string {
	return fmt.Sprintf("resource %q: lowering %s resources is not supported", e.UID, e.Category)
}

// CycleError is returned when lowered resources depend on each other.
type CycleError struct {
	UIDs []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle between %s", strings.Join(e.UIDs, ", "))
}
