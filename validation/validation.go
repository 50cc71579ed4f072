// Package validation checks mapping records before they are turned into a
// graph.
//
// The validator reports every problem it finds instead of stopping at the
// first one. Rules that depend on the category of a resource, such as
// required parameters, are checked during lowering.
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/cloudblocks/tfgen/config"
	"github.com/cloudblocks/tfgen/graph"
	"github.com/cloudblocks/tfgen/suggest"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/go-playground/validator.v9"
)

// A Problem is a single validation failure.
type Problem struct {
	Field   string // Path to the offending field, e.g. regions[us-west-1][0].id
	Message string
}

func (p Problem) Error() string {
	if p.Field == "" {
		return p.Message
	}
	return p.Field + ": " + p.Message
}

// A Validator validates mapping records.
type Validator struct {
	// Settings restrict the clouds and regions that may be used. If not set,
	// only structural checks are performed.
	Settings *config.Settings

	check *validator.Validate
}

// New creates a validator.
func New(settings *config.Settings) *Validator {
	v := &Validator{
		Settings: settings,
		check:    validator.New(),
	}
	v.check.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(v.check.RegisterValidation("resource_id", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) == -1
	}))
	mustRegister(v.check.RegisterValidation("direction", func(fl validator.FieldLevel) bool {
		_, err := graph.ParseDirection(fl.Field().String())
		return err == nil
	}))
	return v
}

func mustRegister(err error) {
	if err != nil {
		panic(fmt.Sprintf("Register custom validator: %v", err))
	}
}

var formats = map[string]string{
	"required":    "is required",
	"resource_id": "must not contain whitespace",
	"direction":   "must be one of: to, from, both",
}

// Validate validates a record. The returned error is a
// *multierror.Error containing a Problem for every failure, or nil.
func (v *Validator) Validate(record config.Cloud) error {
	var result *multierror.Error

	if err := v.check.Struct(record); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range errs {
			result = multierror.Append(result, fieldProblem(fe))
		}
	}

	var cloud *config.CloudSettings
	if v.Settings != nil && record.Cloud != "" {
		c, ok := v.Settings.Cloud(record.Cloud)
		if !ok {
			result = multierror.Append(result, Problem{
				Field:   "cloud",
				Message: fmt.Sprintf("unsupported cloud %q%s", record.Cloud, suggest.DidYouMean(record.Cloud, v.Settings.CloudNames())),
			})
		}
		cloud = c
	}

	for _, region := range record.RegionNames() {
		field := fmt.Sprintf("regions[%s]", region)
		if cloud != nil && !cloud.HasRegion(region) {
			result = multierror.Append(result, Problem{
				Field:   field,
				Message: fmt.Sprintf("region is not supported by %s%s", cloud.Name, suggest.DidYouMean(region, cloud.Regions)),
			})
		}
		for _, p := range checkRegion(field, record.Regions[region]) {
			result = multierror.Append(result, p)
		}
	}

	return result.ErrorOrNil()
}

// checkRegion checks uids, categories and binding targets.
func checkRegion(field string, resources []config.Resource) []Problem {
	var problems []Problem

	ids := make(map[string]bool, len(resources))
	var uids []string
	for i, r := range resources {
		if r.ID == "" {
			continue
		}
		if ids[r.ID] {
			problems = append(problems, Problem{
				Field:   fmt.Sprintf("%s[%d].id", field, i),
				Message: fmt.Sprintf("duplicate resource id %q", r.ID),
			})
		}
		ids[r.ID] = true
		uids = append(uids, r.ID)
	}
	sort.Strings(uids)

	for i, r := range resources {
		if r.Category != "" {
			if _, err := graph.ParseCategory(r.Category); err != nil {
				problems = append(problems, Problem{
					Field:   fmt.Sprintf("%s[%d].category", field, i),
					Message: err.Error(),
				})
			}
		}
		for j, b := range r.Bindings {
			if b.ID == "" || ids[b.ID] {
				continue
			}
			problems = append(problems, Problem{
				Field:   fmt.Sprintf("%s[%d].bindings[%d].id", field, i, j),
				Message: fmt.Sprintf("resource %q does not exist%s", b.ID, suggest.DidYouMean(b.ID, uids)),
			})
		}
	}
	return problems
}

func fieldProblem(fe validator.FieldError) Problem {
	// Drop the root struct name.
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	msg, ok := formats[fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("failed %s validation", fe.Tag())
	}
	return Problem{Field: field, Message: msg}
}

// Problems returns the problems contained in an error returned by Validate.
func Problems(err error) []Problem {
	merr, ok := err.(*multierror.Error)
	if !ok {
		if err == nil {
			return nil
		}
		return []Problem{{Message: err.Error()}}
	}
	out := make([]Problem, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		if p, ok := e.(Problem); ok {
			out = append(out, p)
			continue
		}
		out = append(out, Problem{Message: e.Error()})
	}
	return out
}
