package template

import (
	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hcl/hclsyntax"
	"github.com/hashicorp/hcl2/hclwrite"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Functions available in templates.
var functions = map[string]function.Function{
	"concat":     stdlib.ConcatFunc,
	"format":     stdlib.FormatFunc,
	"jsonencode": stdlib.JSONEncodeFunc,
	"length":     stdlib.LengthFunc,
	"literal":    literalFunc,
	"lower":      stdlib.LowerFunc,
	"upper":      stdlib.UpperFunc,
}

// literalFunc renders a value as an HCL literal expression. Strings are
// quoted with template sequences escaped, so user input cannot introduce
// interpolations.
var literalFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "value", Type: cty.DynamicPseudoType},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		if !args[0].IsWhollyKnown() {
			return cty.UnknownVal(cty.String), nil
		}
		return cty.StringVal(string(hclwrite.TokensForValue(args[0]).Bytes())), nil
	},
})

// Render renders template text with the given node values. The name is used
// in diagnostics.
func Render(name, text string, node cty.Value) (string, error) {
	expr, diags := hclsyntax.ParseTemplate([]byte(text), name, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return "", errors.Wrapf(diags, "parse %s", name)
	}
	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"node": node},
		Functions: functions,
	}
	val, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return "", errors.Wrapf(diags, "render %s", name)
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", errors.Wrapf(err, "render %s", name)
	}
	if val.IsNull() || !val.IsKnown() {
		return "", errors.Errorf("render %s: template did not produce text", name)
	}
	return val.AsString(), nil
}

// Format rewrites generated configuration into canonical layout.
func Format(src string) string {
	return string(hclwrite.Format([]byte(src)))
}
