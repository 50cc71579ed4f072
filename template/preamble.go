package template

import (
	"github.com/hashicorp/hcl2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// RequiredVersion is the Terraform version constraint written to generated
// preambles.
const RequiredVersion = ">= 0.12"

// Preamble returns the provider configuration for a cloud and region.
func Preamble(cloud, region string) string {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	tf := body.AppendNewBlock("terraform", nil).Body()
	tf.SetAttributeValue("required_version", cty.StringVal(RequiredVersion))
	body.AppendNewline()

	provider := body.AppendNewBlock("provider", []string{cloud}).Body()
	provider.SetAttributeValue("region", cty.StringVal(region))

	return string(f.Bytes())
}

// RenderPreamble renders a provider template. The template can refer to
// node.cloud and node.region.
func RenderPreamble(name, text, cloud, region string) (string, error) {
	return Render(name, text, cty.ObjectVal(map[string]cty.Value{
		"cloud":  cty.StringVal(cloud),
		"region": cty.StringVal(region),
	}))
}
