package config

import (
	"fmt"
	"sort"

	"github.com/cloudblocks/tfgen/infra"
	"github.com/hashicorp/hcl2/hcl"
)

// DefaultTemplatesBucket is the S3 bucket used for template keys that do not
// name a bucket.
const DefaultTemplatesBucket = "cloudblocks-templates"

// Settings describe the clouds the generator supports.
type Settings struct {
	// TemplatesBucket is the default bucket for s3:// template references
	// that omit the bucket name.
	TemplatesBucket string `hcl:"templates_bucket,optional"`

	Clouds []CloudSettings `hcl:"cloud,block"`
}

// CloudSettings hold the settings for a single cloud.
type CloudSettings struct {
	Name          string `hcl:"name,label"`
	DefaultRegion string `hcl:"default_region"`

	// Regions restricts the regions a mapping may use. If empty, any region
	// is accepted.
	Regions []string `hcl:"regions,optional"`

	// Provider is an optional template reference for the provider preamble.
	// When not set, a preamble is generated.
	Provider string `hcl:"provider,optional"`

	Templates []TemplateRef `hcl:"template,block"`
}

// A TemplateRef points at the raw templates for a single kind of node.
type TemplateRef struct {
	Kind      string `hcl:"kind,label"`
	Main      string `hcl:"main"`
	Variables string `hcl:"variables,optional"`
	Outputs   string `hcl:"outputs,optional"`
}

// URIs returns the non-empty template references.
func (r TemplateRef) URIs() []string {
	var out []string
	for _, u := range []string{r.Main, r.Variables, r.Outputs} {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Cloud returns the settings for a cloud.
func (s *Settings) Cloud(name string) (*CloudSettings, bool) {
	for i := range s.Clouds {
		if s.Clouds[i].Name == name {
			return &s.Clouds[i], true
		}
	}
	return nil, false
}

// CloudNames returns the names of all configured clouds, sorted.
func (s *Settings) CloudNames() []string {
	names := make([]string, len(s.Clouds))
	for i, c := range s.Clouds {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}

// Template returns the template reference for a kind of node.
func (c *CloudSettings) Template(kind string) (TemplateRef, bool) {
	for _, t := range c.Templates {
		if t.Kind == kind {
			return t, true
		}
	}
	return TemplateRef{}, false
}

// HasRegion reports whether the region may be used with the cloud.
func (c *CloudSettings) HasRegion(region string) bool {
	if len(c.Regions) == 0 {
		return true
	}
	for _, r := range c.Regions {
		if r == region {
			return true
		}
	}
	return false
}

func (s *Settings) check(rng hcl.Range) hcl.Diagnostics {
	var diags hcl.Diagnostics
	seen := make(map[string]bool)
	for _, c := range s.Clouds {
		if seen[c.Name] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate cloud",
				Detail:   fmt.Sprintf("Cloud %q is defined more than once.", c.Name),
				Subject:  rng.Ptr(),
			})
		}
		seen[c.Name] = true

		if !c.HasRegion(c.DefaultRegion) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid default region",
				Detail:   fmt.Sprintf("Default region %q for cloud %q is not in the list of regions.", c.DefaultRegion, c.Name),
				Subject:  rng.Ptr(),
			})
		}

		kinds := make(map[string]bool)
		for _, t := range c.Templates {
			if kinds[t.Kind] {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate template",
					Detail:   fmt.Sprintf("Template %q for cloud %q is defined more than once.", t.Kind, c.Name),
					Subject:  rng.Ptr(),
				})
			}
			kinds[t.Kind] = true
		}
	}
	return diags
}

// DefaultSettings returns settings for the templates built into the binary.
func DefaultSettings() *Settings {
	aws := CloudSettings{
		Name:          "aws",
		DefaultRegion: "us-west-1",
		Regions: []string{
			"us-east-1", "us-east-2", "us-west-1", "us-west-2",
			"eu-west-1", "eu-west-2", "eu-central-1",
			"ap-southeast-1", "ap-southeast-2", "ap-northeast-1",
		},
	}
	for _, kind := range infra.Kinds() {
		k := string(kind)
		aws.Templates = append(aws.Templates, TemplateRef{
			Kind:      k,
			Main:      "builtin://aws/" + k + ".tf",
			Variables: "builtin://aws/" + k + "_variables.tf",
			Outputs:   "builtin://aws/" + k + "_outputs.tf",
		})
	}
	return &Settings{
		TemplatesBucket: DefaultTemplatesBucket,
		Clouds:          []CloudSettings{aws},
	}
}
