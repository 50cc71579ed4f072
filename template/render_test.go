package template_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudblocks/tfgen/config"
	"github.com/cloudblocks/tfgen/infra"
	"github.com/cloudblocks/tfgen/template"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hcl/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

func TestRender(t *testing.T) {
	node := cty.ObjectVal(map[string]cty.Value{
		"name":   cty.StringVal("web"),
		"public": cty.True,
		"azs":    cty.ListVal([]cty.Value{cty.StringVal("us-west-1a"), cty.StringVal("us-west-1b")}),
		"raw":    cty.StringVal("a\"b\\c\n${x}%{y}"),
	})

	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "Literal", text: "resource {}", want: "resource {}"},
		{name: "Interpolation", text: `resource "x" "${node.name}" {}`, want: `resource "x" "web" {}`},
		{name: "Escape", text: `v = "$${var.x}"`, want: `v = "${var.x}"`},
		{name: "Bool", text: `p = ${node.public}`, want: `p = true`},
		{name: "Function", text: `azs = ${jsonencode(node.azs)}`, want: `azs = ["us-west-1a","us-west-1b"]`},
		{name: "LiteralList", text: `azs = ${literal(node.azs)}`, want: `azs = ["us-west-1a", "us-west-1b"]`},
		{name: "LiteralQuoted", text: `v = ${literal(node.raw)}`, want: `v = "a\"b\\c\n$${x}%%{y}"`},
		{name: "If", text: `%{ if node.public }public%{ else }private%{ endif }`, want: "public"},
		{name: "For", text: `%{ for az in node.azs }${upper(az)} %{ endfor }`, want: "US-WEST-1A US-WEST-1B "},
		{name: "UnknownAttribute", text: `${node.nope}`, wantErr: true},
		{name: "Syntax", text: `${node.name`, wantErr: true},
		{name: "NotString", text: `${node.azs}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := template.Render("test.tf", tt.text, node)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Render() error = %v, wantErr %t", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Every builtin template renders to valid configuration for a node of its
// kind.
func TestRender_Builtin(t *testing.T) {
	net, err := infra.NewNetwork("net", "us-west-1", 2, true, true)
	if err != nil {
		t.Fatal(err)
	}
	logs := &infra.ObjectStorage{ID: "logs", BucketName: "logs-bucket"}
	data := &infra.ObjectStorage{ID: "data", BucketName: "data-bucket", LoggingBucket: logs}
	site := &infra.PublicWebsiteStorage{ID: "site", BucketName: "site", IndexDocument: "index.html", ErrorDocument: "error.html"}

	nodes := []infra.Node{
		net,
		logs,
		data,
		site,
		&infra.ComputeInstance{
			ID:            "vm",
			Network:       net,
			AMI:           "ami-1",
			InstanceType:  "t2.micro",
			InstanceCount: 2,
			UserData:      "#!/bin/sh\necho \"hello\"\n",
			Public:        true,
			Storage:       []infra.Bucket{data, site},
		},
		&infra.ComputeInstance{
			ID:            "plain",
			Network:       net,
			AMI:           "ami-1",
			InstanceType:  "t2.micro",
			InstanceCount: 1,
		},
		&infra.ContainerCompute{
			ID:              "svc",
			Network:         net,
			Image:           "nginx",
			ContainerName:   "web",
			CPU:             256,
			Memory:          512,
			DesiredCount:    1,
			AutoscaleMin:    1,
			AutoscaleMax:    3,
			AutoscaleTarget: 70,
			HealthCheckPath: "/health",
			ClusterName:     "cluster",
			SSHPubKey:       "~/.ssh/id_rsa.pub",
			Storage:         []infra.Bucket{data},
		},
		&infra.ManagedDatabase{ID: "db", Network: net},
	}

	settings := config.DefaultSettings()
	aws, _ := settings.Cloud("aws")
	ctx := context.Background()

	for _, n := range nodes {
		ref, ok := aws.Template(string(n.Kind()))
		if !ok {
			t.Fatalf("no template for %s", n.Kind())
		}
		vars, err := n.Vars()
		if err != nil {
			t.Fatalf("%s: Vars() error = %v", n.UID(), err)
		}
		for _, uri := range ref.URIs() {
			text, err := template.Builtin{}.Get(ctx, uri)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", uri, err)
			}
			out, err := template.Render(uri, text, vars)
			if err != nil {
				t.Errorf("%s: Render(%q) error = %v", n.UID(), uri, err)
				continue
			}
			if !strings.Contains(out, infra.Name(n.UID())) {
				t.Errorf("%s: %s does not mention the node\n%s", n.UID(), uri, out)
			}
			if _, diags := hclsyntax.ParseConfig([]byte(out), uri, hcl.Pos{Line: 1, Column: 1}); diags.HasErrors() {
				t.Errorf("%s: %s is not valid configuration: %v\n%s", n.UID(), uri, diags, out)
			}
		}
	}
}

func TestPreamble(t *testing.T) {
	got := template.Preamble("aws", "us-west-1")
	for _, want := range []string{`provider "aws"`, `region = "us-west-1"`, `required_version = ">= 0.12"`} {
		if !strings.Contains(got, want) {
			t.Errorf("Preamble() does not contain %q\n%s", want, got)
		}
	}
	if _, diags := hclsyntax.ParseConfig([]byte(got), "provider.tf", hcl.Pos{Line: 1, Column: 1}); diags.HasErrors() {
		t.Errorf("Preamble() is not valid configuration: %v", diags)
	}

	got, err := template.RenderPreamble("provider.tf", `provider "${node.cloud}" { region = "${node.region}" }`, "aws", "eu-west-1")
	if err != nil {
		t.Fatalf("RenderPreamble() error = %v", err)
	}
	if want := `provider "aws" { region = "eu-west-1" }`; got != want {
		t.Errorf("RenderPreamble() = %q, want %q", got, want)
	}
}

func TestFormat(t *testing.T) {
	got := template.Format("resource \"a\" \"b\" {\nx = 1\nlonger = 2\n}\n")
	want := "resource \"a\" \"b\" {\n  x      = 1\n  longer = 2\n}\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}
