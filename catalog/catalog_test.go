package catalog_test

import (
	"strings"
	"testing"

	"github.com/cloudblocks/tfgen/catalog"
	"github.com/cloudblocks/tfgen/graph"
	"github.com/google/go-cmp/cmp"
)

const testCatalog = `
- key: bigtable
  category: database
  clouds: [gcp]
  tags: [database, gcp-only]
  description: Google's NoSQL database for 1TB+ systems
- key: docker
  aliases: [docker-container, docker-stateful]
  category: container_compute
  clouds: [all]
  tags: [compute, cloud-agnostic, serverless]
  description: Generic docker container running in the cloud
- key: postgresql
  aliases: [postgres]
  category: database
  clouds: [all]
  tags: [database, rdbms, sql]
  description: Open source relational database (SQL-RDBMS)
- key: s3
  category: storage
  clouds: [aws]
  tags: [storage, aws-only]
  description: Amazon Web Services static storage
  params:
    - param: bucket_name
      description: Unique identifier for the bucket
      data_type: string
`

func TestSearch(t *testing.T) {
	c, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		name    string
		query   catalog.Query
		want    []string
		wantErr error
	}{
		{name: "All", query: catalog.Query{}, want: []string{"bigtable", "docker", "postgresql", "s3"}},
		{name: "Key", query: catalog.Query{Keyword: "docker"}, want: []string{"docker"}},
		{name: "Alias", query: catalog.Query{Keyword: "docker-container"}, want: []string{"docker"}},
		{name: "Description", query: catalog.Query{Keyword: "Generic docker"}, want: []string{"docker"}},
		{name: "Category", query: catalog.Query{Keyword: "database"}, want: []string{"bigtable", "postgresql"}},
		{name: "Param", query: catalog.Query{Keyword: "bucket_name"}, want: []string{"s3"}},
		{name: "Cloud", query: catalog.Query{Cloud: "aws"}, want: []string{"docker", "postgresql", "s3"}},
		{name: "KeywordCloud", query: catalog.Query{Keyword: "database", Cloud: "gcp"}, want: []string{"bigtable", "postgresql"}},
		{name: "Tags", query: catalog.Query{Tags: []string{"database", "sql"}}, want: []string{"postgresql"}},
		{name: "None", query: catalog.Query{Keyword: "mainframe"}, wantErr: catalog.ErrNoResults},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Search(tt.query)
			if err != tt.wantErr {
				t.Fatalf("Search() error = %v, want %v", err, tt.wantErr)
			}
			var keys []string
			for _, r := range got {
				keys = append(keys, r.Key)
			}
			if diff := cmp.Diff(tt.want, keys); diff != "" {
				t.Errorf("Search() (-want, +got)\n%s", diff)
			}
		})
	}
}

func TestGet(t *testing.T) {
	c, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"postgresql", "postgres", "POSTGRES"} {
		r, ok := c.Get(key)
		if !ok || r.Key != "postgresql" {
			t.Errorf("Get(%q) = %q, %t", key, r.Key, ok)
		}
	}
	if _, ok := c.Get("oracle"); ok {
		t.Error("Get() found nonexisting resource")
	}
}

func TestParse_Errors(t *testing.T) {
	for _, data := range []string{
		"- key: a\n- key: A\n",
		"- category: storage\n",
		"- key: a\n  unknown: field\n",
		"not a list",
	} {
		if _, err := catalog.Parse([]byte(data)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", data)
		}
	}
}

func TestBuiltin(t *testing.T) {
	c := catalog.Builtin()
	for _, key := range c.Keys() {
		r, _ := c.Get(key)
		if _, err := graph.ParseCategory(r.Category); err != nil {
			t.Errorf("%s: %v", key, err)
		}
	}

	r, ok := c.Get("ec2")
	if !ok {
		t.Fatal("ec2 not in catalog")
	}
	out, err := r.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}
	if !strings.Contains(out, "param: aws_ami") {
		t.Errorf("YAML() missing param\n%s", out)
	}
}
