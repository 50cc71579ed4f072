package suggest_test

import (
	"fmt"
	"testing"

	"github.com/cloudblocks/tfgen/suggest"
)

func ExampleString() {
	userProvided := "container_compte"
	candidates := []string{"compute", "container_compute", "storage"}

	suggestion := suggest.String(userProvided, candidates)
	fmt.Printf("Did you mean %q?", suggestion)
	// Output: Did you mean "container_compute"?
}

func TestString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		options []string
		want    string
	}{
		{"Exact", "storage", []string{"compute", "storage"}, "storage"},
		{"CaseInsensitive", "STORAGE", []string{"compute", "storage"}, "storage"},
		{"Almost", "storag", []string{"compute", "storage"}, "storage"},
		{"NoMatch", "db", []string{"compute", "storage"}, ""},
		{"Empty", "", []string{"compute", "storage"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := suggest.String(tt.input, tt.options)
			if got != tt.want {
				t.Errorf("String(%s, %v) got = %q, want = %q", tt.input, tt.options, got, tt.want)
			}
		})
	}
}

func TestDidYouMean(t *testing.T) {
	got := suggest.DidYouMean("intenet", []string{"internet", "database"})
	want := `; did you mean "internet"?`
	if got != want {
		t.Errorf("DidYouMean() = %q, want %q", got, want)
	}
	if got := suggest.DidYouMean("xyz", []string{"internet"}); got != "" {
		t.Errorf("DidYouMean() = %q, want empty", got)
	}
}
