package template_test

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/cloudblocks/tfgen/template"
	"github.com/pkg/errors"
	"go.uber.org/zap/zaptest"
)

// flakyStore fails the first n fetches.
type flakyStore struct {
	fail  int
	calls int
	err   error
}

func (s *flakyStore) Get(ctx context.Context, uri string) (string, error) {
	s.calls++
	if s.calls <= s.fail {
		return "", s.err
	}
	return "text", nil
}

func noWait() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 5)
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		store     *flakyStore
		wantCalls int
		wantErr   bool
	}{
		{
			name:      "Succeed",
			store:     &flakyStore{},
			wantCalls: 1,
		},
		{
			name:      "Transient",
			store:     &flakyStore{fail: 2, err: errors.New("connection reset")},
			wantCalls: 3,
		},
		{
			name:      "GiveUp",
			store:     &flakyStore{fail: 100, err: errors.New("connection reset")},
			wantCalls: 6,
			wantErr:   true,
		},
		{
			name:      "UnknownReference",
			store:     &flakyStore{fail: 100, err: &template.UnknownReferenceError{URI: "x.tf"}},
			wantCalls: 1,
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &template.Retry{
				Store:   tt.store,
				Backoff: noWait,
				Logger:  zaptest.NewLogger(t),
			}
			got, err := r.Get(context.Background(), "x.tf")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get() error = %v, wantErr %t", err, tt.wantErr)
			}
			if !tt.wantErr && got != "text" {
				t.Errorf("Get() = %q, want %q", got, "text")
			}
			if tt.store.calls != tt.wantCalls {
				t.Errorf("got %d calls, want %d", tt.store.calls, tt.wantCalls)
			}
			if tt.wantErr && errors.Cause(err) != tt.store.err {
				t.Errorf("error = %v, want %v", err, tt.store.err)
			}
		})
	}
}
