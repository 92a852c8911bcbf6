package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"testing"
)

func TestRetryableClassification(t *testing.T) {
	tests := map[string]struct {
		err  error
		want bool
	}{
		"rate limited":    {&UpstreamError{Status: http.StatusTooManyRequests}, true},
		"server error":    {&UpstreamError{Status: http.StatusServiceUnavailable}, true},
		"client error":    {&UpstreamError{Status: http.StatusNotFound}, false},
		"canceled":        {context.Canceled, false},
		"deadline":        {context.DeadlineExceeded, false},
		"decode mismatch": {&json.UnmarshalTypeError{Value: "string", Type: reflect.TypeOf(float64(0))}, false},
		"decode syntax":   {&json.SyntaxError{}, false},
		"transport":       {errors.New("connection reset by peer"), true},
	}

	for name, tc := range tests {
		if got := retryable(tc.err); got != tc.want {
			t.Fatalf("%s: retryable(%v) = %v, want %v", name, tc.err, got, tc.want)
		}
	}
}
