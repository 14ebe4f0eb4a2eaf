package mongo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsPolicyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"permission text", errors.New("permission denied for table clients"), true},
		{"policy text", errors.New("new row violates row security policy"), true},
		{"rls text", errors.New("RLS check failed"), true},
		{"unauthorized code", mongo.CommandError{Code: 13, Message: "command find requires authentication"}, true},
		{"plain network error", errors.New("connection reset by peer"), false},
		{"validation error", errors.New("document failed validation"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isPolicyError(tc.err); got != tc.want {
				t.Fatalf("isPolicyError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
