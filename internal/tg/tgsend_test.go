package tg

import (
	"errors"
	"testing"
)

func TestIsSystemErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429", errors.New("Too Many Requests: retry after 429"), true},
		{"502", errors.New("Bad Gateway: 502"), true},
		{"503", errors.New("Service Unavailable: 503"), true},
		{"таймаут", errors.New("context deadline exceeded (timeout)"), true},
		{"Bad Request", errors.New("Bad Request: message text is empty"), false},
		{"не изменено", errors.New("Bad Request: message is not modified"), false},
		{"чат не найден", errors.New("Bad Request: chat not found"), false},
		{"markdown", errors.New("Bad Request: can't parse entities"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isSystemErr(tc.err); got != tc.want {
				t.Fatalf("isSystemErr(%v) = %v, ожидали %v", tc.err, got, tc.want)
			}
		})
	}
}
