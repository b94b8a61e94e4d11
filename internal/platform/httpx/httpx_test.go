package httpx

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"429", &StatusError{Service: "openai", StatusCode: 429}, true},
		{"503 wrapped", fmt.Errorf("call: %w", &StatusError{StatusCode: 503}), true},
		{"400", &StatusError{StatusCode: 400}, false},
		{"plain", fmt.Errorf("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryableError(tc.err))
		})
	}
}

func TestRetryAfterDurationCapsHeader(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "30")
	assert.Equal(t, 10*time.Second, RetryAfterDuration(resp, time.Second, 10*time.Second))
	assert.Equal(t, time.Second, RetryAfterDuration(nil, time.Second, 10*time.Second))
}

func TestJitterSleepStaysInBand(t *testing.T) {
	for i := 0; i < 50; i++ {
		d := JitterSleep(time.Second)
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
		assert.LessOrEqual(t, d, 1200*time.Millisecond)
	}
}

func TestSleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
