package llm

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitedClient waits on a token bucket before every inference call.
type RateLimitedClient struct {
	LLMClient
	limiter *rate.Limiter
}

// NewRateLimitedClient allows rps requests per second with the given burst.
// rps <= 0 disables limiting.
func NewRateLimitedClient(client LLMClient, rps float64, burst int) *RateLimitedClient {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return &RateLimitedClient{LLMClient: client, limiter: limiter}
}

func (c *RateLimitedClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return c.LLMClient.GenerateInference(ctx, messages, callback, opts...)
}
