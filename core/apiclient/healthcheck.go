package apiclient

import "context"

// Healthcheck returns a readiness probe that issues GET endpoint against the
// upstream. Any HTTP answer below 500 means the upstream is reachable.
func Healthcheck(c *Client, endpoint string) func(context.Context) error {
	return func(ctx context.Context) error {
		err := c.Get(ctx, endpoint, nil)
		if status := StatusOf(err); status > 0 && status < 500 {
			return nil
		}
		return err
	}
}
