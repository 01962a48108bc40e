package cmd

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	quipbridge "github.com/opengovern/quip-bridge"
)

var (
	throttleEndpoint string
	throttleWorkers  int
	throttleRequests int
)

// throttleCmd hammers one endpoint from several goroutines so the engine's
// 429/503 handling can be watched against the live API.
var throttleCmd = &cobra.Command{
	Use:   "throttle",
	Short: "Send concurrent requests to one endpoint and report retry statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if throttleWorkers < 1 || throttleRequests < 1 {
			return fmt.Errorf("--workers and --requests must be positive")
		}
		c, log, err := newClient()
		if err != nil {
			return err
		}
		bridge := c.Bridge()

		var ok, failed atomic.Int64
		g, ctx := errgroup.WithContext(cmd.Context())
		for w := 0; w < throttleWorkers; w++ {
			worker := w
			g.Go(func() error {
				for i := 0; i < throttleRequests; i++ {
					if _, err := bridge.Call(ctx, throttleEndpoint, http.MethodGet, false); err != nil {
						failed.Add(1)
						log.Error("Throttle request failed", err, "worker", worker, "request", i)
						continue
					}
					ok.Add(1)
				}
				return ctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		out := map[string]any{
			"endpoint":  throttleEndpoint,
			"succeeded": ok.Load(),
			"failed":    failed.Load(),
			"engine":    c.EngineStats(),
			"counters": map[string]int{
				"rate_limited":        bridge.RetryCount(quipbridge.ClassRateLimited, throttleEndpoint),
				"service_unavailable": bridge.RetryCount(quipbridge.ClassServiceUnavailable, throttleEndpoint),
			},
		}
		if info := c.RateLimitInfo(); info != nil {
			out["quota"] = info
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	throttleCmd.Flags().StringVar(&throttleEndpoint, "endpoint", "/users/current", "endpoint path, relative to the API origin")
	throttleCmd.Flags().IntVar(&throttleWorkers, "workers", 10, "concurrent workers")
	throttleCmd.Flags().IntVar(&throttleRequests, "requests", 20, "requests per worker")

	rootCmd.AddCommand(throttleCmd)
}
