// Command tickdemo runs a driver against the in-process ticker
// platform and shows the relay, worker and observability wiring
// working together.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/comalice/tickhookx"
	tickprom "github.com/comalice/tickhookx/observability/prometheus"
	"github.com/comalice/tickhookx/platform"
	"github.com/comalice/tickhookx/trace"
)

// demoClock counts advances and reports once per simulated second.
type demoClock struct {
	ticksPerSecond uint64
	ticks          atomic.Uint64
}

func (c *demoClock) AdvanceTick(rate uint8, sender *trace.Ident) {
	n := c.ticks.Add(1)
	if c.ticksPerSecond > 0 && n%c.ticksPerSecond == 0 {
		fmt.Printf("clock: rate %d advanced %d ticks (%ds)\n", rate, n, n/c.ticksPerSecond)
	}
}

func main() {
	app := &cli.App{
		Name:  "tickdemo",
		Usage: "drive a demo clock from the in-process tick platform",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML driver config, flags override it",
			},
			&cli.DurationFlag{
				Name:  "period",
				Value: platform.DefaultTickPeriod,
				Usage: "tick interrupt period",
			},
			&cli.UintFlag{
				Name:  "rate",
				Usage: "clock rate handed to the target",
			},
			&cli.UintFlag{
				Name:  "priority",
				Usage: "worker task priority",
			},
			&cli.IntFlag{
				Name:  "core",
				Usage: "core for the worker and hook",
			},
			&cli.UintFlag{
				Name:  "catch-up",
				Usage: "replay up to N missed ticks per wake, 0 coalesces",
			},
			&cli.DurationFlag{
				Name:  "duration",
				Value: 10 * time.Second,
				Usage: "how long to run, 0 runs until interrupted",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "serve Prometheus metrics on this address, e.g. :9090",
			},
			&cli.StringFlag{
				Name:  "trace-out",
				Usage: "write the binary trace stream to this file",
			},
			&cli.StringFlag{
				Name:  "trace-serial",
				Usage: "write the binary trace stream to this serial device",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := tickhookx.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := tickhookx.LoadConfig(path)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		cfg = loaded
	}
	if c.IsSet("rate") {
		cfg.TickRate = uint8(c.Uint("rate"))
	}
	if c.IsSet("priority") {
		cfg.Priority = uint8(c.Uint("priority"))
	}
	if c.IsSet("core") {
		cfg.Core = c.Int("core")
	}
	if c.IsSet("catch-up") {
		n := uint32(c.Uint("catch-up"))
		cfg.CatchUp = n > 0
		cfg.MaxCatchUp = n
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	period := c.Duration("period")
	if period <= 0 {
		period = platform.DefaultTickPeriod
	}
	ticker := platform.NewTickerPlatform(period, cfg.Core+1)

	clock := &demoClock{ticksPerSecond: uint64(time.Second / period)}
	opts := []tickhookx.Option{
		tickhookx.WithPlatform(ticker),
		tickhookx.WithConfig(cfg),
		tickhookx.WithLogger(tickhookx.NewDefaultLogger()),
	}

	if addr := c.String("metrics-addr"); addr != "" {
		reg := prometheus.NewRegistry()
		exporter, err := tickprom.NewMetricsExporter("tickhook", cfg.Name, reg, tickprom.ExporterOptions{})
		if err != nil {
			return cli.Exit(fmt.Sprintf("metrics: %v", err), 1)
		}
		opts = append(opts, tickhookx.WithMetrics(exporter))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil {
				fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
			}
		}()
		fmt.Printf("metrics on http://%s/metrics\n", addr)
	}

	if out := c.String("trace-out"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return cli.Exit(fmt.Sprintf("trace: %v", err), 1)
		}
		defer f.Close()
		opts = append(opts, tickhookx.WithRecorder(trace.NewRecorder(f)))
	} else if dev := c.String("trace-serial"); dev != "" {
		port, err := trace.OpenSerial(trace.DefaultSerialConfig(dev))
		if err != nil {
			return cli.Exit(fmt.Sprintf("trace: %v", err), 1)
		}
		defer port.Close()
		opts = append(opts, tickhookx.WithRecorder(trace.NewRecorder(port)))
	}

	d, err := tickhookx.New(clock, opts...)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := d.Init(cfg.TickRate, cfg.Priority); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ticker.Start()
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	var timeout <-chan time.Time
	if dur := c.Duration("duration"); dur > 0 {
		timeout = time.After(dur)
	}

	select {
	case <-sig:
		fmt.Println("\nshutting down")
	case <-timeout:
	}

	fmt.Printf("done: %d advances on core %d at rate %d\n",
		clock.ticks.Load(), d.Core(), d.TickRate())
	return nil
}
