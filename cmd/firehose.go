package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mvolkova/plateful/pkg/config"
	"github.com/urfave/cli/v3"
)

// FirehoseCommand creates a CLI command that tails the recipe firehose
// websocket and writes NDJSON events to stdout.
//
// Typical usage:
//
//	plateful firehose
//	plateful firehose --url ws://example.org:8080/api/firehose/ws
//	plateful firehose | jq -r 'select(.type=="recipe_created") | .recipe.title'
//
// The first frame after connecting is a snapshot of recent recipes; every
// frame after that is a live create or delete event. The command
// auto-reconnects with exponential backoff if the server is not yet
// available or the connection drops. It never exits unless:
//   - Context is cancelled (Ctrl+C / signal)
//   - A connection error occurs AND --no-retry is set.
func FirehoseCommand() *cli.Command {
	return &cli.Command{
		Name:  "firehose",
		Usage: "Stream realtime recipe events (NDJSON) from a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "Websocket URL (overrides the host and port from config)",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON instead of raw single-line",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "no-retry",
				Usage: "Do not retry on failures; exit on first connection error",
				Value: false,
			},
			&cli.DurationFlag{
				Name:  "initial-backoff",
				Usage: "Initial reconnect backoff",
				Value: 1 * time.Second,
			},
			&cli.DurationFlag{
				Name:  "max-backoff",
				Usage: "Maximum reconnect backoff",
				Value: 30 * time.Second,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			wsURL := c.String("url")
			if wsURL == "" {
				cfg, err := config.LoadConfig(c.String("config"))
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				wsURL = fmt.Sprintf("ws://%s:%d/api/firehose/ws", cfg.Server.Host, cfg.Server.Port)
			}

			if _, err := url.Parse(wsURL); err != nil {
				return fmt.Errorf("invalid websocket URL %q: %w", wsURL, err)
			}

			opts := firehoseTailOptions{
				wsURL:          wsURL,
				pretty:         c.Bool("pretty"),
				noRetry:        c.Bool("no-retry"),
				initialBackoff: c.Duration("initial-backoff"),
				maxBackoff:     c.Duration("max-backoff"),
				stdout:         os.Stdout,
				stderr:         os.Stderr,
			}
			return tailFirehose(ctx, opts)
		},
	}
}

type firehoseTailOptions struct {
	wsURL          string
	pretty         bool
	noRetry        bool
	initialBackoff time.Duration
	maxBackoff     time.Duration
	stdout         *os.File
	stderr         *os.File
}

func tailFirehose(ctx context.Context, opts firehoseTailOptions) error {
	if opts.initialBackoff <= 0 {
		opts.initialBackoff = time.Second
	}
	if opts.maxBackoff < opts.initialBackoff {
		opts.maxBackoff = 30 * time.Second
	}

	_, _ = fmt.Fprintf(opts.stderr, "Firehose: connecting to %s\n", opts.wsURL)
	backoff := opts.initialBackoff

	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, opts.wsURL, nil)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			if opts.noRetry {
				return fmt.Errorf("dial: %w", err)
			}
			_, _ = fmt.Fprintf(opts.stderr, "Firehose: dial failed (%v), retrying in %s\n", err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > opts.maxBackoff {
				backoff = opts.maxBackoff
			}
			continue
		}

		_, _ = fmt.Fprintf(opts.stderr, "Firehose: connected (backoff reset)\n")
		backoff = opts.initialBackoff

		if err := streamEvents(ctx, conn, opts); err != nil {
			_ = conn.Close()
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			if opts.noRetry {
				return err
			}
			_, _ = fmt.Fprintf(opts.stderr, "Firehose: stream error (%v), reconnecting...\n", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(250 * time.Millisecond):
			}
			continue
		}

		if opts.noRetry {
			return nil
		}
		_, _ = fmt.Fprintf(opts.stderr, "Firehose: disconnected, attempting reconnect...\n")
	}
}

func streamEvents(ctx context.Context, conn *websocket.Conn, opts firehoseTailOptions) error {
	defer func() { _ = conn.Close() }()

	// Close the connection when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		if opts.pretty {
			var anyJSON any
			if err := json.Unmarshal(message, &anyJSON); err != nil {
				// Fallback: raw
				_, _ = fmt.Fprintln(opts.stdout, string(message))
				continue
			}
			b, err := json.MarshalIndent(anyJSON, "", "  ")
			if err != nil {
				_, _ = fmt.Fprintln(opts.stdout, string(message))
				continue
			}
			_, _ = fmt.Fprintln(opts.stdout, string(b))
			continue
		}

		_, _ = fmt.Fprintln(opts.stdout, string(message))
	}
}
