// Command watch follows a running guestbook and prints it whenever it changes.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/lysyi3m/wedding-feed/app/liveview"
)

type options struct {
	URL       string `long:"url" env:"WEDDING_FEED_URL" default:"http://localhost:8080" description:"Base URL of the wedding feed server"`
	Reconnect int    `long:"reconnect" default:"5" description:"Seconds to wait before reconnecting"`
	Debug     bool   `long:"debug" description:"Enable debug logging"`
}

func main() {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	streamURL, err := liveview.StreamURL(opts.URL)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	settings := liveview.DefaultClientSettings()
	if opts.Reconnect > 0 {
		settings.ReconnectTimeout = time.Duration(opts.Reconnect) * time.Second
	}

	view := liveview.NewView(liveview.NewTextRenderer(os.Stdout))
	client := liveview.NewClient(streamURL, view, settings)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
