// Command test-scan is a manual test for discovery. It scans for glasses
// advertising the handshake service, then prints what the registry holds.
//
// Usage:
//
//	go run ./cmd/test-scan [--duration 10s] [--connect AA:BB:CC:DD:EE:FF]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chaz8081/glasslink/internal/ble"
	"github.com/chaz8081/glasslink/internal/session"
	"github.com/chaz8081/glasslink/internal/status"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "how long to scan")
	target := flag.String("connect", "", "address of a discovered device to connect to after scanning")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	provider := ble.NewTinygoProvider(ble.DefaultProviderOptions())
	if err := provider.Enable(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer provider.Close()

	sess := session.New(provider, provider, session.Options{HandshakeTimeout: 30 * time.Second})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	cancelWatch := sess.Status().Watch(func(s status.Snapshot) {
		fmt.Printf("status: %s (devices: %d)\n", s.Text(), s.Devices)
	})
	defer cancelWatch()

	fmt.Printf("Scanning for %s...\n", *duration)
	sess.ToggleScan()

	select {
	case <-time.After(*duration):
		sess.ToggleScan()
	case <-ctx.Done():
	}
	if err := sess.Sync(ctx); err != nil {
		<-done
		return
	}

	fmt.Println("\nDiscovered:")
	n := 0
	for rec := range sess.Devices() {
		n++
		fmt.Printf("  %2d. %-20s %s  %d dBm\n", rec.Seq+1, rec.Name, rec.ID, rec.RSSI)
	}
	if n == 0 {
		fmt.Println("  (none)")
	}

	if *target == "" {
		stop()
		<-done
		fmt.Println("Done.")
		return
	}

	fmt.Printf("\nConnecting to %s... (Ctrl+C to exit)\n", *target)
	sess.SelectDevice(*target)
	<-done
	fmt.Println("Done.")
}
