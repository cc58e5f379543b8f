package net

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/rs/zerolog"
)

const serviceType = "_decodingden._tcp"

// Host is a sharing board found on the LAN.
type Host struct {
	Name string
	Addr string
}

// Advertise announces a share server on port until the returned server is
// shut down.
func Advertise(port int, logger zerolog.Logger) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"Decoding Den board"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	logger.Info().Str("component", "mdns").Str("host", host).Int("port", port).Msg("advertising board")
	return server, nil
}

// Browse looks for sharing boards for up to timeout, calling found for each.
func Browse(ctx context.Context, timeout time.Duration, found func(Host)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(Host{
				Name: strings.SplitN(e.Name, ".", 2)[0],
				Addr: fmt.Sprintf("%s:%d", e.AddrV4, e.Port),
			})
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	params.Logger = log.New(io.Discard, "", 0)

	err := mdns.QueryContext(ctx, params)
	close(entries)
	<-done
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("mdns browse: %w", err)
	}
	return nil
}
