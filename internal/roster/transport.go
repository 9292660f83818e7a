package roster

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	xproxy "golang.org/x/net/proxy"
)

func newTransport(socksAddr string, timeout time.Duration) (*http.Transport, error) {
	forward := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	t := &http.Transport{
		Proxy:                 nil,
		DialContext:           forward.DialContext,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	socksAddr = strings.TrimSpace(socksAddr)
	if socksAddr == "" {
		return t, nil
	}

	d, err := xproxy.SOCKS5("tcp", socksAddr, nil, forward)
	if err != nil {
		return nil, fmt.Errorf("socks5 dialer: %w", err)
	}
	cd, ok := d.(xproxy.ContextDialer)
	if !ok {
		return nil, errors.New("socks5 dialer does not support contexts")
	}
	t.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return cd.DialContext(ctx, network, addr)
	}
	return t, nil
}
