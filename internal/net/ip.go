package net

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// LinkScheme prefixes join links. The OS URL handler launches the app with
// the link as its first argument.
const LinkScheme = "decodingden://"

var ErrBadLink = errors.New("net: not a decodingden link")

// OutgoingIP finds the LAN address other machines should use to reach us.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// no route to the internet; look at the interfaces instead
		return firstIPv4().String()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}

// JoinLink builds the link a viewer opens to watch host:port.
func JoinLink(host string, port int) string {
	return LinkScheme + net.JoinHostPort(host, strconv.Itoa(port))
}

// ParseLink returns the host:port inside a join link.
func ParseLink(link string) (string, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(link), LinkScheme)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrBadLink, link)
	}
	rest = strings.TrimSuffix(rest, "/")
	host, port, err := net.SplitHostPort(rest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadLink, err)
	}
	if host == "" {
		return "", fmt.Errorf("%w: missing host", ErrBadLink)
	}
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return "", fmt.Errorf("%w: bad port %q", ErrBadLink, port)
	}
	return net.JoinHostPort(host, port), nil
}

// QRCode renders link as a PNG for phones and tablets to scan.
func QRCode(link string, size int) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR: %w", err)
	}
	return png, nil
}
