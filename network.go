package endpointreg

import (
	"fmt"
	"net"
	"strings"
)

// MAC addresses that never identify a host: broadcast, unset and the
// IEEE 802.1D bridge group address.
var filteredMACAddresses = []string{
	"FF:FF:FF:FF:FF:FF",
	"00:00:00:00:00:00",
	"01:80:C2:00:00:00",
}

const (
	ipv6Loopback       = "::1"
	ipv4LoopbackPrefix = "127."
	linkLocalPrefix    = "169.254."
)

// Interface is one network interface as seen by the collector.
type Interface struct {
	Name string
	MAC  string   // upper-case colon form, empty when the interface has none
	IPs  []string // canonical textual form, IPv4 and IPv6
}

// InterfaceSource enumerates the host's network interfaces.
type InterfaceSource interface {
	Interfaces() ([]Interface, error)
}

// systemInterfaces reads interfaces from the operating system.
type systemInterfaces struct{}

// Interfaces lists every interface with its hardware and bound addresses.
// Interfaces are not skipped based on state or name.
func (systemInterfaces) Interfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	result := make([]Interface, 0, len(ifaces))
	for _, i := range ifaces {
		entry := Interface{Name: i.Name}
		if len(i.HardwareAddr) > 0 {
			entry.MAC = formatMAC(i.HardwareAddr)
		}

		addrs, err := i.Addrs()
		if err != nil {
			return nil, fmt.Errorf("addresses of %s: %w", i.Name, err)
		}

		for _, addr := range addrs {
			if ip := addrIP(addr); ip != nil {
				entry.IPs = append(entry.IPs, ip.String())
			}
		}

		result = append(result, entry)
	}

	return result, nil
}

func formatMAC(hw net.HardwareAddr) string {
	return strings.ToUpper(hw.String())
}

func addrIP(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	}

	return nil
}

// collectAddresses flattens interfaces into MAC and IP sequences in
// enumeration order.
func collectAddresses(interfaces []Interface) (macs, ips []string) {
	for _, i := range interfaces {
		if i.MAC != "" {
			macs = append(macs, i.MAC)
		}
		ips = append(ips, i.IPs...)
	}

	return macs, ips
}

// FilterMACAddresses drops broadcast, all-zero and bridge group MAC addresses.
// Relative order of the remaining addresses is preserved. The result is never nil.
func FilterMACAddresses(macs []string) []string {
	kept := make([]string, 0, len(macs))
	for _, mac := range macs {
		if !isFilteredMAC(mac) {
			kept = append(kept, mac)
		}
	}

	return kept
}

// FilterIPAddresses drops IPv6 loopback, IPv4 loopback and IPv4 link-local
// addresses. Relative order of the remaining addresses is preserved. The
// result is never nil.
func FilterIPAddresses(ips []string) []string {
	kept := make([]string, 0, len(ips))
	for _, ip := range ips {
		if !isFilteredIP(ip) {
			kept = append(kept, ip)
		}
	}

	return kept
}

func isFilteredMAC(mac string) bool {
	for _, filtered := range filteredMACAddresses {
		if strings.EqualFold(mac, filtered) {
			return true
		}
	}

	return false
}

func isFilteredIP(ip string) bool {
	return ip == ipv6Loopback ||
		strings.HasPrefix(ip, ipv4LoopbackPrefix) ||
		strings.HasPrefix(ip, linkLocalPrefix)
}
