package api

import (
	"net"

	"github.com/saeidalz13/minesweeper-backend/internal/logs"
	"go.uber.org/zap"
)

var loopbackIpNet = net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(32, 32)}

// ServerIpNet returns the first IPv4 network of an interface that is up
// and not a loopback. Analytics rows are keyed by it. Hosts without such
// an interface (CI containers) get 127.0.0.1/32.
func ServerIpNet() net.IPNet {
	ifaces, err := net.Interfaces()
	if err != nil {
		logs.Warn("listing interfaces failed; using loopback", zap.Error(err))
		return loopbackIpNet
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
				return net.IPNet{IP: ip, Mask: ipnet.Mask}
			}
		}
	}

	logs.Warn("no non-loopback ipv4 interface; using loopback")
	return loopbackIpNet
}
