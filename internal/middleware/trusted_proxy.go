package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

type TrustedProxyList struct {
	trustedIPs []*net.IPNet
}

func NewTrustedProxyList(cidrs []string) (*TrustedProxyList, error) {
	trustedIPs := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		if cidr == "" {
			continue
		}
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, err
		}
		trustedIPs = append(trustedIPs, ipNet)
	}
	return &TrustedProxyList{trustedIPs: trustedIPs}, nil
}

func (t *TrustedProxyList) IsTrustedProxy(remoteAddr string) bool {
	if len(t.trustedIPs) == 0 {
		return false
	}

	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// Fallback: maybe it's already a raw IP (no port)
		host = remoteAddr
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}

	for _, trustedNet := range t.trustedIPs {
		if trustedNet.Contains(ip) {
			return true
		}
	}

	return false
}

// ProxyHeaderFilter drops forwarded-for headers from connections that did
// not come through a trusted proxy, so audit logs record the real peer.
func ProxyHeaderFilter(proxies *TrustedProxyList) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !proxies.IsTrustedProxy(c.Request.RemoteAddr) {
			c.Request.Header.Del("X-Forwarded-For")
			c.Request.Header.Del("X-Real-IP")
		}
		c.Next()
	}
}
