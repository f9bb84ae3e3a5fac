// Package addrutil 提供地址解析与分类工具
package addrutil

import (
	"net"
	"strings"
)

// ============================================================================
//                              IP 类型判断工具
// ============================================================================

// IsLoopbackAddr 判断地址字符串是否是回环地址
//
// 支持格式：
//   - /ip4/127.0.0.1/...
//   - /ip6/::1/...
//   - host:port
func IsLoopbackAddr(addr string) bool {
	ip := ExtractIP(addr)
	if ip == nil {
		return false
	}
	return ip.IsLoopback()
}

// IsPrivateAddr 判断地址字符串是否是私网地址
//
// 私网地址范围：
//   - 10.0.0.0/8
//   - 172.16.0.0/12
//   - 192.168.0.0/16
//   - fc00::/7 (IPv6 ULA)
//   - fe80::/10 (IPv6 链路本地)
func IsPrivateAddr(addr string) bool {
	ip := ExtractIP(addr)
	if ip == nil {
		return false
	}
	return ip.IsPrivate() || ip.IsLinkLocalUnicast()
}

// IsPublicAddr 判断地址字符串是否是公网地址
//
// 公网地址：非回环、非私网、非链路本地的有效单播地址
func IsPublicAddr(addr string) bool {
	ip := ExtractIP(addr)
	if ip == nil {
		return false
	}
	return IsPublicIP(ip)
}

// IsPublicIP 判断 IP 是否是公网 IP
func IsPublicIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	return ip.IsGlobalUnicast() && !ip.IsPrivate() && !ip.IsLoopback() && !ip.IsLinkLocalUnicast()
}

// IsDNSAddr 判断地址字符串是否是 DNS 地址（需要解析才能得到 IP）
func IsDNSAddr(addr string) bool {
	return strings.Contains(addr, "/dns4/") ||
		strings.Contains(addr, "/dns6/") ||
		strings.Contains(addr, "/dnsaddr/")
}

// ExtractIP 从地址字符串中提取 IP 地址
//
// 支持格式：
//   - multiaddr: /ip4/<ip>/..., /ip6/<ip>/...
//   - host:port: 1.2.3.4:4001
//   - [ipv6]:port: [::1]:4001
//   - 纯 IP: 1.2.3.4 / ::1
//
// 对于 /dns4/ /dns6/ /dnsaddr/ 这类无法直接得到 IP 的地址，返回 nil。
func ExtractIP(addr string) net.IP {
	if addr == "" {
		return nil
	}

	if strings.HasPrefix(addr, "/") {
		parts := strings.Split(addr, "/")
		for i, part := range parts {
			switch part {
			case "ip4", "ip6":
				if i+1 < len(parts) {
					return net.ParseIP(parts[i+1])
				}
			case "dns4", "dns6", "dnsaddr":
				return nil
			}
		}
		return nil
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return net.ParseIP(addr)
	}
	return net.ParseIP(host)
}

// ExtractHost 从地址字符串中提取主机名或 IP 字符串
//
// 对 multiaddr 返回 /ip4/ /ip6/ /dns*/ 段之后的部分；
// 对 host:port 返回 host；否则返回原字符串。
func ExtractHost(addr string) string {
	if addr == "" {
		return ""
	}

	if strings.HasPrefix(addr, "/") {
		parts := strings.Split(addr, "/")
		for i, part := range parts {
			switch part {
			case "ip4", "ip6", "dns4", "dns6", "dnsaddr":
				if i+1 < len(parts) {
					return parts[i+1]
				}
			}
		}
		return ""
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// AddrType 返回地址类型描述
//
// 返回值：
//   - "loopback" - 回环地址
//   - "private" - 私网地址
//   - "public" - 公网地址
//   - "dns" - DNS 地址（无法直接判断 IP 类型）
//   - "unknown" - 未知类型
func AddrType(addr string) string {
	if addr == "" {
		return "unknown"
	}

	if IsDNSAddr(addr) {
		return "dns"
	}
	if IsLoopbackAddr(addr) {
		return "loopback"
	}
	if IsPrivateAddr(addr) {
		return "private"
	}
	if IsPublicAddr(addr) {
		return "public"
	}

	return "unknown"
}
