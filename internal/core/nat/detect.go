package nat

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/jackpal/gateway"
	natpmp "github.com/jackpal/go-nat-pmp"
	"github.com/pion/stun"
	"go.uber.org/multierr"
)

// ============================================================================
//                              常量定义
// ============================================================================

const (
	// stunTimeout 单个 STUN 服务器的事务超时
	stunTimeout = 5 * time.Second

	// natpmpTimeout NAT-PMP 查询超时
	natpmpTimeout = 3 * time.Second

	// detectCacheDuration 公网 IP 探测结果缓存时长
	detectCacheDuration = 5 * time.Minute
)

// DefaultSTUNServers 默认 STUN 服务器列表
func DefaultSTUNServers() []string {
	return []string{
		"stun.l.google.com:19302",
		"stun1.l.google.com:19302",
		"stun2.l.google.com:19302",
	}
}

// ============================================================================
//                              Detector
// ============================================================================

// Detector 生产地址探测器
//
// 公网 IP 优先走 STUN 绑定请求，全部服务器失败后回退
// NAT-PMP 向默认网关查询外部地址。结果带时效缓存。
type Detector struct {
	servers []string

	mu       sync.Mutex
	cachedIP net.IP
	cachedAt time.Time
}

var _ AddrDetector = (*Detector)(nil)

// NewDetector 创建默认探测器
func NewDetector() *Detector {
	return &Detector{servers: DefaultSTUNServers()}
}

// NewDetectorWithServers 创建指定 STUN 服务器的探测器
func NewDetectorWithServers(servers []string) *Detector {
	if len(servers) == 0 {
		return NewDetector()
	}
	return &Detector{servers: append([]string(nil), servers...)}
}

// PublicIP 探测公网 IP
func (d *Detector) PublicIP(ctx context.Context) (net.IP, error) {
	d.mu.Lock()
	if d.cachedIP != nil && time.Since(d.cachedAt) < detectCacheDuration {
		ip := d.cachedIP
		d.mu.Unlock()
		return ip, nil
	}
	d.mu.Unlock()

	var errs error
	for _, server := range d.servers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ip, err := querySTUN(ctx, server)
		if err != nil {
			log.Debug("STUN 查询失败", "server", server, "err", err)
			errs = multierr.Append(errs, err)
			continue
		}
		d.cache(ip)
		return ip, nil
	}

	// 回退：通过 NAT-PMP 向默认网关询问外部地址
	ip, err := queryNATPMP()
	if err != nil {
		log.Debug("NAT-PMP 回退失败", "err", err)
		return nil, multierr.Append(errs, err)
	}
	d.cache(ip)
	return ip, nil
}

// cache 记录探测结果
func (d *Detector) cache(ip net.IP) {
	d.mu.Lock()
	d.cachedIP = ip
	d.cachedAt = time.Now()
	d.mu.Unlock()
}

// LocalIP 探测本机内网 IP
//
// 通过 UDP 路由选择确定出口地址，不产生实际网络流量。
func (d *Detector) LocalIP() (net.IP, error) {
	conn, err := net.Dial("udp4", "8.8.8.8:53")
	if err != nil {
		return nil, newDetectError("local_ip", err)
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil, newDetectError("local_ip", ErrNoAddress)
	}
	return addr.IP, nil
}

// querySTUN 向单个 STUN 服务器发送绑定请求并解析映射地址
func querySTUN(ctx context.Context, server string) (net.IP, error) {
	addr, err := net.ResolveUDPAddr("udp4", server)
	if err != nil {
		return nil, newDetectError("resolve", err)
	}

	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return nil, newDetectError("dial", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(stunTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)

	msg, err := stun.Build(stun.TransactionID, stun.BindingRequest)
	if err != nil {
		return nil, newDetectError("build", err)
	}
	if _, err := msg.WriteTo(conn); err != nil {
		return nil, newDetectError("send", err)
	}

	buf := make([]byte, 1500)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, newDetectError("read", err)
	}

	res := new(stun.Message)
	res.Raw = buf[:n]
	if err := res.Decode(); err != nil {
		return nil, newDetectError("decode", err)
	}

	var xorAddr stun.XORMappedAddress
	if err := xorAddr.GetFrom(res); err != nil {
		// 旧版服务器只携带 MAPPED-ADDRESS
		var mappedAddr stun.MappedAddress
		if err := mappedAddr.GetFrom(res); err != nil {
			return nil, newDetectError("response", ErrNoAddress)
		}
		return mappedAddr.IP, nil
	}
	return xorAddr.IP, nil
}

// queryNATPMP 通过默认网关的 NAT-PMP 接口获取外部地址
func queryNATPMP() (net.IP, error) {
	gw, err := gateway.DiscoverGateway()
	if err != nil {
		return nil, newDetectError("gateway", err)
	}

	client := natpmp.NewClientWithTimeout(gw, natpmpTimeout)
	res, err := client.GetExternalAddress()
	if err != nil {
		return nil, newDetectError("natpmp", err)
	}
	return net.IPv4(
		res.ExternalIPAddress[0],
		res.ExternalIPAddress[1],
		res.ExternalIPAddress[2],
		res.ExternalIPAddress[3],
	), nil
}
