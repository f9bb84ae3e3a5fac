// Package nat 提供 NAT 穿透能力评估与可达性报告
//
// 传输层在每次打洞（DCUtR）尝试后向本包上报结果计数；本包随时
// 可以被查询，聚合出一份验证快照（成功率、建议）以及端口转发
// 配置摘要（探测到的公网/内网 IP、NAT 分类、配置指引）。
//
// 计数器单调递增且由调用方驱动，快照按需重新计算，从不持久化。
package nat

import "github.com/dep2p/go-filemesh/internal/util/logger"

var log = logger.Logger("nat")
