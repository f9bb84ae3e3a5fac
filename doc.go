// Package filemesh 提供 FileMesh 内容分发节点的网络身份与引导韧性子系统
//
// 节点把历史上成功连接过的对等节点缓存在磁盘上，重启后优先重连
// 这些节点（热启动），而不是每次都回到引导节点冷启动。缓存按
// 命名空间指纹分区，不同逻辑网络（不同引导集合、端口或链标识）
// 的节点互不污染。
//
// 使用示例：
//
//	node, err := filemesh.New(
//	    filemesh.WithListenPort(4001),
//	    filemesh.WithBootstrapPeers("/dns4/boot.example.com/tcp/4001"),
//	    filemesh.WithDataDir("/var/lib/filemesh"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := node.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Close()
//
//	// 热启动重连候选（已按地址策略过滤）
//	for _, c := range node.WarmStartCandidates(0) {
//	    go dial(c)
//	}
package filemesh
