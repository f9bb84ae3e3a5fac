// Package main 提供 filemesh 命令行入口
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	filemesh "github.com/dep2p/go-filemesh"
	"github.com/dep2p/go-filemesh/config"
	"github.com/dep2p/go-filemesh/internal/util/logger"
)

var log = logger.Logger("filemesh/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	port       = flag.Int("port", 0, "监听端口（0 = 使用配置文件或默认值）")
	configFile = flag.String("config", "", "配置文件路径")
	dataDir    = flag.String("data-dir", "", "数据目录（默认: .filemesh）")
	bootstrap  = flag.String("bootstrap", "", "引导节点地址，逗号分隔")
	chainID    = flag.String("chain-id", "", "链标识（纳入命名空间指纹）")
	lanMode    = flag.Bool("lan", false, "局域网模式（仅接受回环与私网地址）")

	showStatus  = flag.Bool("status", false, "启动后输出一次 NAT 与候选状态并退出")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

const version = "0.3.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println("filemesh", version)
		return nil
	}

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	node, err := filemesh.New(opts...)
	if err != nil {
		return fmt.Errorf("create node: %w", err)
	}
	defer node.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := node.Start(ctx); err != nil {
		return fmt.Errorf("start node: %w", err)
	}

	log.Info("节点运行中",
		"namespace", node.NamespaceKey(),
		"candidates", len(node.WarmStartCandidates(0)))

	if *showStatus {
		return printStatus(ctx, node)
	}

	<-ctx.Done()
	log.Info("收到退出信号，正在停止")
	return node.Stop(context.Background())
}

// buildOptions 把命令行与配置文件合并为节点选项
//
// 命令行参数覆盖配置文件中的对应字段。
func buildOptions() ([]filemesh.Option, error) {
	var opts []filemesh.Option

	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		cfg, err := config.FromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		opts = append(opts, filemesh.WithConfig(cfg))
	}

	if *port > 0 {
		opts = append(opts, filemesh.WithListenPort(*port))
	}
	if *dataDir != "" {
		opts = append(opts, filemesh.WithDataDir(*dataDir))
	}
	if *bootstrap != "" {
		var addrs []string
		for _, a := range strings.Split(*bootstrap, ",") {
			if a = strings.TrimSpace(a); a != "" {
				addrs = append(addrs, a)
			}
		}
		opts = append(opts, filemesh.WithBootstrapPeers(addrs...))
	}
	if *chainID != "" {
		opts = append(opts, filemesh.WithChainID(*chainID))
	}
	if *lanMode {
		opts = append(opts, filemesh.WithRestrictToLAN())
	}

	return opts, nil
}

// printStatus 输出一次性状态报告
func printStatus(ctx context.Context, node *filemesh.Node) error {
	report := map[string]any{
		"state":           node.State().String(),
		"namespace":       node.NamespaceKey(),
		"candidates":      node.WarmStartCandidates(0),
		"dcutr":           node.DCUtRValidation(),
		"port_forwarding": node.PortForwardingConfig(ctx),
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return node.Stop(context.Background())
}
