package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是 Pipeline 的配置结构（YAML）。
type Config struct {
	Pipeline struct {
		Name  string       `yaml:"name"`
		Nodes []NodeConfig `yaml:"nodes"`
	} `yaml:"pipeline"`
}

// NodeConfig 是单个 Node 的配置。
type NodeConfig struct {
	Type   string         `yaml:"type"`   // recall.fanout / filter.expr / rank.blend / rerank.topn 等
	Config map[string]any `yaml:"config"` // Node 特定配置
}

// LoadFromYAML 从 YAML 文件加载 Pipeline 配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return &cfg, nil
}

// BuildPipeline 根据配置构建 Pipeline（需要 NodeFactory 注册 Node 构建器）。
func (c *Config) BuildPipeline(factory *NodeFactory) (*Pipeline, error) {
	nodes := make([]Node, 0, len(c.Pipeline.Nodes))

	for _, nc := range c.Pipeline.Nodes {
		node, err := factory.Build(nc.Type, nc.Config)
		if err != nil {
			return nil, fmt.Errorf("build node %s: %w", nc.Type, err)
		}
		nodes = append(nodes, node)
	}

	return &Pipeline{Nodes: nodes}, nil
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(config map[string]any) (Node, error)

// NodeFactory 用于根据配置构建 Node 实例。
// 需要外部依赖（存储等）的 Node 由携带依赖的 factory 注册，见 config 包。
type NodeFactory struct {
	builders map[string]NodeBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{
		builders: make(map[string]NodeBuilder),
	}
}

// Register 注册 Node 构建器。
func (f *NodeFactory) Register(nodeType string, builder NodeBuilder) {
	f.builders[nodeType] = builder
}

// Build 根据类型和配置构建 Node。
func (f *NodeFactory) Build(nodeType string, config map[string]any) (Node, error) {
	builder, ok := f.builders[nodeType]
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", nodeType)
	}
	return builder(config)
}
