// Package config 负责 YAML 配置装载与引擎装配。
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/staykit/cache"
	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/engine"
	"github.com/rushteam/staykit/feast"
	"github.com/rushteam/staykit/filter"
	"github.com/rushteam/staykit/pipeline"
	"github.com/rushteam/staykit/profile"
	"github.com/rushteam/staykit/rating"
	"github.com/rushteam/staykit/recall"
	"github.com/rushteam/staykit/rerank"
	"github.com/rushteam/staykit/store"
)

// Config 是进程级配置根。
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Redis   RedisConfig    `yaml:"redis"`
	Feast   FeastConfig    `yaml:"feast"`
	Domains []DomainConfig `yaml:"domains"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	DB      int    `yaml:"db"`
}

type FeastConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Project     string `yaml:"project"`
	FeatureView string `yaml:"feature_view"`
}

// QuotaConfig 三路召回的配额比例。
type QuotaConfig struct {
	Collaborative float64 `yaml:"collaborative"`
	Content       float64 `yaml:"content"`
	Popularity    float64 `yaml:"popularity"`
}

// DomainConfig 是单个推荐域的配置。
type DomainConfig struct {
	Name       string   `yaml:"name"`
	Dimensions []string `yaml:"dimensions"`

	WindowDays      int         `yaml:"window_days"`
	CacheTTLSeconds int         `yaml:"cache_ttl_seconds"`
	HighRating      int         `yaml:"high_rating"`
	Overfetch       int         `yaml:"overfetch"`
	SourceTimeoutMS int         `yaml:"source_timeout_ms"`
	Quotas          QuotaConfig `yaml:"quotas"`

	// Rules CEL 过滤规则（对"保留"求值）
	Rules []string `yaml:"rules"`
}

// Load 从文件读取配置并填默认值。
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse 解析 YAML 配置并填默认值。
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 返回三个内置域（menu/room/table）的开箱配置。
func Default() *Config {
	cfg := &Config{
		Domains: []DomainConfig{
			{Name: string(core.DomainMenu), Dimensions: []string{"category", "cuisine", "spice_level", core.DimPriceTier}},
			{Name: string(core.DomainRoom), Dimensions: []string{"room_type", "view_type", core.DimPriceTier}},
			{Name: string(core.DomainTable), Dimensions: []string{"location", "ambiance", "table_type"}},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Feast.FeatureView == "" {
		c.Feast.FeatureView = "user_profile"
	}
	for i := range c.Domains {
		d := &c.Domains[i]
		if d.WindowDays <= 0 {
			d.WindowDays = engine.DefaultWindowDays
		}
		if d.CacheTTLSeconds <= 0 {
			d.CacheTTLSeconds = int(cache.DefaultTTL / time.Second)
		}
		if d.HighRating <= 0 {
			d.HighRating = 4
		}
		if d.Overfetch <= 0 {
			d.Overfetch = 2
		}
		if d.SourceTimeoutMS <= 0 {
			d.SourceTimeoutMS = 2000
		}
		if d.Quotas == (QuotaConfig{}) {
			d.Quotas = QuotaConfig{Collaborative: 0.6, Content: 0.3, Popularity: 0.1}
		}
	}
}

func (c *Config) validate() error {
	if len(c.Domains) == 0 {
		return fmt.Errorf("config: at least one domain is required")
	}
	seen := make(map[string]struct{}, len(c.Domains))
	for _, d := range c.Domains {
		if d.Name == "" {
			return fmt.Errorf("config: domain name is required")
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("config: duplicate domain %q", d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	return nil
}

// Deps 是跨域共享的基础设施（BuildEngine 的输入）。
type Deps struct {
	Items        core.ItemRepository
	Interactions core.InteractionRepository

	// KV 可选：缓存与热门榜后端，空时用进程内 MemoryStore
	KV core.KeyValueStore

	// Availability 可选：日期区间可用性检查
	Availability core.AvailabilityChecker

	// FeastClient 可选：离线画像温启动
	FeastClient feast.Client

	Clock  core.Clock
	Logger *zap.Logger
}

// BuildEngine 按域配置装配一个完整的推荐引擎。
func (d *DomainConfig) BuildEngine(deps Deps, feastCfg FeastConfig) *engine.Engine {
	kv := deps.KV
	if kv == nil {
		kv = store.NewMemoryStore()
	}

	domain := core.Domain(d.Name)
	popularity := &recall.Popularity{
		Items:        deps.Items,
		Store:        kv,
		Availability: deps.Availability,
		Overfetch:    d.Overfetch,
	}
	collaborative := &recall.Collaborative{
		Interactions: deps.Interactions,
		Items:        deps.Items,
		MinRating:    d.HighRating,
	}
	content := &recall.ContentBased{
		Items:        deps.Items,
		Dimensions:   d.Dimensions,
		Availability: deps.Availability,
	}

	blender := &recall.Blender{
		Sources: []recall.QuotaSource{
			{Source: collaborative, Ratio: d.Quotas.Collaborative},
			{Source: content, Ratio: d.Quotas.Content},
			{Source: popularity, Ratio: d.Quotas.Popularity},
		},
		Fallback: popularity,
		Timeout:  time.Duration(d.SourceTimeoutMS) * time.Millisecond,
	}

	filters := []filter.Filter{&filter.Capacity{Items: deps.Items}}
	for _, rule := range d.Rules {
		filters = append(filters, &filter.Rule{Expr: rule, Items: deps.Items})
	}

	var profiles *feast.ProfileProvider
	if deps.FeastClient != nil {
		profiles = &feast.ProfileProvider{
			Client:      deps.FeastClient,
			FeatureView: feastCfg.FeatureView,
			Dimensions:  d.Dimensions,
		}
	}

	clock := deps.Clock
	if clock == nil {
		clock = core.SystemClock{}
	}

	return &engine.Engine{
		Domain:       domain,
		Items:        deps.Items,
		Interactions: deps.Interactions,
		Pipeline: &pipeline.Pipeline{Nodes: []pipeline.Node{
			blender,
			&filter.Node{Filters: filters},
			&rerank.TopN{},
		}},
		Popularity: popularity,
		Analyzer:   profile.NewAnalyzer(d.Dimensions),
		Cache: &cache.Cache{
			Store: kv,
			TTL:   time.Duration(d.CacheTTLSeconds) * time.Second,
			Clock: clock,
		},
		Aggregator: &rating.Aggregator{Items: deps.Items, Store: kv},
		Profiles:   profiles,
		WindowDays: d.WindowDays,
		Clock:      clock,
		Logger:     deps.Logger,
	}
}
