// Package staykit 是一个酒店/餐饮场景的推荐引擎工具包。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（混合召回 → 过滤 → TopN）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 域参数化: 菜品/房间/餐桌共享同一套引擎核心，差异只在配置（维度、配额、规则）
package staykit

import "github.com/rushteam/staykit/pipeline"

// 轻量 facade：便于用户直接 import "staykit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
