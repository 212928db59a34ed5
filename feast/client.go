// Package feast 对接 Feast Feature Store，把离线物化好的用户偏好特征
// 作为画像的温启动数据面。
package feast

import "context"

// Client 是 Feast 在线特征读取的领域接口，由基础设施层实现。
// 引擎只消费在线特征，离线训练/物化属于特征平台的职责。
type Client interface {
	// GetOnlineFeatures 读取在线特征。
	// features 形如 ["user_profile:total_interactions"]，
	// entityRows 形如 [{"user_id": "u1"}]。
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 在线特征请求。
type GetOnlineFeaturesRequest struct {
	Features   []string
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，覆盖客户端默认值）
	Project string
}

// GetOnlineFeaturesResponse 在线特征响应，每个向量对应一个实体行。
type GetOnlineFeaturesResponse struct {
	FeatureVectors []FeatureVector
}

// FeatureVector 特征名 -> 特征值。
type FeatureVector struct {
	Values    map[string]interface{}
	EntityRow map[string]interface{}
}
