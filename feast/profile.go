package feast

import (
	"context"
	"fmt"

	"github.com/rushteam/staykit/core"
)

// ProfileProvider 从 Feast 读取离线物化好的偏好统计，作为画像的温启动：
// 行为流水还没攒够窗口时，引擎可以先用离线画像顶上。
//
// 特征约定（FeatureView 默认 "user_profile"）：
//   - <view>:total_interactions  int64
//   - <view>:average_rating      double
//   - <view>:avg_group_size      double
//   - <view>:avg_duration        double
//   - <view>:top_<dimension>     string，每个画像维度一个
type ProfileProvider struct {
	Client Client

	// FeatureView 特征视图名，空值取 "user_profile"
	FeatureView string

	// Dimensions 画像维度（与在线分析器一致）
	Dimensions []string
}

func (p *ProfileProvider) view() string {
	if p.FeatureView != "" {
		return p.FeatureView
	}
	return "user_profile"
}

// FetchProfile 读取一个用户的离线画像。特征缺失或读取失败返回错误，
// 调用方决定是否降级到在线分析。
func (p *ProfileProvider) FetchProfile(ctx context.Context, userID string) (*core.PreferenceProfile, error) {
	if p.Client == nil {
		return nil, fmt.Errorf("feast: client not configured")
	}

	view := p.view()
	features := []string{
		view + ":total_interactions",
		view + ":average_rating",
		view + ":avg_group_size",
		view + ":avg_duration",
	}
	for _, dim := range p.Dimensions {
		features = append(features, view+":top_"+dim)
	}

	resp, err := p.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   features,
		EntityRows: []map[string]interface{}{{"user_id": userID}},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.FeatureVectors) == 0 {
		return nil, fmt.Errorf("feast: no feature vector for user %q", userID)
	}
	values := resp.FeatureVectors[0].Values

	profile := core.NewPreferenceProfile(p.Dimensions)
	profile.TotalInteractions = int(floatOf(values[view+":total_interactions"]))
	profile.AverageRating = floatOf(values[view+":average_rating"])
	profile.AverageGroupSize = floatOf(values[view+":avg_group_size"])
	profile.AverageDuration = floatOf(values[view+":avg_duration"])

	// 离线画像只物化了每个维度的众数，直方图里记为单一取值
	for _, dim := range p.Dimensions {
		if top, ok := values[view+":top_"+dim].(string); ok && top != "" {
			profile.Histograms[dim].Incr(top)
		}
	}
	return profile, nil
}

func floatOf(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}
