package core

// PriceTier 把连续价格映射为命名档位。断点在低档一侧闭区间：
// 5000 属于 Budget，5001 属于 Standard。
type PriceTier string

const (
	TierBudget   PriceTier = "Budget"   // <= 5000
	TierStandard PriceTier = "Standard" // 5001 - 10000
	TierPremium  PriceTier = "Premium"  // 10001 - 20000
	TierLuxury   PriceTier = "Luxury"   // > 20000
)

// DimPriceTier 是价格档位维度名，画像与内容召回按此名追踪。
const DimPriceTier = "price_tier"

const (
	tierBudgetMax   = 5000
	tierStandardMax = 10000
	tierPremiumMax  = 20000
)

// PriceTierOf 返回价格所属档位。
func PriceTierOf(price float64) PriceTier {
	switch {
	case price <= tierBudgetMax:
		return TierBudget
	case price <= tierStandardMax:
		return TierStandard
	case price <= tierPremiumMax:
		return TierPremium
	default:
		return TierLuxury
	}
}

// InTier 判断价格是否落在指定档位区间内。
func InTier(price float64, tier PriceTier) bool {
	return PriceTierOf(price) == tier
}
