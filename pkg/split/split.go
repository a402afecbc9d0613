package split

import "github.com/shopspring/decimal"

var Dec100 = decimal.NewFromInt(100)

// Result 分账结果：平台抽成与卖家所得
type Result struct {
	AdminShare decimal.Decimal
	OwnerShare decimal.Decimal
}

type Calculator struct {
	rate decimal.Decimal
}

// NewCalculator 创建分账计算器，rate为平台抽成比例（0到1之间）
func NewCalculator(rate float64) *Calculator {
	return &Calculator{rate: decimal.NewFromFloat(rate)}
}

// Calculate 按抽成比例拆分总额
// AdminShare四舍五入到分，OwnerShare取差值，保证两者之和恒等于总额
func (c *Calculator) Calculate(gross decimal.Decimal) Result {
	admin := gross.Mul(c.rate).Round(2)
	return Result{
		AdminShare: admin,
		OwnerShare: gross.Sub(admin),
	}
}

// MinorUnits 转换为最小货币单位（分）
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(Dec100).Round(0).IntPart()
}

// FromMinorUnits 分转换回十进制金额
func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(Dec100)
}
