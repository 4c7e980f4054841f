package model

type PricingUnit string

const (
	UnitHour  PricingUnit = "hour"
	UnitNight PricingUnit = "night"
	UnitDay   PricingUnit = "day"
	UnitWeek  PricingUnit = "week"
	UnitMonth PricingUnit = "month"
)

// Quote is a pricing breakdown. Discount applies to the subtotal, tax applies
// to the post-discount amount; all money fields are rounded to two decimals
// at output only.
type Quote struct {
	BasePrice      float64     `json:"base_price" bson:"base_price"`
	Unit           PricingUnit `json:"unit" bson:"unit"`
	Duration       int         `json:"duration" bson:"duration"`
	Subtotal       float64     `json:"subtotal" bson:"subtotal"`
	DiscountRate   float64     `json:"discount_rate" bson:"discount_rate"`
	DiscountAmount float64     `json:"discount_amount" bson:"discount_amount"`
	TaxRate        float64     `json:"tax_rate" bson:"tax_rate"`
	TaxAmount      float64     `json:"tax_amount" bson:"tax_amount"`
	TotalAmount    float64     `json:"total_amount" bson:"total_amount"`
}
