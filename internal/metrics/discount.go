package metrics

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/nurulquran/academy-backend/internal/model"
)

const (
	MinFamilySize = 1
	MaxFamilySize = 4

	// MaxBasePriceCents caps a per-student base price so every quote total
	// stays well inside int64.
	MaxBasePriceCents int64 = 100_000_000_000
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// familyDiscounts is indexed by sibling count.
var familyDiscounts = map[int]decimal.Decimal{
	1: decimal.Zero,
	2: decimal.RequireFromString("0.15"),
	3: decimal.RequireFromString("0.25"),
	4: decimal.RequireFromString("0.35"),
}

// FamilyDiscount returns the per-student discount rate for a family enrolling
// studentCount siblings together.
func FamilyDiscount(studentCount int) (decimal.Decimal, error) {
	rate, ok := familyDiscounts[studentCount]
	if !ok {
		return decimal.Zero, &model.InvalidStudentCountError{
			Count: studentCount,
			Min:   MinFamilySize,
			Max:   MaxFamilySize,
		}
	}
	return rate, nil
}

// DiscountedTotal returns basePrice * (1 - FamilyDiscount(n)) * n.
func DiscountedTotal(basePrice decimal.Decimal, studentCount int) (decimal.Decimal, error) {
	rate, err := FamilyDiscount(studentCount)
	if err != nil {
		return decimal.Zero, err
	}
	return basePrice.
		Mul(decimal.NewFromInt(1).Sub(rate)).
		Mul(decimal.NewFromInt(int64(studentCount))), nil
}

// Quote is a priced family enrollment in integer cents.
type Quote struct {
	BasePriceCents       int64           `json:"base_price_cents"`
	StudentCount         int             `json:"student_count"`
	DiscountRate         decimal.Decimal `json:"discount_rate"`
	PerStudentPriceCents int64           `json:"per_student_price_cents"`
	TotalCents           int64           `json:"total_cents"`
	SavingsCents         int64           `json:"savings_cents"`
}

// QuoteCents prices a family enrollment from a per-student base in cents.
// The total is rounded half away from zero to the nearest cent.
// Base prices outside 0..MaxBasePriceCents are a *model.ValidationError.
func QuoteCents(basePriceCents int64, studentCount int) (Quote, error) {
	if basePriceCents < 0 || basePriceCents > MaxBasePriceCents {
		return Quote{}, &model.ValidationError{
			Field: "base_price_cents",
			Err:   fmt.Errorf("must be between 0 and %d", MaxBasePriceCents),
		}
	}
	rate, err := FamilyDiscount(studentCount)
	if err != nil {
		return Quote{}, err
	}
	base := decimal.NewFromInt(basePriceCents)
	total, err := DiscountedTotal(base, studentCount)
	if err != nil {
		return Quote{}, err
	}

	gross := base.Mul(decimal.NewFromInt(int64(studentCount)))
	if gross.GreaterThan(maxCents) {
		return Quote{}, fmt.Errorf("quote of %s cents overflows int64", gross)
	}

	perStudent := base.Mul(decimal.NewFromInt(1).Sub(rate))
	totalCents := total.Round(0).IntPart()
	return Quote{
		BasePriceCents:       basePriceCents,
		StudentCount:         studentCount,
		DiscountRate:         rate,
		PerStudentPriceCents: perStudent.Round(0).IntPart(),
		TotalCents:           totalCents,
		SavingsCents:         gross.IntPart() - totalCents,
	}, nil
}
