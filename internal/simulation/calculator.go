// Package simulation implements the compound-interest goal simulator: the
// monthly-compounding projection, the inverse calculations behind plan
// optimization, and the rule-based advice attached to results.
package simulation

import (
	"math"

	"github.com/ming-ming2/finpick-backend/internal/domain"
)

// detailPoints caps how many points a projection emits; long horizons are
// sampled at a coarser month step.
const detailPoints = 100

// MonthlyCompound projects monthly deposits compounding at the given annual
// rate (percent). The series always starts with a zero point for month 0 and
// always includes the final month.
func MonthlyCompound(monthlyPayment int64, years int, annualRate float64) []domain.SimulationPoint {
	monthlyRate := annualRate / 100 / 12
	totalMonths := years * 12

	step := totalMonths / detailPoints
	if step < 1 {
		step = 1
	}

	var points []domain.SimulationPoint
	for month := 0; month <= totalMonths; month += step {
		points = append(points, pointAt(monthlyPayment, month, monthlyRate))
	}
	if last := totalMonths % step; last != 0 {
		points = append(points, pointAt(monthlyPayment, totalMonths, monthlyRate))
	}
	return points
}

func pointAt(monthlyPayment int64, month int, monthlyRate float64) domain.SimulationPoint {
	if month == 0 {
		return domain.SimulationPoint{}
	}

	pmt := float64(monthlyPayment)
	var futureValue float64
	if monthlyRate > 0 {
		// FV = PMT * [((1 + r)^n - 1) / r]
		futureValue = pmt * ((math.Pow(1+monthlyRate, float64(month)) - 1) / monthlyRate)
	} else {
		futureValue = pmt * float64(month)
	}

	principal := pmt * float64(month)
	interest := futureValue - principal
	cumulative := 0.0
	if principal > 0 {
		cumulative = interest / principal * 100
	}

	return domain.SimulationPoint{
		Year:       math.Round(float64(month)/12*10) / 10,
		Amount:     int64(futureValue),
		Principal:  int64(principal),
		Interest:   int64(interest),
		Cumulative: math.Round(cumulative*100) / 100,
	}
}

// RequiredMonthly inverts the projection: the monthly deposit needed to
// reach target in the given term.
func RequiredMonthly(target int64, years int, annualRate float64) int64 {
	monthlyRate := annualRate / 100 / 12
	totalMonths := years * 12

	if monthlyRate > 0 {
		factor := (math.Pow(1+monthlyRate, float64(totalMonths)) - 1) / monthlyRate
		return int64(float64(target) / factor)
	}
	return target / int64(totalMonths)
}

// RequiredYears inverts along the other axis: how long the given monthly
// deposit takes to reach target, in years rounded to one decimal.
func RequiredYears(target, monthlyPayment int64, annualRate float64) float64 {
	monthlyRate := annualRate / 100 / 12

	var requiredMonths float64
	if monthlyRate > 0 {
		requiredMonths = math.Log(1+float64(target)*monthlyRate/float64(monthlyPayment)) /
			math.Log(1+monthlyRate)
	} else {
		requiredMonths = float64(target) / float64(monthlyPayment)
	}
	return math.Round(requiredMonths/12*10) / 10
}
