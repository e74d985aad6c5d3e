package kinematics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample is one timestamped value of a series.
type Sample struct {
	T float64 `json:"t"`
	V float64 `json:"v"`
}

// Accumulator keeps running count, sum and extremes of a per-frame value.
type Accumulator struct {
	Count int
	Sum   float64
	Min   float64
	Max   float64
}

func (a *Accumulator) Add(v float64) {
	if a.Count == 0 {
		a.Min, a.Max = v, v
	} else {
		a.Min = math.Min(a.Min, v)
		a.Max = math.Max(a.Max, v)
	}
	a.Count++
	a.Sum += v
}

func (a Accumulator) Mean() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.Sum / float64(a.Count)
}

// Distribution summarizes a list of per-rep values.
type Distribution struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	// Trend is the least-squares slope of the values against their order,
	// e.g. positive tempo trend means reps are getting slower.
	Trend float64 `json:"trend"`
}

func Describe(values []float64) Distribution {
	d := Distribution{Count: len(values)}
	if len(values) == 0 {
		return d
	}

	d.Mean = stat.Mean(values, nil)
	d.Min = floats.Min(values)
	d.Max = floats.Max(values)
	if len(values) > 1 {
		d.StdDev = stat.StdDev(values, nil)

		order := make([]float64, len(values))
		for i := range order {
			order[i] = float64(i)
		}
		_, d.Trend = stat.LinearRegression(order, values, nil, false)
	}

	return round2(d)
}

func round2(d Distribution) Distribution {
	d.Mean = Round(d.Mean, 2)
	d.StdDev = Round(d.StdDev, 2)
	d.Min = Round(d.Min, 2)
	d.Max = Round(d.Max, 2)
	d.Trend = Round(d.Trend, 3)
	return d
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Percent returns part/total*100, or 0 for an empty total.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round(float64(part)/float64(total)*100, 1)
}
