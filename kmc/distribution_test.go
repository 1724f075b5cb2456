package kmc

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Statistical acceptance tests for the selection and time-step
// distributions. Seeds are fixed, so every run draws the same streams and
// the thresholds below are stable rather than flaky.

func TestSelectionFrequency_ProportionalToRates(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test, skipped in -short mode")
	}

	// GIVEN a static system with rates 1..8 (empty impact map)
	const steps = 200000
	ids := []int{0, 1, 2, 3, 4, 5, 6, 7}
	calc := RateCalculatorFunc[int](func(e int) float64 { return float64(e + 1) })
	sel, err := NewRejectionFreeSelector(calc, ids, nil, NewSeededRandomGenerator(2024))
	require.NoError(t, err)

	// WHEN many independent steps run
	counts := make([]float64, len(ids))
	for i := 0; i < steps; i++ {
		id, _, err := sel.SelectEvent()
		require.NoError(t, err)
		counts[id]++
	}

	// THEN the empirical frequencies pass a chi-squared test against
	// rate(e)/totalRate
	total := sel.TotalRate()
	expected := make([]float64, len(ids))
	for i := range ids {
		expected[i] = steps * float64(i+1) / total
	}
	chi2 := stat.ChiSquare(counts, expected)
	p := distuv.ChiSquared{K: float64(len(ids) - 1)}.Survival(chi2)
	if p < 1e-3 {
		t.Errorf("chi-squared = %.2f (p = %.2g): selection frequencies do not match rates; counts = %v", chi2, p, counts)
	}
}

func TestSelectionFrequency_UniformLargeSystem(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test, skipped in -short mode")
	}

	// GIVEN 1024 events all at rate 1.0 with an empty impact map
	const n = 1024
	const steps = 1 << 20
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	calc := RateCalculatorFunc[int](func(int) float64 { return 1.0 })
	sel, err := NewRejectionFreeSelector(calc, ids, nil, NewSeededRandomGenerator(4242))
	require.NoError(t, err)

	counts := make([]float64, n)
	for i := 0; i < steps; i++ {
		id, _, err := sel.SelectEvent()
		require.NoError(t, err)
		counts[id]++
	}

	// THEN every event's count lies within 5 sigma of steps/n
	mean := float64(steps) / n
	p := 1.0 / n
	sigma := math.Sqrt(float64(steps) * p * (1 - p))
	for id, c := range counts {
		if math.Abs(c-mean) > 5*sigma {
			t.Errorf("event %d fired %v times, want %v +/- %v", id, c, mean, 5*sigma)
		}
	}

	// AND the counts as a whole pass a uniformity chi-squared test
	expected := make([]float64, n)
	for i := range expected {
		expected[i] = mean
	}
	chi2 := stat.ChiSquare(counts, expected)
	pval := distuv.ChiSquared{K: float64(n - 1)}.Survival(chi2)
	if pval < 1e-4 {
		t.Errorf("uniformity chi-squared = %.2f (p = %.2g)", chi2, pval)
	}
}

func TestTimeStep_ExponentialWithMeanInverseTotalRate(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test, skipped in -short mode")
	}

	// GIVEN a single event at rate 3.0 that impacts itself every step
	const steps = 1000000
	calc := RateCalculatorFunc[string](func(string) float64 { return 3.0 })
	sel, err := NewRejectionFreeSelector(calc, []string{"A"},
		map[string][]string{"A": {"A"}}, NewSeededRandomGenerator(31337))
	require.NoError(t, err)

	samples := make([]float64, steps)
	for i := range samples {
		id, dt, err := sel.SelectEvent()
		require.NoError(t, err)
		require.Equal(t, "A", id)
		samples[i] = dt
	}

	// THEN the sample mean sits within 0.5% of 1/3 and the variance within
	// 5% of 1/9
	mean := stat.Mean(samples, nil)
	if math.Abs(mean-1.0/3.0) > 0.005*(1.0/3.0) {
		t.Errorf("mean dt = %v, want 1/3 within 0.5%%", mean)
	}
	variance := stat.Variance(samples, nil)
	if math.Abs(variance-1.0/9.0) > 0.05*(1.0/9.0) {
		t.Errorf("dt variance = %v, want 1/9 within 5%%", variance)
	}
}

func TestTimeStep_KolmogorovSmirnovAgainstExponential(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test, skipped in -short mode")
	}

	// GIVEN a static two-event system with total rate 4.0
	const n = 10000
	calc := mapCalculator{"A": 1.0, "B": 3.0}
	sel, err := NewRejectionFreeSelector(calc, []string{"A", "B"}, nil,
		NewSeededRandomGenerator(555))
	require.NoError(t, err)

	samples := make([]float64, n)
	for i := range samples {
		_, dt, err := sel.SelectEvent()
		require.NoError(t, err)
		samples[i] = dt
	}
	sort.Float64s(samples)

	// WHEN the empirical CDF is compared against Exp(rate=4)
	dist := distuv.Exponential{Rate: 4.0}
	ks := 0.0
	for i, x := range samples {
		cdf := dist.CDF(x)
		upper := math.Abs(float64(i+1)/n - cdf)
		lower := math.Abs(cdf - float64(i)/n)
		ks = math.Max(ks, math.Max(upper, lower))
	}

	// THEN the KS statistic stays under the alpha=0.01 critical value
	critical := 1.63 / math.Sqrt(n)
	if ks > critical {
		t.Errorf("KS statistic %v exceeds critical value %v", ks, critical)
	}
}
