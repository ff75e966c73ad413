package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, 50.0, Percent(25, 50))
	assert.Equal(t, 100.0, Percent(10, 10))
	assert.InDelta(t, 33.333, Percent(1, 3), 0.001)
	assert.Equal(t, 0.0, Percent(10, 0))
	assert.Equal(t, 0.0, Percent(10, math.NaN()))
	assert.Equal(t, 0.0, Percent(10, math.Inf(1)))
	assert.Equal(t, 0.0, Percent(0, 0))
}

func TestAttendancePercent(t *testing.T) {
	assert.Equal(t, 75.0, AttendancePercent(15, 20))
	assert.Equal(t, 0.0, AttendancePercent(0, 0))
	assert.Equal(t, 0.0, AttendancePercent(5, 0))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.13, Round2(-0.125))
	assert.Equal(t, 0.0, Round2(math.NaN()))
}

func TestResolveSkipsAbsentFields(t *testing.T) {
	pred := Resolve(Params{Batch: "2024", Section: "A"})
	assert.False(t, pred.Never)
	require.Len(t, pred.Clauses, 2)
	assert.Equal(t, Clause{Field: FieldBatch, Value: "2024", Comparator: Equal}, pred.Clauses[0])
	assert.Equal(t, Clause{Field: FieldSection, Value: "A", Comparator: Equal}, pred.Clauses[1])
}

func TestResolveCoercesSemester(t *testing.T) {
	pred := Resolve(Params{Semester: "3"})
	require.Len(t, pred.Clauses, 1)
	assert.Equal(t, 3, pred.Clauses[0].Value)

	bad := Resolve(Params{Semester: "third", Batch: "2024"})
	assert.True(t, bad.Never)
	assert.False(t, bad.Has(FieldSemester))
	assert.True(t, bad.Has(FieldBatch))
}

func TestResolveHonoursFieldSubset(t *testing.T) {
	pred := Resolve(Params{Batch: "2024", ExamType: "final", Subject: "Math"}, FieldBatch, FieldSubject)
	assert.True(t, pred.Has(FieldBatch))
	assert.True(t, pred.Has(FieldSubject))
	assert.False(t, pred.Has(FieldExamType))
}

func TestPredicateOnly(t *testing.T) {
	pred := Resolve(Params{Batch: "2024", ExamType: "quiz", Semester: "x"})
	narrowed := pred.Only(FieldBatch, FieldSemester, FieldSection)
	assert.True(t, narrowed.Never)
	assert.True(t, narrowed.Has(FieldBatch))
	assert.False(t, narrowed.Has(FieldExamType))

	noSemester := pred.Only(FieldBatch)
	assert.False(t, noSemester.Never)
}

func TestPredicateWhere(t *testing.T) {
	columns := map[Field]string{FieldBatch: "m.batch", FieldSemester: "m.semester"}
	pred := Resolve(Params{Batch: "2024", Semester: "2", Section: "B"})

	conds, args := pred.Where(columns, []interface{}{"seed"})
	assert.Equal(t, []string{"m.batch = $2", "m.semester = $3"}, conds)
	assert.Equal(t, []interface{}{"seed", "2024", 2}, args)

	never := Resolve(Params{Semester: "abc"})
	conds, args = never.Where(columns, nil)
	assert.Equal(t, []string{"1=0"}, conds)
	assert.Empty(t, args)
}

func TestParseBinsDefault(t *testing.T) {
	bins, err := ParseBins("")
	require.NoError(t, err)
	require.Len(t, bins, 5)
	assert.Equal(t, Bin{Low: 90, High: 100}, bins[4])
	assert.Equal(t, "0-40", bins[0].Label())
}

func TestParseBinsRejectsMalformed(t *testing.T) {
	_, err := ParseBins("0-40,abc")
	require.Error(t, err)
	_, err = ParseBins("0-40,40-x")
	require.Error(t, err)
	_, err = ParseBins("0-40-60")
	require.Error(t, err)
}

func TestParseBinsFractionalLabel(t *testing.T) {
	bins, err := ParseBins("0-42.5, 42.5-100")
	require.NoError(t, err)
	assert.Equal(t, "0-42.5", bins[0].Label())
	assert.Equal(t, "42.5-100", bins[1].Label())
}

func TestHistogramClosedLastBin(t *testing.T) {
	bins, err := ParseBins(DefaultBins)
	require.NoError(t, err)
	counts := Histogram(bins, []float64{10, 45, 100})
	assert.Equal(t, []int{1, 1, 0, 0, 1}, counts)
}

func TestHistogramOverlapAndGaps(t *testing.T) {
	bins := []Bin{{Low: 0, High: 60}, {Low: 50, High: 70}, {Low: 80, High: 90}}
	counts := Histogram(bins, []float64{55, 75, 90})
	// 55 lands in both overlapping bins, 75 falls in the gap.
	assert.Equal(t, []int{1, 1, 1}, counts)
}

func TestResultEmptyAndComputed(t *testing.T) {
	type stats struct{ Total int }
	empty := Empty[stats]()
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, stats{}, empty.Value())

	computed := Computed(stats{Total: 3})
	assert.False(t, computed.IsEmpty())
	assert.Equal(t, 3, computed.Value().Total)
}

func TestMean(t *testing.T) {
	var m Mean
	assert.Equal(t, 0.0, m.Value())
	m.Add(30)
	m.Add(50)
	m.Add(80)
	assert.Equal(t, 3, m.Count())
	assert.InDelta(t, 53.333, m.Value(), 0.001)
}
