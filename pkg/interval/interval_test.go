package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func TestMerge_Overlapping(t *testing.T) {
	// given: 09:00-10:00 and 09:30-10:30
	intervals := []Interval{
		{Start: at(0), End: at(60)},
		{Start: at(30), End: at(90)},
	}

	// when
	merged := Merge(intervals)

	// then: one interval 09:00-10:30
	assert.Len(t, merged, 1)
	assert.Equal(t, at(0), merged[0].Start)
	assert.Equal(t, at(90), merged[0].End)
	assert.Equal(t, 90*time.Minute, TotalDuration(merged))
}

func TestMerge_Touching(t *testing.T) {
	intervals := []Interval{
		{Start: at(0), End: at(30)},
		{Start: at(30), End: at(60)},
	}

	merged := Merge(intervals)

	assert.Len(t, merged, 1)
	assert.Equal(t, 60*time.Minute, TotalDuration(merged))
}

func TestMerge_Disjoint(t *testing.T) {
	intervals := []Interval{
		{Start: at(60), End: at(90)},
		{Start: at(0), End: at(30)},
	}

	merged := Merge(intervals)

	assert.Len(t, merged, 2)
	// sorted by start
	assert.Equal(t, at(0), merged[0].Start)
	assert.Equal(t, at(60), merged[1].Start)
	assert.Equal(t, 60*time.Minute, TotalDuration(merged))
}

func TestMerge_Contained(t *testing.T) {
	// given: second interval fully inside the first
	intervals := []Interval{
		{Start: at(0), End: at(120)},
		{Start: at(30), End: at(60)},
	}

	merged := Merge(intervals)

	assert.Len(t, merged, 1)
	assert.Equal(t, at(0), merged[0].Start)
	assert.Equal(t, at(120), merged[0].End)
}

func TestMerge_NeverExceedsSumOfInputs(t *testing.T) {
	intervals := []Interval{
		{Start: at(0), End: at(45)},
		{Start: at(30), End: at(75)},
		{Start: at(100), End: at(130)},
	}

	merged := Merge(intervals)

	var inputSum time.Duration
	for _, i := range intervals {
		inputSum += i.Duration()
	}
	assert.LessOrEqual(t, TotalDuration(merged), inputSum)
}

func TestMerge_ZeroOrOneInput(t *testing.T) {
	assert.Empty(t, Merge(nil))

	single := []Interval{{Start: at(0), End: at(10)}}
	assert.Equal(t, single, Merge(single))
}

func TestMerge_DoesNotModifyInput(t *testing.T) {
	intervals := []Interval{
		{Start: at(60), End: at(90)},
		{Start: at(0), End: at(30)},
	}

	Merge(intervals)

	assert.Equal(t, at(60), intervals[0].Start)
}
