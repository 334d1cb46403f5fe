package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devansh/fms/internal/app/models"
)

func fb(teacherID int64, department string, rating int, submittedAt time.Time) *models.Feedback {
	return &models.Feedback{
		TeacherID:   teacherID,
		Subject:     "Networks",
		Rating:      rating,
		Department:  department,
		SubmittedAt: submittedAt,
	}
}

func TestAverageByGroup(t *testing.T) {
	now := time.Now()
	feedback := []*models.Feedback{
		fb(1, "105", 5, now),
		fb(1, "105", 3, now),
		fb(2, "103", 4, now),
		// Blank department lands in the General bucket
		fb(3, "", 2, now),
	}

	averages := AverageByGroup(feedback, func(f *models.Feedback) string { return f.Department })

	require.Len(t, averages, 3)
	assert.InDelta(t, 4.0, averages["105"], 1e-9)
	assert.InDelta(t, 4.0, averages["103"], 1e-9)
	assert.InDelta(t, 2.0, averages["General"], 1e-9)
}

func TestAverageByGroupRoundsToTwoDecimals(t *testing.T) {
	now := time.Now()
	feedback := []*models.Feedback{
		fb(1, "106", 5, now),
		fb(1, "106", 4, now),
		fb(1, "106", 4, now),
	}

	averages := AverageByGroup(feedback, func(f *models.Feedback) string { return f.Department })

	assert.InDelta(t, 4.33, averages["106"], 1e-9)
}

func TestCountByGroup(t *testing.T) {
	now := time.Now()
	feedback := []*models.Feedback{
		fb(1, "105", 5, now),
		fb(1, "105", 3, now),
		fb(2, "", 4, now),
	}

	counts := CountByGroup(feedback, func(f *models.Feedback) string { return f.Department })

	assert.Equal(t, map[string]int{"105": 2, "General": 1}, counts)
}

func TestRatingHistogram(t *testing.T) {
	now := time.Now()
	feedback := []*models.Feedback{
		fb(1, "105", 5, now),
		fb(1, "105", 5, now),
		fb(1, "105", 3, now),
	}

	histogram := RatingHistogram(feedback)

	// Every bucket is present even when empty, so charts render a full axis
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 1, 4: 0, 5: 2}, histogram)
}

func TestRatingHistogramClampsOutOfRange(t *testing.T) {
	now := time.Now()
	feedback := []*models.Feedback{
		fb(1, "105", 0, now),
		fb(1, "105", -2, now),
		fb(1, "105", 7, now),
	}

	histogram := RatingHistogram(feedback)

	assert.Equal(t, map[int]int{1: 2, 2: 0, 3: 0, 4: 0, 5: 1}, histogram)
}

func TestRatingHistogramEmpty(t *testing.T) {
	histogram := RatingHistogram(nil)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, histogram)
}

func TestDailyTrendSortsDates(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	feedback := []*models.Feedback{
		fb(1, "105", 4, day2),
		fb(1, "105", 5, day1),
		fb(1, "105", 3, day1),
	}

	trend := DailyTrend(feedback, 0)

	require.Len(t, trend, 2)
	assert.Equal(t, "2026-03-01", trend[0].Date)
	assert.Equal(t, 2, trend[0].Count)
	assert.Equal(t, "2026-03-02", trend[1].Date)
	assert.Equal(t, 1, trend[1].Count)
}

func TestDailyTrendKeepsTrailingWindow(t *testing.T) {
	var feedback []*models.Feedback
	for day := 1; day <= 5; day++ {
		feedback = append(feedback, fb(1, "105", 4, time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC)))
	}

	trend := DailyTrend(feedback, 2)

	require.Len(t, trend, 2)
	assert.Equal(t, "2026-03-04", trend[0].Date)
	assert.Equal(t, "2026-03-05", trend[1].Date)
}

func TestDepartmentComparisonRanking(t *testing.T) {
	now := time.Now()
	feedback := []*models.Feedback{
		fb(1, "105", 5, now),
		fb(1, "105", 5, now),
		fb(2, "103", 3, now),
		fb(3, "", 5, now),
	}

	rows := departmentComparison(feedback)

	require.Len(t, rows, 3)
	// Ties on average break alphabetically; CSE sorts before General
	assert.Equal(t, "CSE", rows[0].Department)
	assert.Equal(t, 2, rows[0].TotalFeedbacks)
	assert.Equal(t, "General", rows[1].Department)
	assert.Equal(t, "Mechanical Engineering", rows[2].Department)
	assert.InDelta(t, 3.0, rows[2].AverageRating, 1e-9)
}
