package services

import (
	"context"
	"math"
	"sort"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/app/repositories"
	"github.com/devansh/fms/internal/pkg/logger"
)

// generalGroup buckets records whose grouping field is blank, typically rows
// predating the field
const generalGroup = "General"

// trendWindowDays bounds the dashboard submission trend
const trendWindowDays = 30

// round2 rounds to two decimals for display averages
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GroupFn extracts the grouping key of one feedback record
type GroupFn func(fb *models.Feedback) string

// AverageByGroup computes mean ratings per group. Records with a blank group
// land in the "General" bucket instead of being dropped.
func AverageByGroup(feedback []*models.Feedback, group GroupFn) map[string]float64 {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, fb := range feedback {
		key := group(fb)
		if key == "" {
			key = generalGroup
		}
		sums[key] += fb.Rating
		counts[key]++
	}

	averages := make(map[string]float64, len(sums))
	for key, sum := range sums {
		averages[key] = round2(float64(sum) / float64(counts[key]))
	}
	return averages
}

// CountByGroup tallies records per group with the same blank-group rule
func CountByGroup(feedback []*models.Feedback, group GroupFn) map[string]int {
	counts := make(map[string]int)
	for _, fb := range feedback {
		key := group(fb)
		if key == "" {
			key = generalGroup
		}
		counts[key]++
	}
	return counts
}

// RatingHistogram tallies records per rating value 1..5. Out-of-range values,
// possible in imported data, are clamped into the scale rather than dropped.
func RatingHistogram(feedback []*models.Feedback) map[int]int {
	histogram := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, fb := range feedback {
		rating := fb.Rating
		if rating < 1 {
			rating = 1
		}
		if rating > 5 {
			rating = 5
		}
		histogram[rating]++
	}
	return histogram
}

// DailyTrend buckets submissions per calendar date, ascending, keeping the
// trailing lastN dates. lastN <= 0 keeps everything.
func DailyTrend(feedback []*models.Feedback, lastN int) []dto.TrendPoint {
	counts := make(map[string]int)
	for _, fb := range feedback {
		counts[fb.SubmittedAt.Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	if lastN > 0 && len(dates) > lastN {
		dates = dates[len(dates)-lastN:]
	}

	trend := make([]dto.TrendPoint, 0, len(dates))
	for _, date := range dates {
		trend = append(trend, dto.TrendPoint{Date: date, Count: counts[date]})
	}
	return trend
}

// ReportService aggregates feedback into exports and dashboard analytics
type ReportService struct {
	feedback *repositories.FeedbackRepository
	accounts *repositories.AccountRepository
}

// NewReportService creates a new ReportService
func NewReportService(feedback *repositories.FeedbackRepository, accounts *repositories.AccountRepository) *ReportService {
	return &ReportService{feedback: feedback, accounts: accounts}
}

// DepartmentComparison ranks departments by mean rating across all feedback
func (s *ReportService) DepartmentComparison(ctx context.Context) ([]dto.DeptComparisonRow, error) {
	feedback, err := s.feedback.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return departmentComparison(feedback), nil
}

func departmentComparison(feedback []*models.Feedback) []dto.DeptComparisonRow {
	byDept := func(fb *models.Feedback) string { return fb.Department }
	averages := AverageByGroup(feedback, byDept)
	counts := CountByGroup(feedback, byDept)

	rows := make([]dto.DeptComparisonRow, 0, len(averages))
	for code, avg := range averages {
		name := code
		if code != generalGroup {
			name = models.DeptName(code)
		}
		rows = append(rows, dto.DeptComparisonRow{
			Department:     name,
			AverageRating:  avg,
			TotalFeedbacks: counts[code],
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AverageRating != rows[j].AverageRating {
			return rows[i].AverageRating > rows[j].AverageRating
		}
		return rows[i].Department < rows[j].Department
	})
	return rows
}

// teacherNames resolves teacher ids to display names, caching per call
func (s *ReportService) teacherNames(ctx context.Context, feedback []*models.Feedback) map[int64]string {
	names := make(map[int64]string)
	for _, fb := range feedback {
		if _, ok := names[fb.TeacherID]; ok {
			continue
		}
		account, err := s.accounts.GetByID(ctx, fb.TeacherID)
		if err != nil {
			logger.Warn().Err(err).Int64("teacherID", fb.TeacherID).Msg("Unknown teacher in feedback dump")
			names[fb.TeacherID] = "Unknown"
			continue
		}
		names[fb.TeacherID] = account.Name
	}
	return names
}

// Dump produces the raw feedback export, newest first. Year is derived from
// the stored semester; rows predating the semester field leave both blank.
func (s *ReportService) Dump(ctx context.Context, departmentCode string) ([]dto.FeedbackDumpRow, error) {
	var (
		feedback []*models.Feedback
		err      error
	)
	if departmentCode != "" {
		feedback, err = s.feedback.ListByDepartment(ctx, departmentCode)
	} else {
		feedback, err = s.feedback.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	names := s.teacherNames(ctx, feedback)

	rows := make([]dto.FeedbackDumpRow, 0, len(feedback))
	for _, fb := range feedback {
		rows = append(rows, dto.FeedbackDumpRow{
			Subject:     fb.Subject,
			TeacherName: names[fb.TeacherID],
			Department:  models.DeptName(fb.Department),
			Rating:      fb.Rating,
			Comments:    fb.Comments,
			Year:        models.DeriveYear(fb.Semester),
			Semester:    fb.Semester,
			Date:        fb.SubmittedAt.Format("2006-01-02"),
		})
	}
	return rows, nil
}

// TeacherAnalytics aggregates one teacher's feedback for their dashboard
func (s *ReportService) TeacherAnalytics(ctx context.Context, teacherID int64) (*dto.TeacherAnalyticsResponse, error) {
	feedback, err := s.feedback.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	var sum int
	for _, fb := range feedback {
		sum += fb.Rating
	}
	avg := 0.0
	if len(feedback) > 0 {
		avg = round2(float64(sum) / float64(len(feedback)))
	}

	return &dto.TeacherAnalyticsResponse{
		AverageRating: avg,
		TotalReviews:  len(feedback),
		Histogram:     RatingHistogram(feedback),
		Trend:         DailyTrend(feedback, trendWindowDays),
	}, nil
}

// DepartmentAnalytics compares the teachers of one department
func (s *ReportService) DepartmentAnalytics(ctx context.Context, departmentCode string) (*dto.DepartmentAnalyticsResponse, error) {
	feedback, err := s.feedback.ListByDepartment(ctx, departmentCode)
	if err != nil {
		return nil, err
	}

	names := s.teacherNames(ctx, feedback)
	byTeacher := func(fb *models.Feedback) string { return names[fb.TeacherID] }

	return &dto.DepartmentAnalyticsResponse{
		TeacherAverages: AverageByGroup(feedback, byTeacher),
		Histogram:       RatingHistogram(feedback),
		Trend:           DailyTrend(feedback, trendWindowDays),
	}, nil
}

// SystemSummary assembles the admin export: counters, department ranking and
// the submission trend
func (s *ReportService) SystemSummary(ctx context.Context, stats *dto.SystemStatsResponse) (*dto.SystemSummaryResponse, error) {
	feedback, err := s.feedback.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.SystemSummaryResponse{
		Stats:              *stats,
		DepartmentAverages: departmentComparison(feedback),
		Trend:              DailyTrend(feedback, trendWindowDays),
	}, nil
}
