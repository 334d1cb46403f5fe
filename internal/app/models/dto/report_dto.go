package dto

// DeptComparisonRow is one row of the department performance export
type DeptComparisonRow struct {
	Department     string  `json:"department"`
	AverageRating  float64 `json:"averageRating"`
	TotalFeedbacks int     `json:"totalFeedbacks"`
}

// FeedbackDumpRow is one row of the raw feedback export. Plain field maps for
// the out-of-scope export layer; no rendering concerns here.
type FeedbackDumpRow struct {
	Subject     string `json:"subject"`
	TeacherName string `json:"teacherName"`
	Department  string `json:"department"`
	Rating      int    `json:"rating"`
	Comments    string `json:"comments"`
	Year        int    `json:"year,omitempty"`
	Semester    int    `json:"semester,omitempty"`
	Date        string `json:"date"`
}

// TrendPoint is one calendar-date bucket of the submission trend
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TeacherAnalyticsResponse aggregates one teacher's feedback
type TeacherAnalyticsResponse struct {
	AverageRating float64      `json:"averageRating"`
	TotalReviews  int          `json:"totalReviews"`
	Histogram     map[int]int  `json:"histogram"`
	Trend         []TrendPoint `json:"trend"`
}

// DepartmentAnalyticsResponse compares teachers within one department
type DepartmentAnalyticsResponse struct {
	TeacherAverages map[string]float64 `json:"teacherAverages"`
	Histogram       map[int]int        `json:"histogram"`
	Trend           []TrendPoint       `json:"trend"`
}

// SystemSummaryResponse is the admin export header block plus charts data
type SystemSummaryResponse struct {
	Stats              SystemStatsResponse `json:"stats"`
	DepartmentAverages []DeptComparisonRow `json:"departmentAverages"`
	Trend              []TrendPoint        `json:"trend"`
}
