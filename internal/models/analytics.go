package models

import "time"

// AnalyticsOverview is the headline summary for a filtered cohort.
type AnalyticsOverview struct {
	Students          int     `json:"students"`
	TotalEntries      int     `json:"totalEntries"`
	AveragePercentage float64 `json:"averagePercentage"`
	PassRate          float64 `json:"passRate"`
	AverageAttendance float64 `json:"averageAttendance"`
}

// SubjectAverage is the mean percentage of one subject.
type SubjectAverage struct {
	Subject    string  `json:"subject"`
	AvgPercent float64 `json:"avgPercent"`
	Count      int     `json:"count"`
}

// TopStudent is a ranked student with attendance context.
type TopStudent struct {
	StudentID         string  `json:"studentId"`
	Name              string  `json:"name"`
	RollNo            string  `json:"rollNo"`
	ClassName         string  `json:"className"`
	AvgPercent        float64 `json:"avgPercent"`
	AttendancePercent float64 `json:"attendancePercent"`
}

// HistogramBucket counts marks falling in one percentage range.
type HistogramBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// TimelinePoint is the mean percentage of one exam sitting.
type TimelinePoint struct {
	ExamLabel  string    `json:"examLabel"`
	ExamDate   time.Time `json:"examDate"`
	AvgPercent float64   `json:"avgPercent"`
}

// MarkScore is the minimal marks projection the aggregation engine reduces.
type MarkScore struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	Subject   string    `db:"subject"`
	Marks     float64   `db:"marks"`
	Total     float64   `db:"total"`
	ExamLabel string    `db:"exam_label"`
	ExamDate  time.Time `db:"exam_date"`
}

// AttendanceScore is the attendance projection used by the overview.
type AttendanceScore struct {
	StudentID   string `db:"student_id"`
	PresentDays int    `db:"present_days"`
	TotalDays   int    `db:"total_days"`
}

// AnalyticsSystemMetrics represents system level analytics captured from instrumentation.
type AnalyticsSystemMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	DBQueryCount             uint64    `json:"dbQueryCount"`
	AverageDBQueryDurationMs float64   `json:"averageDbQueryDurationMs"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
