package usage

import "time"

type EndpointUsageDTO struct {
	Endpoint   string `json:"endpoint"   gorm:"column:endpoint"`
	Method     string `json:"method"     gorm:"column:method"`
	StatusCode int    `json:"statusCode" gorm:"column:status_code"`
	Count      int64  `json:"count"      gorm:"column:count"`
}

type DailyUsageDTO struct {
	Day   time.Time `json:"day"   gorm:"column:day"`
	Count int64     `json:"count" gorm:"column:count"`
}

type UsageStatsResponseDTO struct {
	TotalRequests     int64               `json:"totalRequests"`
	RequestsToday     int64               `json:"requestsToday"`
	AvgResponseTimeMs float64             `json:"avgResponseTimeMs"`
	Endpoints         []*EndpointUsageDTO `json:"endpoints"`
	Daily             []*DailyUsageDTO    `json:"daily"`
}
