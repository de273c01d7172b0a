package domain

import "time"

// Колонки исходного CSV, которые читает пайплайн
const (
	ColComplaintID = "CMPLNT_NUM"
	ColFromDate    = "CMPLNT_FR_DT"
	ColFromTime    = "CMPLNT_FR_TM"
	ColToDate      = "CMPLNT_TO_DT"
	ColToTime      = "CMPLNT_TO_TM"
	ColOffense     = "OFNS_DESC"
	ColLawCategory = "LAW_CAT_CD"
	ColBorough     = "BORO_NM"
	ColPrecinct    = "ADDR_PCT_CD"
	ColLatitude    = "Latitude"
	ColLongitude   = "Longitude"
)

// ComplaintColumns - фиксированное подмножество колонок
var ComplaintColumns = []string{
	ColComplaintID,
	ColFromDate,
	ColFromTime,
	ColToDate,
	ColToTime,
	ColOffense,
	ColLawCategory,
	ColBorough,
	ColPrecinct,
	ColLatitude,
	ColLongitude,
}

// UnknownOffense подставляется вместо пустого OFNS_DESC
const UnknownOffense = "UNKNOWN"

// RawComplaint - строка CSV до очистки, значения как есть
type RawComplaint struct {
	Line   int
	Fields map[string]string
}

// Get возвращает значение колонки или пустую строку, если колонки нет
func (r RawComplaint) Get(col string) string {
	return r.Fields[col]
}

// Complaint - очищенная запись о жалобе
type Complaint struct {
	ID           string     `json:"id"`
	ReportedFrom time.Time  `json:"reported_from"`
	ReportedTo   *time.Time `json:"reported_to,omitempty"`
	Offense      string     `json:"offense"`
	LawCategory  string     `json:"law_category"`
	Borough      Borough    `json:"borough"`
	Precinct     int        `json:"precinct"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	Month        time.Time  `json:"month"`
}

// HasCoordinates - обе координаты присутствуют
func (c Complaint) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// MonthStart усекает время до первого момента календарного месяца (UTC)
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DropReason - причина, по которой строка не прошла очистку
type DropReason string

const (
	DropMalformedLine   DropReason = "malformed_line"
	DropBadReportDate   DropReason = "bad_report_date"
	DropMissingPrecinct DropReason = "missing_precinct"
	DropMissingBorough  DropReason = "missing_borough"
	DropBadPrecinct     DropReason = "bad_precinct"
	DropUnknownBorough  DropReason = "unknown_borough"
	DropOutOfBounds     DropReason = "out_of_bounds"
)

// CleanSummary - итог очистки для оператора
type CleanSummary struct {
	RowsRead         int                `json:"rows_read"`
	RowsKept         int                `json:"rows_kept"`
	DistinctBoroughs int                `json:"distinct_boroughs"`
	Dropped          map[DropReason]int `json:"dropped"`
}

// TotalDropped - сумма всех отброшенных строк
func (s CleanSummary) TotalDropped() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}
