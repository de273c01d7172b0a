package domain

import "time"

// PrecinctCount - число жалоб по участку
type PrecinctCount struct {
	Precinct int `json:"precinct"`
	Count    int `json:"crime_count"`
}

// PrecinctOffenseCount - число жалоб по участку и типу правонарушения
type PrecinctOffenseCount struct {
	Precinct int    `json:"precinct"`
	Offense  string `json:"offense"`
	Count    int    `json:"crime_count"`
}

// MonthlyCount - число жалоб по (месяц, округ)
type MonthlyCount struct {
	Month   time.Time `json:"month" db:"month"`
	Borough Borough   `json:"borough" db:"borough"`
	Count   int       `json:"crime_count" db:"crime_count"`
}
