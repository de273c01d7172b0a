package domain

// LegendBands - пороги легенды тепловой карты, LowMax < MedMax < HighMax
type LegendBands struct {
	LowMax  int `json:"low_max" db:"low_max"`
	MedMax  int `json:"med_max" db:"med_max"`
	HighMax int `json:"high_max" db:"high_max"`
}

// HeatPoint - точка для слоя тепловой карты
type HeatPoint struct {
	Lat float64
	Lon float64
}

// MapRun - сводка одного построения карты
type MapRun struct {
	Offenses []string    `json:"offenses"`
	Legend   LegendBands `json:"legend"`
	Points   int         `json:"points"`
}
