package domain

import "strings"

// Borough - один из пяти округов Нью-Йорка в верхнем регистре, как в BORO_NM
type Borough string

const (
	Manhattan    Borough = "MANHATTAN"
	Brooklyn     Borough = "BROOKLYN"
	Bronx        Borough = "BRONX"
	Queens       Borough = "QUEENS"
	StatenIsland Borough = "STATEN ISLAND"
)

// Boroughs - фиксированный порядок округов для прогноза
var Boroughs = []Borough{Manhattan, Brooklyn, Bronx, Queens, StatenIsland}

// ParseBorough нормализует строку и проверяет, что это известный округ
func ParseBorough(s string) (Borough, bool) {
	b := Borough(strings.ToUpper(strings.TrimSpace(s)))
	return b, b.Valid()
}

func (b Borough) Valid() bool {
	for _, known := range Boroughs {
		if b == known {
			return true
		}
	}
	return false
}

// Slug - имя для файлов: "STATEN ISLAND" -> "staten_island"
func (b Borough) Slug() string {
	return strings.ToLower(strings.ReplaceAll(string(b), " ", "_"))
}

// Title - имя для заголовков графиков: "STATEN ISLAND" -> "Staten Island"
func (b Borough) Title() string {
	words := strings.Fields(strings.ToLower(string(b)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (b Borough) String() string {
	return string(b)
}
