package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/pkg/errors"
	"github.com/crime-analytics/internal/pkg/validator"
	"github.com/spf13/viper"
)

type Config struct {
	Input    InputConfig
	Output   OutputConfig
	Forecast ForecastConfig
	Maps     MapsConfig
	Database DatabaseConfig
	Log      LogConfig
}

type InputConfig struct {
	HistoricCSV     string `validate:"required"`
	CurrentCSV      string `validate:"required"`
	PrecinctGeoJSON string
}

type OutputConfig struct {
	Dir string `validate:"required"`
}

type ForecastConfig struct {
	P               int `validate:"min=0,max=5"`
	D               int `validate:"min=0,max=2"`
	Q               int `validate:"min=0,max=5"`
	Horizon         int `validate:"min=0"`
	Holdout         int `validate:"min=1"`
	MinMonths       int `validate:"min=1"`
	Boroughs        []string
	WorkbookEnabled bool
}

type MapsConfig struct {
	TopOffenses         int `validate:"min=1"`
	PeriodLabel         string
	ChoroplethEnabled   bool
	PrecinctProperty    string `validate:"required"`
	HeatmapFile         string `validate:"required"`
	ChoroplethFile      string
	ChoroplethByOffense string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string `validate:"required_if=Enabled true"`
	Port            int
	User            string
	Password        string
	DBName          string `validate:"required_if=Enabled true"`
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type LogConfig struct {
	Level    string
	Encoding string
}

// Load читает .env (если он есть) и переменные окружения поверх дефолтов
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if !stderrors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat .env: %w", err)
	}
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper собирает Config из уже настроенного экземпляра viper
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Input: InputConfig{
			HistoricCSV:     v.GetString("HISTORIC_CSV"),
			CurrentCSV:      v.GetString("CURRENT_CSV"),
			PrecinctGeoJSON: v.GetString("PRECINCT_GEOJSON"),
		},
		Output: OutputConfig{
			Dir: v.GetString("OUTPUT_DIR"),
		},
		Forecast: ForecastConfig{
			P:               v.GetInt("FORECAST_P"),
			D:               v.GetInt("FORECAST_D"),
			Q:               v.GetInt("FORECAST_Q"),
			Horizon:         v.GetInt("FORECAST_HORIZON"),
			Holdout:         v.GetInt("FORECAST_HOLDOUT"),
			MinMonths:       v.GetInt("FORECAST_MIN_MONTHS"),
			Boroughs:        parseList(v.GetString("FORECAST_BOROUGHS")),
			WorkbookEnabled: v.GetBool("FORECAST_WORKBOOK_ENABLED"),
		},
		Maps: MapsConfig{
			TopOffenses:         v.GetInt("MAPS_TOP_OFFENSES"),
			PeriodLabel:         v.GetString("MAPS_PERIOD_LABEL"),
			ChoroplethEnabled:   v.GetBool("MAPS_CHOROPLETH_ENABLED"),
			PrecinctProperty:    v.GetString("MAPS_PRECINCT_PROPERTY"),
			HeatmapFile:         v.GetString("MAPS_HEATMAP_FILE"),
			ChoroplethFile:      v.GetString("MAPS_CHOROPLETH_FILE"),
			ChoroplethByOffense: v.GetString("MAPS_CHOROPLETH_BY_OFFENSE_FILE"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Log: LogConfig{
			Level:    v.GetString("LOG_LEVEL"),
			Encoding: v.GetString("LOG_ENCODING"),
		},
	}

	if err := validator.Validate(cfg); err != nil {
		return nil, errors.ErrInvalidConfig.WithDetails(map[string]interface{}{
			"reason": validator.Describe(err),
		})
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HISTORIC_CSV", "data/NYPD_Complaint_2022_2025.csv")
	v.SetDefault("CURRENT_CSV", "data/NYPD_Complaint_Data_Current_(Year_To_Date)_20251029.csv")
	v.SetDefault("PRECINCT_GEOJSON", "data/Police_Precincts_20251109.geojson")
	v.SetDefault("OUTPUT_DIR", "output")

	v.SetDefault("FORECAST_P", 1)
	v.SetDefault("FORECAST_D", 1)
	v.SetDefault("FORECAST_Q", 1)
	v.SetDefault("FORECAST_HORIZON", 12)
	v.SetDefault("FORECAST_HOLDOUT", 12)
	v.SetDefault("FORECAST_MIN_MONTHS", domain.MinSeriesLength)
	v.SetDefault("FORECAST_BOROUGHS", "MANHATTAN,BROOKLYN,BRONX,QUEENS,STATEN ISLAND")
	v.SetDefault("FORECAST_WORKBOOK_ENABLED", true)

	v.SetDefault("MAPS_TOP_OFFENSES", 6)
	v.SetDefault("MAPS_PERIOD_LABEL", "2025 YTD")
	v.SetDefault("MAPS_CHOROPLETH_ENABLED", false)
	v.SetDefault("MAPS_PRECINCT_PROPERTY", "precinct")
	v.SetDefault("MAPS_HEATMAP_FILE", "nyc_crime_heatmap_by_offense.html")
	v.SetDefault("MAPS_CHOROPLETH_FILE", "nyc_crime_by_precinct.html")
	v.SetDefault("MAPS_CHOROPLETH_BY_OFFENSE_FILE", "nyc_crime_by_precinct_by_offense.html")

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "console")
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// OutputPath склеивает имя файла с каталогом вывода
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Output.Dir, name)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}
