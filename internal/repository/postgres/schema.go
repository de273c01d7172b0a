package postgres

// schemaStatements создают таблицы хранилища, если их еще нет
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS crime_monthly_counts (
		run_id      UUID        NOT NULL,
		month       DATE        NOT NULL,
		borough     TEXT        NOT NULL,
		crime_count INTEGER     NOT NULL,
		PRIMARY KEY (run_id, month, borough)
	)`,
	`CREATE TABLE IF NOT EXISTS crime_forecast_runs (
		run_id      UUID             NOT NULL,
		borough     TEXT             NOT NULL,
		p           SMALLINT         NOT NULL,
		d           SMALLINT         NOT NULL,
		q           SMALLINT         NOT NULL,
		points      INTEGER          NOT NULL,
		rmse        DOUBLE PRECISION NOT NULL,
		mae         DOUBLE PRECISION NOT NULL,
		mape        DOUBLE PRECISION NOT NULL,
		aic         DOUBLE PRECISION,
		adf_p_value DOUBLE PRECISION,
		created_at  TIMESTAMPTZ      NOT NULL,
		PRIMARY KEY (run_id, borough)
	)`,
	`CREATE TABLE IF NOT EXISTS crime_forecasts (
		run_id   UUID             NOT NULL,
		borough  TEXT             NOT NULL,
		month    DATE             NOT NULL,
		actual   DOUBLE PRECISION,
		forecast DOUBLE PRECISION,
		PRIMARY KEY (run_id, borough, month)
	)`,
	`CREATE TABLE IF NOT EXISTS crime_map_runs (
		run_id     UUID        PRIMARY KEY,
		offenses   TEXT[]      NOT NULL,
		low_max    INTEGER     NOT NULL,
		med_max    INTEGER     NOT NULL,
		high_max   INTEGER     NOT NULL,
		points     INTEGER     NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}
