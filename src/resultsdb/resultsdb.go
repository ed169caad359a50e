// Package resultsdb implements the results catalog: a small sqlite database
// recording combined metrics, their display grouping and the plot files
// generated for them.
package resultsdb

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/skysurvey/surveyplot/src/metricdata"
)

const schema = `
CREATE TABLE IF NOT EXISTS metrics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	metric_name TEXT NOT NULL,
	slicer_name TEXT NOT NULL,
	run_name TEXT NOT NULL,
	sql_constraint TEXT NOT NULL DEFAULT '',
	metadata TEXT NOT NULL DEFAULT '',
	file_root TEXT NOT NULL DEFAULT '',
	UNIQUE(metric_name, slicer_name, run_name, sql_constraint, metadata)
);
CREATE TABLE IF NOT EXISTS displays (
	metric_id INTEGER PRIMARY KEY REFERENCES metrics(id),
	group_name TEXT NOT NULL DEFAULT '',
	subgroup TEXT NOT NULL DEFAULT '',
	display_order INTEGER NOT NULL DEFAULT 0,
	caption TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS plots (
	metric_id INTEGER NOT NULL REFERENCES metrics(id),
	plot_type TEXT NOT NULL,
	plot_file TEXT NOT NULL,
	UNIQUE(metric_id, plot_type)
);`

// DB is a sqlite-backed results catalog.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the catalog at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping results db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init results db schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the underlying database.
func (d *DB) Close() error { return d.db.Close() }

// UpdateMetric upserts a metric record keyed by its identifying fields and
// returns the metric id.
func (d *DB) UpdateMetric(metricName, slicerName, runName, sqlConstraint, metadata, fileRoot string) (int64, error) {
	var id int64
	err := d.db.QueryRow(
		`SELECT id FROM metrics WHERE metric_name=? AND slicer_name=? AND run_name=? AND sql_constraint=? AND metadata=?`,
		metricName, slicerName, runName, sqlConstraint, metadata).Scan(&id)
	if err == nil {
		if fileRoot != "" {
			if _, err := d.db.Exec(`UPDATE metrics SET file_root=? WHERE id=?`, fileRoot, id); err != nil {
				return 0, fmt.Errorf("update metric file root: %w", err)
			}
		}
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("look up metric: %w", err)
	}
	res, err := d.db.Exec(
		`INSERT INTO metrics (metric_name, slicer_name, run_name, sql_constraint, metadata, file_root) VALUES (?,?,?,?,?,?)`,
		metricName, slicerName, runName, sqlConstraint, metadata, fileRoot)
	if err != nil {
		return 0, fmt.Errorf("insert metric: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("metric id: %w", err)
	}
	return id, nil
}

// UpdateDisplay upserts display grouping for a metric. Without overwrite
// only fields still empty in the stored record are filled in.
func (d *DB) UpdateDisplay(metricID int64, display *metricdata.DisplayDict, overwrite bool) error {
	if display == nil {
		return nil
	}
	var cur metricdata.DisplayDict
	err := d.db.QueryRow(
		`SELECT group_name, subgroup, display_order, caption FROM displays WHERE metric_id=?`,
		metricID).Scan(&cur.Group, &cur.Subgroup, &cur.Order, &cur.Caption)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = d.db.Exec(
			`INSERT INTO displays (metric_id, group_name, subgroup, display_order, caption) VALUES (?,?,?,?,?)`,
			metricID, display.Group, display.Subgroup, display.Order, display.Caption)
		if err != nil {
			return fmt.Errorf("insert display: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("look up display: %w", err)
	}
	merged := *display
	if !overwrite {
		if cur.Group != "" {
			merged.Group = cur.Group
		}
		if cur.Subgroup != "" {
			merged.Subgroup = cur.Subgroup
		}
		if cur.Order != 0 {
			merged.Order = cur.Order
		}
		if cur.Caption != "" {
			merged.Caption = cur.Caption
		}
	}
	_, err = d.db.Exec(
		`UPDATE displays SET group_name=?, subgroup=?, display_order=?, caption=? WHERE metric_id=?`,
		merged.Group, merged.Subgroup, merged.Order, merged.Caption, metricID)
	if err != nil {
		return fmt.Errorf("update display: %w", err)
	}
	return nil
}

// UpdatePlot records a plot file for a metric, replacing a previous file of
// the same plot type.
func (d *DB) UpdatePlot(metricID int64, plotType, plotFile string) error {
	_, err := d.db.Exec(
		`INSERT INTO plots (metric_id, plot_type, plot_file) VALUES (?,?,?)
		 ON CONFLICT(metric_id, plot_type) DO UPDATE SET plot_file=excluded.plot_file`,
		metricID, plotType, plotFile)
	if err != nil {
		return fmt.Errorf("record plot: %w", err)
	}
	return nil
}

// Display reads back the display record for a metric.
func (d *DB) Display(metricID int64) (*metricdata.DisplayDict, error) {
	var dd metricdata.DisplayDict
	err := d.db.QueryRow(
		`SELECT group_name, subgroup, display_order, caption FROM displays WHERE metric_id=?`,
		metricID).Scan(&dd.Group, &dd.Subgroup, &dd.Order, &dd.Caption)
	if err != nil {
		return nil, err
	}
	return &dd, nil
}

// PlotFiles reads back the plot files recorded for a metric.
func (d *DB) PlotFiles(metricID int64) (map[string]string, error) {
	rows, err := d.db.Query(`SELECT plot_type, plot_file FROM plots WHERE metric_id=?`, metricID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var typ, file string
		if err := rows.Scan(&typ, &file); err != nil {
			return nil, err
		}
		out[typ] = file
	}
	return out, rows.Err()
}
