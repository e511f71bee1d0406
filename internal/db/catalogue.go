package db

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"hstin/lidarcmap/internal/colormap"
)

// InitDB creates a fresh catalogue database at dbPath, replacing any file
// already there.
func InitDB(dbPath string) (*sql.DB, error) {
	os.Remove(dbPath)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE colormaps (
			name TEXT,
			n INTEGER,
			under TEXT,
			over TEXT,
			PRIMARY KEY (name)
		);
		CREATE TABLE colors (
			name TEXT,
			idx INTEGER,
			r INTEGER,
			g INTEGER,
			b INTEGER,
			PRIMARY KEY (name, idx)
		);
		CREATE TABLE bounds (
			name TEXT,
			idx INTEGER,
			value REAL,
			PRIMARY KEY (name, idx)
		);
		CREATE TABLE panels (
			name TEXT,
			format TEXT,
			data BLOB,
			PRIMARY KEY (name, format)
		);
		CREATE TABLE metadata (
			name TEXT,
			value TEXT,
			PRIMARY KEY (name)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`
		INSERT INTO metadata VALUES
		('name', 'Lidar colormaps'),
		('version', '1.0'),
		('description', 'Standardized colormaps for cloud and aerosol lidar plots'),
		('generated', '?');
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ExportRegistry writes every colormap and boundary set of reg in a single
// transaction. Interior rows are stored as 0-255 channel values.
func ExportRegistry(db *sql.DB, reg *colormap.Registry) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	mapStmt, err := tx.Prepare("INSERT OR REPLACE INTO colormaps (name, n, under, over) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer mapStmt.Close()

	colorStmt, err := tx.Prepare("INSERT OR REPLACE INTO colors (name, idx, r, g, b) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer colorStmt.Close()

	boundStmt, err := tx.Prepare("INSERT OR REPLACE INTO bounds (name, idx, value) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer boundStmt.Close()

	for _, name := range reg.Names() {
		cm, _ := reg.Lookup(name)
		if _, err := mapStmt.Exec(name, cm.Len(), cm.Under().Hex(), cm.Over().Hex()); err != nil {
			return fmt.Errorf("colormap %s: %w", name, err)
		}
		for i, rgb := range colormap.Table(cm.Colors()).RGB255() {
			if _, err := colorStmt.Exec(name, i, rgb[0], rgb[1], rgb[2]); err != nil {
				return fmt.Errorf("colormap %s row %d: %w", name, i, err)
			}
		}
	}

	for _, name := range reg.BoundsNames() {
		b, _ := reg.Bounds(name)
		for i, v := range b {
			if _, err := boundStmt.Exec(name, i, v); err != nil {
				return fmt.Errorf("bounds %s: %w", name, err)
			}
		}
	}

	return tx.Commit()
}

func InsertPanel(db *sql.DB, name, format string, data []byte) error {
	_, err := db.Exec("INSERT OR REPLACE INTO panels (name, format, data) VALUES (?, ?, ?)", name, format, data)
	return err
}

// PanelSink stores rendered panels in the panels table.
type PanelSink struct {
	DB *sql.DB
}

func (s PanelSink) WritePanel(name, format string, data []byte) error {
	return InsertPanel(s.DB, name, format, data)
}

func UpdateMetadata(db *sql.DB, generated time.Time) error {
	_, err := db.Exec("UPDATE metadata SET value = ? WHERE name = 'generated'", generated.UTC().Format(time.RFC3339))
	return err
}
