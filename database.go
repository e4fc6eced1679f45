package main

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type PdeSpectrumEntry struct {
	Wavelength float64 `db:"Wavelength"`
	Pde        float64 `db:"Pde"`
}

// getPdeSpectrumFromDB reads the spectral response tabulated for the run
// from the conditions database.
func getPdeSpectrumFromDB(db *sqlx.DB, runNumber int) (map[float64]float64, error) {
	query := fmt.Sprintf(
		"SELECT Wavelength, Pde FROM PdeSpectrumSipm WHERE MinRun <= %d and MaxRun >= %d",
		runNumber, runNumber)
	rows, err := db.Queryx(query)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	spectrum := make(map[float64]float64)
	for rows.Next() {
		entry := PdeSpectrumEntry{}
		if err := rows.StructScan(&entry); err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		spectrum[entry.Wavelength] = entry.Pde
	}
	if len(spectrum) == 0 {
		return nil, fmt.Errorf("no PDE spectrum found for run %d", runNumber)
	}
	return spectrum, nil
}
