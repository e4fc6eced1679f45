package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	sqlx "github.com/jmoiron/sqlx"
	"gonum.org/v1/gonum/stat"

	sipm "github.com/next-exp/simsipm_go/pkg"
)

var InfoLog *slog.Logger
var ErrorLog *slog.Logger
var VerbosityLevel int
var configuration Configuration
var dbConn *sqlx.DB

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	InfoLog = slog.New(NewHandler(os.Stdout, opts))
	ErrorLog = slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// slogAdapter forwards the sipm package logs to the application loggers.
type slogAdapter struct{}

func (slogAdapter) Info(message string, module string) {
	InfoLog.Info(message, "module", module)
}

func (slogAdapter) Error(message string) {
	ErrorLog.Error(message)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	events := flag.Int("events", 0, "Override number of events")
	seed := flag.Uint64("seed", 0, "Override base seed")
	flag.Parse()

	var err error
	configuration, err = LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		ErrorLog.Error(message.Error())
		return
	}
	if *events > 0 {
		configuration.Events = *events
	}
	if *seed > 0 {
		configuration.Seed = *seed
	}

	VerbosityLevel = configuration.Verbosity
	sipm.SetLogger(slogAdapter{})
	if VerbosityLevel > 0 {
		printConfiguration(configuration, InfoLog)
	}

	if err := configuration.Sensor.Validate(); err != nil {
		ErrorLog.Error(fmt.Sprintf("Invalid sensor properties: %v", err))
		return
	}

	if !configuration.NoDB && configuration.Sensor.PdeType == sipm.PdeSpectrum {
		dbConn, err = ConnectToDatabase(configuration.User, configuration.Passwd,
			configuration.Host, configuration.DBName)
		if err != nil {
			ErrorLog.Error(fmt.Sprintf("Error connecting to database: %v", err))
			return
		}
		spectrum, err := getPdeSpectrumFromDB(dbConn, configuration.RunNumber)
		if err != nil {
			ErrorLog.Error(fmt.Sprintf("Error reading PDE spectrum: %v", err))
			return
		}
		configuration.Sensor.SetPdeSpectrum(spectrum)
		InfoLog.Info(fmt.Sprintf("PDE spectrum read from DB: %d points", len(spectrum)), "module", "database")
	}

	times, wavelengths := generatePhotonEvents(configuration)
	InfoLog.Info(fmt.Sprintf("Generated %d events", len(times)), "module", "main")

	writer := NewWriter(configuration)
	defer writer.Close()

	jobs := make(chan WorkerData, configuration.NumWorkers)
	results := make(chan EventResult, 1000)

	var wg sync.WaitGroup
	for w := 0; w < configuration.NumWorkers; w++ {
		wg.Add(1)
		go worker(w, configuration, jobs, results, &wg)
	}
	go sendEventsToWorkers(times, wavelengths, jobs)
	go func() {
		wg.Wait()
		close(results)
	}()

	start := time.Now()
	integrals := make([]float64, 0, configuration.Events)
	evtsProcessed := 0
	for event := range results {
		if VerbosityLevel > 1 {
			InfoLog.Info(fmt.Sprintf("Processed event %d", event.Idx), "module", "main")
		}
		if !event.Error {
			writer.WriteEvent(configuration, &event)
			if event.Integral >= 0 {
				integrals = append(integrals, event.Integral)
			}
		}
		evtsProcessed++
	}
	duration := time.Since(start)

	mean, std := stat.MeanStdDev(integrals, nil)
	InfoLog.Info(fmt.Sprintf("Events processed: %d (%d over threshold)", evtsProcessed, len(integrals)), "module", "main")
	InfoLog.Info(fmt.Sprintf("Integral: %f +- %f", mean, std), "module", "main")
	InfoLog.Info(fmt.Sprintf("Total time: %d ms", duration.Milliseconds()), "module", "main")
}
