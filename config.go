package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	sipm "github.com/next-exp/simsipm_go/pkg"
)

type Configuration struct {
	Events          int     `json:"events"`
	PhotonsMean     float64 `json:"photons_mean"`
	PhotonTimeMean  float64 `json:"photon_time_mean"`
	PhotonTimeSigma float64 `json:"photon_time_sigma"`
	WavelengthMin   float64 `json:"wavelength_min"`
	WavelengthMax   float64 `json:"wavelength_max"`
	Seed            uint64  `json:"seed"`
	NumWorkers      int     `json:"num_workers"`
	IntStart        float64 `json:"int_start"`
	IntGate         float64 `json:"int_gate"`
	Threshold       float64 `json:"threshold"`
	FileOut         string  `json:"file_out"`
	WriteWaveforms  bool    `json:"write_waveforms"`
	NoDB            bool    `json:"no_db"`
	RunNumber       int     `json:"run_number"`
	Host            string  `json:"host"`
	User            string  `json:"user"`
	Passwd          string  `json:"pass"`
	DBName          string  `json:"dbname"`
	Verbosity       int     `json:"verbosity"`

	Sensor sipm.Properties `json:"sensor"`
}

func LoadConfiguration(filename string) (Configuration, error) {
	var config Configuration

	// Set default values
	config.Events = 1000
	config.PhotonsMean = 10
	config.PhotonTimeMean = 25
	config.PhotonTimeSigma = 5
	config.WavelengthMin = 350
	config.WavelengthMax = 550
	config.Seed = 1234567890
	config.NumWorkers = 1
	config.IntStart = 0
	config.IntGate = 250
	config.Threshold = 0.5
	config.FileOut = "sipmsim.h5"
	config.WriteWaveforms = true
	config.NoDB = true
	config.RunNumber = 0
	config.Host = "next.ific.uv.es"
	config.User = "nextreader"
	config.Passwd = "readonly"
	config.DBName = "NEXT100"
	config.Verbosity = 0
	config.Sensor = sipm.DefaultProperties()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

func printConfiguration(config Configuration, logger *slog.Logger) {
	logger.Info(fmt.Sprintf("Events: %d", config.Events), "module", "config")
	logger.Info(fmt.Sprintf("Photons per event (mean): %f", config.PhotonsMean), "module", "config")
	logger.Info(fmt.Sprintf("Photon time: %f +- %f ns", config.PhotonTimeMean, config.PhotonTimeSigma), "module", "config")
	logger.Info(fmt.Sprintf("Seed: %d", config.Seed), "module", "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "module", "config")
	logger.Info(fmt.Sprintf("Integration window: [%f, %f) ns", config.IntStart, config.IntStart+config.IntGate), "module", "config")
	logger.Info(fmt.Sprintf("Threshold: %f", config.Threshold), "module", "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "module", "config")
	logger.Info(fmt.Sprintf("Write waveforms: %t", config.WriteWaveforms), "module", "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "module", "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "module", "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "module", "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "module", "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "module", "config")
	logger.Info(fmt.Sprintf("Sensor cells: %d x %d", config.Sensor.NSideCells, config.Sensor.NSideCells), "module", "config")
	logger.Info(fmt.Sprintf("Sensor sampling: %f ns", config.Sensor.Sampling), "module", "config")
	logger.Info(fmt.Sprintf("Sensor signal length: %f ns", config.Sensor.SignalLength), "module", "config")
	logger.Info(fmt.Sprintf("Sensor PDE: %s", config.Sensor.PdeType), "module", "config")
	logger.Info(fmt.Sprintf("Sensor DCR: %f Hz", config.Sensor.Dcr), "module", "config")
	logger.Info(fmt.Sprintf("Sensor XT: %f", config.Sensor.Xt), "module", "config")
	logger.Info(fmt.Sprintf("Sensor AP: %f", config.Sensor.Ap), "module", "config")
}
