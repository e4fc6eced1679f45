package main

import (
	"reflect"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	sipm "github.com/next-exp/simsipm_go/pkg"
)

type Writer struct {
	File         *hdf5.File
	FirstEvt     bool
	RunGroup     *hdf5.Group
	RDGroup      *hdf5.Group
	SensorsGroup *hdf5.Group
	EventTable   *hdf5.Dataset
	RunInfoTable *hdf5.Dataset
	ParamsTable  *hdf5.Dataset
	Waveforms    *hdf5.Dataset
}

func NewWriter(config Configuration) *Writer {
	// Set string size for HDF5
	hdf5.SetStringLength(STRLEN)

	writer := &Writer{}
	writer.File = openFile(config.FileOut)
	writer.RunGroup, _ = createGroup(writer.File, "Run")
	writer.RDGroup, _ = createGroup(writer.File, "RD")
	writer.SensorsGroup, _ = createGroup(writer.File, "Sensors")
	writer.EventTable = createTable(writer.RunGroup, "events", EventDataHDF5{})
	writer.RunInfoTable = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{})
	writer.ParamsTable = createTable(writer.SensorsGroup, "properties", SensorParamHDF5{})
	return writer
}

func (w *Writer) WriteEvent(config Configuration, event *EventResult) {
	if !w.FirstEvt {
		writeEntryToTable(w.RunInfoTable, RunInfoHDF5{run_number: int32(config.RunNumber)})
		w.writeSensorProperties(config.Sensor)

		if config.WriteWaveforms {
			w.Waveforms = createWaveformsArray(w.RDGroup, "sipmwf", len(event.Signal))
		}
		w.FirstEvt = true
	}

	writeEntryToTable(w.EventTable, EventDataHDF5{
		evt_number: int32(event.Idx),
		integral:   event.Integral,
		peak:       event.Peak,
		tot:        event.Tot,
		toa:        event.Toa,
		top:        event.Top,
		n_pe:       int32(event.Debug.NPe),
		n_dcr:      int32(event.Debug.NDcr),
		n_xt:       int32(event.Debug.NXt),
		n_ap:       int32(event.Debug.NAp),
	})

	if config.WriteWaveforms {
		writeWaveform(w.Waveforms, &event.Signal)
	}
}

// writeSensorProperties stores every scalar sensor parameter (float,
// integer and boolean fields) as a name/value row, using the json tags as
// parameter names.
func (w *Writer) writeSensorProperties(props sipm.Properties) {
	t := reflect.TypeOf(props)
	v := reflect.ValueOf(props)
	entries := make([]SensorParamHDF5, t.NumField())

	fieldsToWrite := 0
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		paramName := f.Tag.Get("json")

		var value float64
		switch f.Type.Kind() {
		case reflect.Float64:
			value = v.Field(i).Float()
		case reflect.Int, reflect.Int32:
			value = float64(v.Field(i).Int())
		case reflect.Bool:
			if v.Field(i).Bool() {
				value = 1
			}
		default:
			// slices (the PDE spectrum) are not scalar parameters
			continue
		}

		entries[fieldsToWrite] = SensorParamHDF5{
			param: convertToHdf5String(paramName),
			value: value,
		}
		fieldsToWrite++
	}
	toWrite := entries[:fieldsToWrite]
	writeArrayToTable(w.ParamsTable, &toWrite)
}

func convertToHdf5String(s string) string {
	if len(s) >= STRLEN {
		return s[:STRLEN-1]
	}
	return s
}

func (w *Writer) Close() {
	w.EventTable.Close()
	w.RunInfoTable.Close()
	w.ParamsTable.Close()
	if w.Waveforms != nil {
		w.Waveforms.Close()
	}
	w.RunGroup.Close()
	w.RDGroup.Close()
	w.SensorsGroup.Close()
	w.File.Close()
}
