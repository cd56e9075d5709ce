// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics provides Prometheus metrics for batch runs.
//
// Batch jobs do not serve /metrics; the registry is flushed to a file in the
// node exporter textfile format at the end of a run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every batch metric. It is separate from the default
// registerer so textfile output contains only job metrics.
var Registry = prometheus.NewRegistry()

var (
	factory = promauto.With(Registry)

	configLoadsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "batchrun_config_loads_total",
		Help: "Configuration loads by source",
	}, []string{"source"}) // source=file|template

	runsStartedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "batchrun_runs_started_total",
		Help: "Batch runs that resolved a batch name",
	})

	outputFoldersCreatedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "batchrun_output_folders_created_total",
		Help: "Batch output folders created",
	})

	schemaArchivesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "batchrun_schema_archives_total",
		Help: "Schema archives written, by step",
	}, []string{"step"})

	schemaDatasetsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "batchrun_schema_datasets_total",
		Help: "Datasets included in schema archives, by step",
	}, []string{"step"})

	schemaColumnsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "batchrun_schema_columns_total",
		Help: "Columns recorded in schema archives, by step",
	}, []string{"step"})

	lastArchiveTimestamp = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "batchrun_schema_last_archive_timestamp_seconds",
		Help: "Unix time of the last successful schema archive, by step",
	}, []string{"step"})
)

// RecordConfigLoad counts a configuration load from source.
func RecordConfigLoad(source string) {
	configLoadsTotal.WithLabelValues(source).Inc()
}

// RecordRunStarted counts a run whose batch name was resolved.
func RecordRunStarted() {
	runsStartedTotal.Inc()
}

// RecordOutputFolderCreated counts a created batch output folder.
func RecordOutputFolderCreated() {
	outputFoldersCreatedTotal.Inc()
}

// RecordSchemaArchive records a schema archive written for step.
func RecordSchemaArchive(step string, datasets, columns int) {
	schemaArchivesTotal.WithLabelValues(step).Inc()
	schemaDatasetsTotal.WithLabelValues(step).Add(float64(datasets))
	schemaColumnsTotal.WithLabelValues(step).Add(float64(columns))
	lastArchiveTimestamp.WithLabelValues(step).SetToCurrentTime()
}

// WriteTextfile atomically writes the registry to path in the text exposition
// format understood by the node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
