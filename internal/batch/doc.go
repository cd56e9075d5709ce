// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package batch owns the identity of one execution of the job.
//
// A Run derives its batch name from the configuration and the clock the first
// time it is asked and keeps it for its whole lifetime, so every artifact of
// the run lands in the same output folder:
//
//	<output_path>/<batch_prefix>_<model_choice>_<YYYY-MM-DDTHH:MM:SSZ>
//
// Callers create one Run per process and pass it to whoever writes output.
package batch
