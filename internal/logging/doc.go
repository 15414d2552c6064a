// Package logging provides structured logging for medic.
//
// Logs are JSON lines produced by log/slog. They go to a file under the
// configured log directory so they never disturb the full-screen interface;
// without a directory they go to stderr.
//
// # Basic Usage
//
//	logger, err := logging.NewLoggerWithRotation(dir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.WithRun(runID).WithProbe("storage").Info("benchmark finished", "write_kbps", 2400)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"benchmark finished","run_id":"...","probe":"storage","write_kbps":2400}
//
// # Log Rotation
//
// [RotatingWriter] rotates medic.log once it exceeds MaxSizeMB. Backups are
// named medic.log.1 (newest) through medic.log.N, gzipped when Compress is set.
//
// # Testing
//
// Use [NopLogger] to discard all output.
package logging
