// Package log provides structured logging for the oil toolkit.
//
// Package: log
// Title: oil Structured Logging Framework
// Description: This package keeps the platform logger API (Fields, levels,
//              contextual loggers, timers, severity-aware error logging) and
//              renders entries through log/slog handlers. Text and JSON output
//              are fanned out with slog-multi, optionally together with the
//              systemd journal.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-19 v0.2.0: Output through slog handlers, journald sink, dropped async mode
//
// Usage:
//   import mdwlog "github.com/msto63/oil/foundation/core/log"
//
//   logger, err := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Format: mdwlog.FormatText})
//   logger.Info("parse finished", mdwlog.Fields{"statements": 3})
//
//   timer := logger.StartTimer("parse")
//   defer timer.Stop()
package log
