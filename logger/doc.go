// Package logger provides structured logging for shellcmd using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Library packages log
// through named loggers obtained from Get so that an application can swap
// or silence them after calling Init.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("process")
//	log.Debug("process started", logger.Fields(logger.FieldProgram, "grep"))
package logger
