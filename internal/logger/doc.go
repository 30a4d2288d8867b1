// Package logger wraps zap with a process-wide sugared logger and carries
// scoped loggers through context.Context.
//
// Components never hold a logger field. They receive a context and log via
// the helpers here (InfoKV, WarnKV, ...), which pick up whatever name and
// key-value pairs the caller attached with WithName and WithKV.
package logger
