// Package logger sets up the structured event log of the shell and reads it
// back for reporting.
package logger
