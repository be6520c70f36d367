package logger

import (
	"encoding/json"
	"io"
	"strings"
)

// Entry is the subset of a log line the reports look at.
type Entry struct {
	Level    string  `json:"level"`
	Time     string  `json:"time"`
	Message  string  `json:"msg"`
	Line     string  `json:"line,omitempty"`
	Status   string  `json:"status,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *Entry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var entry Entry
		if err := decoder.Decode(&entry); err != nil {
			return err
		}

		handler(&entry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries int        `json:"log_entries"`
	Levels     StrCounter `json:"levels"`

	Commands CommandReport `json:"command_report"`
}

func (r *Report) Update(le *Entry) {
	r.LogEntries++
	r.Levels.Increment(le.Level)

	if le.Message == MsgCommand {
		r.Commands.update(le)
	}
}

type CommandReport struct {
	Count int `json:"count"`
	// Number of times each executable started a line.
	CommandNames StrCounter `json:"command_names"`
	// Final statuses of the lines.
	Statuses StrCounter `json:"statuses"`
	// Errors reported to the user.
	Errors StrCounter `json:"errors"`
	// Total seconds spent running commands.
	TotalSeconds float64 `json:"total_seconds"`
}

func (r *CommandReport) update(le *Entry) {
	r.Count++
	if fields := strings.Fields(le.Line); len(fields) > 0 {
		r.CommandNames.Increment(fields[0])
	}
	if le.Status != "" {
		r.Statuses.Increment(le.Status)
	}
	if le.Error != "" {
		r.Errors.Increment(le.Error)
	}
	r.TotalSeconds += le.Duration
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}
