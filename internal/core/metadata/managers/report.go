package managers

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zeusync/simmeta/internal/core/observability/log"
)

// Diagnostic is one recoverable issue met while building a template.
type Diagnostic struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return d.Message
	}
	return d.Path + ": " + d.Message
}

// Report collects the diagnostics of one template load. A load that returns
// a nil error produced a usable template, whatever the report holds.
type Report struct {
	ID       uuid.UUID    `json:"id"`
	Handle   string       `json:"handle"`
	Warnings []Diagnostic `json:"warnings,omitempty"`

	log log.Log
}

func newReport(handle string, logger log.Log) *Report {
	return &Report{ID: uuid.New(), Handle: handle, log: logger}
}

// Warn records a diagnostic at path and logs it.
func (r *Report) Warn(path, format string, args ...any) {
	d := Diagnostic{Path: path, Message: fmt.Sprintf(format, args...)}
	r.Warnings = append(r.Warnings, d)
	if r.log != nil {
		r.log.Warn(d.Message,
			log.String("handle", r.Handle),
			log.String("path", path),
			log.String("report", r.ID.String()),
		)
	}
}

// Debug logs without recording a diagnostic.
func (r *Report) Debug(msg string, fields ...log.Field) {
	if r.log != nil {
		r.log.Debug(msg, append(fields, log.String("handle", r.Handle))...)
	}
}

func (r *Report) OK() bool { return len(r.Warnings) == 0 }

func (r *Report) String() string {
	if r.OK() {
		return r.Handle + ": ok"
	}
	parts := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		parts[i] = w.String()
	}
	return fmt.Sprintf("%s: %d warning(s): %s", r.Handle, len(r.Warnings), strings.Join(parts, "; "))
}
