/*
archive.go - Multi-job export envelope

ENVELOPE SCHEMA:
  {
    "type": "w2b_all_jobs",
    "version": 1,
    "activeJobId": "...",
    "jobs": [{"id": "...", "name": "..."}],
    "jobData": {"<jobId>": <bundle>}
  }

IMPORT VALIDATION:
  Job list entries require a non-empty, unique id and a string name;
  malformed entries are dropped silently. Bundles are normalized field
  by field (bundle.go); a wrong-typed field inside one bundle costs
  that field its value, nothing more. The archive as a whole is
  rejected only for JSON syntax errors, a wrong envelope type, or a
  job list that normalizes to empty - those are the caller-notified
  cases.
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/profile"
)

const (
	// ArchiveType tags the export envelope.
	ArchiveType = "w2b_all_jobs"

	// ArchiveVersion is the current envelope version.
	ArchiveVersion = 1
)

// ErrEmptyArchive is returned when an import's job list normalizes to
// empty. This is the only wholesale rejection on an import path.
var ErrEmptyArchive = errors.New("archive contains no usable jobs")

// ArchiveJSON is the wire form of a full multi-job export. Bundles stay
// raw here so a wrong-typed field inside one job's bundle degrades that
// field alone (ParseBundle), never the archive.
type ArchiveJSON struct {
	Type        string                     `json:"type"`
	Version     int                        `json:"version"`
	ActiveJobID string                     `json:"activeJobId"`
	Jobs        []profile.Ref              `json:"jobs"`
	JobData     map[string]json.RawMessage `json:"jobData"`
}

// Archive is the parsed, normalized result of an import.
type Archive struct {
	ActiveJobID string
	Jobs        []profile.Ref
	Data        map[string]*profile.Job
}

// ParseArchive validates and normalizes a multi-job import payload.
func ParseArchive(data []byte, today engine.Day) (*Archive, error) {
	var a ArchiveJSON
	if err := json.Unmarshal(data, &a); err != nil {
		// A wrong-typed envelope field degrades to its zero value and
		// whatever decoded before it stands; only syntax errors and the
		// like reject the archive outright.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("malformed archive: %w", err)
		}
	}
	if a.Type != ArchiveType {
		return nil, fmt.Errorf("unexpected archive type %q", a.Type)
	}

	out := &Archive{Data: make(map[string]*profile.Job)}
	seen := make(map[string]bool)
	for _, ref := range a.Jobs {
		// Malformed entries are dropped silently.
		if ref.ID == "" || seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		out.Jobs = append(out.Jobs, ref)

		// Each bundle goes through the same tolerant field-by-field
		// path as a single-job load; absent data yields defaults.
		out.Data[ref.ID] = ParseBundle(a.JobData[ref.ID], ref.ID, ref.Name, today)
	}
	if len(out.Jobs) == 0 {
		return nil, ErrEmptyArchive
	}

	out.ActiveJobID = a.ActiveJobID
	if !seen[out.ActiveJobID] {
		out.ActiveJobID = out.Jobs[0].ID
	}
	return out, nil
}

// ExportArchive builds the envelope for the given jobs.
func ExportArchive(activeID string, jobs map[string]*profile.Job, order []profile.Ref) ([]byte, error) {
	a := ArchiveJSON{
		Type:        ArchiveType,
		Version:     ArchiveVersion,
		ActiveJobID: activeID,
		Jobs:        order,
		JobData:     make(map[string]json.RawMessage, len(jobs)),
	}
	for id, job := range jobs {
		raw, err := json.Marshal(BundleFromJob(job))
		if err != nil {
			return nil, err
		}
		a.JobData[id] = raw
	}
	return json.MarshalIndent(a, "", "  ")
}
