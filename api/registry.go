/*
registry.go - Multi-job bookkeeping over the key-value store

PURPOSE:
  Owns the store key layout and the job lifecycle: listing, creation,
  deletion, active-job switching, and full-archive import/export.
  Switching persists the outgoing job's bundle before the active
  pointer moves, so the engine only ever sees one complete bundle.

KEY LAYOUT:
  jobs          JSON [{id, name}] in display order
  active_job    id of the active job
  job:<id>      the job's bundle (factory.BundleJSON)

ERROR POSTURE:
  Corrupted values load as defaults; only store I/O failures surface
  as errors. Nothing here is fatal - worst case the state reverts to
  defaults.
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/profile"
	"github.com/warp/payroll-engine/store"
)

const (
	keyJobs   = "jobs"
	keyActive = "active_job"
	keyJob    = "job:"
)

// ErrJobNotFound is returned for operations on an unknown job id.
var ErrJobNotFound = errors.New("job not found")

// Registry is the job bookkeeping service. All methods are safe for a
// single logical writer with concurrent readers, matching the store
// contract.
type Registry struct {
	kv store.KV

	// now supplies "today" for default start dates; a field so tests
	// can pin it.
	now func() engine.Day
}

func NewRegistry(kv store.KV) *Registry {
	return &Registry{
		kv:  kv,
		now: func() engine.Day { return engine.TodayIn(time.Local) },
	}
}

// List returns the job references in display order.
func (r *Registry) List(ctx context.Context) ([]profile.Ref, error) {
	raw, ok, err := r.kv.Get(ctx, keyJobs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var refs []profile.Ref
	if err := json.Unmarshal([]byte(raw), &refs); err != nil {
		return nil, nil // corrupted list reads as empty
	}
	return refs, nil
}

func (r *Registry) saveList(ctx context.Context, refs []profile.Ref) error {
	data, err := json.Marshal(refs)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, keyJobs, string(data))
}

// Create mints a new job with defaults, appends it to the list, and
// makes it active if nothing else is.
func (r *Registry) Create(ctx context.Context, name string) (*profile.Job, error) {
	job := profile.NewJob(uuid.NewString(), name, r.now())
	if err := r.Save(ctx, job); err != nil {
		return nil, err
	}

	refs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	refs = append(refs, profile.Ref{ID: job.ID, Name: job.Name})
	if err := r.saveList(ctx, refs); err != nil {
		return nil, err
	}

	if _, ok, err := r.kv.Get(ctx, keyActive); err != nil {
		return nil, err
	} else if !ok {
		if err := r.kv.Set(ctx, keyActive, job.ID); err != nil {
			return nil, err
		}
	}
	return job, nil
}

// Load reads one job's bundle. Missing or corrupted bundles load as a
// defaults-only job; an id absent from the job list is ErrJobNotFound.
func (r *Registry) Load(ctx context.Context, id string) (*profile.Job, error) {
	refs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var ref *profile.Ref
	for i := range refs {
		if refs[i].ID == id {
			ref = &refs[i]
			break
		}
	}
	if ref == nil {
		return nil, ErrJobNotFound
	}

	raw, _, err := r.kv.Get(ctx, keyJob+id)
	if err != nil {
		return nil, err
	}
	return factory.ParseBundle([]byte(raw), ref.ID, ref.Name, r.now()), nil
}

// Save persists one job's full bundle and keeps the list name in sync.
func (r *Registry) Save(ctx context.Context, job *profile.Job) error {
	data, err := factory.SerializeBundle(job)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, keyJob+job.ID, string(data)); err != nil {
		return err
	}

	refs, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range refs {
		if refs[i].ID == job.ID && refs[i].Name != job.Name {
			refs[i].Name = job.Name
			return r.saveList(ctx, refs)
		}
	}
	return nil
}

// Active loads the currently active job. With no jobs at all it
// returns ErrJobNotFound; callers typically Create a first job then.
func (r *Registry) Active(ctx context.Context) (*profile.Job, error) {
	id, ok, err := r.kv.Get(ctx, keyActive)
	if err != nil {
		return nil, err
	}
	if !ok {
		refs, err := r.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(refs) == 0 {
			return nil, ErrJobNotFound
		}
		id = refs[0].ID
	}
	return r.Load(ctx, id)
}

// Switch persists the outgoing job (when supplied), then moves the
// active pointer and loads the incoming bundle. The incoming job never
// sees partial state from the outgoing one.
func (r *Registry) Switch(ctx context.Context, outgoing *profile.Job, incomingID string) (*profile.Job, error) {
	if outgoing != nil {
		if err := r.Save(ctx, outgoing); err != nil {
			return nil, err
		}
	}
	job, err := r.Load(ctx, incomingID)
	if err != nil {
		return nil, err
	}
	if err := r.kv.Set(ctx, keyActive, incomingID); err != nil {
		return nil, err
	}
	return job, nil
}

// Delete removes a job and its bundle. Deleting the active job moves
// the pointer to the first remaining job, if any.
func (r *Registry) Delete(ctx context.Context, id string) error {
	refs, err := r.List(ctx)
	if err != nil {
		return err
	}
	kept := refs[:0]
	found := false
	for _, ref := range refs {
		if ref.ID == id {
			found = true
			continue
		}
		kept = append(kept, ref)
	}
	if !found {
		return ErrJobNotFound
	}
	if err := r.saveList(ctx, kept); err != nil {
		return err
	}
	if err := r.kv.Delete(ctx, keyJob+id); err != nil {
		return err
	}

	active, ok, err := r.kv.Get(ctx, keyActive)
	if err != nil {
		return err
	}
	if ok && active == id {
		if len(kept) > 0 {
			return r.kv.Set(ctx, keyActive, kept[0].ID)
		}
		return r.kv.Delete(ctx, keyActive)
	}
	return nil
}

// Export builds the full multi-job archive.
func (r *Registry) Export(ctx context.Context) ([]byte, error) {
	refs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	active, _, err := r.kv.Get(ctx, keyActive)
	if err != nil {
		return nil, err
	}

	jobs := make(map[string]*profile.Job, len(refs))
	for _, ref := range refs {
		job, err := r.Load(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		jobs[ref.ID] = job
	}
	return factory.ExportArchive(active, jobs, refs)
}

// Import replaces the whole registry with the archive's contents. The
// archive is validated first; an unusable archive leaves the existing
// state untouched.
func (r *Registry) Import(ctx context.Context, data []byte) error {
	arch, err := factory.ParseArchive(data, r.now())
	if err != nil {
		return err
	}

	// Drop bundles that are about to become orphans.
	old, err := r.kv.Keys(ctx, keyJob)
	if err != nil {
		return err
	}
	for _, k := range old {
		if err := r.kv.Delete(ctx, k); err != nil {
			return err
		}
	}

	for id, job := range arch.Data {
		data, err := factory.SerializeBundle(job)
		if err != nil {
			return err
		}
		if err := r.kv.Set(ctx, keyJob+id, string(data)); err != nil {
			return err
		}
	}
	if err := r.saveList(ctx, arch.Jobs); err != nil {
		return err
	}
	return r.kv.Set(ctx, keyActive, arch.ActiveJobID)
}
