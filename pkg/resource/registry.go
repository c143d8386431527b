package resource

import (
	"sync"

	"github.com/hsguild/warden/pkg/audit"
	"github.com/hsguild/warden/pkg/log"
	"github.com/hsguild/warden/pkg/tdb"
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/werr"
)

// Registry holds every resource known to this instance, keyed by ID.
// It implements pkg/session's PrivilegeLookup.
type Registry struct {
	mu        sync.RWMutex
	resources map[types.ResourceID]*Resource
	typed     *tdb.TypedDB[types.Status]
	auditLog  *audit.Log
	index     *tdb.IndexManager
}

// NewRegistry opens the shared "resource" sub-database inside env,
// loads its index side-car (next_id counter and category secondary
// index), and returns an empty registry backed by both. Callers then
// call Register once per resource declared in configuration.
func NewRegistry(env *tdb.Environment, auditLog *audit.Log) (*Registry, error) {
	db, err := env.Create("resource")
	if err != nil {
		return nil, werr.Wrap(werr.IoFailure, err, "open resource database")
	}
	index, err := tdb.LoadIndexManager(env.Path() + ".resource.index")
	if err != nil {
		return nil, werr.Wrap(werr.IoFailure, err, "load resource index")
	}
	return &Registry{
		resources: make(map[types.ResourceID]*Resource),
		typed:     tdb.NewTypedDB[types.Status](db, statusRecordVersion),
		auditLog:  auditLog,
		index:     index,
	}, nil
}

// Register adds desc to the registry, restoring its last committed
// status from TDB if one exists, or starting at defaultStatus
// otherwise (used for a resource declared in config for the first
// time). desc.ID is also appended to the category secondary index, so
// ByCategory stays current as resources are declared.
func (reg *Registry) Register(desc types.ResourceDescription, defaultStatus types.Status) (*Resource, error) {
	current := defaultStatus
	err := reg.typed.View(func(txn *tdb.Txn) error {
		v, found, err := reg.typed.Get(txn, stateKey(desc.ID))
		if err != nil {
			return err
		}
		if found {
			current = v
		}
		return nil
	})
	if err != nil {
		return nil, werr.Wrap(werr.IoFailure, err, "load resource state")
	}

	r := newResource(desc, current, reg.typed, reg.auditLog, reg.index)

	reg.mu.Lock()
	reg.resources[desc.ID] = r
	reg.mu.Unlock()

	if desc.Category != "" {
		reg.index.AddToSecondary(desc.Category, string(desc.ID))
	}
	return r, nil
}

// ByCategory returns every registered resource whose category matches,
// in the order the index side-car recorded them.
func (reg *Registry) ByCategory(category string) []*Resource {
	ids := reg.index.Secondary(category)
	out := make([]*Resource, 0, len(ids))
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for _, id := range ids {
		if r, ok := reg.resources[types.ResourceID(id)]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Get returns the resource registered under id.
func (reg *Registry) Get(id types.ResourceID) (*Resource, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.resources[id]
	if !ok {
		return nil, werr.New(werr.NotFound, "no such resource: "+string(id))
	}
	return r, nil
}

// Privileges implements pkg/session.PrivilegeLookup.
func (reg *Registry) Privileges(id types.ResourceID) (types.Privileges, error) {
	r, err := reg.Get(id)
	if err != nil {
		return types.Privileges{}, err
	}
	return r.Description().Privileges, nil
}

// All returns every registered resource, in no particular order.
func (reg *Registry) All() []*Resource {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Resource, 0, len(reg.resources))
	for _, r := range reg.resources {
		out = append(out, r)
	}
	return out
}

// ReleaseSession propagates a dropped session to every resource's
// ledger; only resources the session actually held an entry on do
// anything.
func (reg *Registry) ReleaseSession(sessionID string) {
	for _, r := range reg.All() {
		_ = r.ReleaseSession(sessionID)
	}
}

// Stop shuts down every resource's update queue and flushes the index
// side-car so the next_id counter and category index survive restart.
func (reg *Registry) Stop() {
	for _, r := range reg.All() {
		r.Stop()
	}
	if err := reg.index.Flush(); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to flush resource index")
	}
}
