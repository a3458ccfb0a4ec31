// Package managers holds the registries that build attributes templates from
// JSON documents and hand them out by handle or ID.
package managers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/simmeta/internal/core/events/bus"
	"github.com/zeusync/simmeta/internal/core/metadata/attributes"
	"github.com/zeusync/simmeta/internal/core/observability/log"
)

// Template is what a Manager stores: attributes that can copy themselves.
type Template[T any] interface {
	attributes.Attributes
	Clone() T
}

// family supplies the per-schema steps of a Manager.
type family[T Template[T]] interface {
	// initNewObject builds a schema-default template for handle.
	initNewObject(handle string) (T, error)
	// setValsFromJSONDoc populates obj from a parsed document. Recoverable
	// issues go to the reader's report; a returned error aborts the load.
	setValsFromJSONDoc(obj T, r *jsonReader) error
	// preRegister validates obj and returns the handle to register it under.
	preRegister(obj T, handle string) (string, error)
}

// ManagerOption configures a Manager.
type ManagerOption func(*ManagerConfig)

// ManagerConfig holds the collaborators of a Manager.
type ManagerConfig struct {
	Root   string       // Directory config files are resolved against
	Logger log.Log      // Destination of load diagnostics
	Events bus.EventBus // Receives registration events, may be nil
}

// WithRoot sets the directory that handles are resolved against.
func WithRoot(dir string) ManagerOption {
	return func(c *ManagerConfig) { c.Root = dir }
}

// WithLogger sets the manager logger.
func WithLogger(l log.Log) ManagerOption {
	return func(c *ManagerConfig) { c.Logger = l }
}

// WithEventBus publishes registry changes to b.
func WithEventBus(b bus.EventBus) ManagerOption {
	return func(c *ManagerConfig) { c.Events = b }
}

// Manager is a registry of one template family keyed by handle, with stable
// integer IDs.
type Manager[T Template[T]] struct {
	name   string
	suffix string
	fam    family[T]
	root   string
	log    log.Log
	events bus.EventBus

	mu          sync.RWMutex
	objects     map[string]T
	idByHandle  map[string]int
	handleByID  map[int]string
	nextID      int
	locked      map[string]struct{}
	undeletable map[string]struct{}
	defaultObj  T
	hasDefault  bool

	// copyOnAccess stores and hands out copies, for families whose handle
	// is derived from the template's contents.
	copyOnAccess bool
}

func newManager[T Template[T]](name, suffix string, fam family[T], opts ...ManagerOption) *Manager[T] {
	cfg := ManagerConfig{Logger: log.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Root != "" {
		cfg.Root = filepath.Clean(cfg.Root)
	}
	return &Manager[T]{
		name:        name,
		suffix:      suffix,
		fam:         fam,
		root:        cfg.Root,
		log:         cfg.Logger.With(log.String("manager", name)),
		events:      cfg.Events,
		objects:     make(map[string]T),
		idByHandle:  make(map[string]int),
		handleByID:  make(map[int]string),
		locked:      make(map[string]struct{}),
		undeletable: make(map[string]struct{}),
	}
}

// Name is the template family, e.g. "objects".
func (m *Manager[T]) Name() string { return m.name }

// Suffix is the config file suffix of the family, e.g. ".object_config.json".
func (m *Manager[T]) Suffix() string { return m.suffix }

func (m *Manager[T]) Root() string { return m.root }

// CreateObject builds a template for handle. If a config file for handle
// exists under the root it is parsed; otherwise a default template is built
// and the fallback logged. A missing file is not an error.
func (m *Manager[T]) CreateObject(handle string, register bool) (T, *Report, error) {
	var zero T
	if handle == "" {
		return zero, nil, ErrEmptyHandle
	}
	path, found, err := m.resolveFile(handle)
	if err != nil {
		return zero, nil, err
	}
	if !found {
		m.log.Info("no config file found, using defaults", log.String("handle", handle))
		obj, err := m.CreateDefaultObject(handle)
		if err != nil {
			return zero, nil, err
		}
		report := newReport(handle, m.log)
		if register {
			if _, err = m.RegisterObject(obj, handle, false); err != nil {
				return zero, report, err
			}
		}
		return obj, report, nil
	}
	return m.createFromFile(handle, path, register)
}

// CreateObjectFromJSON builds a template for handle from an in-memory
// document.
func (m *Manager[T]) CreateObjectFromJSON(handle string, doc []byte, register bool) (T, *Report, error) {
	var zero T
	if handle == "" {
		return zero, nil, ErrEmptyHandle
	}
	obj, report, err := m.buildFromJSON(handle, doc)
	if err != nil {
		return zero, report, err
	}
	if register {
		if _, err = m.RegisterObject(obj, handle, false); err != nil {
			return zero, report, err
		}
	}
	return obj, report, nil
}

// CreateDefaultObject builds an unregistered template for handle from the
// manager default object if one is set, else from schema defaults.
func (m *Manager[T]) CreateDefaultObject(handle string) (T, error) {
	m.mu.RLock()
	def, ok := m.defaultObj, m.hasDefault
	m.mu.RUnlock()
	if ok {
		obj := def.Clone()
		obj.SetID(attributes.IDUnset)
		obj.SetHandle(handle)
		obj.MarkClean()
		return obj, nil
	}
	obj, err := m.fam.initNewObject(handle)
	if err != nil {
		var zero T
		return zero, err
	}
	return obj, nil
}

func (m *Manager[T]) createFromFile(handle, path string, register bool) (T, *Report, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, nil, fmt.Errorf("read %s: %w", path, err)
	}
	obj, report, err := m.buildFromJSON(handle, data)
	if err != nil {
		return zero, report, fmt.Errorf("%s: %w", path, err)
	}
	obj.SetFileDirectory(filepath.Dir(path))
	if register {
		if _, err = m.RegisterObject(obj, handle, false); err != nil {
			return zero, report, err
		}
	}
	return obj, report, nil
}

func (m *Manager[T]) buildFromJSON(handle string, doc []byte) (T, *Report, error) {
	var zero T
	report := newReport(handle, m.log)
	if !gjson.ValidBytes(doc) {
		return zero, report, fmt.Errorf("%w: %s", ErrInvalidDocument, handle)
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return zero, report, fmt.Errorf("%w: %s is not a JSON object", ErrInvalidDocument, handle)
	}
	obj, err := m.CreateDefaultObject(handle)
	if err != nil {
		return zero, report, err
	}
	if err = m.fam.setValsFromJSONDoc(obj, newJSONReader(root, "", report)); err != nil {
		return zero, report, err
	}
	return obj, report, nil
}

// resolveFile maps handle to a config file under the root. handle may name
// the file itself or a stem to which the family suffix is appended; it can
// never resolve outside the root.
func (m *Manager[T]) resolveFile(handle string) (string, bool, error) {
	if m.suffix == "" {
		return "", false, nil
	}
	candidates := []string{handle}
	if !strings.HasSuffix(handle, m.suffix) {
		candidates = []string{handle + m.suffix, handle}
	}
	for _, c := range candidates {
		path := c
		if m.root != "" {
			joined, err := securejoin.SecureJoin(m.root, c)
			if err != nil {
				return "", false, fmt.Errorf("resolve %q: %w", handle, err)
			}
			path = joined
		}
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, true, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", false, fmt.Errorf("resolve %q: %w", handle, err)
		}
	}
	return "", false, nil
}

// RegisterObject stores obj under handle and returns its ID. A handle that
// was registered before keeps its ID; a new handle gets an ID never handed
// out before. Registration clears the dirty flag. Locked handles refuse
// replacement unless forceReplace is set.
//
// An object already stored under another handle is not aliased: if its
// handle changed since (a renamed template, or a primitive whose built
// handle follows its parameters) the old entry is dropped, otherwise a copy
// is stored under the new handle.
func (m *Manager[T]) RegisterObject(obj T, handle string, forceReplace bool) (int, error) {
	if handle == "" {
		handle = obj.Handle()
	}
	handle, err := m.fam.preRegister(obj, handle)
	if err != nil {
		return attributes.IDUnset, err
	}
	if handle == "" {
		return attributes.IDUnset, ErrEmptyHandle
	}

	stored := obj
	if m.copyOnAccess {
		stored = obj.Clone()
	}

	m.mu.Lock()
	id, exists := m.idByHandle[handle]
	if _, isLocked := m.locked[handle]; exists && isLocked && !forceReplace {
		m.mu.Unlock()
		return attributes.IDUnset, fmt.Errorf("%w: %s %q", ErrHandleLocked, m.name, handle)
	}

	moved, movedID := "", attributes.IDUnset
	if prev, ok := m.aliasedHandle(obj, handle); ok {
		if obj.Handle() == prev {
			stored = obj.Clone()
		} else {
			if m.protected(prev) {
				m.mu.Unlock()
				return attributes.IDUnset, fmt.Errorf("%w: %s %q cannot be renamed to %q", ErrHandleLocked, m.name, prev, handle)
			}
			moved, movedID = prev, m.idByHandle[prev]
			m.dropLocked(prev)
		}
	}

	if !exists {
		id = m.nextID
		m.nextID++
		m.idByHandle[handle] = id
		m.handleByID[id] = handle
	}
	for _, o := range []T{stored, obj} {
		if o.Handle() != handle {
			o.SetHandle(handle)
		}
		o.SetID(id)
		o.MarkClean()
		if !m.copyOnAccess {
			break
		}
	}
	m.objects[handle] = stored
	m.mu.Unlock()

	if moved != "" {
		m.publish(bus.TemplateRemoved, moved, movedID, obj.ClassKey())
	}
	m.publish(bus.TemplateRegistered, handle, id, obj.ClassKey())
	m.log.Debug("registered template", log.String("handle", handle), log.Int("id", id))
	return id, nil
}

// aliasedHandle reports the other handle obj itself is stored under, if any.
// Callers hold m.mu.
func (m *Manager[T]) aliasedHandle(obj T, handle string) (string, bool) {
	if m.copyOnAccess || obj.ID() == attributes.IDUnset {
		return "", false
	}
	prev, ok := m.handleByID[obj.ID()]
	if !ok || prev == handle {
		return "", false
	}
	if cur, ok := m.objects[prev]; !ok || any(cur) != any(obj) {
		return "", false
	}
	return prev, true
}

// protected reports whether handle may not be removed. Callers hold m.mu.
func (m *Manager[T]) protected(handle string) bool {
	_, isLocked := m.locked[handle]
	_, fixed := m.undeletable[handle]
	return isLocked || fixed
}

// dropLocked removes handle from the maps. Callers hold m.mu.
func (m *Manager[T]) dropLocked(handle string) {
	id := m.idByHandle[handle]
	delete(m.objects, handle)
	delete(m.idByHandle, handle)
	delete(m.handleByID, id)
}

// GetObjectByHandle returns the registered template. Callers share it with
// the registry, except in managers that copy on access; mutate a copy from
// GetObjectCopyByHandle instead.
func (m *Manager[T]) GetObjectByHandle(handle string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[handle]
	if ok && m.copyOnAccess {
		obj = obj.Clone()
	}
	return obj, ok
}

func (m *Manager[T]) GetObjectByID(id int) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	handle, ok := m.handleByID[id]
	if !ok {
		var zero T
		return zero, false
	}
	obj, ok := m.objects[handle]
	if ok && m.copyOnAccess {
		obj = obj.Clone()
	}
	return obj, ok
}

// GetObjectCopyByHandle returns an unshared copy of the registered template.
func (m *Manager[T]) GetObjectCopyByHandle(handle string) (T, error) {
	obj, ok := m.GetObjectByHandle(handle)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %q", ErrNotFound, m.name, handle)
	}
	return obj.Clone(), nil
}

func (m *Manager[T]) GetObjectIDByHandle(handle string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.idByHandle[handle]
	if !ok {
		return attributes.IDUnset, false
	}
	return id, true
}

func (m *Manager[T]) HasHandle(handle string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[handle]
	return ok
}

// Handles lists registered handles containing substr, sorted.
func (m *Manager[T]) Handles(substr string) []string {
	m.mu.RLock()
	out := make([]string, 0, len(m.objects))
	for h := range m.objects {
		if strings.Contains(h, substr) {
			out = append(out, h)
		}
	}
	m.mu.RUnlock()
	sort.Strings(out)
	return out
}

func (m *Manager[T]) NumObjects() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// IsDirty reports whether the registered template was mutated since it was
// last registered.
func (m *Manager[T]) IsDirty(handle string) (bool, error) {
	obj, ok := m.GetObjectByHandle(handle)
	if !ok {
		return false, fmt.Errorf("%w: %s %q", ErrNotFound, m.name, handle)
	}
	return obj.IsDirty(), nil
}

func (m *Manager[T]) NumUserDefinedConfigurations(handle string) (int, error) {
	obj, ok := m.GetObjectByHandle(handle)
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrNotFound, m.name, handle)
	}
	return obj.NumUserDefinedConfigurations(), nil
}

// SetLock toggles replacement and removal protection for handle.
func (m *Manager[T]) SetLock(handle string, lock bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[handle]; !ok {
		return fmt.Errorf("%w: %s %q", ErrNotFound, m.name, handle)
	}
	if lock {
		m.locked[handle] = struct{}{}
	} else {
		delete(m.locked, handle)
	}
	return nil
}

func (m *Manager[T]) IsLocked(handle string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.locked[handle]
	return ok
}

// markUndeletable protects handle from removal for the life of the manager.
func (m *Manager[T]) markUndeletable(handle string) {
	m.mu.Lock()
	m.undeletable[handle] = struct{}{}
	m.mu.Unlock()
}

// RemoveObjectByHandle drops handle from the registry. Its ID is retired,
// not recycled.
func (m *Manager[T]) RemoveObjectByHandle(handle string) (T, error) {
	var zero T
	m.mu.Lock()
	obj, ok := m.objects[handle]
	if !ok {
		m.mu.Unlock()
		return zero, fmt.Errorf("%w: %s %q", ErrNotFound, m.name, handle)
	}
	if m.protected(handle) {
		m.mu.Unlock()
		return zero, fmt.Errorf("%w: %s %q cannot be removed", ErrHandleLocked, m.name, handle)
	}
	id := m.idByHandle[handle]
	m.dropLocked(handle)
	m.mu.Unlock()

	m.publish(bus.TemplateRemoved, handle, id, obj.ClassKey())
	return obj, nil
}

// SetDefaultObject makes new templates start as copies of obj.
func (m *Manager[T]) SetDefaultObject(obj T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultObj, m.hasDefault = obj.Clone(), true
}

// ClearDefaultObject reverts new templates to schema defaults.
func (m *Manager[T]) ClearDefaultObject() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	m.defaultObj, m.hasDefault = zero, false
}

// LoadResult is the outcome of loading one file.
type LoadResult[T any] struct {
	Path   string
	Handle string
	Object T
	ID     int
	Report *Report
	Err    error
}

// LoadFiles parses paths concurrently and registers the results in input
// order. Each path is registered under its path relative to the root. Parse
// failures are reported per file and do not stop the others.
func (m *Manager[T]) LoadFiles(ctx context.Context, paths []string) ([]LoadResult[T], error) {
	results := make([]LoadResult[T], len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			handle := m.handleForPath(p)
			data, err := os.ReadFile(p)
			if err != nil {
				results[i] = LoadResult[T]{Path: p, Handle: handle, ID: attributes.IDUnset, Err: err}
				return nil
			}
			obj, report, err := m.buildFromJSON(handle, data)
			if err == nil {
				obj.SetFileDirectory(filepath.Dir(p))
			}
			results[i] = LoadResult[T]{Path: p, Handle: handle, Object: obj, ID: attributes.IDUnset, Report: report, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	var errs error
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			m.log.Error("failed to load template", log.String("path", r.Path), log.Error(r.Err))
			errs = errors.Join(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
			continue
		}
		r.ID, r.Err = m.RegisterObject(r.Object, r.Handle, false)
		if r.Err != nil {
			errs = errors.Join(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return results, errs
}

func (m *Manager[T]) handleForPath(p string) string {
	if m.root != "" {
		if rel, err := filepath.Rel(m.root, p); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(p)
}

func (m *Manager[T]) publish(typ, handle string, id int, classKey string) {
	if m.events == nil {
		return
	}
	ev := bus.NewEvent(typ, m.name, handle, id, classKey)
	ev.Source = "managers"
	if err := m.events.Publish(ev); err != nil {
		m.log.Warn("event handler failed", log.String("event", typ), log.String("handle", handle), log.Error(err))
	}
}

// basePreRegister is the preRegister step shared by families without extra
// validation.
func basePreRegister[T Template[T]](_ T, handle string) (string, error) {
	return handle, nil
}
