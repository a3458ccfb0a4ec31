// Package library ties one manager per template family to a dataset
// directory.
package library

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
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/simmeta/internal/core/events/bus"
	"github.com/zeusync/simmeta/internal/core/metadata/attributes"
	"github.com/zeusync/simmeta/internal/core/metadata/managers"
	"github.com/zeusync/simmeta/internal/core/observability/log"
)

// DefaultPhysicsHandle names the physics template stages take their world
// defaults from, when the dataset has one.
const DefaultPhysicsHandle = "default"

// Library owns the registries of one dataset.
type Library struct {
	root   string
	log    log.Log
	events bus.EventBus

	Objects  *managers.ObjectManager
	Stages   *managers.StageManager
	Assets   *managers.AssetManager
	Lighting *managers.LightLayoutManager
	Pbr      *managers.PbrShaderManager
	Physics  *managers.PhysicsManager
	Scenes   *managers.SceneInstanceManager

	families []Family

	mu      sync.Mutex
	sources map[string]source
}

// source is what the library remembers about one loaded file.
type source struct {
	family string
	handle string
	sum    uint64
}

// New builds a library rooted at root. A nil events disables registry
// events.
func New(root string, logger log.Log, events bus.EventBus) *Library {
	if logger == nil {
		logger = log.Nop()
	}
	opts := []managers.ManagerOption{
		managers.WithRoot(root),
		managers.WithLogger(logger),
		managers.WithEventBus(events),
	}
	l := &Library{
		root:     root,
		log:      logger.With(log.String("component", "library")),
		events:   events,
		Objects:  managers.NewObjectManager(opts...),
		Stages:   managers.NewStageManager(opts...),
		Assets:   managers.NewAssetManager(opts...),
		Lighting: managers.NewLightLayoutManager(opts...),
		Pbr:      managers.NewPbrShaderManager(opts...),
		Physics:  managers.NewPhysicsManager(opts...),
		Scenes:   managers.NewSceneInstanceManager(opts...),
		sources:  make(map[string]source),
	}
	l.families = []Family{
		familyView[*attributes.PhysicsManagerAttributes]{l.Physics.Manager},
		familyView[*attributes.StageAttributes]{l.Stages.Manager},
		familyView[*attributes.ObjectAttributes]{l.Objects.Manager},
		familyView[attributes.PrimitiveAttributes]{l.Assets.Manager},
		familyView[*attributes.LightLayoutAttributes]{l.Lighting.Manager},
		familyView[*attributes.PbrShaderAttributes]{l.Pbr.Manager},
		familyView[*attributes.SceneInstanceAttributes]{l.Scenes.Manager},
	}
	return l
}

func (l *Library) Root() string { return l.root }

// Families lists every family in load order.
func (l *Library) Families() []Family {
	return append([]Family(nil), l.families...)
}

// Family looks a family up by name, e.g. "objects".
func (l *Library) Family(name string) (Family, bool) {
	for _, f := range l.families {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// familyForPath picks the family whose suffix path ends with.
func (l *Library) familyForPath(path string) (Family, bool) {
	for _, f := range l.families {
		if f.Suffix() != "" && strings.HasSuffix(path, f.Suffix()) {
			return f, true
		}
	}
	return nil, false
}

// LoadSummary describes one LoadDataset or Reload pass.
type LoadSummary struct {
	Loaded    map[string]int     `json:"loaded"`
	Unchanged int                `json:"unchanged"`
	Removed   int                `json:"removed"`
	Failed    []string           `json:"failed,omitempty"`
	Reports   []*managers.Report `json:"reports,omitempty"`
	Duration  time.Duration      `json:"duration"`
}

// Warnings counts diagnostics over all reports.
func (s *LoadSummary) Warnings() int {
	n := 0
	for _, r := range s.Reports {
		n += len(r.Warnings)
	}
	return n
}

// LoadDataset loads every config file under the root. Files whose content
// is unchanged since the last pass are skipped, and templates whose file
// disappeared are removed, so LoadDataset doubles as a reload.
func (l *Library) LoadDataset(ctx context.Context) (*LoadSummary, error) {
	start := time.Now()
	found, err := l.scan()
	if err != nil {
		return nil, err
	}

	sums := make(map[string]uint64, len(found))
	var hashed int64
	var sumMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for path := range found {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			sumMu.Lock()
			sums[path] = xxhash.Sum64(data)
			hashed += int64(len(data))
			sumMu.Unlock()
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	summary := &LoadSummary{Loaded: make(map[string]int)}
	byFamily := make(map[string][]string)
	l.mu.Lock()
	for path, fam := range found {
		if prev, ok := l.sources[path]; ok && prev.sum == sums[path] {
			summary.Unchanged++
			continue
		}
		byFamily[fam.Name()] = append(byFamily[fam.Name()], path)
	}
	var gone []string
	physicsChanged := len(byFamily["physics"]) > 0
	for path, src := range l.sources {
		if _, ok := found[path]; !ok {
			gone = append(gone, path)
			physicsChanged = physicsChanged || src.family == "physics"
		}
	}
	// Stages copy their world defaults from physics at build time, so a
	// physics change rebuilds every stage still on disk.
	if physicsChanged {
		pending := make(map[string]struct{}, len(byFamily["stages"]))
		for _, path := range byFamily["stages"] {
			pending[path] = struct{}{}
		}
		for path, src := range l.sources {
			if _, ok := pending[path]; ok || src.family != "stages" {
				continue
			}
			if _, ok := found[path]; ok {
				byFamily["stages"] = append(byFamily["stages"], path)
				summary.Unchanged--
			}
		}
	}
	l.mu.Unlock()

	for _, paths := range byFamily {
		sort.Strings(paths)
	}
	summary.Removed = l.removeSources(gone)

	var mu sync.Mutex
	record := func(family string, path, handle string, report *managers.Report, err error) {
		mu.Lock()
		defer mu.Unlock()
		if report != nil {
			summary.Reports = append(summary.Reports, report)
		}
		if err != nil {
			summary.Failed = append(summary.Failed, path)
			return
		}
		summary.Loaded[family]++
		l.mu.Lock()
		l.sources[path] = source{family: family, handle: handle, sum: sums[path]}
		l.mu.Unlock()
	}

	// Physics first: stages built afterwards read their world defaults
	// from it.
	physErr := loadInto(ctx, l.Physics.Manager, byFamily["physics"], record)
	phys, _ := l.defaultPhysics()
	l.Stages.SetPhysicsDefaults(phys)

	lg, lctx := errgroup.WithContext(ctx)
	var loadErrs []error
	var errMu sync.Mutex
	collect := func(err error) {
		if err != nil {
			errMu.Lock()
			loadErrs = append(loadErrs, err)
			errMu.Unlock()
		}
	}
	lg.Go(func() error { collect(loadInto(lctx, l.Stages.Manager, byFamily["stages"], record)); return nil })
	lg.Go(func() error { collect(loadInto(lctx, l.Objects.Manager, byFamily["objects"], record)); return nil })
	lg.Go(func() error { collect(loadInto(lctx, l.Lighting.Manager, byFamily["lighting"], record)); return nil })
	lg.Go(func() error { collect(loadInto(lctx, l.Pbr.Manager, byFamily["pbr"], record)); return nil })
	lg.Go(func() error { collect(loadInto(lctx, l.Scenes.Manager, byFamily["scenes"], record)); return nil })
	_ = lg.Wait()
	if summary.Loaded["scenes"] > 0 {
		l.Scenes.LogSummary()
	}

	summary.Duration = time.Since(start)
	sort.Strings(summary.Failed)
	l.log.Info("dataset loaded",
		log.String("root", l.root),
		log.Int("files", len(found)),
		log.Int64("bytes", hashed),
		log.Int("unchanged", summary.Unchanged),
		log.Int("removed", summary.Removed),
		log.Int("failed", len(summary.Failed)),
		log.Int("warnings", summary.Warnings()),
		log.Duration("took", summary.Duration),
	)
	if l.events != nil {
		ev := bus.NewEvent(bus.DatasetLoaded, "dataset", l.root, attributes.IDUnset, "")
		ev.Source = "library"
		if err := l.events.Publish(ev); err != nil {
			l.log.Warn("event handler failed", log.Error(err))
		}
	}
	return summary, errors.Join(append([]error{physErr}, loadErrs...)...)
}

// scan walks the root and returns every config file with its family.
func (l *Library) scan() (map[string]Family, error) {
	found := make(map[string]Family)
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if fam, ok := l.familyForPath(path); ok {
			found[path] = fam
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", l.root, err)
	}
	return found, nil
}

func (l *Library) removeSources(paths []string) int {
	removed := 0
	for _, path := range paths {
		l.mu.Lock()
		src := l.sources[path]
		delete(l.sources, path)
		l.mu.Unlock()
		if err := l.removeHandle(src.family, src.handle); err != nil {
			l.log.Warn("could not drop template of deleted file", log.String("path", path), log.Error(err))
			continue
		}
		removed++
	}
	return removed
}

func (l *Library) removeHandle(family, handle string) error {
	var err error
	switch family {
	case "physics":
		_, err = l.Physics.RemoveObjectByHandle(handle)
	case "stages":
		_, err = l.Stages.RemoveObjectByHandle(handle)
	case "objects":
		_, err = l.Objects.RemoveObjectByHandle(handle)
	case "lighting":
		_, err = l.Lighting.RemoveObjectByHandle(handle)
	case "pbr":
		_, err = l.Pbr.RemoveObjectByHandle(handle)
	case "scenes":
		_, err = l.Scenes.RemoveObjectByHandle(handle)
	default:
		err = fmt.Errorf("%w: family %q", managers.ErrNotFound, family)
	}
	return err
}

// defaultPhysics picks the physics template named DefaultPhysicsHandle, or
// the only one if there is exactly one.
func (l *Library) defaultPhysics() (*attributes.PhysicsManagerAttributes, bool) {
	handles := l.Physics.Handles("")
	for _, h := range handles {
		if attributes.SimplifyHandle(h) == DefaultPhysicsHandle {
			return l.Physics.GetObjectByHandle(h)
		}
	}
	if len(handles) == 1 {
		return l.Physics.GetObjectByHandle(handles[0])
	}
	return nil, false
}

type recordFunc func(family, path, handle string, report *managers.Report, err error)

func loadInto[T managers.Template[T]](ctx context.Context, m *managers.Manager[T], paths []string, record recordFunc) error {
	if len(paths) == 0 {
		return nil
	}
	results, err := m.LoadFiles(ctx, paths)
	for _, r := range results {
		record(m.Name(), r.Path, r.Handle, r.Report, r.Err)
	}
	return err
}

// Describe renders one template for display: its schema values and user
// configuration.
func Describe(a attributes.Attributes) map[string]any {
	return map[string]any{
		"class":        a.ClassKey(),
		"handle":       a.Handle(),
		"id":           a.ID(),
		"dirty":        a.IsDirty(),
		"values":       a.Values(),
		"user_defined": a.UserConfig(),
	}
}
