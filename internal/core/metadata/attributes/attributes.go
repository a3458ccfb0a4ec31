// Package attributes holds the metadata templates consumed when simulated
// entities are instantiated: stages, rigid objects, primitives, lights, PBR
// shading, physics defaults and composite scene instances.
//
// Every template embeds Base, which carries identity (handle, class key,
// registry ID), the dirty flag and a free-form user configuration. Schema
// fields live in typed struct fields reachable only through named accessors;
// Values renders them into a config.Configuration for inspection.
package attributes

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zeusync/simmeta/internal/core/metadata/config"
)

// IDUnset is the ID of a template that has never been registered.
const IDUnset = -1

var (
	ErrSchemaIntegrity = errors.New("attributes values must be changed through named accessors")
	ErrReadOnly        = errors.New("attributes field is read-only")
)

// ManagedObject is anything a registry can hold.
type ManagedObject interface {
	Handle() string
	SetHandle(handle string)
	ID() int
	SetID(id int)
	ClassKey() string
}

// FileBasedManagedObject is a ManagedObject that may have been loaded from disk.
type FileBasedManagedObject interface {
	ManagedObject
	FileDirectory() string
	SetFileDirectory(dir string)
}

// Attributes is the contract shared by every template.
type Attributes interface {
	FileBasedManagedObject

	SimplifiedHandle() string
	IsDirty() bool
	MarkClean()

	UserConfig() *config.Configuration
	NumUserDefinedConfigurations() int

	// Values renders the schema fields, in schema order.
	Values() *config.Configuration
	// Set is the untyped entry point inherited from Configuration. It always
	// fails: schema fields have typed accessors and free-form data belongs in
	// UserConfig.
	Set(key string, value any) error

	ObjectInfoHeader() string
	ObjectInfo() string
}

// Base carries the identity and bookkeeping common to all templates.
type Base struct {
	handle        string
	classKey      string
	id            int
	fileDirectory string
	dirty         bool
	user          *config.Configuration

	values func() *config.Configuration
	owner  func()
}

// bind initializes b for a freshly constructed template whose schema is
// rendered by values.
func (b *Base) bind(classKey, handle string, values func() *config.Configuration) {
	b.classKey = classKey
	b.handle = handle
	b.id = IDUnset
	b.values = values
	b.user = config.New()
	b.user.OnChange(b.markDirty)
}

// rebind fixes up a shallow copy made by Clone: the copy gets its own user
// configuration and schema renderer and no owner.
func (b *Base) rebind(values func() *config.Configuration) {
	b.values = values
	b.owner = nil
	b.user = b.user.Clone()
	b.user.OnChange(b.markDirty)
}

func (b *Base) markDirty() {
	b.dirty = true
	if b.owner != nil {
		b.owner()
	}
}

// setOwner routes dirty notifications to a containing template.
func (b *Base) setOwner(fn func()) {
	b.owner = fn
}

func (b *Base) Handle() string        { return b.handle }
func (b *Base) ClassKey() string      { return b.classKey }
func (b *Base) ID() int               { return b.id }
func (b *Base) FileDirectory() string { return b.fileDirectory }
func (b *Base) IsDirty() bool         { return b.dirty }

// MarkClean clears the dirty flag. Registries call it once a template's
// current state has been published.
func (b *Base) MarkClean() { b.dirty = false }

// SetID is used by registries; it does not dirty the template.
func (b *Base) SetID(id int) { b.id = id }

func (b *Base) SetHandle(handle string) {
	b.handle = handle
	b.markDirty()
}

func (b *Base) SetFileDirectory(dir string) {
	b.fileDirectory = dir
	b.markDirty()
}

// SimplifiedHandle strips any directory and config-file suffix from the
// handle, e.g. "scenes/apt_1.scene_instance.json" becomes "apt_1".
func (b *Base) SimplifiedHandle() string {
	return SimplifyHandle(b.handle)
}

// UserConfig returns the free-form configuration attached to this template.
// Mutations through it mark the template dirty.
func (b *Base) UserConfig() *config.Configuration { return b.user }

// NumUserDefinedConfigurations counts user values and sub-configurations,
// recursively.
func (b *Base) NumUserDefinedConfigurations() int { return b.user.NumEntries() }

func (b *Base) Values() *config.Configuration {
	if b.values == nil {
		return config.New()
	}
	return b.values()
}

func (b *Base) Set(key string, value any) error {
	v, ok := config.ValueOf(value)
	if !ok {
		return fmt.Errorf("%w: %T cannot be stored on %s; use UserConfig()", ErrSchemaIntegrity, value, b.classKey)
	}
	if field, reserved := b.Values().Get(key); reserved {
		return fmt.Errorf("%w: %q is a %s field of %s", ErrSchemaIntegrity, key, field.Type(), b.classKey)
	}
	return fmt.Errorf("%w: %s value for %q on %s belongs in UserConfig()", ErrSchemaIntegrity, v.Type(), key, b.classKey)
}

// ObjectInfoHeader names the comma separated columns of ObjectInfo.
func (b *Base) ObjectInfoHeader() string {
	return "Class,Handle,ID," + strings.Join(b.Values().Keys(), ",") + ",User Defined Entries"
}

// ObjectInfo is a comma separated summary of this template.
func (b *Base) ObjectInfo() string {
	vals := b.Values()
	cols := make([]string, 0, vals.NumValues()+4)
	cols = append(cols, b.classKey, b.handle, strconv.Itoa(b.id))
	for _, k := range vals.Keys() {
		cols = append(cols, vals.GetAsString(k))
	}
	cols = append(cols, strconv.Itoa(b.NumUserDefinedConfigurations()))
	return strings.Join(cols, ",")
}

// SimplifyHandle is SimplifiedHandle for a bare string.
func SimplifyHandle(handle string) string {
	name := filepath.Base(handle)
	name = strings.TrimSuffix(name, ".json")
	if i := strings.LastIndex(name, "."); i > 0 {
		ext := name[i+1:]
		if strings.HasSuffix(ext, "_config") || ext == "scene_instance" {
			name = name[:i]
		}
	}
	return name
}
