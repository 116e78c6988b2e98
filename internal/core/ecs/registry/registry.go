// Package registry implements the process-wide type registry: it hands out
// a stable integer key to every component type on first use and remembers
// the erased operations (size, alignment, move, destroy) needed to store
// that type behind a void pointer.
//
// This is the single erasure point in ecsforge: avlcontainer and
// hashcontainer never know a component's concrete type past construction —
// they carry a *Descriptor instead.
package registry

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// Key is a process-wide, stable-for-the-life-of-the-process identifier for a
// component type. Zero means "no type" and is never assigned to a real
// component.
type Key uint32

// NoKey is the reserved empty key.
const NoKey Key = 0

// Destroyable lets a component type run custom teardown logic: if a
// registered type implements it, Destroy runs it before the component's
// storage is reclaimed.
type Destroyable interface {
	Destroy()
}

// Descriptor is the erased, per-type record every container consults to
// store, relocate, and destroy a component without knowing its static type.
type Descriptor struct {
	Key   Key
	Name  string
	Size  uintptr
	Align uintptr

	// Move constructs a value at dst from the value at src (both pointers
	// to Size bytes of storage aligned to Align) and destroys the value at
	// src, returning dst. Used by hashcontainer during rehash relocation.
	Move func(dst, src unsafe.Pointer) unsafe.Pointer

	// Destroy runs the type's destructor (its Destroy() method, if it
	// implements Destroyable) and then wipes the memory at ptr.
	Destroy func(ptr unsafe.Pointer)
}

// AdditionTracker is invoked once, process-wide, after every successful
// component construction performed through the entity façade's add/ensure
// path. It exists purely for host diagnostics; it never affects semantics.
type AdditionTracker func(typeName string, newObject unsafe.Pointer, ctx any)

// Registry assigns and remembers type keys. The zero value is not usable;
// construct one with New. A process normally uses the single Default
// instance; tests construct isolated registries to avoid cross-test key
// collisions.
type Registry struct {
	mu            sync.Mutex
	byType        map[reflect.Type]Key
	byKey         []*Descriptor // index 0 is always nil (NoKey)
	preferredID   map[reflect.Type]Key
	preferredName map[reflect.Type]string
	next          Key
	tracker       AdditionTracker
	trackerCtx    any
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{
		byType:        make(map[reflect.Type]Key),
		byKey:         []*Descriptor{nil},
		preferredID:   make(map[reflect.Type]Key),
		preferredName: make(map[reflect.Type]string),
	}
}

// Default is the process-wide registry instance used when a container or
// entity façade is not given one explicitly.
var Default = New()

// Prefer records a preferred key and/or diagnostic name for T, to be
// honored the first time KeyFor[T] runs. It must be called before that
// first use; calling it afterward is a no-op, since a type's key, once
// assigned, is immutable.
func Prefer[T any](r *Registry, id Key, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := typeOf[T]()
	if _, already := r.byType[t]; already {
		return
	}
	if id != NoKey {
		r.preferredID[t] = id
	}
	if name != "" {
		r.preferredName[t] = name
	}
}

// SetAdditionTracker installs the process-wide addition-tracker callback,
// replacing any previously installed one. Passing a nil fn clears it.
func SetAdditionTracker(r *Registry, fn AdditionTracker, ctx any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracker = fn
	r.trackerCtx = ctx
}

// notifyAddition invokes the installed tracker, if any. Takes the lock only
// to read the callback, not while calling it, so a tracker is free to touch
// the registry (e.g. to query descriptors) without deadlocking.
func notifyAddition(r *Registry, name string, ptr unsafe.Pointer) {
	r.mu.Lock()
	fn, ctx := r.tracker, r.trackerCtx
	r.mu.Unlock()
	if fn != nil {
		fn(name, ptr, ctx)
	}
}

// NotifyAddition is the entry point the entity façade calls after a
// successful construction; exported so the entity package (which cannot
// import registry's internal helpers) can drive it.
func NotifyAddition(r *Registry, name string, ptr unsafe.Pointer) {
	notifyAddition(r, name, ptr)
}

// KeyFor returns T's process-wide key, assigning one on first use. The
// assignment honors a preferred id set via Prefer, falling back to the next
// free counter value otherwise. A clash between two distinct types over the
// same preferred id is a fatal programmer error and panics.
func KeyFor[T any](r *Registry) Key {
	t := typeOf[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	if k, ok := r.byType[t]; ok {
		return k
	}

	var k Key
	if pid, wantsPreferred := r.preferredID[t]; wantsPreferred {
		if owner := r.typeAtKeyLocked(pid); owner != nil && *owner != t {
			panic(fmt.Sprintf(
				"registry: preferred id %d for %s already claimed by %s",
				pid, t, *owner))
		}
		k = pid
	} else {
		k = r.nextFreeKeyLocked()
	}

	name := t.String()
	if n, ok := r.preferredName[t]; ok {
		name = n
	}

	desc := buildDescriptor[T](k, name)
	r.storeLocked(t, k, desc)
	return k
}

// DescriptorFor returns the descriptor registered under key, if any.
func (r *Registry) DescriptorFor(key Key) (*Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if int(key) >= len(r.byKey) || key == NoKey {
		return nil, false
	}
	d := r.byKey[key]
	return d, d != nil
}

// typeAtKeyLocked returns the reflect.Type currently occupying key, or nil.
// Must be called with r.mu held.
func (r *Registry) typeAtKeyLocked(key Key) *reflect.Type {
	if int(key) >= len(r.byKey) || r.byKey[key] == nil {
		return nil
	}
	for t, k := range r.byType {
		if k == key {
			return &t
		}
	}
	return nil
}

func (r *Registry) nextFreeKeyLocked() Key {
	for {
		r.next++
		if int(r.next) >= len(r.byKey) || r.byKey[r.next] == nil {
			return r.next
		}
	}
}

func (r *Registry) storeLocked(t reflect.Type, k Key, desc *Descriptor) {
	for int(k) >= len(r.byKey) {
		r.byKey = append(r.byKey, nil)
	}
	r.byKey[k] = desc
	r.byType[t] = k
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func buildDescriptor[T any](key Key, name string) *Descriptor {
	var zero T
	return &Descriptor{
		Key:   key,
		Name:  name,
		Size:  unsafe.Sizeof(zero),
		Align: unsafe.Alignof(zero),
		Move: func(dst, src unsafe.Pointer) unsafe.Pointer {
			d := (*T)(dst)
			s := (*T)(src)
			*d = *s
			var blank T
			*s = blank
			return dst
		},
		Destroy: func(ptr unsafe.Pointer) {
			v := (*T)(ptr)
			if d, ok := any(v).(Destroyable); ok {
				d.Destroy()
			}
			var blank T
			*v = blank
		},
	}
}
