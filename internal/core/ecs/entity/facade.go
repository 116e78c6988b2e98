package entity

import (
	"unsafe"

	"github.com/ariaforge/ecsforge/internal/core/ecs/handle"
	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
)

// Facade is a value wrapping a strong handle to a Body. K fixes which
// concrete storage kind (Avl or Hash) this entity was made with; it is the
// only thing that distinguishes AvlEntity from HashEntity at the type
// level. The zero value is the null entity.
type Facade[K Tag] struct {
	h handle.Strong[Body]
}

// AvlEntity and HashEntity name the two concrete entity kinds the core
// ships: one per component container backend.
type AvlEntity = Facade[Avl]
type HashEntity = Facade[Hash]

// MakeEntity allocates a fresh body of the kind selected by K and returns a
// strong handle to it. reg may be nil to use registry.Default.
func MakeEntity[K Tag](reg *registry.Registry) Facade[K] {
	var tag K
	body := newBody(tag.kind(), reg)
	return Facade[K]{h: handle.MakeStrong(body, destroyBody)}
}

// IsNull reports whether e is bound to no body.
func (e Facade[K]) IsNull() bool { return e.h.IsNull() }

// Equal reports whether e and rhs share the same body.
func (e Facade[K]) Equal(rhs Facade[K]) bool { return e.h.Equal(rhs.h) }

// Hash returns the identity hash of e's body, 0 for a null entity.
func (e Facade[K]) Hash() uintptr { return e.h.OwnerHash() }

// Swap exchanges the handles (not the bodies) of e and rhs.
func (e *Facade[K]) Swap(rhs *Facade[K]) { e.h, rhs.h = rhs.h, e.h }

// Destroy releases e's owning handle. Every component still present runs
// its destructor once e was the body's last owner. e is null afterward.
func (e *Facade[K]) Destroy() {
	e.h.Release()
	e.h = handle.Strong[Body]{}
}

// RequestDeletion sets the body's deletion flag for a scene to act on.
func (e Facade[K]) RequestDeletion() {
	e.mustBody("RequestDeletion").deletionRequested = true
}

// DeletionRequested reports whether RequestDeletion has been called.
func (e Facade[K]) DeletionRequested() bool {
	return e.mustBody("DeletionRequested").deletionRequested
}

// SetHomeScene records scene as e's owning collaborator. The core does not
// interpret scene; it is opaque storage for whatever the scene package
// wants to stash (see internal/core/scene).
func (e Facade[K]) SetHomeScene(scene any) {
	e.mustBody("SetHomeScene").scene = scene
}

// HomeScene returns whatever was last passed to SetHomeScene, or nil.
func (e Facade[K]) HomeScene() any {
	return e.mustBody("HomeScene").scene
}

// AsRef erases e into a weak observer that can later be promoted back
// (subject to a Kind check) or promoted to a read-only view.
func (e Facade[K]) AsRef() Ref { return Ref{w: e.h.Weaken()} }

// AsConstRef erases e directly into a read-only weak observer, without
// going through AsConst first.
func (e Facade[K]) AsConstRef() ConstRef { return ConstRef{w: e.h.Weaken()} }

func (e Facade[K]) mustBody(op string) *Body {
	if e.h.IsNull() {
		panic((&Error{Kind: NullHandle, Op: op}).Error())
	}
	return e.h.Get()
}

func keyOf[T any](b *Body) registry.Key { return registry.KeyFor[T](b.reg) }

// Add1 constructs a fresh A on e, failing with Duplicate if one is already
// present.
func Add1[K Tag, A any](e Facade[K]) (*A, error) {
	b := e.mustBody("Add")
	if b.has(keyOf[A](b)) {
		return nil, &Error{Kind: Duplicate, Op: "Add", Type: descriptorName[A](b.reg)}
	}
	v, err := addOne[A](b, nil)
	if err != nil {
		return nil, err
	}
	notify[A](b, v)
	return v, nil
}

// Add2 constructs A and B on e, all-or-nothing: if either is already
// present, neither is constructed. On an Avl-kind entity the pair is boxed
// into a single shared multi-node rather than two independently-refcounted
// ones; on a Hash-kind entity the container is reserved for both up front
// so neither Insert can trigger a rehash mid-pack.
func Add2[K Tag, A, B any](e Facade[K]) (*A, *B, error) {
	b := e.mustBody("Add")
	ka, kb := keyOf[A](b), keyOf[B](b)
	assertDistinct(ka, kb)
	if b.has(ka) || b.has(kb) {
		return nil, nil, &Error{Kind: Duplicate, Op: "Add"}
	}
	b.reserveHash(ka, kb)
	shared := b.packAvl(2)
	a, _ := addOne[A](b, shared)
	bb, _ := addOne[B](b, shared)
	notify[A](b, a)
	notify[B](b, bb)
	return a, bb, nil
}

// Add3 constructs A, B and C on e, all-or-nothing, packed and reserved the
// same way Add2 does.
func Add3[K Tag, A, B, C any](e Facade[K]) (*A, *B, *C, error) {
	b := e.mustBody("Add")
	ka, kb, kc := keyOf[A](b), keyOf[B](b), keyOf[C](b)
	assertDistinct(ka, kb, kc)
	if b.has(ka) || b.has(kb) || b.has(kc) {
		return nil, nil, nil, &Error{Kind: Duplicate, Op: "Add"}
	}
	b.reserveHash(ka, kb, kc)
	shared := b.packAvl(3)
	a, _ := addOne[A](b, shared)
	bb, _ := addOne[B](b, shared)
	c, _ := addOne[C](b, shared)
	notify[A](b, a)
	notify[B](b, bb)
	notify[C](b, c)
	return a, bb, c, nil
}

// Add4 constructs A, B, C and D on e, all-or-nothing, packed and reserved
// the same way Add2 does.
func Add4[K Tag, A, B, C, D any](e Facade[K]) (*A, *B, *C, *D, error) {
	b := e.mustBody("Add")
	ka, kb, kc, kd := keyOf[A](b), keyOf[B](b), keyOf[C](b), keyOf[D](b)
	assertDistinct(ka, kb, kc, kd)
	if b.has(ka) || b.has(kb) || b.has(kc) || b.has(kd) {
		return nil, nil, nil, nil, &Error{Kind: Duplicate, Op: "Add"}
	}
	b.reserveHash(ka, kb, kc, kd)
	shared := b.packAvl(4)
	a, _ := addOne[A](b, shared)
	bb, _ := addOne[B](b, shared)
	c, _ := addOne[C](b, shared)
	d, _ := addOne[D](b, shared)
	notify[A](b, a)
	notify[B](b, bb)
	notify[C](b, c)
	notify[D](b, d)
	return a, bb, c, d, nil
}

// Ensure1 adds A if not already present, then returns it either way.
func Ensure1[K Tag, A any](e Facade[K]) *A {
	b := e.mustBody("Ensure")
	if v, ok := lookupOne[A](b); ok {
		return v
	}
	v, _ := addOne[A](b, nil)
	notify[A](b, v)
	return v
}

// Ensure2 ensures A and B are both present, each independently (unlike Add,
// an already-present member of the pair does not block the other from
// being added).
func Ensure2[K Tag, A, B any](e Facade[K]) (*A, *B) {
	a := Ensure1[K, A](e)
	bb := Ensure1[K, B](e)
	return a, bb
}

// Ensure3 ensures A, B and C are each present.
func Ensure3[K Tag, A, B, C any](e Facade[K]) (*A, *B, *C) {
	a := Ensure1[K, A](e)
	b := Ensure1[K, B](e)
	c := Ensure1[K, C](e)
	return a, b, c
}

// Ensure4 ensures A, B, C and D are each present.
func Ensure4[K Tag, A, B, C, D any](e Facade[K]) (*A, *B, *C, *D) {
	a := Ensure1[K, A](e)
	b := Ensure1[K, B](e)
	c := Ensure1[K, C](e)
	d := Ensure1[K, D](e)
	return a, b, c, d
}

// Get1 returns A, failing with Missing if absent.
func Get1[K Tag, A any](e Facade[K]) (*A, error) {
	b := e.mustBody("Get")
	if v, ok := lookupOne[A](b); ok {
		return v, nil
	}
	return nil, &Error{Kind: Missing, Op: "Get", Type: descriptorName[A](b.reg)}
}

// Get2 returns A and B, failing with Missing if either is absent.
func Get2[K Tag, A, B any](e Facade[K]) (*A, *B, error) {
	a, err := Get1[K, A](e)
	if err != nil {
		return nil, nil, err
	}
	b, err := Get1[K, B](e)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// Get3 returns A, B and C, failing with Missing if any is absent.
func Get3[K Tag, A, B, C any](e Facade[K]) (*A, *B, *C, error) {
	a, b, err := Get2[K, A, B](e)
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := Get1[K, C](e)
	if err != nil {
		return nil, nil, nil, err
	}
	return a, b, c, nil
}

// Get4 returns A, B, C and D, failing with Missing if any is absent.
func Get4[K Tag, A, B, C, D any](e Facade[K]) (*A, *B, *C, *D, error) {
	a, b, c, err := Get3[K, A, B, C](e)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	d, err := Get1[K, D](e)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return a, b, c, d, nil
}

// Ptr1 returns a pointer to A, or nil if absent. Never fails.
func Ptr1[K Tag, A any](e Facade[K]) *A {
	v, _ := lookupOne[A](e.mustBody("Ptr"))
	return v
}

// Ptr2 returns pointers to A and B, nil in place of any that is absent.
func Ptr2[K Tag, A, B any](e Facade[K]) (*A, *B) {
	return Ptr1[K, A](e), Ptr1[K, B](e)
}

// Ptr3 returns pointers to A, B and C, nil in place of any that is absent.
func Ptr3[K Tag, A, B, C any](e Facade[K]) (*A, *B, *C) {
	return Ptr1[K, A](e), Ptr1[K, B](e), Ptr1[K, C](e)
}

// Ptr4 returns pointers to A, B, C and D, nil in place of any that is
// absent.
func Ptr4[K Tag, A, B, C, D any](e Facade[K]) (*A, *B, *C, *D) {
	return Ptr1[K, A](e), Ptr1[K, B](e), Ptr1[K, C](e), Ptr1[K, D](e)
}

// Has reports whether A is present on e.
func Has[K Tag, A any](e Facade[K]) bool {
	b := e.mustBody("Has")
	return b.has(keyOf[A](b))
}

// HasAll2 reports whether both A and B are present.
func HasAll2[K Tag, A, B any](e Facade[K]) bool {
	return Has[K, A](e) && Has[K, B](e)
}

// HasAll3 reports whether A, B and C are all present.
func HasAll3[K Tag, A, B, C any](e Facade[K]) bool {
	return Has[K, A](e) && Has[K, B](e) && Has[K, C](e)
}

// HasAll4 reports whether A, B, C and D are all present.
func HasAll4[K Tag, A, B, C, D any](e Facade[K]) bool {
	return Has[K, A](e) && Has[K, B](e) && Has[K, C](e) && Has[K, D](e)
}

// HasAny2 reports whether at least one of A or B is present.
func HasAny2[K Tag, A, B any](e Facade[K]) bool {
	return Has[K, A](e) || Has[K, B](e)
}

// HasAny3 reports whether at least one of A, B or C is present.
func HasAny3[K Tag, A, B, C any](e Facade[K]) bool {
	return Has[K, A](e) || Has[K, B](e) || Has[K, C](e)
}

// HasAny4 reports whether at least one of A, B, C or D is present.
func HasAny4[K Tag, A, B, C, D any](e Facade[K]) bool {
	return Has[K, A](e) || Has[K, B](e) || Has[K, C](e) || Has[K, D](e)
}

// Remove1 removes A, failing with Missing if absent.
func Remove1[K Tag, A any](e Facade[K]) error {
	b := e.mustBody("Remove")
	if !b.has(keyOf[A](b)) {
		return &Error{Kind: Missing, Op: "Remove", Type: descriptorName[A](b.reg)}
	}
	removeOne[A](b)
	return nil
}

// Remove2 removes A and B, failing with Missing (and removing neither) if
// either is absent.
func Remove2[K Tag, A, B any](e Facade[K]) error {
	b := e.mustBody("Remove")
	ka, kb := keyOf[A](b), keyOf[B](b)
	if !b.has(ka) || !b.has(kb) {
		return &Error{Kind: Missing, Op: "Remove"}
	}
	removeOne[A](b)
	removeOne[B](b)
	return nil
}

// Remove3 removes A, B and C, failing with Missing (and removing none) if
// any is absent.
func Remove3[K Tag, A, B, C any](e Facade[K]) error {
	b := e.mustBody("Remove")
	ka, kb, kc := keyOf[A](b), keyOf[B](b), keyOf[C](b)
	if !b.has(ka) || !b.has(kb) || !b.has(kc) {
		return &Error{Kind: Missing, Op: "Remove"}
	}
	removeOne[A](b)
	removeOne[B](b)
	removeOne[C](b)
	return nil
}

// Remove4 removes A, B, C and D, failing with Missing (and removing none)
// if any is absent.
func Remove4[K Tag, A, B, C, D any](e Facade[K]) error {
	b := e.mustBody("Remove")
	ka, kb, kc, kd := keyOf[A](b), keyOf[B](b), keyOf[C](b), keyOf[D](b)
	if !b.has(ka) || !b.has(kb) || !b.has(kc) || !b.has(kd) {
		return &Error{Kind: Missing, Op: "Remove"}
	}
	removeOne[A](b)
	removeOne[B](b)
	removeOne[C](b)
	removeOne[D](b)
	return nil
}

func notify[T any](b *Body, v *T) {
	if v == nil {
		return
	}
	registry.NotifyAddition(b.reg, descriptorName[T](b.reg), unsafe.Pointer(v))
}

// descriptorName looks up T's registered diagnostic name. T is already
// registered by the time this runs (addOne/lookupOne call KeyFor first),
// so the lookup always succeeds.
func descriptorName[T any](reg *registry.Registry) string {
	d, _ := reg.DescriptorFor(registry.KeyFor[T](reg))
	return d.Name
}

func assertDistinct(keys ...registry.Key) {
	seen := make(map[registry.Key]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			fatalf("duplicate type in parameter pack (key %d repeated)", k)
		}
		seen[k] = true
	}
}
