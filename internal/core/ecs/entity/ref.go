package entity

import "github.com/ariaforge/ecsforge/internal/core/ecs/handle"

// Ref is an erased weak observer of a Body: it can outlive every Facade
// that owned the body, and promoting it back to a typed entity requires
// both that the body is still alive (Expired otherwise) and that its Kind
// matches the requested K (TypeMismatch otherwise).
type Ref struct {
	w handle.Weak[Body]
}

// NewRef erases e into a Ref. Equivalent to e.AsRef().
func NewRef[K Tag](e Facade[K]) Ref { return e.AsRef() }

// HasExpired reports whether the observed body has already been destroyed.
func (r Ref) HasExpired() bool { return r.w.HasExpired() }

// Hash returns the identity hash of the observed body, matching the hash
// of the entity r was taken from.
func (r Ref) Hash() uintptr { return r.w.OwnerHash() }

// AsConstRef narrows r to a read-only observer of the same body.
func (r Ref) AsConstRef() ConstRef { return ConstRef{w: r.w} }

// Promote locks r and downcasts it to Facade[K], failing with Expired if
// the body is gone or TypeMismatch if it was not made with kind K.
func Promote[K Tag](r Ref) (Facade[K], error) {
	s, err := r.w.Lock()
	if err != nil {
		return Facade[K]{}, &Error{Kind: Expired, Op: "Promote"}
	}
	var tag K
	if s.Get().kind != tag.kind() {
		s.Release()
		return Facade[K]{}, &Error{Kind: TypeMismatch, Op: "Promote"}
	}
	return Facade[K]{h: s}, nil
}

// ConstRef is the read-only counterpart of Ref: it may only be promoted to
// a ConstFacade, never to a mutable Facade.
type ConstRef struct {
	w handle.Weak[Body]
}

// NewConstRef erases any typed entity's const view into a ConstRef.
func NewConstRef[K Tag](c ConstFacade[K]) ConstRef { return c.AsConstRef() }

// HasExpired reports whether the observed body has already been destroyed.
func (r ConstRef) HasExpired() bool { return r.w.HasExpired() }

// Hash returns the identity hash of the observed body.
func (r ConstRef) Hash() uintptr { return r.w.OwnerHash() }

// PromoteConst locks r and downcasts it to a read-only ConstFacade[K],
// failing the same way Promote does.
func PromoteConst[K Tag](r ConstRef) (ConstFacade[K], error) {
	s, err := r.w.Lock()
	if err != nil {
		return ConstFacade[K]{}, &Error{Kind: Expired, Op: "Promote"}
	}
	var tag K
	if s.Get().kind != tag.kind() {
		s.Release()
		return ConstFacade[K]{}, &Error{Kind: TypeMismatch, Op: "Promote"}
	}
	return Facade[K]{h: s}.AsConst(), nil
}
