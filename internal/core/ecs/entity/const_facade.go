package entity

// ConstFacade is the read-only view of a Facade: get/has/ptr but no
// add/ensure/remove/request_deletion. It shares the same underlying body,
// so mutations made through a Facade are visible here.
type ConstFacade[K Tag] struct {
	e Facade[K]
}

// AsConst narrows e to a read-only view of the same body.
func (e Facade[K]) AsConst() ConstFacade[K] { return ConstFacade[K]{e: e} }

func (c ConstFacade[K]) IsNull() bool                  { return c.e.IsNull() }
func (c ConstFacade[K]) Equal(rhs ConstFacade[K]) bool { return c.e.Equal(rhs.e) }
func (c ConstFacade[K]) Hash() uintptr                 { return c.e.Hash() }
func (c ConstFacade[K]) AsConstRef() ConstRef          { return ConstRef{w: c.e.h.Weaken()} }

// CGet1 returns a read-only pointer to A, failing with Missing if absent.
func CGet1[K Tag, A any](c ConstFacade[K]) (*A, error) { return Get1[K, A](c.e) }

// CPtr1 returns a read-only pointer to A, or nil if absent.
func CPtr1[K Tag, A any](c ConstFacade[K]) *A { return Ptr1[K, A](c.e) }

// CHas reports whether A is present.
func CHas[K Tag, A any](c ConstFacade[K]) bool { return Has[K, A](c.e) }

// CHasAll2 reports whether both A and B are present.
func CHasAll2[K Tag, A, B any](c ConstFacade[K]) bool { return HasAll2[K, A, B](c.e) }

// CHasAny2 reports whether at least one of A or B is present.
func CHasAny2[K Tag, A, B any](c ConstFacade[K]) bool { return HasAny2[K, A, B](c.e) }
