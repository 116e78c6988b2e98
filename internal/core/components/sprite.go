package components

import "errors"

// SpriteComponent holds 2D sprite rendering information. TextureID is a
// Go string, so like TransformComponent this belongs on an AVL-backed
// entity: a string header carries a pointer the hash container's byte
// arena cannot keep the GC aware of.
type SpriteComponent struct {
	TextureID  string
	SourceRect AABB
	Color      Color
	ZOrder     int
	Visible    bool
	FlipX      bool
	FlipY      bool
}

// NewSpriteComponent returns a visible, untinted white sprite with no
// texture bound yet.
func NewSpriteComponent() *SpriteComponent {
	return &SpriteComponent{
		Color:   Color{R: 255, G: 255, B: 255, A: 255},
		Visible: true,
	}
}

// SetTexture sets the bound texture and its source rectangle.
func (s *SpriteComponent) SetTexture(textureID string, sourceRect AABB) {
	s.TextureID = textureID
	s.SourceRect = sourceRect
}

// Validate reports whether s's fields are in a usable state.
func (s *SpriteComponent) Validate() error {
	if s.SourceRect.Max.X < s.SourceRect.Min.X || s.SourceRect.Max.Y < s.SourceRect.Min.Y {
		return errors.New("invalid source rectangle: max must be >= min")
	}
	return nil
}
