package systems

import (
	"sort"

	"github.com/ariaforge/ecsforge/internal/core/components"
	"github.com/ariaforge/ecsforge/internal/core/ecs/entity"
	"github.com/ariaforge/ecsforge/internal/core/scene"
)

// Camera describes the rendering viewport's position, zoom, and rotation.
type Camera struct {
	Position components.Vector2
	Zoom     float64
	Rotation float64
}

// Viewport is the visible world-space rectangle used for culling.
type Viewport struct {
	X, Y, Width, Height float64
}

// Renderable holds everything a host renderer needs to draw one entity,
// gathered by RenderingSystem.Update and sorted by ZOrder.
type Renderable struct {
	Entity    entity.Ref
	Transform *components.TransformComponent
	Sprite    *components.SpriteComponent
}

// RenderingSystem gathers visible, Z-ordered sprites every tick. It does not
// draw anything itself; the list Visible returns is handed to a host renderer
// (cmd/game's ebiten draw loop).
type RenderingSystem struct {
	*BaseSystem

	viewport *Viewport
	camera   Camera

	visible []Renderable
}

// NewRenderingSystem returns a rendering system with no viewport culling and
// an identity camera.
func NewRenderingSystem() *RenderingSystem {
	return &RenderingSystem{
		BaseSystem: newBaseSystem("rendering", RenderingPriority),
		camera:     Camera{Zoom: 1.0},
	}
}

// SetViewport sets the world-space rectangle used for culling. Pass nil to
// disable culling.
func (rs *RenderingSystem) SetViewport(v *Viewport) { rs.viewport = v }

// Viewport returns the current culling viewport, or nil.
func (rs *RenderingSystem) Viewport() *Viewport { return rs.viewport }

// SetCamera sets the camera position, zoom, and rotation.
func (rs *RenderingSystem) SetCamera(camera Camera) { rs.camera = camera }

// Camera returns the current camera settings.
func (rs *RenderingSystem) Camera() Camera { return rs.camera }

// Update gathers every visible, sprite-bearing entity into rs.visible,
// sorted by ascending ZOrder. A host renderer calls Visible after Update to
// retrieve the result.
func (rs *RenderingSystem) Update(s *scene.Scene[entity.Avl], dt float64) error {
	if !rs.Enabled() {
		return nil
	}

	entities := s.Entities()
	return rs.recordRun(len(entities), func() error {
		rs.visible = rs.visible[:0]
		for _, e := range entities {
			transform, sprite := entity.Ptr2[entity.Avl, components.TransformComponent, components.SpriteComponent](e)
			if transform == nil || sprite == nil || !sprite.Visible {
				continue
			}
			if !rs.isInViewport(transform, sprite) {
				continue
			}
			rs.visible = append(rs.visible, Renderable{
				Entity:    entity.NewRef(e),
				Transform: transform,
				Sprite:    sprite,
			})
		}
		rs.sortByZOrder(rs.visible)
		return nil
	})
}

// Visible returns the entities gathered by the last Update, sorted by
// ascending ZOrder.
func (rs *RenderingSystem) Visible() []Renderable {
	out := make([]Renderable, len(rs.visible))
	copy(out, rs.visible)
	return out
}

// isInViewport reports whether an entity's sprite bounds intersect the
// configured viewport. With no viewport set, culling is disabled.
func (rs *RenderingSystem) isInViewport(transform *components.TransformComponent, sprite *components.SpriteComponent) bool {
	if rs.viewport == nil {
		return true
	}

	spriteWidth := sprite.SourceRect.Max.X - sprite.SourceRect.Min.X
	spriteHeight := sprite.SourceRect.Max.Y - sprite.SourceRect.Min.Y

	entityLeft := transform.Position.X
	entityRight := transform.Position.X + spriteWidth
	entityTop := transform.Position.Y
	entityBottom := transform.Position.Y + spriteHeight

	viewportLeft := rs.viewport.X
	viewportRight := rs.viewport.X + rs.viewport.Width
	viewportTop := rs.viewport.Y
	viewportBottom := rs.viewport.Y + rs.viewport.Height

	return !(entityRight < viewportLeft ||
		entityLeft > viewportRight ||
		entityBottom < viewportTop ||
		entityTop > viewportBottom)
}

// sortByZOrder sorts renderables by ascending ZOrder for back-to-front
// drawing.
func (rs *RenderingSystem) sortByZOrder(renderables []Renderable) {
	sort.Slice(renderables, func(i, j int) bool {
		return renderables[i].Sprite.ZOrder < renderables[j].Sprite.ZOrder
	})
}

// WorldToScreen converts a world-space position to screen space under the
// current camera.
func (rs *RenderingSystem) WorldToScreen(worldPos components.Vector2) components.Vector2 {
	screenX := (worldPos.X - rs.camera.Position.X) * rs.camera.Zoom
	screenY := (worldPos.Y - rs.camera.Position.Y) * rs.camera.Zoom
	return components.Vector2{X: screenX, Y: screenY}
}
