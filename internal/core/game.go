package core

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ariaforge/ecsforge/internal/core/components"
	"github.com/ariaforge/ecsforge/internal/core/ecs/entity"
	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
	"github.com/ariaforge/ecsforge/internal/core/scene"
	"github.com/ariaforge/ecsforge/internal/core/systems"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

// Game wires a Scene and its systems into ebiten's update/draw loop. It owns
// no gameplay state itself; every entity and component lives in scene.
type Game struct {
	reg    *registry.Registry
	scene  *scene.Scene[entity.Avl]
	render *systems.RenderingSystem
}

// NewGame builds a scene populated with a small falling-sprite demo: one
// body with Transform, Sprite, Physics, and Health that falls under gravity,
// plus a static floor collider for PhysicsSystem to collide against. The
// body takes no player input.
func NewGame() *Game {
	reg := registry.New()
	s := scene.New[entity.Avl]()

	movement := systems.NewMovementSystem()
	movement.SetBoundary(&components.AABB{
		Min: components.Vector2{X: 0, Y: 0},
		Max: components.Vector2{X: screenWidth, Y: screenHeight},
	})

	physics := systems.NewPhysicsSystem()
	physics.SetGravity(components.Vector2{X: 0, Y: 480})
	physics.AddStaticCollider(components.AABB{
		Min: components.Vector2{X: 0, Y: screenHeight - 40},
		Max: components.Vector2{X: screenWidth, Y: screenHeight},
	})

	render := systems.NewRenderingSystem()

	s.AddSystem(movement)
	s.AddSystem(physics)
	s.AddSystem(render)
	s.AddSystem(systems.NewAudioSystem())

	spawnHero(s, reg)

	return &Game{reg: reg, scene: s, render: render}
}

func spawnHero(s *scene.Scene[entity.Avl], reg *registry.Registry) {
	e := s.CreateEntity(reg)

	transform, sprite, physics, health := entity.Ensure4[entity.Avl,
		components.TransformComponent, components.SpriteComponent,
		components.PhysicsComponent, components.HealthComponent](e)

	*transform = *components.NewTransformComponent()
	transform.SetPosition(components.Vector2{X: screenWidth / 2, Y: 0})

	*sprite = *components.NewSpriteComponent()
	sprite.SourceRect = components.AABB{Min: components.Vector2{}, Max: components.Vector2{X: 32, Y: 32}}
	sprite.Color = components.Color{R: 220, G: 80, B: 80, A: 255}

	*physics = *components.NewPhysicsComponent()
	physics.Gravity = true
	physics.Friction = 0.02

	*health = *components.NewHealthComponent(100)
}

// Update advances the scene by one frame.
func (g *Game) Update() error {
	return g.scene.Update(1.0 / 60.0)
}

// Draw renders every visible sprite gathered by RenderingSystem during the
// last Update.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 60, 255})

	for _, r := range g.render.Visible() {
		width := float32(r.Sprite.SourceRect.Max.X - r.Sprite.SourceRect.Min.X)
		height := float32(r.Sprite.SourceRect.Max.Y - r.Sprite.SourceRect.Min.Y)
		screenPos := g.render.WorldToScreen(r.Transform.Position)

		vector.DrawFilledRect(screen,
			float32(screenPos.X), float32(screenPos.Y), width, height,
			color.RGBA{r.Sprite.Color.R, r.Sprite.Color.G, r.Sprite.Color.B, r.Sprite.Color.A},
			false)
	}

	ebitenutil.DebugPrint(screen, "ecsforge demo")
}

// Layout reports the logical screen size ebiten renders at.
func (g *Game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

// Run opens the game window and blocks until it is closed.
func (g *Game) Run() error {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("ecsforge demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(g)
}
