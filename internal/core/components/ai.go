package components

import (
	"errors"
	"math"
	"time"

	"github.com/ariaforge/ecsforge/internal/core/ecs/entity"
)

// AIComponent drives simple NPC behavior: a state machine, a target held as
// a weak entity.Ref (so a dead target is simply an expired reference, not a
// dangling ID), and an optional patrol route.
type AIComponent struct {
	State           AIState
	Target          entity.Ref
	PatrolPoints    []Vector2
	DetectionRadius float64
	AttackRange     float64
	Speed           float64
	Behavior        AIBehavior
	LastStateChange time.Time

	currentPatrolIndex int
	stateHistory       []AIState
}

// NewAIComponent returns an idle, neutral AI component with no target.
func NewAIComponent() *AIComponent {
	return &AIComponent{
		State:           AIStateIdle,
		DetectionRadius: 50.0,
		AttackRange:     10.0,
		Speed:           100.0,
		Behavior:        AIBehaviorNeutral,
	}
}

// SetState transitions to state, recording it in the history if it differs
// from the current one.
func (a *AIComponent) SetState(state AIState) {
	if a.State != state {
		a.State = state
		a.stateHistory = append(a.stateHistory, state)
		a.LastStateChange = time.Now()
	}
}

// SetTarget points Target at e, as a weak reference.
func (a *AIComponent) SetTarget(e entity.Facade[entity.Avl]) {
	a.Target = entity.NewRef(e)
}

// ClearTarget drops the current target.
func (a *AIComponent) ClearTarget() {
	a.Target = entity.Ref{}
}

// HasLiveTarget reports whether Target is set and has not expired.
func (a *AIComponent) HasLiveTarget() bool {
	return !a.Target.HasExpired()
}

// SetPatrolPoints replaces the patrol route and resets progress along it.
func (a *AIComponent) SetPatrolPoints(points []Vector2) {
	a.PatrolPoints = append([]Vector2(nil), points...)
	a.currentPatrolIndex = 0
}

// GetNextPatrolPoint returns the next patrol point and advances the route,
// wrapping back to the start.
func (a *AIComponent) GetNextPatrolPoint() Vector2 {
	if len(a.PatrolPoints) == 0 {
		return Vector2{}
	}
	point := a.PatrolPoints[a.currentPatrolIndex]
	a.currentPatrolIndex = (a.currentPatrolIndex + 1) % len(a.PatrolPoints)
	return point
}

// SetBehavior sets the AI's disposition.
func (a *AIComponent) SetBehavior(behavior AIBehavior) { a.Behavior = behavior }

// IsInDetectionRange reports whether targetPosition is within
// DetectionRadius of aiPosition.
func (a *AIComponent) IsInDetectionRange(aiPosition, targetPosition Vector2) bool {
	return distance(aiPosition, targetPosition) <= a.DetectionRadius
}

// IsInAttackRange reports whether targetPosition is within AttackRange of
// aiPosition.
func (a *AIComponent) IsInAttackRange(aiPosition, targetPosition Vector2) bool {
	return distance(aiPosition, targetPosition) <= a.AttackRange
}

// GetStateHistory returns a copy of every state SetState has transitioned
// through.
func (a *AIComponent) GetStateHistory() []AIState {
	history := make([]AIState, len(a.stateHistory))
	copy(history, a.stateHistory)
	return history
}

// Validate reports whether a's fields are in a usable state.
func (a *AIComponent) Validate() error {
	if a.DetectionRadius < 0 {
		return errors.New("detection radius cannot be negative")
	}
	if a.AttackRange < 0 {
		return errors.New("attack range cannot be negative")
	}
	if a.Speed < 0 {
		return errors.New("speed cannot be negative")
	}
	return nil
}

func distance(a, b Vector2) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return math.Sqrt(dx*dx + dy*dy)
}
