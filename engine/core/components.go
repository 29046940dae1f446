package core

import (
	"image/color"
	"time"
)

// TrailLength bounds the number of past positions kept on a Transform
const TrailLength = 8

// base carries the owner back-link shared by every component
type base struct {
	owner EntityID
}

func (b *base) Owner() EntityID      { return b.owner }
func (b *base) setOwner(id EntityID) { b.owner = id }

// --- Transform ---

type Transform struct {
	base
	X, Y     float64
	Rotation float64
	Scale    float64
	PrevX    float64
	PrevY    float64
	// Trail is a ring of recent positions, oldest first once full.
	Trail     []Vec2
	trailHead int
}

func NewTransform(x, y float64) *Transform {
	return &Transform{X: x, Y: y, Scale: 1, PrevX: x, PrevY: y}
}

func (t *Transform) Type() ComponentType { return CompTransform }

func (t *Transform) Pos() Vec2 { return Vec2{t.X, t.Y} }

// DistanceTo returns the distance to another transform
func (t *Transform) DistanceTo(o *Transform) float64 {
	return t.Pos().Dist(o.Pos())
}

// PushTrail records a position, evicting the oldest when full
func (t *Transform) PushTrail(p Vec2) {
	if len(t.Trail) < TrailLength {
		t.Trail = append(t.Trail, p)
		return
	}
	t.Trail[t.trailHead] = p
	t.trailHead = (t.trailHead + 1) % TrailLength
}

// TrailPoints returns the trail oldest first
func (t *Transform) TrailPoints() []Vec2 {
	out := make([]Vec2, 0, len(t.Trail))
	if len(t.Trail) < TrailLength {
		return append(out, t.Trail...)
	}
	out = append(out, t.Trail[t.trailHead:]...)
	return append(out, t.Trail[:t.trailHead]...)
}

// --- Health ---

type Health struct {
	base
	Current int
	Max     int
	Dead    bool
}

func NewHealth(max int) *Health {
	return &Health{Current: max, Max: max}
}

func (h *Health) Type() ComponentType { return CompHealth }

// TakeDamage subtracts amount clamped at zero. It reports true only on the
// call that kills the entity; damage against a corpse is ignored.
func (h *Health) TakeDamage(amount int) bool {
	if h.Dead || amount <= 0 {
		return false
	}
	h.Current -= amount
	if h.Current <= 0 {
		h.Current = 0
		h.Dead = true
		return true
	}
	return false
}

// Heal restores health up to Max. Corpses cannot be healed.
func (h *Health) Heal(amount int) {
	if h.Dead || amount <= 0 {
		return
	}
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

// Revive clears the death flag and restores full health
func (h *Health) Revive() {
	h.Dead = false
	h.Current = h.Max
}

// Ratio returns health percentage [0, 1]
func (h *Health) Ratio() float64 {
	if h.Max <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}

// --- Mana ---

type Mana struct {
	base
	Current int
	Max     int
}

func NewMana(max int) *Mana {
	return &Mana{Current: max, Max: max}
}

func (m *Mana) Type() ComponentType { return CompMana }

// UseMana spends amount if enough is available
func (m *Mana) UseMana(amount int) bool {
	if amount < 0 || m.Current < amount {
		return false
	}
	m.Current -= amount
	return true
}

func (m *Mana) RestoreMana(amount int) {
	if amount <= 0 {
		return
	}
	m.Current += amount
	if m.Current > m.Max {
		m.Current = m.Max
	}
}

// --- Movement ---

type Movement struct {
	base
	Speed    float64 // world units per second
	Target   *Vec2
	Moving   bool
	Velocity Vec2

	// KnockbackUntil is the clock time a shove ends; steering waits for it
	KnockbackUntil time.Duration
}

func NewMovement(speed float64) *Movement {
	return &Movement{Speed: speed}
}

func (m *Movement) Type() ComponentType { return CompMovement }

func (m *Movement) MoveTo(x, y float64) {
	m.Target = &Vec2{x, y}
	m.Moving = true
}

// KnockedBack reports whether a shove is still in effect at now
func (m *Movement) KnockedBack(now time.Duration) bool {
	return now < m.KnockbackUntil
}

func (m *Movement) Stop() {
	m.Target = nil
	m.Moving = false
	m.Velocity = Vec2{}
}

// --- Combat ---

// PendingHit is damage already committed by an attack but not yet applied
type PendingHit struct {
	Target EntityID
	At     time.Duration
}

type Combat struct {
	base
	Damage            int
	Range             float64
	Cooldown          time.Duration
	AnimationDuration time.Duration
	DamageFraction    float64 // point in the swing where damage lands
	LastAttack        time.Duration
	Attacking         bool
	Target            EntityID
	Pending           []PendingHit
	attacked          bool
}

func NewCombat(damage int, rng float64, cooldown, anim time.Duration) *Combat {
	return &Combat{
		Damage:            damage,
		Range:             rng,
		Cooldown:          cooldown,
		AnimationDuration: anim,
		DamageFraction:    0.5,
	}
}

func (c *Combat) Type() ComponentType { return CompCombat }

func (c *Combat) DamageDelay() time.Duration {
	return time.Duration(float64(c.AnimationDuration) * c.DamageFraction)
}

// CanAttack reports whether a new swing may begin at now
func (c *Combat) CanAttack(now time.Duration) bool {
	if c.Attacking {
		return false
	}
	return !c.attacked || now-c.LastAttack >= c.Cooldown
}

// StartAttack begins a swing and queues its damage at now+DamageDelay
func (c *Combat) StartAttack(now time.Duration, target EntityID) {
	c.Attacking = true
	c.attacked = true
	c.LastAttack = now
	c.Target = target
	c.Pending = append(c.Pending, PendingHit{Target: target, At: now + c.DamageDelay()})
}

// FinishAttack clears the attacking flag once the swing animation is over
func (c *Combat) FinishAttack(now time.Duration) {
	if c.Attacking && now >= c.LastAttack+c.AnimationDuration {
		c.Attacking = false
	}
}

// DueHits removes and returns pending hits due at or before now
func (c *Combat) DueHits(now time.Duration) []PendingHit {
	var due []PendingHit
	kept := c.Pending[:0]
	for _, h := range c.Pending {
		if h.At <= now {
			due = append(due, h)
		} else {
			kept = append(kept, h)
		}
	}
	c.Pending = kept
	return due
}

// Reset drops any in-flight swing, used on respawn
func (c *Combat) Reset() {
	c.Attacking = false
	c.attacked = false
	c.Target = 0
	c.Pending = nil
}

// --- AI ---

type Behavior uint8

const (
	BehaviorAggressive Behavior = iota
	BehaviorPet
	BehaviorPassive
)

func (b Behavior) String() string {
	switch b {
	case BehaviorAggressive:
		return "aggressive"
	case BehaviorPet:
		return "pet"
	case BehaviorPassive:
		return "passive"
	}
	return "unknown"
}

type AIState uint8

const (
	AIIdle AIState = iota
	AIPatrol
	AIChase
	AIAttack
	AIFollow
)

func (s AIState) String() string {
	return [...]string{"idle", "patrol", "chase", "attack", "follow"}[s]
}

type AI struct {
	base
	Behavior        Behavior
	DetectionRange  float64
	State           AIState
	Target          EntityID
	LastStateChange time.Duration
	Waypoints       []Vec2
	WaypointIndex   int
}

func NewAI(b Behavior, detection float64) *AI {
	return &AI{Behavior: b, DetectionRange: detection}
}

func (a *AI) Type() ComponentType { return CompAI }

// SetState switches state and stamps the change time. Same-state calls are ignored.
func (a *AI) SetState(s AIState, now time.Duration) {
	if a.State == s {
		return
	}
	a.State = s
	a.LastStateChange = now
}

// --- Renderable ---

type AnimState uint8

const (
	AnimIdle AnimState = iota
	AnimWalking
	AnimAttacking
	AnimDead
)

func (s AnimState) String() string {
	return [...]string{"idle", "walking", "attacking", "dead"}[s]
}

type Renderable struct {
	base
	Visual    string // sprite/visual type key
	State     AnimState
	Frame     int
	FrameTime float64
	ZOrder    float64
	FlipX     bool
	FlipY     bool
	Color     color.RGBA
	Size      float64

	// SwingStart is the Combat.LastAttack the attack clip was started for
	SwingStart time.Duration
}

func NewRenderable(visual string, clr color.RGBA, size float64) *Renderable {
	return &Renderable{Visual: visual, Color: clr, Size: size}
}

func (r *Renderable) Type() ComponentType { return CompRenderable }

// --- Collider ---

type Collider struct {
	base
	Radius float64
}

func NewCollider(r float64) *Collider { return &Collider{Radius: r} }

func (c *Collider) Type() ComponentType { return CompCollider }

// Intersects reports overlap of two circles. Touching circles do not intersect.
func Intersects(a *Transform, ca *Collider, b *Transform, cb *Collider) bool {
	return a.DistanceTo(b) < ca.Radius+cb.Radius
}

// --- Inventory / Shop / NPC ---

type Item struct {
	Name  string
	Count int
}

type Inventory struct {
	base
	Gold  int
	Items []Item
}

func (i *Inventory) Type() ComponentType { return CompInventory }

// AddItem stacks count onto an existing entry or appends a new one
func (i *Inventory) AddItem(name string, count int) {
	for k := range i.Items {
		if i.Items[k].Name == name {
			i.Items[k].Count += count
			return
		}
	}
	i.Items = append(i.Items, Item{Name: name, Count: count})
}

type ShopItem struct {
	Name  string
	Price int
}

type Shop struct {
	base
	Items []ShopItem
}

func (s *Shop) Type() ComponentType { return CompShop }

type NPC struct {
	base
	Name     string
	Dialogue []string
}

func (n *NPC) Type() ComponentType { return CompNPC }
