package core

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
)

// EntityID is a unique identifier for game entities. Zero means no entity.
type EntityID uint64

// Component is implemented by every component kind
type Component interface {
	Type() ComponentType
	Owner() EntityID
	setOwner(EntityID)
}

// ComponentType identifies the type of component
type ComponentType uint32

const (
	CompTransform ComponentType = iota
	CompHealth
	CompMana
	CompMovement
	CompCombat
	CompAI
	CompRenderable
	CompCollider
	CompInventory
	CompShop
	CompNPC
	CompMax
)

// Entity owns at most one component per type
type Entity struct {
	ID         EntityID
	components map[ComponentType]Component
}

func newEntity(id EntityID) *Entity {
	return &Entity{ID: id, components: make(map[ComponentType]Component)}
}

// Add attaches c, replacing any component of the same type
func (e *Entity) Add(c Component) *Entity {
	c.setOwner(e.ID)
	e.components[c.Type()] = c
	return e
}

func (e *Entity) Get(ct ComponentType) Component { return e.components[ct] }

func (e *Entity) Has(ct ComponentType) bool {
	_, ok := e.components[ct]
	return ok
}

func (e *Entity) Remove(ct ComponentType) { delete(e.components, ct) }

// HasAll checks for every listed component type
func (e *Entity) HasAll(types ...ComponentType) bool {
	for _, t := range types {
		if _, ok := e.components[t]; !ok {
			return false
		}
	}
	return true
}

func (e *Entity) Transform() *Transform {
	c, _ := e.components[CompTransform].(*Transform)
	return c
}

func (e *Entity) Health() *Health {
	c, _ := e.components[CompHealth].(*Health)
	return c
}

func (e *Entity) Mana() *Mana {
	c, _ := e.components[CompMana].(*Mana)
	return c
}

func (e *Entity) Movement() *Movement {
	c, _ := e.components[CompMovement].(*Movement)
	return c
}

func (e *Entity) Combat() *Combat {
	c, _ := e.components[CompCombat].(*Combat)
	return c
}

func (e *Entity) AI() *AI {
	c, _ := e.components[CompAI].(*AI)
	return c
}

func (e *Entity) Renderable() *Renderable {
	c, _ := e.components[CompRenderable].(*Renderable)
	return c
}

func (e *Entity) Collider() *Collider {
	c, _ := e.components[CompCollider].(*Collider)
	return c
}

func (e *Entity) Inventory() *Inventory {
	c, _ := e.components[CompInventory].(*Inventory)
	return c
}

func (e *Entity) NPC() *NPC {
	c, _ := e.components[CompNPC].(*NPC)
	return c
}

// IsDead reports whether the entity carries Health and has died
func (e *Entity) IsDead() bool {
	h := e.Health()
	return h != nil && h.Dead
}

// System processes entities each tick
type System interface {
	Name() string
	Update(w *World, dt float64)
	Priority() int
}

// World is the entity registry plus the shared simulation context:
// clock, event bus and scheduler.
type World struct {
	entities  map[EntityID]*Entity
	systems   []System
	nextID    EntityID
	now       time.Duration
	residue   float64 // sub-nanosecond remainder carried between ticks
	TickCount uint64

	Events    *EventBus
	Scheduler *Scheduler
	Log       *zap.Logger
}

// NewWorld creates an empty world. A nil logger is replaced by a no-op one.
func NewWorld(log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		entities:  make(map[EntityID]*Entity),
		Events:    NewEventBus(),
		Scheduler: NewScheduler(),
		Log:       log,
	}
}

// Now returns the simulation clock
func (w *World) Now() time.Duration { return w.now }

// SetNow moves the simulation clock directly, bypassing Tick
func (w *World) SetNow(t time.Duration) {
	w.now = t
	w.residue = 0
}

// NewEntity allocates an entity that is not yet registered
func (w *World) NewEntity() *Entity {
	w.nextID++
	return newEntity(w.nextID)
}

// AddEntity registers e and announces it on the bus
func (w *World) AddEntity(e *Entity) {
	w.entities[e.ID] = e
	w.Events.Emit(EvtEntityAdded, EntityEvent{Entity: e.ID})
}

// Spawn allocates, populates and registers an entity in one step
func (w *World) Spawn(comps ...Component) *Entity {
	e := w.NewEntity()
	for _, c := range comps {
		e.Add(c)
	}
	w.AddEntity(e)
	return e
}

// RemoveEntity unregisters id and cancels every timer it owns
func (w *World) RemoveEntity(id EntityID) bool {
	if _, ok := w.entities[id]; !ok {
		return false
	}
	delete(w.entities, id)
	w.Scheduler.CancelOwner(id)
	w.Events.Emit(EvtEntityRemoved, EntityEvent{Entity: id})
	return true
}

// Entity returns the registered entity, or nil
func (w *World) Entity(id EntityID) *Entity {
	if id == 0 {
		return nil
	}
	return w.entities[id]
}

// Alive reports whether id is registered and not dead
func (w *World) Alive(id EntityID) bool {
	e := w.Entity(id)
	return e != nil && !e.IsDead()
}

// Query returns all entities that have ALL specified component types,
// in ascending ID order
func (w *World) Query(types ...ComponentType) []*Entity {
	result := make([]*Entity, 0, len(w.entities))
	for _, e := range w.entities {
		if e.HasAll(types...) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (w *World) EntitiesWith(ct ComponentType) []*Entity {
	return w.Query(ct)
}

// RenderOrder returns renderables sorted back to front by ZOrder, then Y, then ID
func (w *World) RenderOrder() []*Entity {
	list := w.Query(CompRenderable, CompTransform)
	sort.SliceStable(list, func(i, j int) bool {
		ri, rj := list[i].Renderable(), list[j].Renderable()
		if ri.ZOrder != rj.ZOrder {
			return ri.ZOrder < rj.ZOrder
		}
		ti, tj := list[i].Transform(), list[j].Transform()
		if ti.Y != tj.Y {
			return ti.Y < tj.Y
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// AddSystem registers a system
func (w *World) AddSystem(s System) {
	w.systems = append(w.systems, s)
	// Sort by priority (simple insertion)
	for i := len(w.systems) - 1; i > 0; i-- {
		if w.systems[i].Priority() < w.systems[i-1].Priority() {
			w.systems[i], w.systems[i-1] = w.systems[i-1], w.systems[i]
		}
	}
}

func (w *World) Systems() []System { return w.systems }

// Tick advances the clock by dt seconds, fires due timers and runs all
// systems once. A failing system is logged and skipped for this tick.
func (w *World) Tick(dt float64) {
	step := dt*float64(time.Second) + w.residue
	whole := math.Round(step)
	w.residue = step - whole
	w.now += time.Duration(whole)
	w.guard("scheduler", func() { w.Scheduler.RunDue(w.now) })
	for _, s := range w.systems {
		w.guard(s.Name(), func() { s.Update(w, dt) })
	}
	w.TickCount++
}

func (w *World) guard(stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.Log.Error("tick stage failed",
				zap.String("stage", stage),
				zap.Uint64("tick", w.TickCount),
				zap.Error(fmt.Errorf("%v", r)),
			)
		}
	}()
	fn()
}

// EntityCount returns the number of registered entities
func (w *World) EntityCount() int {
	return len(w.entities)
}
