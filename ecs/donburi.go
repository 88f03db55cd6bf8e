package ecs

import (
	"math"

	"github.com/phanxgames/wicket"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// Traveler is the Donburi component holding a wicket.Traveler. The
// crossing system advances every entity that carries it.
var Traveler = donburi.NewComponentType[wicket.Traveler]()

// PortalRef tags an entity as the scene stand-in for a registry portal.
var PortalRef = donburi.NewComponentType[wicket.Handle]()

// TeleportEvent is published once for every traveler that passes through
// a portal. Consume it with TeleportEventType.Subscribe and ProcessEvents.
type TeleportEvent struct {
	Entity donburi.Entity
	Source wicket.Handle
	Target wicket.Handle
}

// TeleportEventType is the Donburi event type for portal crossings.
var TeleportEventType = events.NewEventType[TeleportEvent]()

// NewCrossingSystem returns a per-frame system that integrates velocity
// and runs crossing detection for every [Traveler] entity. now is the
// simulation clock in seconds; the first call only samples it. tp carries
// the cooldown policy and may be nil for defaults; its Registry is
// pointed at reg when unset.
//
// Each crossing rewrites the entity's traveler in place and publishes a
// [TeleportEvent].
func NewCrossingSystem(reg *wicket.Registry, tp *wicket.Teleporter) func(w donburi.World, now float64) {
	if tp == nil {
		tp = &wicket.Teleporter{}
	}
	if tp.Registry == nil {
		tp.Registry = reg
	}
	q := donburi.NewQuery(filter.Contains(Traveler))
	last := math.NaN()

	return func(w donburi.World, now float64) {
		var dt float32
		if !math.IsNaN(last) {
			dt = float32(now - last)
		}
		last = now

		q.Each(w, func(entry *donburi.Entry) {
			tr := Traveler.Get(entry)
			tr.PreviousPosition = tr.Position
			tr.Position = tr.Position.Add(tr.Velocity.Mul(dt))
			tr.Pose.SetCol(3, tr.Position.Vec4(1))

			if src, dst, ok := tp.Step(tr, now); ok {
				TeleportEventType.Publish(w, TeleportEvent{
					Entity: entry.Entity(),
					Source: src,
					Target: dst,
				})
			}
		})
	}
}

var portalQuery = donburi.NewQuery(filter.Contains(PortalRef))

// EachPortal visits every [PortalRef] entity whose handle still resolves
// in reg, passing the entry, the handle, and the live portal record.
func EachPortal(w donburi.World, reg *wicket.Registry, fn func(entry *donburi.Entry, h wicket.Handle, p *wicket.Portal)) {
	portalQuery.Each(w, func(entry *donburi.Entry) {
		h := *PortalRef.Get(entry)
		if p := reg.Get(h); p != nil {
			fn(entry, h, p)
		}
	})
}
