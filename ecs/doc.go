// Package ecs provides [Donburi] components and systems for wicket
// travelers and portals.
//
// [Traveler] wraps wicket.Traveler as a component; [PortalRef] tags an
// entity as the stand-in for a registry portal. [NewCrossingSystem]
// returns a per-frame system that advances every traveler entity and
// teleports it through portal crossings, publishing a [TeleportEvent]
// for each jump.
//
// Usage:
//
//	world := donburi.NewWorld()
//	e := world.Create(ecs.Traveler)
//	ecs.Traveler.SetValue(world.Entry(e), wicket.NewTraveler(start))
//
//	sys := ecs.NewCrossingSystem(registry, nil)
//	// each frame:
//	sys(world, now)
//	ecs.TeleportEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
