package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/restaurant-sim/restaurant-sim/sim/kernel"
	"github.com/restaurant-sim/restaurant-sim/sim/trace"
)

// tableMatchingDispatcher scans the guest queue in arrival order and moves
// every party it can seat into the host queue, claiming the matched table.
// After a pass with at least one match it yields so the host can run; with
// no match it parks until a new arrival or a table release re-arms it.
func (r *Restaurant) tableMatchingDispatcher(p *kernel.Proc) {
	for {
		matchedAny := false
		var remaining []*Party
		for _, party := range r.guestQueue {
			tableID, zoneID, ok := r.findMatchingTable(party.PartySize)
			if !ok {
				remaining = append(remaining, party)
				continue
			}
			party.HostQueueTime = f64(p.Now())
			party.TablesAssigned = []int{tableID}
			party.ZoneID = zoneID
			party.Zoned = true
			delete(r.availableTablesByZone[zoneID], tableID)
			r.hostQueue = append(r.hostQueue, party)
			matchedAny = true
			r.hostQueueTrig.fire()
		}
		r.guestQueue = remaining
		if matchedAny {
			p.Sleep(0) // let the host process the handoff
		} else {
			r.guestQueueTrig.wait(p)
		}
	}
}

// findMatchingTable looks for the best-fit free table, starting at the
// rotating zone pointer so seating load spreads across server zones. Within
// a zone the table wasting the fewest seats wins, ties broken by lowest
// table id. On a match the pointer advances past the chosen zone.
func (r *Restaurant) findMatchingTable(partySize int) (tableID, zoneID int, ok bool) {
	for offset := 0; offset < r.numZones; offset++ {
		zone := (r.nextZoneIndex + offset) % r.numZones
		best := -1
		bestWaste := int(^uint(0) >> 1)
		for _, id := range r.zoneToTables[zone] {
			if !r.availableTablesByZone[zone][id] {
				continue
			}
			size := r.tableIDToSize[id]
			if size >= partySize && size-partySize < bestWaste {
				bestWaste = size - partySize
				best = id
			}
		}
		if best >= 0 {
			r.nextZoneIndex = (zone + 1) % r.numZones
			return best, zone, true
		}
	}
	return 0, 0, false
}

// hostDispatcher walks parties from the host queue to their tables, one at a
// time per available host.
func (r *Restaurant) hostDispatcher(p *kernel.Proc) {
	for {
		if len(r.hostQueue) > 0 {
			party := r.hostQueue[0]
			r.hostQueue = r.hostQueue[1:]
			r.seatParty(p, party)
		} else {
			r.hostQueueTrig.wait(p)
		}
	}
}

// seatParty acquires a host, walks the party to its table, and wakes the
// party's lifecycle proc. TableAssignedTime is stamped only here, so a party
// abandoned before this point reports a nil value.
func (r *Restaurant) seatParty(p *kernel.Proc, party *Party) {
	r.hosts.Acquire(p)
	party.WalkStartTime = f64(p.Now())
	walkTime := r.sampler.NormalPositive(r.p.WalkingToTableMean, r.p.WalkingToTableStd)
	p.Sleep(walkTime)
	party.TableAssignedTime = f64(p.Now())
	if len(r.hostMembers) > 0 {
		host := r.hostMembers[0]
		host.BusyTime += walkTime + r.p.HostQueueProcessingTime
		host.WorkDone++
	}
	r.hosts.Release()

	logrus.Debugf("party %d seated at tables %v (zone %d)", party.ID, party.TablesAssigned, party.ZoneID)
	r.event(trace.EventPartySeated, party.ID, "being_seated", "deciding", map[string]any{
		"table_ids": party.TablesAssigned,
		"zone_id":   party.ZoneID,
	})

	if sig, ok := r.partySeated[party.ID]; ok {
		sig.Fire()
	}
}
