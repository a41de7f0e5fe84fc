package localizer

import "github.com/sarchlab/meshguard/mesh"

// gather lets a router take in at most one token. A suspicion raised by the
// router itself takes priority over tokens offered by the neighbors.
func (l *Localizer) gather(r *Router) {
	r.armed = false
	if r.timeout > 0 {
		r.timeout--
	}

	if l.triggered(r) {
		t := NewToken()
		r.rx.PushFront(t)
		r.timeout = l.timeout
		r.armed = true

		if r.stopped {
			return
		}

		Trace("Localizer",
			"Behavior", "AttackSuspected",
			"Router", r.id,
			"X", r.x,
			"Y", r.y,
			"Cycle", l.cycle,
			"Token", t.ID,
		)
		l.invoke(HookPosTokenGenerated, r, t)

		return
	}

	for _, side := range mesh.Cardinals {
		other, ok := l.mesh.Neighbor(r.id, side)
		if !ok {
			continue
		}

		q := l.routers[other].txQueue(side.Opposite())
		if q.Len() == 0 {
			continue
		}

		t := q.PopFront()
		r.rx.PushFront(t)

		Trace("Localizer",
			"Behavior", "Ingest",
			"Router", r.id,
			"From", other,
			"Side", side.Name(),
			"Cycle", l.cycle,
			"Path", t.Path,
		)

		return
	}
}

func (l *Localizer) triggered(r *Router) bool {
	if l.stimulus == nil {
		return false
	}

	suspected := l.predictor.Predict(r.id, mesh.PERx)
	fire := l.stimulus.Trigger(l.cycle, r.id, suspected)

	return fire && r.timeout == 0
}

// transmit processes the front token of the inbound queue.
func (l *Localizer) transmit(r *Router) {
	r.rx.Clean()

	if r.rx.Len() == 0 {
		return
	}

	t := r.rx.PopFront()

	if r.stopped && t.IsFresh() {
		Trace("Localizer",
			"Behavior", "DigestAfterStop",
			"Router", r.id,
			"Cycle", l.cycle,
		)
		l.invoke(HookPosTokenDigested, r, t)

		return
	}

	l.forward(r, t)
}

// forward decides what to do with a token based on the endpoint of the
// router. An endpoint flagged on its injection side but not on its ejection
// side attacks on its own and is stopped. An endpoint flagged on both sides
// is part of an accusation cycle, which is stopped once the token returns to
// a router already on its path.
func (l *Localizer) forward(r *Router, t Token) {
	if !l.predictor.Predict(r.id, mesh.Local) {
		l.route(r, t)
		return
	}

	if !l.predictor.Predict(r.id, mesh.PERx) {
		Trace("Localizer",
			"Behavior", "GenericAttacker",
			"Router", r.id,
			"Cycle", l.cycle,
		)
		l.stopCurrent(r, t)

		return
	}

	if t.Contains(r.id) {
		Trace("Localizer",
			"Behavior", "CycleDetected",
			"Router", r.id,
			"Cycle", l.cycle,
			"Path", t.Path,
		)
		l.stopCycle(r, t)

		return
	}

	l.route(r, t.Extend(r.id))
}

// route sends the token towards every in-mesh neighbor whose link is
// flagged.
func (l *Localizer) route(r *Router, t Token) {
	routed := false

	for _, side := range mesh.Cardinals {
		if !l.mesh.HasNeighbor(r.id, side) {
			continue
		}

		if !l.predictor.Predict(r.id, side) {
			continue
		}

		r.txQueue(side).PushBack(t)
		routed = true

		Trace("Localizer",
			"Behavior", "Route",
			"Router", r.id,
			"Side", side.Name(),
			"Cycle", l.cycle,
			"Path", t.Path,
		)
	}

	if routed {
		if r.armed {
			l.startTask(r, t)
		}

		return
	}

	Trace("Localizer",
		"Behavior", "Digest",
		"Router", r.id,
		"Cycle", l.cycle,
		"Path", t.Path,
	)
	l.invoke(HookPosTokenDigested, r, t)

	if r.armed {
		r.timeout = 0
		r.armed = false

		Trace("Localizer",
			"Behavior", "FalseTrigger",
			"Router", r.id,
			"Cycle", l.cycle,
		)
		l.invoke(HookPosFalseTrigger, r, t)
	}
}

func (l *Localizer) stopCurrent(r *Router, t Token) {
	if r.armed {
		l.startTask(r, t)
	}

	l.stop(r, t)
	l.endTask(t)
}

func (l *Localizer) stopCycle(r *Router, t Token) {
	l.stop(r, t)

	for _, id := range t.Path {
		l.stop(&l.routers[id], t)
	}

	l.endTask(t)
}

func (l *Localizer) stop(r *Router, t Token) {
	l.disabler.SetDisabled(r.id)

	if r.stopped {
		return
	}

	r.stopped = true
	r.stoppedAt = l.cycle

	Trace("Localizer",
		"Behavior", "Stop",
		"Router", r.id,
		"X", r.x,
		"Y", r.y,
		"Cycle", l.cycle,
		"Token", t.ID,
	)
	l.invoke(HookPosRouterStopped, r, t)
}
