package cmd

import (
	"fmt"
	"io"

	"github.com/kilianp07/parcelsim/core/events"
	"github.com/kilianp07/parcelsim/core/model"
	"github.com/kilianp07/parcelsim/internal/eventbus"
)

// progressPrinter tails the run's event bus and prints one line per
// event, so a day can be followed as it unfolds.
type progressPrinter struct {
	w    io.Writer
	sub  *eventbus.Subscription
	done chan struct{}
}

// startProgress subscribes and starts printing. Call Stop once the run
// has returned to drain what is still buffered.
func startProgress(w io.Writer, bus *eventbus.Bus) *progressPrinter {
	p := &progressPrinter{w: w, sub: bus.Subscribe(256), done: make(chan struct{})}
	go p.loop()
	return p
}

func (p *progressPrinter) loop() {
	defer close(p.done)
	for ev := range p.sub.C {
		p.print(ev)
	}
}

func (p *progressPrinter) print(ev eventbus.Event) {
	switch e := ev.(type) {
	case events.BatchLoaded:
		fmt.Fprintf(p.w, "%s  vehicle %d loaded %d items (%.1f mi route)\n",
			e.At.Format("15:04:05"), e.VehicleID, len(e.ItemIDs), float64(e.ProjectedSubunits)/model.SubunitScale)
	case events.ItemDelivered:
		punctuality := "on time"
		if !e.OnTime {
			punctuality = "late"
		}
		fmt.Fprintf(p.w, "%s  vehicle %d delivered item %d (%s)\n",
			e.At.Format("15:04:05"), e.VehicleID, e.ItemID, punctuality)
	case events.VehicleWaiting:
		fmt.Fprintf(p.w, "%s  vehicle %d waiting at hub\n", e.At.Format("15:04:05"), e.VehicleID)
	case events.WorldEventFired:
		fmt.Fprintf(p.w, "%s  %s touched %d items\n", e.At.Format("15:04:05"), e.Kind, len(e.ItemIDs))
	case events.RunCompleted:
		state := "finished"
		if !e.Finished {
			state = "cut off"
		}
		fmt.Fprintf(p.w, "%s  run %s: %d delivered, %d late\n",
			e.At.Format("15:04:05"), state, e.Delivered, e.Late)
	}
}

// Stop detaches from the bus, drains buffered events and waits for the
// printer to exit.
func (p *progressPrinter) Stop() {
	p.sub.Cancel()
	<-p.done
}
