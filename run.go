package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/olivier-w/glowgrid/internal/grid"
	"github.com/olivier-w/glowgrid/internal/loop"
)

// runHeadless drives the loop from a wall-clock timer and logs a summary of
// every grid. It returns after frames grids, or when ctx is done if frames
// is zero.
func runHeadless(ctx context.Context, a *app, frames int) error {
	var res acquiredMsg
	select {
	case res = <-a.acquire():
	case <-ctx.Done():
		return ctx.Err()
	}

	err := res.err
	if err == nil {
		err = a.attach(res.sig)
	}
	if err != nil {
		// Surface the failure and keep running without a connected source.
		a.reportAcquireError(err)
	}

	sched := loop.NewTimerScheduler(a.cfg.FPS)
	defer sched.Close()
	lp := a.newLoop(sched)

	n := a.layout.PointCount()
	done := make(chan struct{})
	seen := 0
	lp.Subscribe(func(cells []float64) {
		seen++
		a.log.Info("frame",
			"n", seen,
			"peaks", formatPeaks(grid.PeakRows(cells, n)),
			"lit", grid.Lit(cells, 0.5))
		if frames > 0 && seen == frames {
			lp.Stop()
			close(done)
		}
	})

	select {
	case <-done:
	case <-ctx.Done():
		lp.Stop()
	}
	return nil
}

func formatPeaks(rows []int) string {
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", r)
	}
	return b.String()
}
