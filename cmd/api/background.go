package main

import (
	"time"
)

// sweepExpiredSessions drops idle checkout sessions and their pending
// toasts on a fixed interval.
func (app *application) sweepExpiredSessions() {
	go func() {
		ticker := time.NewTicker(app.config.session.sweepInterval)
		defer ticker.Stop()

		for range ticker.C {
			removed := app.sessions.SweepExpired()
			for _, id := range removed {
				app.toasts.Forget(id)
			}
			if len(removed) > 0 {
				app.logger.Infof("Swept %d expired checkout sessions", len(removed))
			}
		}
	}()
}
