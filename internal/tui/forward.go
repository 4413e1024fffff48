package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chaz8081/glasslink/internal/status"
)

// Forward delivers status changes from view to send until the returned
// cancel func is called. Bursts are coalesced: send always receives the
// latest snapshot, and the publisher never waits on the UI.
func Forward(view status.View, send func(tea.Msg)) (cancel func()) {
	dirty := make(chan struct{}, 1)
	done := make(chan struct{})

	stop := view.Watch(func(status.Snapshot) {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-dirty:
				send(StatusMsg(view.Current()))
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stop()
			close(done)
		})
	}
}
