package services

import "sync"

// AlertService is the process-wide error banner: a single slot holding the
// most recent unhandled error message. New errors overwrite, they never
// queue; Clear hides the banner.
type AlertService struct {
	mu      sync.RWMutex
	message string
}

// Show sets the currently displayed message. Last writer wins.
func (a *AlertService) Show(err error) {
	if err == nil {
		return
	}
	a.ShowMessage(err.Error())
}

// ShowMessage sets the banner text directly.
func (a *AlertService) ShowMessage(message string) {
	if message == "" {
		message = "An unexpected error occurred."
	}
	a.mu.Lock()
	a.message = message
	a.mu.Unlock()
}

// Clear resets the banner to empty/hidden.
func (a *AlertService) Clear() {
	a.mu.Lock()
	a.message = ""
	a.mu.Unlock()
}

// Current returns the visible message and whether one is set.
func (a *AlertService) Current() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.message, a.message != ""
}

// Alert is the global banner instance.
var Alert = &AlertService{}
