package core

// AlertState is the display state of a threshold alert.
type AlertState int

const (
	AlertHidden AlertState = iota
	AlertShowing
	AlertDismissed
)

// AlertThreshold is the percent-full at which the needs alert fires.
const AlertThreshold = 100.0

func (s AlertState) String() string {
	switch s {
	case AlertShowing:
		return "showing"
	case AlertDismissed:
		return "dismissed"
	default:
		return "hidden"
	}
}

// EvaluateAlert decides the alert state from the current percent-full, the
// stored dismissal token and the current week key.
//
// There is no stored state flag: Dismissed is encoded entirely by the token
// matching this week's key, so a new week re-opens the alert on its own.
func EvaluateAlert(percentFull float64, dismissed, current WeekKey) AlertState {
	if percentFull < AlertThreshold {
		return AlertHidden
	}
	if dismissed == current {
		return AlertDismissed
	}
	return AlertShowing
}

// Dismiss returns prefs with the dismissal token set to the week of key.
func (p Preferences) Dismiss(key WeekKey) Preferences {
	p.NeedsAlertDismissed = key
	return p
}
