// Package status maps the hosted checkout return query to the banner shown on
// the landing page.
package status

import "strings"

// State is the checkout outcome carried by ?status=.
type State string

const (
	StateNone    State = ""
	StateSuccess State = "success"
	StateCancel  State = "cancel"
)

// Banner is the alert rendered above the hero.
type Banner struct {
	State    State
	Tone     string // "success" or "info"
	Icon     string
	TitleKey string
	BodyKey  string
}

// Parse reads a status query value. Unknown values yield StateNone.
func Parse(v string) State {
	switch State(strings.ToLower(strings.TrimSpace(v))) {
	case StateSuccess:
		return StateSuccess
	case StateCancel, "cancelled", "canceled":
		return StateCancel
	default:
		return StateNone
	}
}

// FromQuery returns the banner for a status query value, if any.
func FromQuery(v string) (Banner, bool) {
	switch Parse(v) {
	case StateSuccess:
		return Banner{
			State:    StateSuccess,
			Tone:     "success",
			Icon:     "check-circle",
			TitleKey: "status.success.title",
			BodyKey:  "status.success.body",
		}, true
	case StateCancel:
		return Banner{
			State:    StateCancel,
			Tone:     "info",
			Icon:     "information-circle",
			TitleKey: "status.cancel.title",
			BodyKey:  "status.cancel.body",
		}, true
	}
	return Banner{}, false
}

// ReturnURL builds the success or cancel location handed to the hosted checkout.
func ReturnURL(baseURL string, s State) string {
	return strings.TrimRight(baseURL, "/") + "/?status=" + string(s)
}
