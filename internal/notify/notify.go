// Package notify decodes push payloads and maps their declared actions to
// storefront destinations. Display and delivery are the platform's job;
// there is no retry or acknowledgment here.
package notify

import "encoding/json"

// Payload is a decoded push message.
type Payload struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Icon   string `json:"icon"`
	Action string `json:"action"`
}

// Action ids recognized in push payloads.
const (
	ActionViewOrder = "view-order"
	ActionViewPromo = "view-promo"
)

// Decode parses a push payload, filling in display defaults for missing
// fields. Malformed JSON is an error; the platform delivered garbage.
func Decode(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, err
	}
	if p.Title == "" {
		p.Title = "Chocó Artesanal"
	}
	if p.Icon == "" {
		p.Icon = "/icons/icon-192.png"
	}
	return p, nil
}

// RouteFor returns the destination for a notification click. Unknown actions
// land on the home page.
func RouteFor(action string) string {
	switch action {
	case ActionViewOrder:
		return "/orders"
	case ActionViewPromo:
		return "/products"
	default:
		return "/"
	}
}
