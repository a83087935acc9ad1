package bracket

import "github.com/AdamBeresnev/dam-aji/internal/utils"

type Player struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Association string  `json:"association"`
	ICNumber    *string `json:"icNumber,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Draws       int     `json:"draws"`
	Points      int     `json:"points"`
	// Only meaningful in knockout, cleared on elimination
	Active bool `json:"active"`
}

func (p Player) clone() Player {
	p.ICNumber = utils.Clone(p.ICNumber)
	p.PhoneNumber = utils.Clone(p.PhoneNumber)
	return p
}
