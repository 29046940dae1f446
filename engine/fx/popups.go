package fx

import "image/color"

// Popup is a short floating label, e.g. a damage number
type Popup struct {
	Text    string
	X, Y    float64
	Rise    float64 // world units per second
	Color   color.RGBA
	Life    float64
	MaxLife float64
}

// Alpha fades the label out over its life
func (p Popup) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return p.Life / p.MaxLife
}

type Popups struct {
	items []Popup
}

func (ps *Popups) Add(x, y float64, text string, clr color.RGBA) {
	ps.items = append(ps.items, Popup{Text: text, X: x, Y: y, Rise: 30, Color: clr, Life: 0.8, MaxLife: 0.8})
}

func (ps *Popups) Update(dt float64) {
	kept := ps.items[:0]
	for _, p := range ps.items {
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		p.Y -= p.Rise * dt
		kept = append(kept, p)
	}
	ps.items = kept
}

func (ps *Popups) Items() []Popup { return ps.items }
