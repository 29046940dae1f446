package network

// EntityState is the public view of one entity in a spectator frame
type EntityState struct {
	ID     uint64  `json:"id"`
	Visual string  `json:"visual,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	HP     int     `json:"hp,omitempty"`
	MaxHP  int     `json:"max_hp,omitempty"`
	Dead   bool    `json:"dead,omitempty"`
	Anim   string  `json:"anim,omitempty"`
	Frame  int     `json:"frame,omitempty"`
	AI     string  `json:"ai,omitempty"`
}

// Frame is one broadcast snapshot of the world
type Frame struct {
	Tick     uint64        `json:"tick"`
	TimeMS   int64         `json:"time_ms"`
	Session  string        `json:"session"`
	Entities []EntityState `json:"entities"`
}
