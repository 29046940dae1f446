package fx

import "image/color"

// ScreenFlash is a full-screen tint that fades out linearly
type ScreenFlash struct {
	Color color.RGBA
	Alpha float64
	Decay float64 // alpha per second
}

func NewScreenFlash() *ScreenFlash {
	return &ScreenFlash{Color: color.RGBA{255, 40, 40, 255}, Decay: 3}
}

// Trigger raises the flash to alpha. A weaker trigger never dims a stronger flash.
func (f *ScreenFlash) Trigger(alpha float64) {
	if alpha > 1 {
		alpha = 1
	}
	if alpha > f.Alpha {
		f.Alpha = alpha
	}
}

func (f *ScreenFlash) Update(dt float64) {
	f.Alpha -= f.Decay * dt
	if f.Alpha < 0 {
		f.Alpha = 0
	}
}

func (f *ScreenFlash) Active() bool { return f.Alpha > 0 }
