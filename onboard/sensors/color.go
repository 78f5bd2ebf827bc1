package sensors

// ColorReading is one frame from an RGBC color/light sensor.
type ColorReading struct {
	Clear      int     `json:"clear"`
	R          int     `json:"r"`
	G          int     `json:"g"`
	B          int     `json:"b"`
	ColorTempK float64 `json:"color_temp_k"`
	Lux        float64 `json:"lux"`
	FrameReady bool    `json:"frame_ready"`
}

// ColorSensor produces raw color frames. Read must not block.
type ColorSensor interface {
	Read() ColorReading
}

// Derive fills in the color temperature and illuminance from the raw RGB
// counts, using the McCamy approximation the sensor vendor documents.
func (c *ColorReading) Derive() {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)

	x := -0.14282*r + 1.54924*g + -0.95641*b
	y := -0.32466*r + 1.57837*g + -0.73191*b
	z := -0.68202*r + 0.77073*g + 0.56332*b

	c.Lux = y

	sum := x + y + z
	if sum <= 0 {
		c.ColorTempK = 0
		return
	}
	xc := x / sum
	yc := y / sum
	n := (xc - 0.3320) / (0.1858 - yc)
	c.ColorTempK = 449*n*n*n + 3525*n*n + 6823.3*n + 5520.33
}
