package utils

type ColorFloat [4]float32

// RGBA8 returns components scaled to bytes, clamped to [0, 255].
func (c *ColorFloat) RGBA8() [4]uint8 {
	var r [4]uint8
	for i, v := range c {
		switch {
		case v <= 0:
			r[i] = 0
		case v >= 1:
			r[i] = 255
		default:
			r[i] = uint8(v*255 + 0.5)
		}
	}
	return r
}

func NewColorFloatA(c []float32) ColorFloat {
	return ColorFloat{c[0], c[1], c[2], c[3]}
}

// UnpackColor splits packed 0xAARRGGBB word into [r, g, b, a] in range [0, 1].
func UnpackColor(packed uint32) ColorFloat {
	return ColorFloat{
		float32((packed>>16)&0xff) / 255.0,
		float32((packed>>8)&0xff) / 255.0,
		float32(packed&0xff) / 255.0,
		float32((packed>>24)&0xff) / 255.0,
	}
}
