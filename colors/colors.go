package colors

// package colors contains named colors for debug drawing (i.e. "White()", "SkyBlue()", "Grid()", etc).

import "image/color"

func rgba(r, g, b, a float32) color.RGBA {
	return color.RGBA{uint8(r * a * 255), uint8(g * a * 255), uint8(b * a * 255), uint8(a * 255)}
}

// Transparent returns a fully transparent color.
func Transparent() color.RGBA {
	return rgba(0, 0, 0, 0)
}

func White() color.RGBA {
	return rgba(1, 1, 1, 1)
}

func Black() color.RGBA {
	return rgba(0, 0, 0, 1)
}

func Gray() color.RGBA {
	return rgba(0.5, 0.5, 0.5, 1)
}

func LightGray() color.RGBA {
	return rgba(0.8, 0.8, 0.8, 1)
}

func DarkGray() color.RGBA {
	return rgba(0.2, 0.2, 0.2, 1)
}

// Night is the backdrop debug views clear the screen with.
func Night() color.RGBA {
	return rgba(0.08, 0.1, 0.14, 1)
}

// Grid is a muted blue for ground grids drawn over Night.
func Grid() color.RGBA {
	return rgba(0.24, 0.28, 0.36, 1)
}

func Red() color.RGBA {
	return rgba(1, 0.25, 0.25, 1)
}

func Orange() color.RGBA {
	return rgba(1, 0.5, 0, 1)
}

func Yellow() color.RGBA {
	return rgba(1, 0.8, 0.3, 1)
}

func Green() color.RGBA {
	return rgba(0.25, 1, 0.25, 1)
}

func SkyBlue() color.RGBA {
	return rgba(0.25, 0.5, 1, 1)
}

// Axis returns the color axis i of a basis is drawn with: red for X, green for Y and sky blue for Z.
func Axis(i int) color.RGBA {
	switch i {
	case 0:
		return Red()
	case 1:
		return Green()
	}
	return SkyBlue()
}
