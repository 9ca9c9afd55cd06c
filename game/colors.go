package game

// Fixed display color palette. Larger than MAX_PLAYERS, so a room normally
// never exhausts it; if the cap is ever raised past the palette size, colors
// degrade to non-unique by cycling in palette order rather than retrying
// forever.
var colorPalette = []string{
	"#e6194b", // red
	"#3cb44b", // green
	"#4363d8", // blue
	"#f58231", // orange
	"#911eb4", // purple
	"#42d4f4", // cyan
	"#f032e6", // magenta
	"#bfef45", // lime
}

// pickColor returns a random color not yet used in the room, or cycles the
// palette by seat count once every color is taken.
func pickColor(used map[string]bool, seatCount int, rng Randomizer) string {
	unused := make([]string, 0, len(colorPalette))
	for _, c := range colorPalette {
		if !used[c] {
			unused = append(unused, c)
		}
	}
	if len(unused) == 0 {
		return colorPalette[seatCount%len(colorPalette)]
	}
	return unused[rng.Intn(len(unused))]
}
