package overlay_test

import (
	"fmt"
	"math"

	"github.com/matzehuels/poimap/pkg/overlay"
	"github.com/matzehuels/poimap/pkg/poi"
)

func ExampleCirclePositions() {
	for _, p := range overlay.CirclePositions(0, 0, 4, 1000, 100) {
		fmt.Printf("(%d, %d)\n", int(math.Round(p.X)), int(math.Round(p.Y)))
	}
	// Output:
	// (1400, 0)
	// (0, 1400)
	// (-1400, 0)
	// (0, -1400)
}

func ExampleBuild() {
	frame := overlay.Frame{
		Extent:      overlay.Extent{XMin: 0, XMax: 100000, YMin: 0, YMax: 50000},
		DPI:         100,
		WidthInches: 10,
	}
	pois := []poi.POI{{
		ID:     "HD-1",
		Kind:   poi.KindUniquePoints,
		X:      50000,
		Y:      25000,
		Icon:   "HardDrive",
		Points: 42000,
		Items:  []poi.ItemStack{{Type: "Screw", Count: 3, Label: "x30"}},
	}}

	scene, err := overlay.Build(frame, overlay.DefaultStyle(), overlay.DefaultOptions(), pois)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, m := range scene.Ordered() {
		switch m.Type {
		case overlay.MarkImage:
			fmt.Println(m.Type, m.Icon)
		case overlay.MarkText:
			fmt.Println(m.Type, m.Text)
		default:
			fmt.Println(m.Type)
		}
	}
	// Output:
	// image HardDrive
	// circle
	// image Screw
	// text x30
	// text HD-1
	// text 42k
}
