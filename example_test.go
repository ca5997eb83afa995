package markrender_test

import (
	"context"
	"fmt"

	markrender "github.com/alnah/go-markrender"
)

func ExampleRenderer_Render() {
	r := markrender.NewRenderer()
	src := markrender.WithPreamble("# Hello\n\nWorld", markrender.PageSizePreview, markrender.ThemeLight)

	out, err := r.Render(context.Background(), markrender.Input{Source: src, Format: markrender.FormatPDF})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(out.Blobs), out.MorePages, out.Format)
	// Output: 1 0 pdf
}

func ExamplePixelsPerPoint() {
	ppp, _ := markrender.PixelsPerPoint(markrender.Size{W: 100, H: 100}, markrender.DesiredResolution)
	fmt.Println(ppp)

	_, err := markrender.PixelsPerPoint(markrender.Size{W: 40000, H: 10}, markrender.DesiredResolution)
	fmt.Println(err)
	// Output:
	// 30
	// rendered output was too big: the X axis was 40000 pt but the maximum is 30000
}

func ExamplePreamble() {
	fmt.Print(markrender.Preamble(markrender.PageSizeDefault, markrender.ThemeLight))
	// Output:
	// // Begin preamble
	// // Page size:
	// // Theme:
	// #set page(fill: white)
	// // End preamble
}
