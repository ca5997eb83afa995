package assets

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "slides", wantErr: false},
		{name: "dash and digits", input: "a4-notes_2", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "traversal", input: "../etc/passwd", wantErr: true},
		{name: "slash", input: "std/slides", wantErr: true},
		{name: "backslash", input: "a\\b", wantErr: true},
		{name: "extension", input: "slides.md", wantErr: true},
		{name: "uppercase", input: "Slides", wantErr: true},
		{name: "too long", input: strings.Repeat("a", maxAssetNameLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAssetName) {
					t.Errorf("ValidateAssetName(%q) = %v, want ErrInvalidAssetName", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestEmbeddedLoader_LoadModule(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	t.Run("existing module", func(t *testing.T) {
		t.Parallel()

		src, err := loader.LoadModule("slides")
		if err != nil {
			t.Fatalf("LoadModule(slides) error = %v", err)
		}
		if !strings.Contains(src, "#set page(") {
			t.Errorf("slides module = %q, want page directive", src)
		}
	})

	t.Run("missing module", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadModule("nope")
		if !errors.Is(err, ErrModuleNotFound) {
			t.Errorf("LoadModule(nope) error = %v, want ErrModuleNotFound", err)
		}
	})

	t.Run("definitions are not a module", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadModule("definitions")
		if !errors.Is(err, ErrModuleNotFound) {
			t.Errorf("LoadModule(definitions) error = %v, want ErrModuleNotFound", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadModule("../library/slides")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadModule() error = %v, want ErrInvalidAssetName", err)
		}
	})
}

func TestEmbeddedLoader_Modules(t *testing.T) {
	t.Parallel()

	got := NewEmbeddedLoader().Modules()
	want := []string{"note", "poster", "receipt", "slides"}
	if !slices.Equal(got, want) {
		t.Errorf("Modules() = %v, want %v", got, want)
	}
}

func TestDefault_Definitions(t *testing.T) {
	t.Parallel()

	defs := Default().Definitions()

	if _, ok := defs.Papers[defs.Page.Paper]; !ok {
		t.Errorf("default paper %q missing", defs.Page.Paper)
	}
	if a4 := defs.Papers["a4"]; a4.Width != 595.28 || a4.Height != 841.89 {
		t.Errorf("a4 = %+v", a4)
	}
	white, ok := defs.Color("white")
	if !ok || white.R != 0xff || white.G != 0xff || white.B != 0xff || white.A != 0xff {
		t.Errorf("Color(white) = %v, %v", white, ok)
	}
	if _, ok := defs.Color("no-such-color"); ok {
		t.Error("Color(no-such-color) ok = true")
	}
	if got := defs.HeadingScale(0); got != defs.Headings[0] {
		t.Errorf("HeadingScale(0) = %v, want clamp to level 1", got)
	}
	if got := defs.HeadingScale(9); got != defs.Headings[5] {
		t.Errorf("HeadingScale(9) = %v, want clamp to level 6", got)
	}
}

func TestDefault_IsShared(t *testing.T) {
	t.Parallel()

	if Default() != Default() {
		t.Error("Default() returned different instances")
	}
	if DefaultFontBook() != DefaultFontBook() {
		t.Error("DefaultFontBook() returned different instances")
	}
}

func TestParseHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    [3]uint8
		wantErr bool
	}{
		{in: "#313338", want: [3]uint8{0x31, 0x33, 0x38}},
		{in: "#fff", want: [3]uint8{0xff, 0xff, 0xff}},
		{in: "313338", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			c, err := ParseHex(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseHex(%q) error = nil", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) error = %v", tt.in, err)
			}
			if [3]uint8{c.R, c.G, c.B} != tt.want || c.A != 0xff {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.in, c, tt.want)
			}
		})
	}
}

func TestFontBook(t *testing.T) {
	t.Parallel()

	book := DefaultFontBook()
	variants := []Variant{
		VariantRegular,
		VariantBold,
		VariantItalic,
		VariantBold | VariantItalic,
		VariantMono,
		VariantMono | VariantBold,
		VariantMono | VariantItalic,
		VariantMono | VariantBold | VariantItalic,
	}
	seen := map[*byte]Variant{}
	for _, v := range variants {
		f, err := book.Font(v)
		if err != nil || f == nil {
			t.Fatalf("Font(%s) = %v, %v", v, f, err)
		}
		data := book.Data(v)
		if len(data) == 0 {
			t.Fatalf("Data(%s) empty", v)
		}
		if prev, dup := seen[&data[0]]; dup {
			t.Errorf("Data(%s) shares bytes with %s", v, prev)
		}
		seen[&data[0]] = v
	}
}

func TestVariant_String(t *testing.T) {
	t.Parallel()

	tests := map[Variant]string{
		VariantRegular:                            "sans",
		VariantBold:                               "sans-bold",
		VariantMono | VariantItalic:               "mono-italic",
		VariantMono | VariantBold | VariantItalic: "mono-bold-italic",
	}
	for v, want := range tests {
		if got := v.String(); got != want {
			t.Errorf("Variant(%d).String() = %q, want %q", v, got, want)
		}
	}
}

func TestFontBook_NilReceiver(t *testing.T) {
	t.Parallel()

	var book *FontBook
	if _, err := book.Font(VariantRegular); !errors.Is(err, ErrFontNotFound) {
		t.Errorf("nil FontBook Font() error = %v, want ErrFontNotFound", err)
	}
}
