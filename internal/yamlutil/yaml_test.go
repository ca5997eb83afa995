package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-markrender/internal/yamlutil"
)

type testConfig struct {
	Name    string  `yaml:"name"`
	Count   int     `yaml:"count"`
	Density float64 `yaml:"density"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("name: test\ncount: 42\ndensity: 2.5"),
			dest: &testConfig{},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Name != "test" || cfg.Count != 42 || cfg.Density != 2.5 {
					t.Errorf("got %+v", cfg)
				}
			},
		},
		{name: "nil data", data: nil, dest: &testConfig{}, wantErr: yamlutil.ErrNilData},
		{name: "empty data", data: []byte{}, dest: &testConfig{}, wantErr: yamlutil.ErrNilData},
		{name: "nil destination", data: []byte("name: test"), dest: nil, wantErr: yamlutil.ErrNilDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalStrict() unexpected error: %v", err)
			}
			tt.check(t, tt.dest)
		})
	}
}

func TestUnmarshalStrict_InvalidSyntaxIsWrapped(t *testing.T) {
	t.Parallel()

	err := yamlutil.UnmarshalStrict([]byte("name: [unclosed"), &testConfig{})
	if err == nil || !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("UnmarshalStrict() error = %v, want yamlutil prefix", err)
	}
}

func TestUnmarshalStrict_RejectsUnknownField(t *testing.T) {
	t.Parallel()

	err := yamlutil.UnmarshalStrict([]byte("name: test\nunknown: 1"), &testConfig{})
	if err == nil {
		t.Fatal("UnmarshalStrict() error = nil, want unknown field error")
	}
}

func TestReadStrict(t *testing.T) {
	t.Parallel()

	t.Run("decodes reader", func(t *testing.T) {
		t.Parallel()

		var cfg testConfig
		if err := yamlutil.ReadStrict(strings.NewReader("name: from-reader"), &cfg); err != nil {
			t.Fatalf("ReadStrict() error = %v", err)
		}
		if cfg.Name != "from-reader" {
			t.Errorf("Name = %q", cfg.Name)
		}
	})

	t.Run("oversized input rejected", func(t *testing.T) {
		t.Parallel()

		big := "name: " + strings.Repeat("x", yamlutil.MaxInputSize+10)
		err := yamlutil.ReadStrict(strings.NewReader(big), &testConfig{})
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("ReadStrict() error = %v, want ErrInputTooLarge", err)
		}
	})
}
