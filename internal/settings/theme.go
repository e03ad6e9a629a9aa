package settings

import "sync"

// Palette holds the colours the client renders with.
type Palette struct {
	Primary          string `json:"primary"`
	Secondary        string `json:"secondary"`
	Tertiary         string `json:"tertiary"`
	Accent           string `json:"accent"`
	Background       string `json:"background"`
	Surface          string `json:"surface"`
	SurfaceVariant   string `json:"surface_variant"`
	OnSurface        string `json:"on_surface"`
	OnSurfaceVariant string `json:"on_surface_variant"`
	OnBackground     string `json:"on_background"`
}

var (
	LightPalette = Palette{
		Primary:          "#6B4EE6",
		Secondary:        "#FF5C5C",
		Tertiary:         "#00C6AE",
		Accent:           "#FFA73B",
		Background:       "#FFFFFF",
		Surface:          "#FFFFFF",
		SurfaceVariant:   "#F5F5F5",
		OnSurface:        "#1A1A1A",
		OnSurfaceVariant: "#666666",
		OnBackground:     "#1A1A1A",
	}
	DarkPalette = Palette{
		Primary:          "#9B7EFF",
		Secondary:        "#FF8080",
		Tertiary:         "#40E0D0",
		Accent:           "#FFB366",
		Background:       "#121212",
		Surface:          "#1E1E1E",
		SurfaceVariant:   "#2C2C2C",
		OnSurface:        "#FFFFFF",
		OnSurfaceVariant: "#AAAAAA",
		OnBackground:     "#FFFFFF",
	}
)

// Theme is the current appearance.
type Theme struct {
	DarkMode bool    `json:"dark_mode"`
	Colors   Palette `json:"colors"`
}

func themeFor(dark bool) Theme {
	if dark {
		return Theme{DarkMode: true, Colors: DarkPalette}
	}
	return Theme{DarkMode: false, Colors: LightPalette}
}

// Preferences is passed explicitly to whatever renders; subscribers are
// notified after every change.
type Preferences struct {
	mu        sync.RWMutex
	dark      bool
	observers []func(Theme)
}

func NewPreferences(dark bool) *Preferences {
	return &Preferences{dark: dark}
}

func (p *Preferences) Theme() Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return themeFor(p.dark)
}

// Subscribe registers fn for future changes.
func (p *Preferences) Subscribe(fn func(Theme)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

// SetDarkMode changes the mode; observers run only on an actual change.
func (p *Preferences) SetDarkMode(dark bool) Theme {
	return p.update(func(bool) bool { return dark })
}

func (p *Preferences) Toggle() Theme {
	return p.update(func(cur bool) bool { return !cur })
}

func (p *Preferences) update(next func(bool) bool) Theme {
	p.mu.Lock()
	dark := next(p.dark)
	changed := p.dark != dark
	p.dark = dark
	observers := append(([]func(Theme))(nil), p.observers...)
	p.mu.Unlock()

	t := themeFor(dark)
	if changed {
		for _, fn := range observers {
			fn(t)
		}
	}
	return t
}
