package profile

import "sort"

// Profile defines thumbnail parameters for a target site.
type Profile struct {
	Name     string
	Boxes    []int   // bounding square edge of each thumbnail, in px
	Quality  float32 // WebP quality 0-100
	Lossless bool    // encode VP8L instead of lossy VP8
	Retina   bool    // also generate 2x thumbnails
}

// DefaultName is used when no profile is requested.
const DefaultName = "meguca"

// Built-in profiles.
var profiles = map[string]Profile{
	"meguca": {
		Name:    "meguca",
		Boxes:   []int{150},
		Quality: 80,
		Retina:  true,
	},
	"meguca-hq": {
		Name:    "meguca-hq",
		Boxes:   []int{150, 250},
		Quality: 90,
		Retina:  true,
	},
	"lossless": {
		Name:     "lossless",
		Boxes:    []int{256},
		Quality:  100,
		Lossless: true,
	},
	"minimal": {
		Name:    "minimal",
		Boxes:   []int{128},
		Quality: 70,
	},
}

// Get returns a profile by name. Falls back to meguca if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profiles.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ClampQuality limits q to libwebp's 0-100 range.
func ClampQuality(q float32) float32 {
	switch {
	case q < 0:
		return 0
	case q > 100:
		return 100
	}
	return q
}

// EffectiveBoxes returns the thumbnail boxes to produce for a source of
// origW×origH, retina doubles included, in ascending order.
func (p Profile) EffectiveBoxes(origW, origH int) []int {
	long := origW
	if origH > long {
		long = origH
	}

	seen := map[int]bool{}
	var result []int
	add := func(b int) {
		if b > 0 && b <= long && !seen[b] {
			seen[b] = true
			result = append(result, b)
		}
	}
	for _, b := range p.Boxes {
		add(b)
		if p.Retina {
			add(b * 2)
		}
	}

	// Source smaller than every box: one thumbnail at its own size.
	if len(result) == 0 && long > 0 {
		result = append(result, long)
	}

	sort.Ints(result)
	return result
}
