package img2paint

import (
	"fmt"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/wbrown/img2paint/imageutil"
)

// SuggestMethod selects how SuggestPalette picks colors.
type SuggestMethod int

const (
	// SuggestKMeans clusters the visible pixels with k-means and keeps the
	// most populated cluster centers.
	SuggestKMeans SuggestMethod = iota

	// SuggestDominant uses dominant color extraction ordered by weight.
	SuggestDominant
)

func (m SuggestMethod) String() string {
	switch m {
	case SuggestDominant:
		return "dominant"
	default:
		return "kmeans"
	}
}

// maxSuggestSamples bounds the k-means dataset on large rasters.
const maxSuggestSamples = 12000

// SuggestPalette proposes up to k colors for the raster, labelled 1..n in
// order of prominence. Fully transparent pixels are ignored; a raster with
// no visible pixels yields an empty palette.
func SuggestPalette(r *imageutil.Raster, k int, method SuggestMethod) (Palette, error) {
	if err := checkRaster(r); err != nil {
		return nil, err
	}
	if k < 1 || k > MaxPaletteSize {
		return nil, fmt.Errorf("%w: suggested palette size %d, want 1-%d",
			ErrInvalidArgument, k, MaxPaletteSize)
	}
	if !hasVisiblePixel(r) {
		return Palette{}, nil
	}
	switch method {
	case SuggestDominant:
		return paletteFromColors(dominantColors(r, k)), nil
	default:
		colors, err := kmeansColors(r, k)
		if err != nil {
			return nil, err
		}
		return paletteFromColors(colors), nil
	}
}

func hasVisiblePixel(r *imageutil.Raster) bool {
	for i := 3; i < len(r.Pix); i += 4 {
		if r.Pix[i] != 0 {
			return true
		}
	}
	return false
}

func kmeansColors(r *imageutil.Raster, k int) ([]colorful.Color, error) {
	step := 1
	if n := r.Width * r.Height; n > maxSuggestSamples {
		step = int(math.Sqrt(float64(n)/float64(maxSuggestSamples))) + 1
	}

	var dataset clusters.Observations
	for y := 0; y < r.Height; y += step {
		for x := 0; x < r.Width; x += step {
			if r.Alpha(x, y) == 0 {
				continue
			}
			c := r.GetRGB(x, y)
			dataset = append(dataset, clusters.Coordinates{
				float64(c.R) / 255,
				float64(c.G) / 255,
				float64(c.B) / 255,
			})
		}
	}
	if len(dataset) == 0 {
		return nil, nil
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, min(k, len(dataset)))
	if err != nil {
		return nil, fmt.Errorf("kmeans partition: %w", err)
	}

	// Most populated clusters first.
	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	out := make([]colorful.Color, 0, len(cc))
	for _, c := range cc {
		if col, ok := clusterMean(c.Observations); ok {
			out = append(out, col)
		}
	}
	return out, nil
}

// clusterMean averages a cluster's observations. Partition can return a
// cluster whose Center is still its random seed.
func clusterMean(obs clusters.Observations) (colorful.Color, bool) {
	var sum [3]float64
	n := 0
	for _, o := range obs {
		coords := o.Coordinates()
		if len(coords) < 3 {
			continue
		}
		sum[0] += coords[0]
		sum[1] += coords[1]
		sum[2] += coords[2]
		n++
	}
	if n == 0 {
		return colorful.Color{}, false
	}
	k := float64(n)
	return colorful.Color{R: sum[0] / k, G: sum[1] / k, B: sum[2] / k}, true
}

func dominantColors(r *imageutil.Raster, k int) []colorful.Color {
	return weightedColors(dominantcolor.FindWeight(r.NRGBA(), k))
}

// weightedColors orders candidates by weight and drops fully transparent
// ones.
func weightedColors(candidates []dominantcolor.Color) []colorful.Color {
	slices.SortStableFunc(candidates, func(a, b dominantcolor.Color) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})
	out := make([]colorful.Color, 0, len(candidates))
	for _, c := range candidates {
		col, ok := colorful.MakeColor(c.RGBA)
		if !ok {
			continue
		}
		out = append(out, col)
	}
	return out
}

// paletteFromColors labels colors 1..n, dropping exact duplicates and
// anything past MaxPaletteSize.
func paletteFromColors(colors []colorful.Color) Palette {
	p := make(Palette, 0, len(colors))
	seen := make(map[Color]bool)
	for _, col := range colors {
		r, g, b := col.Clamped().RGB255()
		c := Color{r, g, b}
		if seen[c] || len(p) == MaxPaletteSize {
			continue
		}
		seen[c] = true
		p = append(p, PaletteEntry{Color: c, Label: len(p) + 1})
	}
	return p
}
