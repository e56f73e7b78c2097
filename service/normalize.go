package service

import (
	"fmt"
	"math"

	"video-gallery/constant"
	"video-gallery/pkg/cloudinary"
)

const bytesPerMB = 1024 * 1024

type Compression struct {
	// Percentage is always non-negative; SizeIncreased tells shrinkage from growth.
	Percentage    int
	SizeIncreased bool
	Ratio         float64
	OriginalMB    string
	CompressedMB  string
	SavingsMB     string
}

func Compress(original, compressed int64) Compression {
	c := Compression{
		OriginalMB:   formatMB(original),
		CompressedMB: formatMB(compressed),
		SavingsMB:    formatMB(original - compressed),
	}
	if original <= 0 {
		return c
	}

	o, z := float64(original), float64(compressed)
	c.Ratio = z / o
	if original > compressed {
		c.Percentage = int(math.Round((o - z) / o * 100))
	} else {
		c.SizeIncreased = compressed > original
		c.Percentage = int(math.Round((z - o) / o * 100))
	}
	return c
}

func formatMB(n int64) string {
	return fmt.Sprintf("%.2f", float64(n)/bytesPerMB)
}

// ResolveVariants maps each requested variant to the URL the provider
// produced for it. Results are matched by their echoed transformation first;
// a variant left unmatched takes the result at its own index when no other
// variant claimed that slot. Anything still missing resolves to nil.
func ResolveVariants(variants []cloudinary.Variant, eager []cloudinary.DerivedAsset) map[constant.Variant]*string {
	urls := make(map[constant.Variant]*string, len(variants))
	claimed := make([]bool, len(eager))
	unmatched := make([]int, 0)

	for i, v := range variants {
		matched := false
		for j, e := range eager {
			if claimed[j] || e.Transformation == "" {
				continue
			}
			if cloudinary.SameTransformation(v.Transformation, e.Transformation) {
				claimed[j] = true
				urls[v.Name] = nonEmpty(e.SecureURL)
				matched = true
				break
			}
		}
		if !matched {
			unmatched = append(unmatched, i)
		}
	}

	for _, i := range unmatched {
		name := variants[i].Name
		if i < len(eager) && !claimed[i] {
			claimed[i] = true
			urls[name] = nonEmpty(eager[i].SecureURL)
			continue
		}
		urls[name] = nil
	}

	return urls
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
