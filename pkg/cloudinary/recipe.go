package cloudinary

import (
	"sort"
	"strings"

	"video-gallery/constant"
)

// Variant is one eager derivation requested at upload time.
type Variant struct {
	Name           constant.Variant
	Transformation string
}

// Recipe describes how the provider should store the source upload and which
// derived variants it must produce before answering.
type Recipe struct {
	Folder         string
	ResourceType   string
	Transformation string
	Variants       []Variant
}

func DefaultRecipe() Recipe {
	return Recipe{
		Folder:         constant.UploadFolder,
		ResourceType:   constant.ResourceTypeVideo,
		Transformation: "q_auto:low,f_mp4,vc_auto,br_auto",
		Variants: []Variant{
			{Name: constant.VariantHighQuality, Transformation: "q_auto:low,f_mp4,vc_auto,br_auto,ac_aac"},
			{Name: constant.VariantPreview, Transformation: "q_auto:low,f_mp4,vc_auto,e_preview:duration_10"},
			{Name: constant.VariantThumbnail, Transformation: "f_jpg,c_fill,g_auto,w_400,h_225,q_auto:low"},
		},
	}
}

// EagerString joins the variants in request order, the format the upload API expects.
func (r Recipe) EagerString() string {
	parts := make([]string, 0, len(r.Variants))
	for _, v := range r.Variants {
		parts = append(parts, v.Transformation)
	}
	return strings.Join(parts, "|")
}

// SameTransformation reports whether two transformation strings name the same
// set of components. The provider is free to reorder components when echoing.
func SameTransformation(a, b string) bool {
	return canonical(a) == canonical(b)
}

func canonical(t string) string {
	parts := strings.Split(strings.TrimSpace(t), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
