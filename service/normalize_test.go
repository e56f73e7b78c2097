package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"video-gallery/constant"
	"video-gallery/pkg/cloudinary"
)

func TestCompress(t *testing.T) {
	t.Run("shrunk", func(t *testing.T) {
		c := Compress(10_000_000, 6_000_000)
		assert.Equal(t, 40, c.Percentage)
		assert.False(t, c.SizeIncreased)
		assert.InDelta(t, 0.6, c.Ratio, 1e-9)
		assert.Equal(t, "9.54", c.OriginalMB)
		assert.Equal(t, "5.72", c.CompressedMB)
		assert.Equal(t, "3.81", c.SavingsMB)
	})

	t.Run("grew", func(t *testing.T) {
		c := Compress(5_000_000, 6_000_000)
		assert.Equal(t, 20, c.Percentage)
		assert.True(t, c.SizeIncreased)
		assert.InDelta(t, 1.2, c.Ratio, 1e-9)
		assert.Equal(t, "-0.95", c.SavingsMB)
	})

	t.Run("unchanged", func(t *testing.T) {
		c := Compress(1024, 1024)
		assert.Equal(t, 0, c.Percentage)
		assert.False(t, c.SizeIncreased)
		assert.Equal(t, 1.0, c.Ratio)
	})

	t.Run("unknown original", func(t *testing.T) {
		c := Compress(0, 1024)
		assert.Equal(t, 0, c.Percentage)
		assert.Equal(t, 0.0, c.Ratio)
		assert.Equal(t, "0.00", c.OriginalMB)
	})
}

func TestResolveVariants(t *testing.T) {
	recipe := cloudinary.DefaultRecipe()
	high := recipe.Variants[0].Transformation
	preview := recipe.Variants[1].Transformation
	thumb := recipe.Variants[2].Transformation

	t.Run("tagged results in any order", func(t *testing.T) {
		urls := ResolveVariants(recipe.Variants, []cloudinary.DerivedAsset{
			{Transformation: "w_400,h_225,c_fill,g_auto,f_jpg,q_auto:low", SecureURL: "thumb"},
			{Transformation: high, SecureURL: "high"},
			{Transformation: preview, SecureURL: "preview"},
		})
		require.Len(t, urls, 3)
		assert.Equal(t, "high", *urls[constant.VariantHighQuality])
		assert.Equal(t, "preview", *urls[constant.VariantPreview])
		assert.Equal(t, "thumb", *urls[constant.VariantThumbnail])
		assert.True(t, cloudinary.SameTransformation(thumb, "w_400,h_225,c_fill,g_auto,f_jpg,q_auto:low"))
	})

	t.Run("untagged results map by position", func(t *testing.T) {
		urls := ResolveVariants(recipe.Variants, []cloudinary.DerivedAsset{
			{SecureURL: "a"}, {SecureURL: "b"}, {SecureURL: "c"},
		})
		assert.Equal(t, "a", *urls[constant.VariantHighQuality])
		assert.Equal(t, "b", *urls[constant.VariantPreview])
		assert.Equal(t, "c", *urls[constant.VariantThumbnail])
	})

	t.Run("fewer results than requested", func(t *testing.T) {
		urls := ResolveVariants(recipe.Variants, []cloudinary.DerivedAsset{{SecureURL: "only"}})
		assert.Equal(t, "only", *urls[constant.VariantHighQuality])
		assert.Nil(t, urls[constant.VariantPreview])
		assert.Nil(t, urls[constant.VariantThumbnail])
	})

	t.Run("no results", func(t *testing.T) {
		urls := ResolveVariants(recipe.Variants, nil)
		require.Len(t, urls, 3)
		for _, u := range urls {
			assert.Nil(t, u)
		}
	})

	t.Run("claimed slot is not reused", func(t *testing.T) {
		urls := ResolveVariants(recipe.Variants, []cloudinary.DerivedAsset{
			{Transformation: thumb, SecureURL: "thumb"},
			{SecureURL: "second"},
		})
		assert.Nil(t, urls[constant.VariantHighQuality])
		assert.Equal(t, "second", *urls[constant.VariantPreview])
		assert.Equal(t, "thumb", *urls[constant.VariantThumbnail])
	})

	t.Run("empty url is null", func(t *testing.T) {
		urls := ResolveVariants(recipe.Variants, []cloudinary.DerivedAsset{{Transformation: high}})
		assert.Nil(t, urls[constant.VariantHighQuality])
	})
}
