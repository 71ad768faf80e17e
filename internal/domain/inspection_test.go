package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func photosFor(categories ...PhotoCategory) []PhotoEvidence {
	photos := make([]PhotoEvidence, 0, len(categories))
	for _, c := range categories {
		photos = append(photos, PhotoEvidence{Category: c, StorageKey: "key-" + string(c)})
	}
	return photos
}

func TestMissingPhotoCategories(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		missing := MissingPhotoCategories(photosFor(RequiredPhotoCategories...))
		assert.Empty(t, missing)
	})

	t.Run("five of seven", func(t *testing.T) {
		missing := MissingPhotoCategories(photosFor(
			PhotoCategoryFront, PhotoCategoryRear, PhotoCategoryLeft,
			PhotoCategoryRight, PhotoCategoryInterior,
		))
		assert.Equal(t, []PhotoCategory{PhotoCategoryOdometer, PhotoCategoryFuel}, missing)
	})

	t.Run("extras do not substitute for required", func(t *testing.T) {
		missing := MissingPhotoCategories(photosFor(
			PhotoCategoryDefects, PhotoCategoryDefects, PhotoCategoryFront,
		))
		assert.Len(t, missing, 6)
	})
}
