package pois

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"poiadmin/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_pois_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.PointOfInterest{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestPoI(t *testing.T, repo *Repository, externalID, name, category string) *entities.PointOfInterest {
	poi := &entities.PointOfInterest{
		ExternalID:  externalID,
		Name:        name,
		Coordinates: entities.Coordinates{Latitude: 48.8584, Longitude: 2.2945},
		Category:    category,
		Ratings:     entities.RatingList{4.5, 4.0},
		AvgRating:   4.3,
	}
	require.NoError(t, repo.Create(poi))
	return poi
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	created := createTestPoI(t, repo, "P1", "Eiffel Tower", "landmark")
	require.NotZero(t, created.ID)

	found, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "P1", found.ExternalID)
	assert.Equal(t, "Eiffel Tower", found.Name)
	assert.Equal(t, entities.RatingList{4.5, 4.0}, found.Ratings)
	assert.InDelta(t, 48.8584, found.Coordinates.Latitude, 1e-9)
}

func TestRepository_GetByExternalID(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestPoI(t, repo, "P1", "Eiffel Tower", "landmark")

	found, err := repo.GetByExternalID("P1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Eiffel Tower", found.Name)

	// Absence is not an error.
	missing, err := repo.GetByExternalID("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_ExternalIDUnique(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestPoI(t, repo, "P1", "First", "park")

	dup := &entities.PointOfInterest{
		ExternalID: "P1",
		Name:       "Second",
		Category:   "park",
		Ratings:    entities.RatingList{},
	}
	assert.Error(t, repo.Create(dup))
}

func TestRepository_Update_FullReplace(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	poi := createTestPoI(t, repo, "P1", "Old Name", "park")
	poi.Name = "New Name"
	poi.Category = "garden"
	poi.Ratings = entities.RatingList{}
	poi.AvgRating = 0
	poi.Description = ""

	require.NoError(t, repo.Update(poi))

	updated, err := repo.GetByID(poi.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "garden", updated.Category)
	// Zero values are written too.
	assert.Empty(t, updated.Ratings)
	assert.Zero(t, updated.AvgRating)
}

func TestRepository_Update_RequiresID(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Update(&entities.PointOfInterest{ExternalID: "P1", Name: "X", Category: "y"})
	assert.Error(t, err)
}

func TestRepository_List(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestPoI(t, repo, "P1", "Central Park", "park")
	createTestPoI(t, repo, "P2", "Louvre", "museum")
	createTestPoI(t, repo, "P3", "Hyde Park", "park")

	t.Run("no filters returns all ordered by name", func(t *testing.T) {
		pois, err := repo.List("", "")
		require.NoError(t, err)
		require.Len(t, pois, 3)
		assert.Equal(t, "Central Park", pois[0].Name)
		assert.Equal(t, "Hyde Park", pois[1].Name)
	})

	t.Run("query matches name case-insensitively", func(t *testing.T) {
		pois, err := repo.List("louv", "")
		require.NoError(t, err)
		require.Len(t, pois, 1)
		assert.Equal(t, "Louvre", pois[0].Name)
	})

	t.Run("query matches external id", func(t *testing.T) {
		pois, err := repo.List("P2", "")
		require.NoError(t, err)
		assert.Len(t, pois, 1)
	})

	t.Run("category filter", func(t *testing.T) {
		pois, err := repo.List("", "park")
		require.NoError(t, err)
		assert.Len(t, pois, 2)
	})

	t.Run("query and category combine", func(t *testing.T) {
		pois, err := repo.List("hyde", "park")
		require.NoError(t, err)
		require.Len(t, pois, 1)
		assert.Equal(t, "Hyde Park", pois[0].Name)
	})
}

func TestRepository_Categories(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestPoI(t, repo, "P1", "Central Park", "park")
	createTestPoI(t, repo, "P2", "Louvre", "museum")
	createTestPoI(t, repo, "P3", "Hyde Park", "park")

	categories, err := repo.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"museum", "park"}, categories)
}

func TestRepository_Delete(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	poi := createTestPoI(t, repo, "P1", "Central Park", "park")

	require.NoError(t, repo.Delete(poi.ID))

	_, err := repo.GetByID(poi.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(poi.ID), gorm.ErrRecordNotFound)
}

func TestRepository_DeleteAll(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestPoI(t, repo, "P1", "Central Park", "park")
	createTestPoI(t, repo, "P2", "Louvre", "museum")

	removed, err := repo.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepository_CountByCategory(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestPoI(t, repo, "P1", "Central Park", "park")
	createTestPoI(t, repo, "P2", "Louvre", "museum")
	createTestPoI(t, repo, "P3", "Hyde Park", "park")

	counts, err := repo.CountByCategory()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"park": 2, "museum": 1}, counts)
}
