package importers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poiadmin/internal/entities"
)

// memStore is an in-memory Store keyed by external ID.
type memStore struct {
	byExternalID map[string]*entities.PointOfInterest
	nextID       uint

	failGet    error
	failCreate error
	failUpdate error
}

func newMemStore() *memStore {
	return &memStore{byExternalID: make(map[string]*entities.PointOfInterest), nextID: 1}
}

func (s *memStore) GetByExternalID(externalID string) (*entities.PointOfInterest, error) {
	if s.failGet != nil {
		return nil, s.failGet
	}
	poi, ok := s.byExternalID[externalID]
	if !ok {
		return nil, nil
	}
	clone := *poi
	return &clone, nil
}

func (s *memStore) Create(poi *entities.PointOfInterest) error {
	if s.failCreate != nil {
		return s.failCreate
	}
	poi.ID = s.nextID
	s.nextID++
	clone := *poi
	s.byExternalID[poi.ExternalID] = &clone
	return nil
}

func (s *memStore) Update(poi *entities.PointOfInterest) error {
	if s.failUpdate != nil {
		return s.failUpdate
	}
	clone := *poi
	s.byExternalID[poi.ExternalID] = &clone
	return nil
}

func (s *memStore) count() int {
	return len(s.byExternalID)
}

func writeImportFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const pipelineCSV = `poi_id,poi_name,poi_latitude,poi_longitude,poi_category,poi_ratings
C1,Central Park,40.7812,-73.9665,park,"[4.5, 4.2, 4.8, 4.1, 4.6]"
C2,Louvre,48.8606,2.3376,museum,"[4.9]"
`

func TestPipeline_ImportReader_CreatesAndAggregates(t *testing.T) {
	store := newMemStore()
	pipeline := NewPipeline(store)

	report := pipeline.ImportReader("pois.csv", FormatCSV, strings.NewReader(pipelineCSV))

	require.NoError(t, report.Err())
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 0, report.Updated)

	park := store.byExternalID["C1"]
	require.NotNil(t, park)
	assert.Equal(t, "Central Park", park.Name)
	assert.InDelta(t, 4.4, park.AvgRating, 1e-9)
}

func TestPipeline_Idempotent(t *testing.T) {
	store := newMemStore()
	pipeline := NewPipeline(store)

	first := pipeline.ImportReader("pois.csv", FormatCSV, strings.NewReader(pipelineCSV))
	require.NoError(t, first.Err())
	assert.Equal(t, 2, first.Created)
	require.Equal(t, 2, store.count())

	second := pipeline.ImportReader("pois.csv", FormatCSV, strings.NewReader(pipelineCSV))
	require.NoError(t, second.Err())
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Updated)
	assert.Equal(t, 2, store.count())
}

func TestPipeline_DuplicateExternalID_LastWriteWins(t *testing.T) {
	input := `poi_id,poi_name,poi_latitude,poi_longitude,poi_category,poi_ratings
D1,First Name,10,20,cafe,"[3.0]"
D1,Second Name,11,21,restaurant,"[5.0]"
`
	store := newMemStore()
	pipeline := NewPipeline(store)

	report := pipeline.ImportReader("dupes.csv", FormatCSV, strings.NewReader(input))

	require.NoError(t, report.Err())
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	require.Equal(t, 1, store.count())

	poi := store.byExternalID["D1"]
	assert.Equal(t, "Second Name", poi.Name)
	assert.Equal(t, "restaurant", poi.Category)
	assert.InDelta(t, 5.0, poi.AvgRating, 1e-9)
	// Internal identity survives the overwrite.
	assert.Equal(t, uint(1), poi.ID)
}

func TestPipeline_ContinuesPastBadRecords(t *testing.T) {
	input := `poi_id,poi_name,poi_latitude,poi_longitude,poi_category,poi_ratings
G1,Good,10,20,park,"[4.0]"
G2,Bad Latitude,not-a-number,20,park,"[4.0]"
G3,Out Of Range,95,20,park,"[4.0]"
,Missing ID,10,20,park,"[4.0]"
G5,Also Good,11,21,museum,"[3.5]"
`
	store := newMemStore()
	pipeline := NewPipeline(store)

	report := pipeline.ImportReader("mixed.csv", FormatCSV, strings.NewReader(input))

	require.NoError(t, report.Err())
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 3, report.Failed)
	assert.Len(t, report.Errors, 3)
	assert.Equal(t, 2, store.count())
	assert.Contains(t, report.Summary(), "2 imported, 3 failed")
}

func TestPipeline_PersistenceFailureIsPerRecord(t *testing.T) {
	store := newMemStore()
	store.failCreate = errors.New("disk full")
	pipeline := NewPipeline(store)

	report := pipeline.ImportReader("pois.csv", FormatCSV, strings.NewReader(pipelineCSV))

	require.NoError(t, report.Err())
	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	require.NotEmpty(t, report.Errors)
	assert.Contains(t, report.Errors[0], "persistence failed")
}

func TestPipeline_FailedUpdateKeepsPreviousEntity(t *testing.T) {
	store := newMemStore()
	pipeline := NewPipeline(store)

	first := pipeline.ImportReader("pois.csv", FormatCSV, strings.NewReader(pipelineCSV))
	require.NoError(t, first.Err())

	store.failUpdate = errors.New("locked")
	updated := `poi_id,poi_name,poi_latitude,poi_longitude,poi_category,poi_ratings
C1,Renamed Park,1,2,garden,"[1.0]"
`
	second := pipeline.ImportReader("pois.csv", FormatCSV, strings.NewReader(updated))
	assert.Equal(t, 1, second.Failed)

	poi := store.byExternalID["C1"]
	require.NotNil(t, poi)
	assert.Equal(t, "Central Park", poi.Name)
}

func TestPipeline_ImportFile(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		pipeline := NewPipeline(newMemStore())
		report := pipeline.ImportFile("pois.yaml")
		require.Error(t, report.Err())
		assert.ErrorIs(t, report.Err(), ErrUnsupportedFormat)
		assert.Contains(t, report.Summary(), "skipped")
	})

	t.Run("missing file", func(t *testing.T) {
		pipeline := NewPipeline(newMemStore())
		report := pipeline.ImportFile(filepath.Join(t.TempDir(), "absent.csv"))
		assert.ErrorIs(t, report.Err(), ErrFileUnreadable)
	})

	t.Run("reads from disk", func(t *testing.T) {
		store := newMemStore()
		pipeline := NewPipeline(store)
		path := writeImportFile(t, "pois.csv", pipelineCSV)

		report := pipeline.ImportFile(path)
		require.NoError(t, report.Err())
		assert.Equal(t, FormatCSV, report.Format)
		assert.Equal(t, 2, report.Succeeded)
	})
}

func TestPipeline_ImportFiles_Batch(t *testing.T) {
	store := newMemStore()
	pipeline := NewPipeline(store)

	good := writeImportFile(t, "good.csv", pipelineCSV)
	batch := pipeline.ImportFiles([]string{good, "bad.txt"})

	require.Len(t, batch.Files, 2)
	assert.Equal(t, 2, batch.TotalSucceeded())
	assert.Equal(t, 0, batch.TotalFailed())
	assert.False(t, batch.AllFilesFailed())
	assert.NoError(t, batch.Files[0].Err())
	assert.Error(t, batch.Files[1].Err())
}

func TestBatchReport_AllFilesFailed(t *testing.T) {
	empty := BatchReport{}
	assert.False(t, empty.AllFilesFailed())

	failed := BatchReport{Files: []FileReport{
		FailedFileReport("a.txt", ErrUnsupportedFormat),
		FailedFileReport("b.pdf", ErrUnsupportedFormat),
	}}
	assert.True(t, failed.AllFilesFailed())
}

func TestPipeline_CrossFormatDedup(t *testing.T) {
	store := newMemStore()
	pipeline := NewPipeline(store)

	csvReport := pipeline.ImportReader("pois.csv", FormatCSV, strings.NewReader(
		"poi_id,poi_name,poi_latitude,poi_longitude,poi_category,poi_ratings\n"+
			"X1,CSV Name,10,20,park,\"[4.0]\"\n"))
	require.NoError(t, csvReport.Err())

	jsonReport := pipeline.ImportReader("pois.json", FormatJSON, strings.NewReader(
		`{"id": "X1", "name": "JSON Name", "coordinates": {"latitude": 11, "longitude": 21}, "category": "museum", "ratings": [5.0]}`))
	require.NoError(t, jsonReport.Err())
	assert.Equal(t, 1, jsonReport.Updated)

	require.Equal(t, 1, store.count())
	assert.Equal(t, "JSON Name", store.byExternalID["X1"].Name)
}
