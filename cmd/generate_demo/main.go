// Command generate_demo creates a demo database with well-known landmarks
// and writes matching sample import files in every supported format.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db] [-samples dir]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"poiadmin/internal/database"
	"poiadmin/internal/database/pois"
	"poiadmin/internal/entities"
	"poiadmin/internal/importers"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	samplesDir := flag.String("samples", "./demo", "directory for the sample import files")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		log.Fatalf("Failed to create demo directory: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	repo := pois.NewRepository(db.DB)

	for _, poi := range demoLandmarks() {
		poi.AvgRating = importers.AverageRating(poi.Ratings)
		if err := repo.Create(&poi); err != nil {
			log.Printf("Failed to save %s: %v", poi.Name, err)
			continue
		}
		log.Printf("Saved: %s (%s, %d ratings)", poi.Name, poi.Category, len(poi.Ratings))
	}

	if err := writeSampleFiles(*samplesDir); err != nil {
		log.Fatalf("Failed to write sample import files: %v", err)
	}

	log.Println("Demo database generated successfully!")
}

func demoLandmarks() []entities.PointOfInterest {
	return []entities.PointOfInterest{
		{
			ExternalID:  "demo-eiffel",
			Name:        "Eiffel Tower",
			Coordinates: entities.Coordinates{Latitude: 48.8584, Longitude: 2.2945},
			Category:    "landmark",
			Ratings:     entities.RatingList{4.8, 4.9, 4.7},
			Description: "Wrought-iron lattice tower on the Champ de Mars in Paris.",
		},
		{
			ExternalID:  "demo-central-park",
			Name:        "Central Park",
			Coordinates: entities.Coordinates{Latitude: 40.7812, Longitude: -73.9665},
			Category:    "park",
			Ratings:     entities.RatingList{4.5, 4.2, 4.8, 4.1, 4.6},
			Description: "Urban park in Manhattan, New York City.",
		},
		{
			ExternalID:  "demo-louvre",
			Name:        "Louvre Museum",
			Coordinates: entities.Coordinates{Latitude: 48.8606, Longitude: 2.3376},
			Category:    "museum",
			Ratings:     entities.RatingList{4.9, 4.8},
			Description: "The world's most-visited museum, in Paris.",
		},
		{
			ExternalID:  "demo-big-ben",
			Name:        "Big Ben",
			Coordinates: entities.Coordinates{Latitude: 51.5007, Longitude: -0.1246},
			Category:    "landmark",
			Ratings:     entities.RatingList{4.6, 4.7, 4.5},
			Description: "The Great Bell of the clock at the Palace of Westminster.",
		},
		{
			ExternalID:  "demo-sagrada",
			Name:        "Sagrada Familia",
			Coordinates: entities.Coordinates{Latitude: 41.4036, Longitude: 2.1744},
			Category:    "church",
			Ratings:     entities.RatingList{4.9, 4.8, 4.9},
			Description: "Gaudí's unfinished basilica in Barcelona.",
		},
	}
}

// writeSampleFiles renders a few demo points in each import format so the
// import command and the upload endpoint have ready-made inputs.
func writeSampleFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	csvContent := `poi_id,poi_name,poi_latitude,poi_longitude,poi_category,poi_ratings
sample-colosseum,Colosseum,41.8902,12.4922,landmark,"[4.8, 4.7, 4.9]"
sample-hyde-park,Hyde Park,51.5073,-0.1657,park,"[4.4, 4.5]"
`

	jsonContent := `[
  {
    "id": "sample-rijksmuseum",
    "name": "Rijksmuseum",
    "coordinates": {"latitude": 52.36, "longitude": 4.8852},
    "category": "museum",
    "ratings": [4.7, 4.8],
    "description": "Dutch national museum in Amsterdam."
  },
  {
    "id": "sample-brandenburg",
    "name": "Brandenburg Gate",
    "coordinates": {"latitude": 52.5163, "longitude": 13.3777},
    "category": "landmark",
    "ratings": [4.6]
  }
]
`

	xmlContent := `<pois>
  <poi>
    <pid>sample-acropolis</pid>
    <pname>Acropolis of Athens</pname>
    <platitude>37.9715</platitude>
    <plongitude>23.7257</plongitude>
    <pcategory>landmark</pcategory>
    <pratings>4.8,4.9,4.7</pratings>
  </poi>
  <poi>
    <pid>sample-retiro</pid>
    <pname>El Retiro Park</pname>
    <platitude>40.4153</platitude>
    <plongitude>-3.6845</plongitude>
    <pcategory>park</pcategory>
    <pratings>4.5,4.6</pratings>
  </poi>
</pois>
`

	samples := map[string]string{
		"sample_pois.csv":  csvContent,
		"sample_pois.json": jsonContent,
		"sample_pois.xml":  xmlContent,
	}

	var written []string
	for name, content := range samples {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, path)
	}

	log.Printf("Sample import files: %s", strings.Join(written, ", "))
	return nil
}
