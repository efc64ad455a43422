package importers

// ParsedRecord is the format-independent intermediate shape every parser
// produces. Latitude and Longitude are kept as raw strings: coercion to
// floating point is the normalizer's job, so a non-numeric value becomes an
// invalid-coordinate failure rather than a parse failure.
type ParsedRecord struct {
	Format      Format
	Position    int // 1-based record position within the source file
	ExternalID  string
	Name        string
	Latitude    string
	Longitude   string
	Category    string
	Ratings     []float64
	Description string
}
