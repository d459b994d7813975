package azmaps

// featureCollection is the GeoJSON response of the geocoding endpoint.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// feature is a single geocoding candidate.
type feature struct {
	Type       string     `json:"type"`
	Geometry   geometry   `json:"geometry"`
	Properties properties `json:"properties"`
}

// geometry carries the point coordinates.
// The wire order is [longitude, latitude].
type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// properties holds the subset of feature metadata the client reads.
type properties struct {
	Confidence string `json:"confidence"`
}
