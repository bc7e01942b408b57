package domain

// VectorConfig holds the semantic encoder settings used when config leaves them empty.
type VectorConfig struct {
	Model      string
	Dimensions int
}

// DefaultVectorConfig returns the defaults for the MiniLM sentence encoder.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:      "all-MiniLM-L6-v2",
		Dimensions: 384,
	}
}
