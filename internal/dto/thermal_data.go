package dto

// ThermalData is the JSON payload served by /thermal for the frontend
// heatmap. Temps is row-major, Height rows by Width columns.
type ThermalData struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Temps  []float64 `json:"temps"`
	Max    float64   `json:"max"`
	Min    float64   `json:"min"`
}
