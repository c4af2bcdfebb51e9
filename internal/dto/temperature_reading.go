package dto

// TemperatureReading is the JSON payload served by /temperature, rounded
// to two decimals.
type TemperatureReading struct {
	Max float64 `json:"max"`
	Min float64 `json:"min"`
}

// LiveReading is pushed over the live websocket on every thermal sample.
type LiveReading struct {
	Time string  `json:"time"`
	Max  float64 `json:"max"`
	Min  float64 `json:"min"`
}

// ErrorResponse is the structured error payload for JSON endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
