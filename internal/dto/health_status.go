package dto

// HealthStatus is the payload served by /healthz. The endpoint never
// fails; each source reports "ok" or "unavailable" plus the latest
// recorded failure reason.
type HealthStatus struct {
	Camera       string `json:"camera"`
	Thermal      string `json:"thermal"`
	CameraError  string `json:"camera_error,omitempty"`
	ThermalError string `json:"thermal_error,omitempty"`
}
