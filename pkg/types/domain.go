package types

// Model represents a discoverable face-stylizer model bundle on disk.
type Model struct {
	// Stable identifier for the bundle.
	// example: cartoon-256
	ID string `json:"id" example:"cartoon-256"`
	// Human-friendly name from the bundle manifest.
	// example: Cartoon (256px)
	Name string `json:"name" example:"Cartoon (256px)"`
	// Absolute path to the bundle (directory or .task archive).
	// example: /home/user/models/faces/cartoon-256.task
	Path string `json:"path" example:"/home/user/models/faces/cartoon-256.task"`
	// Manifest version string.
	// example: 1.2.0
	Version string `json:"version,omitempty" example:"1.2.0"`
	// Fixed edge length of the stylized output in pixels.
	// example: 256
	OutputSize int `json:"output_size,omitempty" example:"256"`
}
