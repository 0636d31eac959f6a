package scene

import "sort"

// Info describes an available scene for listings and UIs
type Info struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
}

// ListResponse is the complete response for /api/scenes
type ListResponse struct {
	Scenes []Info `json:"scenes"`
}

var builtins = map[string]struct {
	info    Info
	builder func() *Scene
}{
	"open": {
		info: Info{
			ID:          "open",
			Name:        "Open",
			DisplayName: "Open Viewport",
			Description: "No obstacles; only the viewport edge stops a march",
		},
		builder: NewOpenScene,
	},
	"single": {
		info: Info{
			ID:          "single",
			Name:        "Single Obstacle",
			DisplayName: "Single Obstacle",
			Description: "One circle in the path of a ray from the left edge",
		},
		builder: NewSingleObstacleScene,
	},
	"corridor": {
		info: Info{
			ID:          "corridor",
			Name:        "Corridor",
			DisplayName: "Winding Corridor",
			Description: "Two staggered rows of circles forming a corridor",
		},
		builder: NewCorridorScene,
	},
	"cluster": {
		info: Info{
			ID:          "cluster",
			Name:        "Cluster",
			DisplayName: "Obstacle Cluster",
			Description: "Circles mixed with polygon-derived bounding circles",
		},
		builder: NewClusterScene,
	},
}

// Create builds a fresh snapshot of the named scene, or nil if unknown
func Create(name string) *Scene {
	entry, ok := builtins[name]
	if !ok {
		return nil
	}
	return entry.builder()
}

// ListAll returns the available scenes sorted by display name
func ListAll() ListResponse {
	var response ListResponse
	for _, entry := range builtins {
		response.Scenes = append(response.Scenes, entry.info)
	}
	sort.Slice(response.Scenes, func(i, j int) bool {
		return response.Scenes[i].DisplayName < response.Scenes[j].DisplayName
	})
	return response
}
