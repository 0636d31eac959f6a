package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/btbonval/raymarch/pkg/scene"
)

const tolerance = 1e-9

func testServer() *Server {
	return New(":0", nil)
}

func doGET(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	recorder := httptest.NewRecorder()
	testServer().Router().ServeHTTP(recorder, req)
	return recorder
}

func TestHandleHealth(t *testing.T) {
	recorder := doGET(t, "/api/health")

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestHandleScenes(t *testing.T) {
	recorder := doGET(t, "/api/scenes")

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var body scene.ListResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	if len(body.Scenes) != 4 {
		t.Errorf("Expected 4 scenes, got %d", len(body.Scenes))
	}
}

func TestHandleSceneConfig(t *testing.T) {
	recorder := doGET(t, "/api/scene-config?scene=corridor")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var body struct {
		Scene    scene.Scene `json:"scene"`
		Defaults struct {
			Epsilon  float64 `json:"epsilon"`
			MaxSteps int     `json:"maxSteps"`
		} `json:"defaults"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	if body.Scene.Name != "corridor" {
		t.Errorf("Expected corridor scene, got %q", body.Scene.Name)
	}
	if body.Defaults.Epsilon != 0.01 || body.Defaults.MaxSteps != 256 {
		t.Errorf("Unexpected defaults: %+v", body.Defaults)
	}

	recorder = doGET(t, "/api/scene-config?scene=nope")
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scene, got %d", recorder.Code)
	}
}

func TestHandleMarch(t *testing.T) {
	recorder := doGET(t, "/api/march?scene=single&angle=0")

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body MarchResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}

	if body.Scene != "single" {
		t.Errorf("Expected scene single, got %q", body.Scene)
	}
	if len(body.Result.Samples) == 0 {
		t.Fatal("Expected samples in the march result")
	}

	// Step consistency must hold through JSON serialization
	samples := body.Result.Samples
	for i := 0; i+1 < len(samples); i++ {
		stepLength := samples[i+1].Point.Subtract(samples[i].Point).Length()
		if math.Abs(stepLength-samples[i].Clearance) > tolerance {
			t.Errorf("Step %d length %v does not equal clearance %v",
				i, stepLength, samples[i].Clearance)
		}
	}
}

func TestHandleMarch_Validation(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "Unknown scene", path: "/api/march?scene=nope"},
		{name: "Invalid epsilon", path: "/api/march?scene=single&epsilon=-1"},
		{name: "Epsilon not a number", path: "/api/march?scene=single&epsilon=abc"},
		{name: "Max steps out of range", path: "/api/march?scene=single&maxSteps=99999"},
		{name: "Angle out of range", path: "/api/march?scene=single&angle=720"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doGET(t, tt.path)
			if recorder.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", recorder.Code)
			}
		})
	}
}

func TestHandleFan(t *testing.T) {
	recorder := doGET(t, "/api/fan?scene=cluster&rays=16")

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body FanResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	if len(body.Results) != 16 {
		t.Errorf("Expected 16 results, got %d", len(body.Results))
	}
	if len(body.Angles) != 16 {
		t.Errorf("Expected 16 angles, got %d", len(body.Angles))
	}
}

func TestHandleLive(t *testing.T) {
	httpServer := httptest.NewServer(testServer().Router())
	defer httpServer.Close()

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/live/ws?scene=open&fps=30"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	// First message announces the scene snapshot
	var init liveMessage
	if err := conn.ReadJSON(&init); err != nil {
		t.Fatalf("Could not read init message: %v", err)
	}
	if init.Type != "init" {
		t.Fatalf("Expected init message, got %q", init.Type)
	}

	var sc scene.Scene
	if err := json.Unmarshal(init.Data, &sc); err != nil {
		t.Fatalf("Init payload is not a scene: %v", err)
	}
	if sc.Name != "open" {
		t.Errorf("Expected open scene, got %q", sc.Name)
	}

	// Then sweep frames arrive at the requested cadence
	var msg liveMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Could not read frame message: %v", err)
	}
	if msg.Type != "frame" {
		t.Fatalf("Expected frame message, got %q", msg.Type)
	}

	var frame scene.Frame
	if err := json.Unmarshal(msg.Data, &frame); err != nil {
		t.Fatalf("Frame payload did not decode: %v", err)
	}
	if frame.SceneID != sc.ID {
		t.Errorf("Frame scene id %q does not match snapshot %q", frame.SceneID, sc.ID)
	}
}

func TestHandleLive_UnknownScene(t *testing.T) {
	recorder := doGET(t, "/live/ws?scene=nope")
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", recorder.Code)
	}
}

func TestParseMarchRequest_Defaults(t *testing.T) {
	req, err := parseMarchRequest(map[string][]string{})
	if err != nil {
		t.Fatalf("parseMarchRequest() failed: %v", err)
	}

	if req.scene.Name != "single" {
		t.Errorf("Expected default scene single, got %q", req.scene.Name)
	}
	if req.origin != req.scene.Start {
		t.Errorf("Expected origin to default to scene start, got %v", req.origin)
	}
	if req.config.Epsilon != 0.01 || req.config.MaxSteps != 256 {
		t.Errorf("Expected scene march defaults, got %+v", req.config)
	}
}
