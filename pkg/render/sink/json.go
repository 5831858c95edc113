package sink

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/overlay"
)

// sceneVersion is bumped when the JSON scene layout changes incompatibly.
const sceneVersion = 1

type jsonScene struct {
	Version int `json:"version"`
	overlay.Scene
}

// RenderJSON serializes the scene display list.
func RenderJSON(s overlay.Scene) ([]byte, error) {
	data, err := json.MarshalIndent(jsonScene{Version: sceneVersion, Scene: s}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return append(data, '\n'), nil
}

// ReadJSON decodes a scene written by [RenderJSON].
func ReadJSON(r io.Reader) (overlay.Scene, error) {
	var js jsonScene
	if err := json.NewDecoder(r).Decode(&js); err != nil {
		return overlay.Scene{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scene")
	}
	if js.Version != sceneVersion {
		return overlay.Scene{}, errors.New(errors.ErrCodeInvalidInput,
			"unsupported scene version %d (want %d)", js.Version, sceneVersion)
	}
	return js.Scene, nil
}
