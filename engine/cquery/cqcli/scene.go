package main

import (
	"os"
	"path/filepath"

	"github.com/npillmayer/cquery/core"
	"github.com/npillmayer/cquery/core/parameters"
	"github.com/npillmayer/cquery/engine/dom"
	"gopkg.in/yaml.v3"
)

// Scene is a document set up for experiments, as read from a YAML file:
//
//	viewport: { width: 1280, height: 800 }
//	html: |
//	  <div id="card" style="width: 300px; height: 100px"></div>
//	queries:
//	  - target: "#card"
//	    query: "width >= 400px"
//
// Instead of inline markup, a scene may name an HTML file relative to the
// scene file.
type Scene struct {
	Viewport struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"viewport"`
	HTML    string                 `yaml:"html"`
	File    string                 `yaml:"file"`
	Queries []SceneQuery           `yaml:"queries"`
	Scroll  [2]float64             `yaml:"scroll"`
	Params  map[string]interface{} `yaml:"params"`
	dir     string
}

// SceneQuery is a query to match when a scene is loaded.
type SceneQuery struct {
	Target    string `yaml:"target"`
	Query     string `yaml:"query"`
	Immediate bool   `yaml:"immediate"`
}

var defaultScene = `
viewport: { width: 1280, height: 800 }
html: |
  <html><body>
  <div id="main" style="position: relative; left: 0; top: 0; width: 1000px; height: 2000px">
    <div id="card" style="left: 100px; top: 100px; width: 300px; height: 100px"></div>
  </div>
  <div id="footer" style="left: 0; top: 2100px; width: 1000px; height: 100px"></div>
  </body></html>
queries:
  - target: "#card"
    query: "width >= 400px"
  - target: "#footer"
    query: "intersection-ratio > 0"
`

// LoadScene reads a scene file. An empty path loads a built-in scene.
func LoadScene(path string) (*Scene, error) {
	data := []byte(defaultScene)
	dir := "."
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, core.WrapError(err, core.EMISSING, "cannot read scene %s", path)
		}
		dir = filepath.Dir(path)
	}
	return ParseScene(data, dir)
}

// ParseScene decodes a YAML scene. dir is the base for relative HTML files.
func ParseScene(data []byte, dir string) (*Scene, error) {
	scene := &Scene{dir: dir}
	if err := yaml.Unmarshal(data, scene); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot decode scene")
	}
	if scene.HTML == "" && scene.File == "" {
		return nil, core.Error(core.EINVALID, "scene has neither html nor file")
	}
	return scene, nil
}

// Document builds the scene's document.
func (scene *Scene) Document() (*dom.Document, error) {
	markup := scene.HTML
	if scene.File != "" {
		data, err := os.ReadFile(filepath.Join(scene.dir, scene.File))
		if err != nil {
			return nil, core.WrapError(err, core.EMISSING, "cannot read scene markup %s", scene.File)
		}
		markup = string(data)
	}
	doc, err := dom.ParseString(markup)
	if err != nil {
		return nil, err
	}
	if scene.Viewport.Width > 0 && scene.Viewport.Height > 0 {
		doc.SetViewport(scene.Viewport.Width, scene.Viewport.Height)
	}
	doc.Scroll(scene.Scroll[0], scene.Scroll[1])
	return doc, nil
}

// Registers returns the engine parameters of the scene. Known keys are
// threshold-steps, threshold-filter and intersection-root.
func (scene *Scene) Registers() (*parameters.Registers, error) {
	regs := parameters.NewRegisters()
	for key, value := range scene.Params {
		var p parameters.EngineParameter
		var ok bool
		switch key {
		case "threshold-steps":
			p = parameters.P_THRESHOLD_STEPS
			_, ok = value.(int)
		case "threshold-filter":
			p = parameters.P_THRESHOLD_FILTER
			_, ok = value.(bool)
		case "intersection-root":
			p = parameters.P_INTERSECTION_ROOT
			_, ok = value.(string)
		default:
			return nil, core.Error(core.EINVALID, "unknown scene parameter %q", key)
		}
		if !ok {
			return nil, core.Error(core.EINVALID, "scene parameter %q has wrong type %T", key, value)
		}
		regs.Push(p, value)
	}
	return regs, nil
}
