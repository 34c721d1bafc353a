// Package input maps key presses to camera actions.
package input

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pthm-cable/gravview/camera"
)

// Action is a camera command bound to a key.
type Action uint8

const (
	ActionNone Action = iota
	ActionPanLeft
	ActionPanRight
	ActionPanUp
	ActionPanDown
	ActionZoomIn
	ActionZoomOut
	ActionReset
)

var actionNames = map[string]Action{
	"pan_left":  ActionPanLeft,
	"pan_right": ActionPanRight,
	"pan_up":    ActionPanUp,
	"pan_down":  ActionPanDown,
	"zoom_in":   ActionZoomIn,
	"zoom_out":  ActionZoomOut,
	"reset":     ActionReset,
}

// String returns the config name of the action.
func (a Action) String() string {
	for name, v := range actionNames {
		if v == a {
			return name
		}
	}
	return "none"
}

// ParseAction resolves a config action name.
func ParseAction(name string) (Action, error) {
	a, ok := actionNames[strings.ToLower(name)]
	if !ok {
		return ActionNone, fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

// KeyMap binds characters to actions.
type KeyMap map[rune]Action

// DefaultKeyMap returns the a/d/w/s pan and z/x zoom bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		'a': ActionPanLeft,
		'd': ActionPanRight,
		'w': ActionPanUp,
		's': ActionPanDown,
		'z': ActionZoomIn,
		'x': ActionZoomOut,
	}
}

// ParseKeyMap builds a KeyMap from single-character keys and action names.
func ParseKeyMap(keys map[string]string) (KeyMap, error) {
	km := make(KeyMap, len(keys))
	for key, name := range keys {
		runes := []rune(key)
		if len(runes) != 1 {
			return nil, fmt.Errorf("key %q: must be a single character", key)
		}
		a, err := ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		km[runes[0]] = a
	}
	return km, nil
}

// Legend describes the bindings in key order, e.g. "a: pan_left | d: pan_right".
func (km KeyMap) Legend() string {
	parts := make([]string, 0, len(km))
	for r, a := range km {
		parts = append(parts, fmt.Sprintf("%c: %s", r, a))
	}
	sort.Strings(parts)
	return strings.Join(parts, " | ")
}

// Controller applies key presses to a camera. Each press is one step;
// there is no debouncing or acceleration.
type Controller struct {
	cam     *camera.Camera
	keys    KeyMap
	panStep float64
}

// NewController creates a controller. panStep is in screen units; the camera
// scales it by the inverse zoom.
func NewController(cam *camera.Camera, keys KeyMap, panStep float64) *Controller {
	if keys == nil {
		keys = DefaultKeyMap()
	}
	return &Controller{cam: cam, keys: keys, panStep: panStep}
}

// HandleKey applies the action bound to r. Returns false for unbound keys.
func (c *Controller) HandleKey(r rune) bool {
	a, ok := c.keys[r]
	if !ok {
		return false
	}
	c.Apply(a)
	return true
}

// Apply performs one action. Panning left moves the view left, so the world
// shifts right on screen.
func (c *Controller) Apply(a Action) {
	switch a {
	case ActionPanLeft:
		c.cam.Pan(c.panStep, 0)
	case ActionPanRight:
		c.cam.Pan(-c.panStep, 0)
	case ActionPanUp:
		c.cam.Pan(0, c.panStep)
	case ActionPanDown:
		c.cam.Pan(0, -c.panStep)
	case ActionZoomIn:
		c.cam.ZoomIn()
	case ActionZoomOut:
		c.cam.ZoomOut()
	case ActionReset:
		c.cam.Reset()
	}
}

// Keys returns the active key map.
func (c *Controller) Keys() KeyMap {
	return c.keys
}
