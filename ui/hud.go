// Package ui draws the on-screen readout for the window host.
package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const statusHeight = 24

// HUD renders the status bar and control legend.
type HUD struct {
	Title    string
	Controls string
	Color    rl.Color
}

// NewHUD creates a HUD.
func NewHUD(title, controls string, c rl.Color) *HUD {
	return &HUD{Title: title, Controls: controls, Color: c}
}

// Draw renders the status line along the bottom edge and the title and key
// legend in the top-left corner.
func (h *HUD) Draw(status string, screenWidth, screenHeight int32) {
	rl.DrawText(h.Title, 10, 10, 20, h.Color)
	if h.Controls != "" {
		rl.DrawText(h.Controls, 10, 35, 14, rl.Gray)
	}

	gui.StatusBar(rl.Rectangle{
		X:      0,
		Y:      float32(screenHeight - statusHeight),
		Width:  float32(screenWidth),
		Height: statusHeight,
	}, status)
}
