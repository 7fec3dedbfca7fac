// UI panels for the studio window.
package main

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/candiikay/sneakerlab/internal/engine/model"
	"github.com/candiikay/sneakerlab/internal/game"
	"github.com/candiikay/sneakerlab/internal/studio"
)

// renderMenuBar shows the main menu.
func (app *App) renderMenuBar() {
	if imgui.BeginMainMenuBar() {
		if imgui.BeginMenu("File") {
			if imgui.MenuItemBool("Open Model...") {
				app.openModelDialog()
			}
			if imgui.MenuItemBool("Save Snapshot") {
				app.snapshotRequested = true
			}
			imgui.Separator()
			if imgui.MenuItemBool("Exit") {
				os.Exit(0)
			}
			imgui.EndMenu()
		}
		imgui.EndMainMenuBar()
	}
}

// renderViewportWindow shows the 3D view and feeds pointer events into
// the workspace, translated from screen space to viewer pixel space.
func (app *App) renderViewportWindow(textureID uint32) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondFirstUseEver, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(820, 640), imgui.CondFirstUseEver)

	if imgui.BeginV("Workbench###Viewport", nil, imgui.WindowFlagsNoCollapse) {
		viewerW, viewerH := app.viewer.Size()
		aspect := viewerW / viewerH

		avail := imgui.ContentRegionAvail()
		displayW := avail.X
		displayH := displayW / aspect
		if displayH > avail.Y {
			displayH = avail.Y
			displayW = displayH * aspect
		}

		imagePos := imgui.CursorScreenPos()

		// Display rendered texture (flip V for OpenGL)
		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(textureID))
		imgui.ImageWithBgV(
			*texRef,
			imgui.NewVec2(displayW, displayH),
			imgui.NewVec2(0, 1),
			imgui.NewVec2(1, 0),
			imgui.NewVec4(0.12, 0.12, 0.14, 1.0),
			imgui.NewVec4(1, 1, 1, 1),
		)

		app.viewerHovered = imgui.IsItemHovered()
		if app.viewerHovered || app.pendingPointer {
			mousePos := imgui.MousePos()
			localX := (mousePos.X - imagePos.X) * viewerW / displayW
			localY := (mousePos.Y - imagePos.Y) * viewerH / displayH

			if app.viewerHovered && imgui.IsMouseClickedBool(imgui.MouseButtonLeft) {
				app.studio.HandlePointerDown(localX, localY)
				app.pendingPointer = true
			} else if mousePos.X != app.lastMousePos.X || mousePos.Y != app.lastMousePos.Y {
				app.studio.HandlePointerMove(localX, localY)
			}
			app.lastMousePos = mousePos

			if app.viewerHovered {
				if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
					app.studio.HandleScroll(wheel)
				}
			}
		}
		if app.pendingPointer && !imgui.IsMouseDown(imgui.MouseButtonLeft) {
			app.studio.HandlePointerUp()
			app.pendingPointer = false
		}
		if !app.viewerHovered && !app.pendingPointer {
			// The pointer sits over another panel; the last part must
			// not keep its hover emphasis.
			app.studio.HandlePointerLeave()
		}

		app.applyCursor()

		// Status line under the view
		status := "hover a part to inspect it"
		if app.studio.Mode() == studio.ModeDraw {
			status = fmt.Sprintf("drawing on %s - drag to paint", app.studio.DrawTarget())
		} else if hovered := app.studio.Hovered(); hovered != "" {
			status = hovered
		}
		imgui.TextDisabled(status)
	}
	imgui.End()
}

// applyCursor maps the workspace affordance onto an ImGui cursor.
func (app *App) applyCursor() {
	if !app.viewerHovered && !app.pendingPointer {
		return
	}
	switch app.studio.Affordance() {
	case studio.AffordanceGrab:
		imgui.SetMouseCursor(imgui.MouseCursorHand)
	case studio.AffordanceGrabbing:
		imgui.SetMouseCursor(imgui.MouseCursorResizeAll)
	case studio.AffordanceCrosshair:
		// ImGui has no crosshair cursor, the brush preview stands in.
	}
}

// renderPartsPanel lists parts, palette swatches and brush controls.
func (app *App) renderPartsPanel() {
	imgui.SetNextWindowPosV(imgui.NewVec2(840, 10), imgui.CondFirstUseEver, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 420), imgui.CondFirstUseEver)

	if imgui.BeginV("Parts###PartsPanel", nil, imgui.WindowFlagsNoCollapse) {
		colors := app.studio.Colors()
		selected := app.studio.Selected()

		for _, id := range app.studio.Scene().PartIDs() {
			label := id
			if hex, ok := colors[id]; ok {
				label = fmt.Sprintf("%s  (%s)", id, hex)
			}
			if app.painted[id] {
				label += "  [painted]"
			}
			if imgui.SelectableBoolV(label, id == selected, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
				app.selectPart(id)
			}
		}

		imgui.Separator()

		if selected == "" {
			imgui.TextDisabled("Select a part to customize it")
		} else {
			app.renderSwatches(selected)
			imgui.Separator()
			app.renderBrushControls(selected)
		}
	}
	imgui.End()
}

// selectPart mirrors a click in the list into the workspace state.
func (app *App) selectPart(id string) {
	if app.studio.Mode() == studio.ModeDraw {
		// Leaving the draw target via the list cancels the drawing.
		if err := app.studio.ExitDrawMode(false); err != nil {
			app.chat.System(err.Error())
		}
	}
	if err := app.studio.SelectPart(id); err != nil {
		app.chat.System(err.Error())
	}
}

// renderSwatches paints the palette row for the selected part.
func (app *App) renderSwatches(selected string) {
	imgui.Text("Palette")
	assigned := app.studio.Colors()[selected]

	for i, hex := range app.palette {
		if i > 0 {
			imgui.SameLine()
		}
		rgb, err := model.ParseHexColor(hex)
		if err != nil {
			continue
		}

		flags := imgui.ColorEditFlagsNoTooltip
		col := imgui.NewVec4(rgb[0], rgb[1], rgb[2], 1)
		if imgui.ColorButtonV(fmt.Sprintf("%s###swatch%d", hex, i), col, flags, imgui.NewVec2(28, 28)) {
			if assigned != hex {
				if err := app.studio.SetPartColor(selected, hex); err == nil {
					app.recordChange()
					app.chat.System(fmt.Sprintf("%s -> %s", selected, hex))
					app.react(game.TriggerColor, selected)
				}
			}
		}
	}

	if assigned != "" {
		if imgui.Button("Clear color") {
			app.studio.RemovePartColor(selected)
			app.recordChange()
		}
	}
}

// renderBrushControls shows draw-mode entry and brush settings.
func (app *App) renderBrushControls(selected string) {
	if app.studio.Mode() != studio.ModeDraw {
		if imgui.Button("Draw on " + selected) {
			if err := app.studio.EnterDrawMode(selected); err != nil {
				app.chat.System(err.Error())
			}
		}
		return
	}

	imgui.Text("Brush")
	imgui.SliderFloatV("Radius", &app.brushRadius, 1, 64, "%.0f px", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Opacity", &app.brushOpacity, 0.05, 1, "%.2f", imgui.SliderFlagsNone)
	imgui.Checkbox("Eraser", &app.brushErase)

	brushCol := [3]float32{app.brushColor[0], app.brushColor[1], app.brushColor[2]}
	if imgui.ColorEdit3V("Color", &brushCol, imgui.ColorEditFlagsNoInputs) {
		app.brushColor = brushCol
	}

	target := app.studio.DrawTarget()
	if imgui.Button("Commit") {
		if err := app.studio.ExitDrawMode(true); err != nil {
			app.chat.System(err.Error())
		}
	}
	imgui.SameLine()
	if imgui.Button("Cancel") {
		if err := app.studio.ExitDrawMode(false); err != nil {
			app.chat.System(err.Error())
		}
	}
	imgui.SameLine()
	if imgui.Button("Wipe") {
		app.studio.Paint().Clear(target)
	}
}

// renderSessionPanel shows the commission brief, clock and scoring.
func (app *App) renderSessionPanel() {
	imgui.SetNextWindowPosV(imgui.NewVec2(840, 440), imgui.CondFirstUseEver, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(420, 210), imgui.CondFirstUseEver)

	if imgui.BeginV("Commission###SessionPanel", nil, imgui.WindowFlagsNoCollapse) {
		if app.session == nil {
			imgui.TextDisabled("Free play")
			imgui.End()
			return
		}

		customer := app.session.Customer()
		imgui.Text(customer.Name)

		switch app.session.Phase() {
		case game.PhaseBriefing:
			imgui.TextWrapped(customer.Brief)
			if imgui.Button("Start") {
				if err := app.session.Begin(); err == nil {
					app.chat.System("commission started")
				}
			}

		case game.PhaseWorking:
			if remaining := app.session.Remaining(); remaining >= 0 {
				imgui.Text(fmt.Sprintf("Time left: %.0fs", remaining))
			}
			changes := fmt.Sprintf("Changes: %d", app.session.Changes())
			if customer.MaxChanges > 0 {
				changes += fmt.Sprintf(" / %d", customer.MaxChanges)
			}
			imgui.Text(changes)

			if imgui.Button("Hand over") {
				if res, err := app.session.Finish(app.snapshotDesign()); err == nil {
					app.chat.System(fmt.Sprintf("scored %d/100", res.Score))
				}
			}

		case game.PhaseReview:
			res := app.session.Result()
			imgui.Text(fmt.Sprintf("Score: %d/100", res.Score))
			for _, m := range res.Met {
				imgui.TextColored(imgui.NewVec4(0.4, 0.8, 0.4, 1), "+ "+m)
			}
			for _, m := range res.Missed {
				imgui.TextColored(imgui.NewVec4(0.9, 0.4, 0.4, 1), "- "+m)
			}
			if res.OverBudget {
				imgui.TextColored(imgui.NewVec4(0.9, 0.7, 0.3, 1), "over the change budget")
			}
			if imgui.Button("Next customer") {
				app.startCommission(app.customerIdx + 1)
			}
		}
	}
	imgui.End()
}

// renderChatPanel shows the shop conversation log.
func (app *App) renderChatPanel() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 660), imgui.CondFirstUseEver, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(820, 130), imgui.CondFirstUseEver)

	if imgui.BeginV("Shop###ChatPanel", nil, imgui.WindowFlagsNoCollapse) {
		imgui.BeginChildStrV("ShopMessages", imgui.NewVec2(0, 0), imgui.ChildFlagsNone, imgui.WindowFlagsNone)
		for _, msg := range app.chat.Messages() {
			imgui.TextColored(channelColor(msg.Channel), fmt.Sprintf("%s: %s", msg.Sender, msg.Text))
		}
		if app.chatScroll {
			imgui.SetScrollHereYV(1.0)
			app.chatScroll = false
		}
		imgui.EndChild()
	}
	imgui.End()
}

func channelColor(ch game.Channel) imgui.Vec4 {
	switch ch {
	case game.ChannelCustomer:
		return imgui.NewVec4(1.0, 0.85, 0.5, 1.0)
	case game.ChannelStudio:
		return imgui.NewVec4(0.7, 0.9, 1.0, 1.0)
	default:
		return imgui.NewVec4(0.7, 0.7, 0.7, 1.0)
	}
}
