// SneakerLab Studio - interactive sneaker customization workshop.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/candiikay/sneakerlab/internal/config"
	"github.com/candiikay/sneakerlab/internal/engine/capture"
	"github.com/candiikay/sneakerlab/internal/engine/model"
	"github.com/candiikay/sneakerlab/internal/engine/paint"
	"github.com/candiikay/sneakerlab/internal/game"
	"github.com/candiikay/sneakerlab/internal/logger"
	"github.com/candiikay/sneakerlab/internal/studio"
	"github.com/candiikay/sneakerlab/pkg/formats"
)

func main() {
	runtime.LockOSThread()

	config.ParseFlags()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app, err := NewApp(cfg)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer app.Close()

	app.Run()
}

// App holds the studio application state.
type App struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	cfg     *config.Config
	log     *zap.Logger

	lib    *model.Library
	studio *studio.Studio
	viewer *Viewer

	// Commission state
	customers   []game.Customer
	customerIdx int
	session     *game.Session
	chat        *game.Log
	painted     map[string]bool

	// UI state
	palette        []string
	brushRadius    float32
	brushOpacity   float32
	brushColor     [3]float32
	brushErase     bool
	lastFrame      time.Time
	lastMousePos   imgui.Vec2
	viewerHovered  bool
	pendingPointer bool
	chatScroll     bool

	// Snapshot capture and the model path picked in the file dialog.
	// The dialog runs off the main thread, so the path is handed over
	// on a channel and processed in render().
	snapshots         *capture.Saver
	snapshotRequested bool
	modelPicked       chan string
}

// defaultPalette is the swatch set offered in the parts panel.
var defaultPalette = []string{
	"#f5f5f0", "#1a1a1a", "#c62828", "#1565c0",
	"#2e7d32", "#f9a825", "#6a1b9a", "#e07b39",
}

// NewApp loads the model, builds the workspace and creates the window.
func NewApp(cfg *config.Config) (*App, error) {
	log := logger.Log

	lib, err := loadLibrary(cfg.Studio.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", cfg.Studio.ModelPath, err)
	}
	scene := lib.Instantiate()
	log.Info("model loaded",
		zap.String("path", cfg.Studio.ModelPath),
		zap.Strings("parts", scene.PartIDs()))
	logPartInventory(log, scene)

	app := &App{
		cfg:          cfg,
		log:          log,
		lib:          lib,
		studio:       studio.New(scene, cfg.Studio.BufferSize, log),
		chat:         game.NewLog(),
		painted:      make(map[string]bool),
		modelPicked:  make(chan string, 1),
		palette:      defaultPalette,
		brushRadius:  cfg.Brush.Radius,
		brushOpacity: cfg.Brush.Opacity,
		lastFrame:    time.Now(),
	}

	if c, err := model.ParseHexColor(cfg.Brush.Color); err == nil {
		app.brushColor = c
	}

	app.chat.OnMessage = func(game.Message) { app.chatScroll = true }
	app.snapshots = capture.NewSaver(cfg.Studio.ExportDir, "studio")
	app.studio.SetStrictOcclusion(cfg.Studio.StrictOcclusion)
	app.wireStudio()

	if cfg.Session.ScriptPath != "" {
		customers, err := game.LoadCustomersFile(cfg.Session.ScriptPath)
		if err != nil {
			return nil, fmt.Errorf("loading customer script: %w", err)
		}
		app.customers = customers
		app.startCommission(0)
	} else {
		app.chat.System("free play: no customer script loaded")
	}

	app.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("creating backend: %w", err)
	}

	app.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	app.backend.CreateWindow("SneakerLab Studio", cfg.Graphics.Width, cfg.Graphics.Height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	app.viewer, err = NewViewer(scene, 1024, 768)
	if err != nil {
		return nil, fmt.Errorf("creating viewer: %w", err)
	}
	w, h := app.viewer.Size()
	app.studio.SetViewport(w, h)

	return app, nil
}

// wireStudio hooks workspace callbacks into the app. Called on startup
// and again after a model reload replaces the workspace.
func (app *App) wireStudio() {
	app.studio.OnPartSelected = func(id string) {
		if id != "" {
			app.chat.System("selected " + id)
		}
	}
	app.studio.OnDrawingCommitted = app.handleCommit
}

// openModelDialog shows a native file dialog to pick a model file.
func (app *App) openModelDialog() {
	// SDL window operations must stay on the main thread, so the
	// dialog runs in a goroutine and queues the result for render().
	go func() {
		filename, err := dialog.File().
			Filter("glTF models", "glb", "gltf").
			Filter("All Files", "*").
			Title("Open Model").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				app.log.Warn("file dialog", zap.Error(err))
			}
			return
		}
		select {
		case app.modelPicked <- filename:
		default:
			// A previous pick is still waiting; keep it.
		}
	}()
}

// loadModel replaces the current scene with a freshly loaded model.
// Must run on the main thread; it rebuilds GL resources.
func (app *App) loadModel(path string) error {
	lib, err := loadLibrary(path)
	if err != nil {
		return fmt.Errorf("loading model %s: %w", path, err)
	}
	scene := lib.Instantiate()

	viewer, err := NewViewer(scene, 1024, 768)
	if err != nil {
		return fmt.Errorf("creating viewer: %w", err)
	}

	if app.viewer != nil {
		app.viewer.Destroy()
	}
	app.viewer = viewer
	app.lib = lib
	app.studio = studio.New(scene, app.cfg.Studio.BufferSize, app.log)
	app.studio.SetStrictOcclusion(app.cfg.Studio.StrictOcclusion)
	app.wireStudio()
	w, h := app.viewer.Size()
	app.studio.SetViewport(w, h)
	app.painted = make(map[string]bool)

	app.log.Info("model loaded",
		zap.String("path", path),
		zap.Strings("parts", scene.PartIDs()))
	logPartInventory(app.log, scene)
	app.chat.System("model loaded: " + filepath.Base(path))
	return nil
}

// logPartInventory logs per-part geometry stats after a load.
func logPartInventory(log *zap.Logger, scene *model.SceneModel) {
	for _, part := range scene.Parts() {
		mesh := part.Mesh()
		b := part.Bounds()
		log.Debug("part",
			zap.String("id", part.ID()),
			zap.Bool("interactive", part.Interactive()),
			zap.Int("triangles", mesh.TriangleCount()),
			zap.String("bounds", fmt.Sprintf("(%.3f %.3f %.3f)-(%.3f %.3f %.3f)",
				b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])))
	}
}

// loadLibrary parses a .glb or .gltf asset into a part library.
func loadLibrary(path string) (*model.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	loader := func(uri string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, uri))
	}

	var doc *formats.Document
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		doc, err = formats.ParseGLB(data)
	} else {
		doc, err = formats.ParseGLTF(data, loader)
	}
	if err != nil {
		return nil, err
	}

	return model.BuildLibrary(doc, loader)
}

// startCommission begins the n-th scripted customer's session.
func (app *App) startCommission(n int) {
	if n >= len(app.customers) {
		app.chat.System("no more customers today")
		app.session = nil
		return
	}

	app.customerIdx = n
	customer := app.customers[n]
	app.session = game.NewSession(customer, app.log)
	app.session.SnapshotDesign = app.snapshotDesign
	app.session.OnPhaseChange = func(p game.Phase) {
		if p == game.PhaseReview && app.session.TimedOut() {
			app.chat.System("time's up!")
		}
	}
	app.session.OnHalftime = func() {
		app.react(game.TriggerHalftime, "")
	}

	app.painted = make(map[string]bool)
	if customer.Greeting != "" {
		app.chat.Add(game.ChannelCustomer, customer.Name, customer.Greeting)
	}
	if customer.Brief != "" {
		app.chat.Add(game.ChannelCustomer, customer.Name, customer.Brief)
	}
	for _, req := range customer.Requirements {
		app.chat.Add(game.ChannelCustomer, customer.Name, "- "+req.Describe())
	}
}

// snapshotDesign captures the customer-visible outcome for scoring.
func (app *App) snapshotDesign() game.Design {
	painted := make(map[string]bool, len(app.painted))
	for k, v := range app.painted {
		painted[k] = v
	}
	return game.Design{
		Colors:  app.studio.Colors(),
		Painted: painted,
	}
}

// handleCommit stores committed artwork and exports it as PNG.
func (app *App) handleCommit(partID string, png []byte) {
	app.painted[partID] = true
	app.recordChange()
	app.chat.System("artwork committed on " + partID)
	app.react(game.TriggerPaint, partID)

	dir := app.cfg.Studio.ExportDir
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		app.log.Warn("creating export dir", zap.Error(err))
		return
	}
	name := fmt.Sprintf("%s-%s.png", partID, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, png, 0644); err != nil {
		app.log.Warn("exporting artwork", zap.Error(err))
		return
	}
	app.log.Info("artwork exported", zap.String("path", path))
}

func (app *App) recordChange() {
	if app.session != nil {
		app.session.RecordChange()
	}
}

// react posts scripted customer lines matching an event during the
// working phase.
func (app *App) react(trigger, part string) {
	if app.session == nil || app.session.Phase() != game.PhaseWorking {
		return
	}
	customer := app.session.Customer()
	for _, line := range customer.React(trigger, part) {
		app.chat.Add(game.ChannelCustomer, customer.Name, line)
	}
}

// Run starts the main application loop.
func (app *App) Run() {
	app.backend.Run(app.render)
}

// render draws one frame: advance the session clock, flush material
// state, render the 3D view and lay out the panels.
func (app *App) render() {
	now := time.Now()
	dt := now.Sub(app.lastFrame).Seconds()
	app.lastFrame = now

	// Process the file dialog result on the main thread.
	select {
	case path := <-app.modelPicked:
		if err := app.loadModel(path); err != nil {
			app.log.Error("model reload failed", zap.Error(err))
			app.chat.System("could not load model: " + err.Error())
		}
	default:
	}

	if app.session != nil {
		app.session.Update(dt)
	}

	app.applyBrush()
	app.studio.Update()

	textureID := app.viewer.Render(app.studio)

	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyF12)) {
		app.snapshotRequested = true
	}
	if app.snapshotRequested {
		app.snapshotRequested = false
		app.saveSnapshot()
	}

	app.renderMenuBar()
	app.renderViewportWindow(textureID)
	app.renderPartsPanel()
	app.renderSessionPanel()
	app.renderChatPanel()
}

// saveSnapshot writes the current viewport frame to the export dir.
func (app *App) saveSnapshot() {
	path, err := app.snapshots.Save(app.viewer.Snapshot())
	if err != nil {
		app.log.Warn("saving snapshot", zap.Error(err))
		return
	}
	app.chat.System("snapshot saved: " + path)
}

// applyBrush pushes the panel's brush settings into the paint engine.
func (app *App) applyBrush() {
	mode := paint.ModePaint
	if app.brushErase {
		mode = paint.ModeErase
	}
	app.studio.Paint().SetBrush(paint.Brush{
		Radius:  app.brushRadius,
		Opacity: app.brushOpacity,
		Color:   app.brushColor,
		Mode:    mode,
	})
}

// Close cleans up resources.
func (app *App) Close() {
	if app.viewer != nil {
		app.viewer.Destroy()
		app.viewer = nil
	}
}
