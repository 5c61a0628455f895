package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chazu/brickwork/pkg/catalog"
	"github.com/chazu/brickwork/pkg/config"
	"github.com/chazu/brickwork/pkg/connector"
	"github.com/chazu/brickwork/pkg/engine"
	"github.com/chazu/brickwork/pkg/geom"
	"github.com/chazu/brickwork/pkg/kernel"
	"github.com/chazu/brickwork/pkg/kernel/sdfx"
	"github.com/chazu/brickwork/pkg/metrics"
	"github.com/chazu/brickwork/pkg/orient"
	"github.com/chazu/brickwork/pkg/piece"
	"github.com/chazu/brickwork/pkg/scene"
	"github.com/chazu/brickwork/pkg/shape"
	"github.com/chazu/brickwork/pkg/tessellate"
)

// colorPalette is a default palette for pieces placed without a color.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
// Bindings may be called concurrently; mu serializes access to the scene
// and the geometry caches.
type App struct {
	ctx     context.Context
	cfg     *config.Config
	metrics *metrics.Metrics
	engine  *engine.Engine

	mu       sync.Mutex
	cat      *catalog.Catalog
	resolver *connector.Resolver
	scene    *scene.Scene
	shapes   *shape.Cache
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// OutlineData is the feature-edge overlay of one piece.
type OutlineData struct {
	PieceID  string    `json:"pieceId"`
	Segments []float32 `json:"segments"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Outlines []OutlineData   `json:"outlines"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// PlaceRequest is a placement sent by the frontend.
type PlaceRequest struct {
	ID          string    `json:"id,omitempty"`
	TypeID      string    `json:"typeId"`
	Position    geom.Vec3 `json:"position"`
	Orientation string    `json:"orientation"` // empty means up
	Rotation    int       `json:"rotation"`
	Color       string    `json:"color,omitempty"`
}

// PlaceResult reports the outcome of a placement.
type PlaceResult struct {
	Piece     piece.Placed `json:"piece"`
	Mesh      *MeshData    `json:"mesh,omitempty"`
	Neighbors []string     `json:"neighbors"`
	Error     string       `json:"error,omitempty"`
}

// StudData is one connector of a placed piece.
type StudData struct {
	Position  geom.Vec3 `json:"position"`
	Direction geom.Vec3 `json:"direction"`
	Side      bool      `json:"side"`
}

// CatalogEntry describes a piece type for the palette.
type CatalogEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Variant  string  `json:"variant"`
	Width    int     `json:"width"`
	Depth    int     `json:"depth"`
	Height   float64 `json:"height"`
	Inverted bool    `json:"inverted"`
	Studs    int     `json:"studs"`
}

// DetailSets splits pieces by camera distance for stud and outline culling.
type DetailSets struct {
	Near []string `json:"near"`
	Far  []string `json:"far"`
}

// NewApp creates an App with the default configuration and catalog.
func NewApp() *App {
	a, err := NewAppWithConfig(config.Default(), nil)
	if err != nil {
		// The built-in catalog cannot fail to load.
		panic(err)
	}
	return a
}

// NewAppWithConfig creates an App from cfg, loading the catalog file it
// names. Metrics are registered with reg when it is not nil.
func NewAppWithConfig(cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	cat := catalog.Default()
	if cfg.Catalog != "" {
		loaded, err := catalog.Load(cfg.Catalog)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}

	m := metrics.New(reg)
	resolver := connector.NewResolver(cat)
	return &App{
		cfg:      cfg,
		metrics:  m,
		engine:   engine.NewEngine(cat, engine.WithTimeout(cfg.Engine.GetTimeout()), engine.WithMetrics(m)),
		cat:      cat,
		resolver: resolver,
		scene:    scene.New(cat, scene.WithResolver(resolver), scene.WithMetrics(m)),
		shapes:   shape.NewCache(sdfx.New(cfg.Mesh.GetCells())),
	}, nil
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// shutdown is called by Wails when the window closes. It releases the
// geometry and connector caches.
func (a *App) shutdown(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shapes.Clear()
	a.resolver.Clear()
	a.metrics.SetCacheSize(0)
	log.Printf("shutdown: released geometry caches")
}

// Evaluate runs a build script, replaces the scene with its result and
// returns the meshes of every piece. On any error the current scene is
// kept.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Outlines: []OutlineData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a fresh scene.
	sc, evalErrs, err := a.engine.Evaluate(source)
	if errors.Is(err, engine.ErrSuperseded) {
		// A newer evaluation will report.
		return result
	}
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Step 3: Adopt the scene.
	if err := a.scene.Restore(sc.Snapshot()); err != nil {
		log.Printf("Evaluate restore error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, w := range a.scene.Validate().Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Error()})
	}

	// Step 4: Tessellate every piece.
	meshes, err := a.meshes(a.scene.Pieces())
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}
	result.Meshes = meshes

	outlines, err := a.outlines(a.scene.Pieces())
	if err != nil {
		log.Printf("Outline error: %v", err)
		result.Warnings = append(result.Warnings, EvalErrorData{Message: "outlines unavailable: " + err.Error()})
	}
	result.Outlines = outlines
	return result
}

// meshes tessellates pieces and converts them to the frontend format.
// Callers hold a.mu.
func (a *App) meshes(pieces []piece.Placed) ([]MeshData, error) {
	opts := tessellate.Options{Studs: true, EdgeThreshold: a.cfg.Mesh.GetEdgeThreshold()}
	ms, err := tessellate.Tessellate(pieces, a.cat, a.shapes, opts)
	if err != nil {
		return nil, err
	}
	a.metrics.SetCacheSize(a.shapes.Len())

	out := make([]MeshData, 0, len(ms))
	for i, m := range ms {
		out = append(out, toMeshData(m, i))
	}
	return out, nil
}

func (a *App) outlines(pieces []piece.Placed) ([]OutlineData, error) {
	pos, err := tessellate.Outlines(pieces, a.cat, a.shapes, a.cfg.Mesh.GetEdgeThreshold())
	if err != nil {
		return []OutlineData{}, err
	}
	out := make([]OutlineData, 0, len(pos))
	for _, o := range pos {
		out = append(out, OutlineData{PieceID: o.PieceID, Segments: o.Outline.Segments})
	}
	return out, nil
}

func toMeshData(m *kernel.Mesh, i int) MeshData {
	color := m.Color
	if color == "" {
		color = colorPalette[i%len(colorPalette)]
	}
	return MeshData{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Indices:  m.Indices,
		PartName: m.PartName,
		Color:    color,
	}
}

// Place adds one piece and returns it with its world mesh.
func (a *App) Place(req PlaceRequest) PlaceResult {
	o := orient.Up
	if req.Orientation != "" {
		parsed, err := orient.Parse(req.Orientation)
		if err != nil {
			return PlaceResult{Neighbors: []string{}, Error: err.Error()}
		}
		o = parsed
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	pc, err := a.scene.Place(scene.Placement{
		ID:          req.ID,
		TypeID:      req.TypeID,
		Position:    req.Position,
		Orientation: o,
		Rotation:    req.Rotation,
		Color:       req.Color,
	})
	if err != nil {
		return PlaceResult{Neighbors: []string{}, Error: err.Error()}
	}

	res := PlaceResult{Piece: pc, Neighbors: a.scene.Neighbors(pc.ID)}
	meshes, err := a.meshes([]piece.Placed{pc})
	if err != nil {
		log.Printf("Place: tessellate %s: %v", pc.ID, err)
	} else if len(meshes) == 1 {
		res.Mesh = &meshes[0]
	}
	return res
}

// Remove deletes a piece and everything that loses support with it. The
// removed ids are returned with the requested id last.
func (a *App) Remove(id string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scene.Remove(id)
}

// CascadePreview returns what Remove(id) would delete.
func (a *App) CascadePreview(id string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scene.CascadePreview(id)
}

// Move relocates a piece.
func (a *App) Move(id string, position geom.Vec3, orientation string, rotation int) (piece.Placed, error) {
	o, err := orient.Parse(orientation)
	if err != nil {
		return piece.Placed{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scene.Move(id, position, o, rotation)
}

// Pieces returns every placed piece.
func (a *App) Pieces() []piece.Placed {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scene.Pieces()
}

// Connectors returns the world-space studs of a piece.
func (a *App) Connectors(id string) []StudData {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []StudData{}
	for _, s := range a.scene.Studs(id) {
		out = append(out, StudData{Position: s.Position, Direction: s.Direction, Side: s.Kind == connector.SideStud})
	}
	return out
}

// NearestConnector returns the stud of piece id closest to a ray hit on
// the face with the given normal.
func (a *App) NearestConnector(id string, hit, normal geom.Vec3) (StudData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.scene.NearestConnector(id, hit, normal)
	if !ok {
		return StudData{}, fmt.Errorf("no connector of %s faces %s", id, normal)
	}
	return StudData{Position: s.Position, Direction: s.Direction, Side: s.Kind == connector.SideStud}, nil
}

// Body returns the local-space body mesh of a piece type, used for the
// placement preview.
func (a *App) Body(typeID string) (MeshData, error) {
	pt, ok := a.cat.Get(typeID)
	if !ok {
		return MeshData{}, fmt.Errorf("unknown piece type %q", typeID)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	m, err := a.shapes.PieceBody(pt)
	if err != nil {
		return MeshData{}, err
	}
	a.metrics.SetCacheSize(a.shapes.Len())
	md := toMeshData(m, 0)
	md.PartName = typeID
	return md, nil
}

// Catalog lists the placeable piece types.
func (a *App) Catalog() []CatalogEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]CatalogEntry, 0, a.cat.Len())
	for _, pt := range a.cat.All() {
		out = append(out, CatalogEntry{
			ID:       pt.ID,
			Name:     pt.Name,
			Variant:  pt.Variant.String(),
			Width:    pt.Width,
			Depth:    pt.Depth,
			Height:   pt.Height(),
			Inverted: pt.Inverted,
			Studs:    len(a.resolver.Resolve(pt.ID).Top),
		})
	}
	return out
}

// Detail classifies pieces by distance from the camera using the
// configured near and far radii.
func (a *App) Detail(camera geom.Vec3) DetailSets {
	near, far := a.cfg.Detail.Bounds()
	a.mu.Lock()
	defer a.mu.Unlock()
	n, f := a.scene.Details().Classify(camera, near, far)
	return DetailSets{Near: n, Far: f}
}

// Validate returns every validation finding for the current scene.
func (a *App) Validate() []EvalErrorData {
	a.mu.Lock()
	defer a.mu.Unlock()
	res := a.scene.Validate()
	out := []EvalErrorData{}
	for _, e := range append(res.Errors, res.Warnings...) {
		out = append(out, EvalErrorData{Message: e.Error()})
	}
	return out
}

// Snapshot returns the scene as JSON.
func (a *App) Snapshot() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, err := json.Marshal(a.scene.Snapshot())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Restore replaces the scene with a JSON snapshot.
func (a *App) Restore(data string) error {
	var snap scene.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scene.Restore(snap)
}
