package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/geo"
)

// Selection is a Location ID or SelectionGeo.
type Selection string

// SelectionGeo means "use the live device position".
const SelectionGeo Selection = "__geo__"

// FetchStatus is the lifecycle of the single live fetch.
type FetchStatus string

const (
	StatusIdle    FetchStatus = "idle"
	StatusLoading FetchStatus = "loading"
	StatusSuccess FetchStatus = "success"
	StatusError   FetchStatus = "error"
)

// FetchState is the latest settled (or pending) fetch for the selection.
// Data may still hold the previous snapshot while Status is loading.
type FetchState struct {
	Status FetchStatus `json:"status"`
	Data   *Snapshot   `json:"data"`
	Error  string      `json:"error,omitempty"`
}

// State is everything the presentation layer renders besides the location list.
type State struct {
	Selection Selection   `json:"selection"`
	Fetch     FetchState  `json:"fetchState"`
	GeoCoords *geo.Coords `json:"geoCoords"`
}

// FallbackPolicy decides what happens when the device position is unavailable:
// disabled surfaces the geolocation error, enabled selects LocationID instead.
type FallbackPolicy struct {
	Enabled    bool
	LocationID string
}

// CoordinatorConfig holds the Coordinator's tunables.
type CoordinatorConfig struct {
	ForecastDays int
	Fallback     FallbackPolicy
}

// Coordinator owns the selection and drives at most one live fetch for it.
// Every transition runs under mu; network calls run outside it and commit
// only if their token is still current when they settle.
type Coordinator struct {
	client   Client
	registry Registry
	locator  *geo.Adapter
	cfg      CoordinatorConfig
	logger   *slog.Logger

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup

	mu          sync.Mutex
	state       State
	activeQuery string // query of the loaded snapshot or the in-flight fetch
	token       uuid.UUID
	cancel      context.CancelFunc
	selections  uint64 // bumped by user selection changes only, not by refreshes
	closed      bool
}

// NewCoordinator creates a Coordinator with an idle state and no selection.
func NewCoordinator(client Client, registry Registry, locator *geo.Adapter, cfg CoordinatorConfig, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if locator == nil {
		locator = geo.NewAdapter(nil, geo.Options{})
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Coordinator{
		client:   client,
		registry: registry,
		locator:  locator,
		cfg:      cfg,
		logger:   logger.With("component", "coordinator"),
		baseCtx:  ctx,
		stop:     stop,
		state:    State{Fetch: FetchState{Status: StatusIdle}},
	}
}

// State returns a copy of the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	if st.GeoCoords != nil {
		coords := *st.GeoCoords
		st.GeoCoords = &coords
	}
	return st
}

// Locations returns the registry entries in display order.
func (c *Coordinator) Locations() []Location {
	return c.registry.List()
}

// Select makes the saved location id current. A fetch starts unless the
// location's query is already loaded or loading.
func (c *Coordinator) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	loc, ok := c.registry.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, id)
	}
	c.selectLocked(loc)
	return nil
}

// SelectGeo switches to the device position. override is a position source
// for this request only (e.g. what the browser reported); nil uses the
// configured locator.
func (c *Coordinator) SelectGeo(override geo.Locator) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.selections++
	c.state.Selection = SelectionGeo
	// A previous position must not outlive a new request for one.
	c.state.GeoCoords = nil
	ctx, token := c.beginLocked()
	c.activeQuery = ""
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		c.resolveGeo(ctx, token, override)
	}()
}

// AddByQuery resolves a free-text query, saves the place and selects it.
// A query matching a saved entry just selects that entry. On failure the
// registry, selection and fetch state are left untouched.
func (c *Coordinator) AddByQuery(ctx context.Context, query string) (Location, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Location{}, ErrEmptyQuery
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Location{}, ErrClosed
	}
	if loc, ok := c.registry.FindByQuery(q); ok {
		c.selectLocked(loc)
		c.mu.Unlock()
		return loc, nil
	}
	startSelections := c.selections
	c.mu.Unlock()

	cur, err := c.client.FetchCurrent(ctx, q)
	if err != nil {
		c.logger.Info("add location failed", "query", q, "error", err)
		return Location{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Location{}, ErrClosed
	}

	stored, inserted := c.registry.InsertFront(LocationFromPlace(cur.Place))
	c.logger.Debug("location resolved", "query", q, "id", stored.ID, "inserted", inserted)

	if c.selections != startSelections {
		// The user moved on while the lookup was pending.
		c.logger.Info("add superseded by newer selection; not selecting", "id", stored.ID)
		return stored, nil
	}

	if c.isCurrentLocked(stored.Query) {
		// Another spelling of what is already on screen.
		c.selectLocked(stored)
		return stored, nil
	}

	c.selections++
	c.state.Selection = Selection(stored.ID)
	c.activeQuery = stored.Query
	snap := SnapshotFromCurrent(cur)
	c.state.Fetch = FetchState{Status: StatusSuccess, Data: &snap}
	c.registry.Resolve(stored.ID, cur.Place.CoordsQuery())
	c.completeLocked(stored)
	return stored, nil
}

// Refresh re-fetches the current selection. It reports false when there is
// nothing to refresh or a fetch is already pending.
func (c *Coordinator) Refresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state.Fetch.Status == StatusLoading {
		return false
	}

	switch sel := c.state.Selection; {
	case sel == "":
		return false
	case sel == SelectionGeo:
		if c.state.GeoCoords == nil {
			return false
		}
		c.startFetchLocked("", c.state.GeoCoords.Query())
	default:
		loc, ok := c.registry.Get(string(sel))
		if !ok {
			return false
		}
		c.startFetchLocked(loc.ID, loc.Query)
	}
	return true
}

// Search returns location suggestions for search-as-you-type.
func (c *Coordinator) Search(ctx context.Context, partial string) ([]LocationSuggestion, error) {
	return c.client.SearchLocations(ctx, partial)
}

// Wait blocks until every fetch started so far has settled or been discarded.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight work and waits for it to return. Later
// transitions are ignored; Select and AddByQuery return ErrClosed.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.stop()
	c.wg.Wait()
}

func (c *Coordinator) selectLocked(loc Location) {
	c.selections++
	c.state.Selection = Selection(loc.ID)
	if c.isCurrentLocked(loc.Query) {
		c.logger.Debug("selection already loaded; skipping fetch", "id", loc.ID)
		return
	}
	c.startFetchLocked(loc.ID, loc.Query)
}

func (c *Coordinator) isCurrentLocked(query string) bool {
	if c.activeQuery == "" || !common.EqualFoldTrim(c.activeQuery, query) {
		return false
	}
	return c.state.Fetch.Status == StatusLoading || c.state.Fetch.Status == StatusSuccess
}

// invalidateLocked cancels the in-flight fetch and retires its token.
func (c *Coordinator) invalidateLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.token = uuid.New()
}

// beginLocked supersedes any in-flight fetch and marks the state loading.
func (c *Coordinator) beginLocked() (context.Context, uuid.UUID) {
	c.invalidateLocked()
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancel = cancel
	c.state.Fetch.Status = StatusLoading
	c.state.Fetch.Error = ""
	return ctx, c.token
}

// startFetchLocked fetches query for the registry entry id ("" for the
// device position).
func (c *Coordinator) startFetchLocked(id, query string) {
	if c.closed {
		return
	}
	ctx, token := c.beginLocked()
	c.activeQuery = query
	c.logger.Debug("fetch started", "fetch_id", token, "query", query)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		snap, err := c.fetchSnapshot(ctx, query)
		c.settle(ctx, token, id, query, snap, err)
	}()
}

// completeLocked loads the forecast for a snapshot committed from current
// conditions alone. Status stays success throughout, and a failure keeps
// the committed snapshot.
func (c *Coordinator) completeLocked(loc Location) {
	if c.closed {
		return
	}
	c.invalidateLocked()
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancel = cancel
	token := c.token
	c.logger.Debug("forecast started", "fetch_id", token, "query", loc.Query)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		snap, err := c.fetchSnapshot(ctx, loc.Query)
		if err == nil {
			c.settle(ctx, token, loc.ID, loc.Query, snap, nil)
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.isLiveLocked(ctx, token) {
			c.cancel()
			c.cancel = nil
			c.logger.Info("forecast for added location failed; keeping current conditions", "id", loc.ID, "error", err)
		}
	}()
}

func (c *Coordinator) fetchSnapshot(ctx context.Context, query string) (Snapshot, error) {
	f, err := c.client.FetchForecast(ctx, query, c.cfg.ForecastDays)
	if err != nil {
		return Snapshot{}, err
	}
	return SnapshotFromForecast(f), nil
}

// isLiveLocked reports whether a fetch issued with token may still commit.
// Cancellation wins over a result that raced it.
func (c *Coordinator) isLiveLocked(ctx context.Context, token uuid.UUID) bool {
	return token == c.token && ctx.Err() == nil
}

func (c *Coordinator) settle(ctx context.Context, token uuid.UUID, id, query string, snap Snapshot, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isLiveLocked(ctx, token) {
		c.logger.Debug("discarding superseded fetch", "fetch_id", token, "query", query)
		return
	}
	c.cancel()
	c.cancel = nil

	if err != nil {
		c.logger.Warn("fetch failed", "fetch_id", token, "query", query, "error", err)
		c.state.Fetch = FetchState{Status: StatusError, Error: err.Error()}
		return
	}
	c.logger.Debug("fetch settled", "fetch_id", token, "query", query)
	c.state.Fetch = FetchState{Status: StatusSuccess, Data: &snap}
	if id != "" {
		c.registry.Resolve(id, snap.Place.CoordsQuery())
	}
}

func (c *Coordinator) resolveGeo(ctx context.Context, token uuid.UUID, override geo.Locator) {
	coords, err := c.locator.RequestPosition(ctx, override)

	c.mu.Lock()
	if !c.isLiveLocked(ctx, token) {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded geolocation", "fetch_id", token)
		return
	}

	var id, query string
	switch {
	case err == nil:
		c.state.GeoCoords = &coords
		query = coords.Query()
	case !c.cfg.Fallback.Enabled:
		c.logger.Info("geolocation failed", "error", err)
		c.cancel()
		c.cancel = nil
		c.state.Fetch = FetchState{Status: StatusError, Error: err.Error()}
		c.mu.Unlock()
		return
	default:
		loc, ok := c.registry.Get(c.cfg.Fallback.LocationID)
		if !ok {
			c.logger.Error("fallback location is not registered", "id", c.cfg.Fallback.LocationID)
			c.cancel()
			c.cancel = nil
			c.state.Fetch = FetchState{Status: StatusError, Error: err.Error()}
			c.mu.Unlock()
			return
		}
		c.logger.Warn("geolocation failed; using fallback location", "error", err, "id", loc.ID)
		c.state.Selection = Selection(loc.ID)
		id, query = loc.ID, loc.Query
	}
	c.activeQuery = query
	c.mu.Unlock()

	snap, err := c.fetchSnapshot(ctx, query)
	c.settle(ctx, token, id, query, snap, err)
}
