// Package portfolio implements the account data sync service: it owns the
// brokerage credentials and the trade/account/position/history collections,
// refreshes them on a fixed schedule, and serves copies to the HTTP layer.
package portfolio

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

const DefaultPollInterval = 15 * time.Second

// Service implements the SyncService interface.
//
// Each data class is replaced wholesale on every successful fetch, so
// concurrent triggers (the poll ticker and an on-demand refresh) never
// corrupt state: the later completion simply wins. All writes go through
// the service's mutex; accessors hand out copies.
type Service struct {
	client       interfaces.AlpacaClient
	store        interfaces.SnapshotStore // nil disables persistence
	logger       *common.Logger
	pollInterval time.Duration

	mu            sync.Mutex
	creds         models.Credentials
	trades        []models.Trade
	tradesStatus  string
	account       *models.AccountSnapshot
	positions     []models.Position
	history       []models.EquityPoint
	selectedRange models.Range
	percentChange float64
	loading       models.LoadingState

	pollCancel context.CancelFunc
}

// NewService creates a new sync service. store may be nil, in which case no
// local persistence happens.
func NewService(client interfaces.AlpacaClient, store interfaces.SnapshotStore, logger *common.Logger, pollInterval time.Duration) *Service {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Service{
		client:        client,
		store:         store,
		logger:        logger,
		pollInterval:  pollInterval,
		selectedRange: models.Range1D,
	}
}

// WarmStart loads the cached account snapshot and history from the local
// store so there is data to serve before the first poll completes. Cache
// misses and store errors are not fatal.
func (s *Service) WarmStart(ctx context.Context) {
	if s.store == nil {
		return
	}

	account, err := s.store.GetAccount(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Warm start: cached account unavailable")
	}

	s.mu.Lock()
	r := s.selectedRange
	if account != nil {
		s.account = account
	}
	s.mu.Unlock()

	points, err := s.store.GetHistory(ctx, r)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Warm start: cached history unavailable")
		return
	}
	if len(points) > 0 {
		s.mu.Lock()
		if s.selectedRange == r && s.history == nil {
			s.history = points
			s.percentChange = PercentChange(points)
		}
		s.mu.Unlock()
	}
}

// SetCredentials sets (or rotates) the API credentials, triggers an initial
// fetch of all four data classes, and (re)starts polling.
func (s *Service) SetCredentials(creds models.Credentials) {
	s.mu.Lock()
	s.creds = creds
	r := s.selectedRange
	s.mu.Unlock()

	go s.refreshTrades(context.Background(), false)
	go s.refreshAccount(context.Background())
	go s.refreshPositions(context.Background())
	go s.refreshHistory(context.Background(), r)

	s.StartPolling()
}

// StartPolling starts the recurring refresh. Calling it while polling is
// active cancels the old timer first — timers never overlap.
func (s *Service) StartPolling() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pollCancel != nil {
		s.pollCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.pollCancel = cancel

	go s.poll(ctx)
}

// StopPolling cancels the recurring refresh; idempotent.
func (s *Service) StopPolling() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
}

// poll refreshes trades, account, and positions on a fixed interval. History
// is deliberately not on the timer — it refreshes only on range change or an
// explicit full refresh.
func (s *Service) poll(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Sync: polling stopped")
			return
		case <-ticker.C:
			s.logger.Debug().Msg("Sync: refreshing data")

			var wg sync.WaitGroup
			wg.Add(3)
			go func() {
				defer wg.Done()
				s.refreshTrades(ctx, true)
			}()
			go func() {
				defer wg.Done()
				s.refreshAccount(ctx)
			}()
			go func() {
				defer wg.Done()
				s.refreshPositions(ctx)
			}()
			wg.Wait()
		}
	}
}

// RefreshAll fetches all four data classes concurrently and returns once all
// have settled. Individual failures don't abort sibling fetches.
func (s *Service) RefreshAll(ctx context.Context) {
	s.mu.Lock()
	creds := s.creds
	r := s.selectedRange
	s.mu.Unlock()

	if creds.IsZero() {
		return
	}

	s.logger.Debug().Msg("Sync: full refresh")

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		s.refreshTrades(ctx, true)
	}()
	go func() {
		defer wg.Done()
		s.refreshAccount(ctx)
	}()
	go func() {
		defer wg.Done()
		s.refreshPositions(ctx)
	}()
	go func() {
		defer wg.Done()
		s.refreshHistory(ctx, r)
	}()
	wg.Wait()
}

// SelectRange changes the history window and refetches the series.
func (s *Service) SelectRange(ctx context.Context, r models.Range) {
	if !r.Valid() {
		r = models.Range1D
	}

	s.mu.Lock()
	s.selectedRange = r
	s.mu.Unlock()

	s.refreshHistory(ctx, r)
}

// refreshTrades replaces the trade list. Unlike the other classes, a failed
// fetch clears the list and surfaces a status message — the primary list
// shows an explicit empty state instead of silently stale data.
func (s *Service) refreshTrades(ctx context.Context, silent bool) {
	s.mu.Lock()
	creds := s.creds
	if creds.IsZero() {
		s.trades = nil
		s.mu.Unlock()
		return
	}
	if !silent {
		s.loading.Trades = true
	}
	s.tradesStatus = ""
	s.mu.Unlock()

	trades, err := s.client.GetFills(ctx, creds)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Trades = false

	if err != nil {
		s.logger.Warn().Err(err).Msg("Sync: trades fetch failed")
		s.trades = []models.Trade{}
		if errors.Is(err, interfaces.ErrBadBody) {
			s.tradesStatus = "Unexpected response from Alpaca API."
		} else {
			s.tradesStatus = "Failed to load trades: " + err.Error()
		}
		return
	}

	s.trades = trades
	if len(trades) == 0 {
		s.tradesStatus = "No trades found."
	}
}

// refreshAccount replaces the account snapshot. On failure the prior
// snapshot is left untouched — never regress a good value to show an error.
func (s *Service) refreshAccount(ctx context.Context) {
	s.mu.Lock()
	creds := s.creds
	s.loading.Account = !creds.IsZero()
	s.mu.Unlock()

	if creds.IsZero() {
		return
	}

	snapshot, err := s.client.GetAccount(ctx, creds)

	s.mu.Lock()
	s.loading.Account = false
	if err == nil {
		s.account = snapshot
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Msg("Sync: account fetch failed")
		return
	}

	s.persistAccount(ctx, snapshot)
}

// refreshPositions replaces the positions list; prior data survives failure.
func (s *Service) refreshPositions(ctx context.Context) {
	s.mu.Lock()
	creds := s.creds
	s.loading.Positions = !creds.IsZero()
	s.mu.Unlock()

	if creds.IsZero() {
		return
	}

	positions, err := s.client.GetPositions(ctx, creds)

	s.mu.Lock()
	s.loading.Positions = false
	if err == nil {
		s.positions = positions
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Msg("Sync: positions fetch failed")
	}
}

// refreshHistory replaces the equity-history series for r and recomputes the
// window percent change; prior data survives failure. If the selected range
// changed while the fetch was in flight, the stale result is discarded.
func (s *Service) refreshHistory(ctx context.Context, r models.Range) {
	s.mu.Lock()
	creds := s.creds
	s.loading.History = !creds.IsZero()
	s.mu.Unlock()

	if creds.IsZero() {
		return
	}

	points, err := s.client.GetPortfolioHistory(ctx, creds, r)

	s.mu.Lock()
	s.loading.History = false
	applied := false
	if err == nil && s.selectedRange == r {
		s.history = points
		s.percentChange = PercentChange(points)
		applied = true
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Str("range", string(r)).Msg("Sync: history fetch failed")
		return
	}

	if applied {
		s.persistHistory(ctx, r, points)
	}
}

func (s *Service) persistAccount(ctx context.Context, snapshot *models.AccountSnapshot) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveAccount(ctx, snapshot); err != nil {
		s.logger.Warn().Err(err).Msg("Sync: account cache write failed")
	}
}

func (s *Service) persistHistory(ctx context.Context, r models.Range, points []models.EquityPoint) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveHistory(ctx, r, points); err != nil {
		s.logger.Warn().Err(err).Str("range", string(r)).Msg("Sync: history cache write failed")
	}
}

// Trades returns the current trade list and the trades status message.
func (s *Service) Trades() ([]models.Trade, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trades := make([]models.Trade, len(s.trades))
	copy(trades, s.trades)
	return trades, s.tradesStatus
}

// Account returns the current account snapshot, or nil before the first
// successful fetch.
func (s *Service) Account() *models.AccountSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.account == nil {
		return nil
	}
	snapshot := *s.account
	return &snapshot
}

// Positions returns the current open positions.
func (s *Service) Positions() []models.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := make([]models.Position, len(s.positions))
	copy(positions, s.positions)
	return positions
}

// History returns the current equity-history points and selected range.
func (s *Service) History() ([]models.EquityPoint, models.Range) {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := make([]models.EquityPoint, len(s.history))
	copy(points, s.history)
	return points, s.selectedRange
}

// PercentChange returns the percentage change over the current history window.
func (s *Service) PercentChange() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.percentChange
}

// Loading reports the per-class in-flight flags.
func (s *Service) Loading() models.LoadingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Ensure Service implements SyncService
var _ interfaces.SyncService = (*Service)(nil)
