package repository

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/mmilab/mmi/internal/domain/model"
	"github.com/mmilab/mmi/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// The treap indexes every stored moment ordered by MMI DESC, then
// momentID ASC (deterministic). In-order traversal yields the
// league-wide moment list from most to least demanding, so TopMoments
// is a bounded in-order walk.

// scoreScale controls fixed-point scaling from float64. MMI values are
// z-score sums, so twelve decimal places cover the full usable range.
const scoreScale = 1_000_000_000_000

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	scaled := x * scoreScale
	if scaled >= float64(math.MaxInt64) {
		return scoreFP(math.MaxInt64)
	}
	if scaled <= float64(math.MinInt64) {
		return scoreFP(math.MinInt64)
	}
	return scoreFP(math.Round(scaled))
}

func toFloat(x scoreFP) float64 {
	return float64(x) / scoreScale
}

// treap node
type node struct {
	id    string
	score scoreFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aScore, aID) ranks before (bScore, bID),
// higher MMI first with momentID as tie-breaker.
func less(aScore scoreFP, aID string, bScore scoreFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// scoreToPriority keeps higher MMI values nearer the treap root.
func scoreToPriority(score scoreFP) uint64 {
	const offset = uint64(1) << 63
	return uint64(score) + offset
}

func insert(n *node, id string, score scoreFP) *node {
	if n == nil {
		return &node{id: id, score: score, prio: scoreToPriority(score), size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	if score == n.score && id == n.id {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	} else if less(score, id, n.score, n.id) {
		n.left = deleteNode(n.left, id, score)
	} else {
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit moments in rank order (highest MMI first).
func collectTopN(n *node, limit int, byID map[string]Moment, out *[]Moment) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, byID, out)
	if len(*out) < limit {
		if m, ok := byID[n.id]; ok {
			m.MMI = toFloat(n.score)
			*out = append(*out, m)
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, byID, out)
	}
}

type gameKey struct {
	gameID string
	role   model.Role
}

type playerKey struct {
	playerID string
	role     model.Role
}

// MomentStore is the in-memory Store backed by a treap moment index.
type MomentStore struct {
	mu      sync.RWMutex
	root    *node
	byID    map[string]Moment
	games   map[gameKey][]model.MMIResult
	players map[playerKey][]model.MMIResult

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewMomentStore constructs a moment store with configuration options.
func NewMomentStore(ctx context.Context, opts ...Option) *MomentStore {
	s := &MomentStore{
		byID:                  make(map[string]Moment),
		games:                 make(map[gameKey][]model.MMIResult),
		players:               make(map[playerKey][]model.MMIResult),
		metricsUpdateInterval: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startMetricsUpdater(ctx)

	return s
}

// Close stops the background metrics goroutine.
func (s *MomentStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// PutGame implements Store.PutGame. Replacing a previously scored game
// removes its moments from the index before inserting the new ones.
func (s *MomentStore) PutGame(ctx context.Context, gameID string, role model.Role, results []model.MMIResult) error {
	if err := role.Validate(); err != nil {
		return err
	}

	stored := make([]model.MMIResult, len(results))
	copy(stored, results)

	s.mu.Lock()
	defer s.mu.Unlock()

	key := gameKey{gameID: gameID, role: role}
	if old, ok := s.games[key]; ok {
		s.evictGameLocked(gameID, role, old)
	}
	s.games[key] = stored

	for i, r := range stored {
		id := momentID(gameID, role, r, i)
		m := Moment{
			MomentID:    id,
			GameID:      gameID,
			PlayerID:    r.PlayerID(),
			Role:        role,
			MMI:         r.MMI,
			Leverage:    r.Components.Leverage,
			Inning:      r.Inning,
			AtBatIndex:  r.Meta["at_bat_index"],
			PitchNumber: r.Meta["pitch_number"],
			Timestamp:   r.Timestamp,
		}
		s.byID[id] = m
		s.root = insert(s.root, id, toFixedPoint(r.MMI))

		pk := playerKey{playerID: r.PlayerID(), role: role}
		s.players[pk] = append(s.players[pk], r)
	}

	metrics.UpdateResultsStored(len(s.byID))
	return nil
}

// evictGameLocked removes a game's moments from the index and its
// results from the per-player lists. Caller holds the write lock.
func (s *MomentStore) evictGameLocked(gameID string, role model.Role, old []model.MMIResult) {
	for i, r := range old {
		id := momentID(gameID, role, r, i)
		if m, ok := s.byID[id]; ok {
			s.root = deleteNode(s.root, id, toFixedPoint(m.MMI))
			delete(s.byID, id)
		}
	}
	seen := make(map[playerKey]struct{})
	for _, r := range old {
		seen[playerKey{playerID: r.PlayerID(), role: role}] = struct{}{}
	}
	for pk := range seen {
		kept := s.players[pk][:0]
		for _, r := range s.players[pk] {
			if r.GameID != gameID {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			delete(s.players, pk)
		} else {
			s.players[pk] = kept
		}
	}
}

// Game implements Store.Game.
func (s *MomentStore) Game(ctx context.Context, gameID string, role model.Role) ([]model.MMIResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results, ok := s.games[gameKey{gameID: gameID, role: role}]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]model.MMIResult, len(results))
	copy(out, results)
	return out, nil
}

// PlayerResults implements Store.PlayerResults.
func (s *MomentStore) PlayerResults(ctx context.Context, playerID string, role model.Role) ([]model.MMIResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results, ok := s.players[playerKey{playerID: playerID, role: role}]
	if !ok || len(results) == 0 {
		return nil, ErrNotFound
	}
	out := make([]model.MMIResult, len(results))
	copy(out, results)
	return out, nil
}

// TopMoments implements Store.TopMoments with a bounded in-order walk.
func (s *MomentStore) TopMoments(ctx context.Context, n int) ([]Moment, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Moment, 0, n)
	collectTopN(s.root, n, s.byID, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Games implements Store.Games.
func (s *MomentStore) Games(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.games))
	out := make([]string, 0, len(s.games))
	for key := range s.games {
		if _, ok := seen[key.gameID]; !ok {
			seen[key.gameID] = struct{}{}
			out = append(out, key.gameID)
		}
	}
	return out
}

// Count implements Store.Count.
func (s *MomentStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *MomentStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.mu.RLock()
				count := len(s.byID)
				s.mu.RUnlock()
				metrics.UpdateResultsStored(count)
			}
		}
	}()
}

// momentID derives a stable identity for one scored pitch. The meta
// position fields come from the scoring engine; the slice index breaks
// ties when they are absent.
func momentID(gameID string, role model.Role, r model.MMIResult, idx int) string {
	ab := r.Meta["at_bat_index"]
	pn := r.Meta["pitch_number"]
	if ab == "" || pn == "" {
		return gameID + "/" + string(role) + "/#" + strconv.Itoa(idx)
	}
	return gameID + "/" + string(role) + "/" + ab + "/" + pn
}

// assignRanksWithTies assigns ranks so equal MMI values share a rank
// and the following distinct value takes the next consecutive rank.
func assignRanksWithTies(moments []Moment) {
	currentRank := 1
	for i := 0; i < len(moments); {
		j := i
		for j < len(moments) && moments[j].MMI == moments[i].MMI {
			moments[j].Rank = currentRank
			j++
		}
		currentRank++
		i = j
	}
}
