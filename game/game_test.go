package game

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"snake-chase/game/types"
)

// fixedRand always answers the same value, reduced modulo n. A high value
// keeps the food's escape gate closed on the default board.
type fixedRand struct {
	value int
}

func (r fixedRand) Intn(n int) int {
	return r.value % n
}

type fakeRecorder struct {
	qualifies bool
	player    string
	score     int
	calls     int
	err       error
}

func (r *fakeRecorder) Qualifies(int) bool { return r.qualifies }

func (r *fakeRecorder) Record(player string, score int) error {
	r.calls++
	r.player, r.score = player, score
	return r.err
}

const step = 101 * time.Millisecond

func testConfig() Config {
	cfg := DefaultConfig()
	far := types.Point{X: 15, Y: 15}
	cfg.InitialFood = &far
	return cfg
}

func newTestGame(t *testing.T, cfg Config, opts ...Option) *Game {
	t.Helper()
	opts = append([]Option{WithRand(fixedRand{value: 399})}, opts...)
	g, err := NewGame(cfg, opts...)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func TestNewGameRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny board", func(c *Config) { c.Width = 2 }},
		{"no length", func(c *Config) { c.StartLength = 0 }},
		{"bad direction", func(c *Config) { c.StartDirection = types.Direction(8) }},
		{"head in wall", func(c *Config) { c.StartHead = types.Point{X: 0, Y: 5} }},
		{"food in wall", func(c *Config) { c.InitialFood = &types.Point{X: 19, Y: 19} }},
		{"no period", func(c *Config) { c.BasePeriod = 0 }},
		{"decay above one", func(c *Config) { c.SpeedDecay = 1.5 }},
		{"negative food speed", func(c *Config) { c.FoodSpeed = -1 }},
		{"no name", func(c *Config) { c.MaxNameLength = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := NewGame(cfg); !errors.Is(err, errInvalidConfig) {
				t.Errorf("NewGame err = %v, want invalid config", err)
			}
		})
	}
}

func TestInitialState(t *testing.T) {
	g := newTestGame(t, DefaultConfig())
	if g.GameOver() || g.Score() != 0 {
		t.Fatalf("fresh game: over=%v score=%d", g.GameOver(), g.Score())
	}
	if food, ok := g.Food(); !ok || food != (types.Point{X: 6, Y: 4}) {
		t.Errorf("Food = %+v,%v", food, ok)
	}
	if g.Snake().Len() != 3 || g.Snake().HeadPosition() != (types.Point{X: 4, Y: 2}) {
		t.Errorf("snake len %d head %+v", g.Snake().Len(), g.Snake().HeadPosition())
	}
	if g.UUID == "" {
		t.Error("no session id")
	}
}

func TestReversalIsDropped(t *testing.T) {
	g := newTestGame(t, testConfig())
	g.Press(DirectionInput(types.Left))
	if q := g.QueuedDirections(); len(q) != 0 {
		t.Fatalf("queue = %v, want empty", q)
	}
	g.Press(DirectionInput(types.Up))
	g.Press(DirectionInput(types.Left))
	if q := g.QueuedDirections(); len(q) != 1 || q[0] != types.Up {
		t.Fatalf("queue = %v, want [up]", q)
	}
}

func TestNoTickBeforePeriod(t *testing.T) {
	g := newTestGame(t, testConfig())
	g.Update(50 * time.Millisecond)
	g.Update(50 * time.Millisecond)
	if g.Snake().HeadPosition() != (types.Point{X: 4, Y: 2}) {
		t.Fatalf("moved before the period elapsed: %+v", g.Snake().HeadPosition())
	}
	g.Update(time.Millisecond)
	if g.Snake().HeadPosition() != (types.Point{X: 5, Y: 2}) {
		t.Fatalf("head = %+v after the period", g.Snake().HeadPosition())
	}
}

func TestLatestPressWins(t *testing.T) {
	g := newTestGame(t, testConfig())
	g.Press(DirectionInput(types.Up))
	g.Press(DirectionInput(types.Down))
	g.Update(step)
	if g.Snake().HeadPosition() != (types.Point{X: 4, Y: 3}) {
		t.Errorf("head = %+v, want (4,3)", g.Snake().HeadPosition())
	}
	if g.Snake().HeadDirection() != types.Down {
		t.Errorf("direction = %v", g.Snake().HeadDirection())
	}
	if q := g.QueuedDirections(); len(q) != 0 {
		t.Errorf("queue not cleared: %v", q)
	}
	if g.Snake().Len() != 3 {
		t.Errorf("len = %d after a plain move", g.Snake().Len())
	}
}

func TestEatingFood(t *testing.T) {
	cfg := DefaultConfig()
	food := types.Point{X: 5, Y: 2}
	cfg.InitialFood = &food
	g := newTestGame(t, cfg)

	g.Update(step)

	if g.Score() != 1 {
		t.Fatalf("score = %d, want 1", g.Score())
	}
	if _, ok := g.Food(); ok {
		t.Error("food still present after being eaten")
	}
	s := g.Snake()
	if s.Len() != 4 {
		t.Fatalf("len = %d, want 4", s.Len())
	}
	// The tail popped by the move comes back and starts digesting
	restored := types.Point{X: 2, Y: 2}
	if s.Tail() != restored {
		t.Fatalf("tail = %+v, want %+v", s.Tail(), restored)
	}
	if count, ok := s.DigestCounter(restored); !ok || count != s.Len() {
		t.Errorf("digest counter = %d,%v want %d", count, ok, s.Len())
	}

	snap := g.Snapshot()
	if snap.Food != nil {
		t.Error("snapshot still shows food")
	}
	if last := snap.Body[len(snap.Body)-1]; !last.Digesting || last.Point != restored {
		t.Errorf("last segment = %+v", last)
	}

	// Next frame respawns food away from the body
	g.Update(time.Millisecond)
	if p, ok := g.Food(); !ok || s.OverlapTail(p) || p.OutOfBounds(cfg.Bounds()) {
		t.Errorf("respawned food = %+v,%v", p, ok)
	}
}

func TestWallEndsRound(t *testing.T) {
	cfg := testConfig()
	cfg.StartHead = types.Point{X: 17, Y: 2}
	g := newTestGame(t, cfg)

	g.Update(step)
	if g.GameOver() {
		t.Fatal("died one cell early")
	}
	g.Press(DirectionInput(types.Up))
	g.Press(DirectionInput(types.Right))
	g.Update(step)
	if !g.GameOver() {
		t.Fatal("expected game over at the wall")
	}
	if q := g.QueuedDirections(); len(q) != 0 {
		t.Errorf("queue not cleared after death: %v", q)
	}
	snap := g.Snapshot()
	if !snap.GameOver || snap.Collision != "wall" {
		t.Errorf("snapshot over=%v collision=%q", snap.GameOver, snap.Collision)
	}
	if g.Snake().HeadPosition() != (types.Point{X: 18, Y: 2}) {
		t.Errorf("snake moved on a fatal tick: %+v", g.Snake().HeadPosition())
	}
}

func TestSelfCollisionIntoSecondToLast(t *testing.T) {
	cfg := testConfig()
	cfg.StartHead = types.Point{X: 8, Y: 5}
	cfg.StartLength = 5
	g := newTestGame(t, cfg)

	for _, d := range []types.Direction{types.Down, types.Left} {
		g.Press(DirectionInput(d))
		g.Update(step)
	}
	if g.GameOver() {
		t.Fatal("died while curling")
	}
	if g.CheckSnakeAlive(types.Up.Ptr()) {
		t.Fatal("CheckSnakeAlive(up) should be false")
	}
	g.Press(DirectionInput(types.Up))
	g.Update(step)
	if !g.GameOver() {
		t.Fatal("expected game over")
	}
	if c := g.Snapshot().Collision; c != "self" {
		t.Errorf("collision = %q, want self", c)
	}
}

func TestDirectionIgnoredAfterGameOver(t *testing.T) {
	cfg := testConfig()
	cfg.StartHead = types.Point{X: 18, Y: 2}
	g := newTestGame(t, cfg)
	g.Update(step)
	if !g.GameOver() {
		t.Fatal("expected game over")
	}
	g.Press(DirectionInput(types.Down))
	if q := g.QueuedDirections(); len(q) != 0 {
		t.Errorf("queue = %v after game over", q)
	}
}

func TestRestartAfterDelay(t *testing.T) {
	cfg := testConfig()
	cfg.StartHead = types.Point{X: 18, Y: 2}
	g := newTestGame(t, cfg)
	g.Update(step)
	if !g.GameOver() {
		t.Fatal("expected game over")
	}
	session := g.UUID

	g.Update(cfg.RestartDelay)
	if !g.GameOver() {
		t.Fatal("restarted before the delay passed")
	}
	g.Update(time.Millisecond)
	if g.GameOver() {
		t.Fatal("still over after the delay")
	}
	if g.Score() != 0 || g.Snake().HeadPosition() != cfg.StartHead {
		t.Errorf("not reset: score %d head %+v", g.Score(), g.Snake().HeadPosition())
	}
	if g.UUID == session {
		t.Error("restart kept the old session id")
	}
}

func TestRestartInput(t *testing.T) {
	cfg := testConfig()
	cfg.StartHead = types.Point{X: 18, Y: 2}
	g := newTestGame(t, cfg)

	g.Press(RestartInput())
	if g.GameOver() {
		t.Fatal("restart while playing should do nothing")
	}
	g.Update(step)
	g.Press(RestartInput())
	if g.GameOver() {
		t.Fatal("restart input did not restart")
	}
}

func TestHighScoreNameEntry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartHead = types.Point{X: 17, Y: 2}
	food := types.Point{X: 18, Y: 2}
	cfg.InitialFood = &food
	cfg.MaxNameLength = 4
	rec := &fakeRecorder{qualifies: true}
	g := newTestGame(t, cfg, WithRecorder(rec))

	g.Update(step) // eats
	g.Update(step) // respawns and hits the wall
	if !g.GameOver() || !g.AwaitingName() {
		t.Fatalf("over=%v awaiting=%v", g.GameOver(), g.AwaitingName())
	}

	for _, r := range "Ab c!de" {
		g.Press(RuneInput(r))
	}
	g.Press(BackspaceInput())
	g.Press(RuneInput('z'))
	if name := g.Snapshot().Name; name != "Abcz" {
		t.Fatalf("name = %q, want Abcz", name)
	}

	// The round waits for the player instead of restarting
	g.Update(10 * cfg.RestartDelay)
	if !g.GameOver() {
		t.Fatal("restarted while a name was pending")
	}

	g.Press(ConfirmInput())
	if rec.calls != 1 || rec.player != "Abcz" || rec.score != 1 {
		t.Errorf("recorded %q %d (%d calls)", rec.player, rec.score, rec.calls)
	}
	if g.GameOver() || g.AwaitingName() {
		t.Error("confirm should start a new round")
	}
}

func TestHighScoreDefaultName(t *testing.T) {
	cfg := testConfig()
	cfg.StartHead = types.Point{X: 18, Y: 2}
	rec := &fakeRecorder{qualifies: true, err: errors.New("disk full")}
	g := newTestGame(t, cfg, WithRecorder(rec))
	g.Update(step)
	g.Press(ConfirmInput())
	if rec.player != DefaultPlayer {
		t.Errorf("player = %q", rec.player)
	}
	if g.GameOver() {
		t.Error("a failed save should still restart")
	}
}

func TestNoNameEntryWithoutQualifyingScore(t *testing.T) {
	cfg := testConfig()
	cfg.StartHead = types.Point{X: 18, Y: 2}
	g := newTestGame(t, cfg, WithRecorder(&fakeRecorder{}))
	g.Update(step)
	if g.AwaitingName() {
		t.Fatal("awaiting a name for a score that does not qualify")
	}
	g.Press(RuneInput('a'))
	if g.Snapshot().Name != "" {
		t.Error("runes accepted without a pending name")
	}
}

func TestPeriodShrinksStepwise(t *testing.T) {
	g := newTestGame(t, testConfig())
	tests := []struct {
		score int
		want  time.Duration
	}{
		{0, 100 * time.Millisecond},
		{4, 100 * time.Millisecond},
		{5, 90 * time.Millisecond},
		{9, 90 * time.Millisecond},
		{10, 81 * time.Millisecond},
		{500, 30 * time.Millisecond},
	}
	for _, tt := range tests {
		g.score = tt.score
		got := g.Period()
		if diff := got - tt.want; diff < -time.Microsecond || diff > time.Microsecond {
			t.Errorf("Period at score %d = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestBoardFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 4, 3
	cfg.StartHead = types.Point{X: 2, Y: 1}
	cfg.InitialFood = nil
	g := newTestGame(t, cfg)

	g.Update(time.Millisecond)
	if !g.GameOver() {
		t.Fatal("expected game over on a full board")
	}
	if !g.Snapshot().BoardFull {
		t.Error("snapshot does not flag the full board")
	}
}

func TestRandomInitialFood(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialFood = nil
	g := newTestGame(t, cfg)
	if _, ok := g.Food(); ok {
		t.Fatal("food before the first update")
	}
	g.Update(time.Millisecond)
	if p, ok := g.Food(); !ok || g.Snake().OverlapTail(p) || p.OutOfBounds(cfg.Bounds()) {
		t.Errorf("food = %+v,%v", p, ok)
	}
}

func TestSnapshotJSON(t *testing.T) {
	g := newTestGame(t, DefaultConfig())
	data, err := json.Marshal(g.Snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"direction":"right"`, `"food":{"x":6,"y":4}`, `"body":[{"x":4,"y":2}`, `"gameOver":false`} {
		if !strings.Contains(s, want) {
			t.Errorf("snapshot JSON %s lacks %s", s, want)
		}
	}
}

func TestSnapshotTransitions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartHead = types.Point{X: 17, Y: 2}
	food := types.Point{X: 18, Y: 2}
	cfg.InitialFood = &food
	g := newTestGame(t, cfg)

	before := g.Snapshot()
	g.Update(step)
	fed := g.Snapshot()
	if !fed.Ate(before) || fed.Died(before) {
		t.Fatalf("after eating: ate=%v died=%v", fed.Ate(before), fed.Died(before))
	}
	g.Update(step)
	dead := g.Snapshot()
	if !dead.Died(fed) || dead.Ate(fed) {
		t.Fatalf("after the wall: ate=%v died=%v", dead.Ate(fed), dead.Died(fed))
	}
	g.Restart()
	if fresh := g.Snapshot(); fresh.Died(dead) || fresh.Ate(dead) {
		t.Error("a new round reported events from the old one")
	}
}

type fakeHistory struct {
	scores []int
	spans  []time.Duration
}

func (h *fakeHistory) AddRound(score int, start, end time.Time) {
	h.scores = append(h.scores, score)
	h.spans = append(h.spans, end.Sub(start))
}

func TestHistoryLogsEachRound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartHead = types.Point{X: 17, Y: 2}
	food := types.Point{X: 18, Y: 2}
	cfg.InitialFood = &food

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	hist := &fakeHistory{}
	g := newTestGame(t, cfg, WithHistory(hist), func(g *Game) {
		g.now = func() time.Time { return clock }
	})

	clock = clock.Add(7 * time.Second)
	g.Update(step)
	g.Update(step)
	if !g.GameOver() {
		t.Fatal("expected the wall to end the round")
	}
	// idle frames after the end must not log the round twice
	g.Update(step)
	if len(hist.scores) != 1 || hist.scores[0] != 1 || hist.spans[0] != 7*time.Second {
		t.Fatalf("history = %+v", hist)
	}

	g.Restart()
	g.Update(step)
	g.Update(step)
	if len(hist.scores) != 2 || hist.spans[1] != 0 {
		t.Errorf("history after second round = %+v", hist)
	}
}
