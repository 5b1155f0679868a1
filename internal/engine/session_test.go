package engine

import (
	"math/rand"
	"testing"

	"sandbox-server/internal/domain"
	"sandbox-server/internal/systems"
	"sandbox-server/internal/tuning"
	"sandbox-server/pkg/api"
	"sandbox-server/pkg/worldgen"
)

func TestNewSession_Populations(t *testing.T) {
	tests := []struct {
		name         string
		mode         domain.GameMode
		difficulty   domain.Difficulty
		multiplayer  bool
		wantBots     int
		wantHostiles int
		wantRegs     []string
	}{
		{"survival solo", domain.ModeSurvival, domain.DifficultyNormal, false, 0, 0, nil},
		{"survival multiplayer", domain.ModeSurvival, domain.DifficultyNormal, true, 2, 0, []string{regBots}},
		{"zombie easy", domain.ModeZombie, domain.DifficultyEasy, false, 0, 1, []string{regHostiles}},
		{"zombie normal", domain.ModeZombie, domain.DifficultyNormal, false, 0, 2, []string{regHostiles}},
		{"zombie hard multiplayer", domain.ModeZombie, domain.DifficultyHard, true, 2, 3, []string{regBots, regHostiles}},
		{"zombie peaceful", domain.ModeZombie, domain.DifficultyPeaceful, false, 0, 0, nil},
		{"zombie nomobs", domain.ModeZombie, domain.DifficultyNoMobs, false, 0, 0, nil},
		{"creative hard", domain.ModeCreative, domain.DifficultyHard, false, 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, tt.mode, tt.difficulty, tt.multiplayer)

			if len(s.Bots) != tt.wantBots {
				t.Errorf("bots = %d, want %d", len(s.Bots), tt.wantBots)
			}
			if len(s.Hostiles) != tt.wantHostiles {
				t.Errorf("hostiles = %d, want %d", len(s.Hostiles), tt.wantHostiles)
			}
			if s.Scheduler.Len() != len(tt.wantRegs) {
				t.Errorf("registrations = %d, want %d", s.Scheduler.Len(), len(tt.wantRegs))
			}
			for _, name := range tt.wantRegs {
				if !s.Scheduler.Has(name) {
					t.Errorf("registration %q missing", name)
				}
			}
			if s.State() != domain.SessionActive {
				t.Errorf("state = %s, want ACTIVE", s.State())
			}
		})
	}
}

func TestNewSession_SpawnIsPassable(t *testing.T) {
	s := newTestSession(t, domain.ModeZombie, domain.DifficultyHard, true)

	if s.Player.Pos != (domain.Position{X: 7, Y: 3}) {
		t.Fatalf("player spawn = %+v, want (7,3)", s.Player.Pos)
	}
	all := append([]*domain.Entity{s.Player}, s.Bots...)
	all = append(all, s.Hostiles...)
	for _, e := range all {
		if !s.World.IsPassable(e.Pos.X, e.Pos.Y) {
			t.Errorf("%s spawned on a solid cell %+v", e.ID, e.Pos)
		}
	}
}

func TestNewSession_InitialInventory(t *testing.T) {
	survival := newTestSession(t, domain.ModeSurvival, domain.DifficultyNormal, false)
	if survival.Inventory.Total() != 0 {
		t.Errorf("survival inventory must be empty, got %d items", survival.Inventory.Total())
	}

	creative := newTestSession(t, domain.ModeCreative, domain.DifficultyNormal, false)
	for _, k := range domain.PlaceableKinds {
		if got := creative.Inventory.Count(k); got != domain.CreativeStock {
			t.Errorf("creative count(%s) = %d, want %d", k, got, domain.CreativeStock)
		}
	}
}

func TestSession_SurvivalCraftScenario(t *testing.T) {
	s := newTestSession(t, domain.ModeSurvival, domain.DifficultyNormal, false)

	// Трава в досягаемости от точки появления (7,3)
	_ = s.World.SetKind(7, 5, domain.BlockGrass)
	_ = s.World.SetKind(8, 5, domain.BlockGrass)

	if res := s.ActivateCell(7, 5); res.Outcome != systems.ActivateDug {
		t.Fatalf("dig outcome = %v, want dug", res.Outcome)
	}
	if got := s.Inventory.Count(domain.BlockGrass); got != 1 {
		t.Fatalf("count(Grass) = %d, want 1", got)
	}

	before := s.Inventory.Clone()
	res, err := s.Craft("planks")
	if err != nil {
		t.Fatalf("Craft error: %v", err)
	}
	if res.Crafted {
		t.Fatal("craft must fail with one Grass")
	}
	if !s.Inventory.Equal(before) {
		t.Error("failed craft changed the inventory")
	}

	s.ActivateCell(8, 5)
	res, _ = s.Craft("planks")
	if !res.Crafted {
		t.Fatal("craft must succeed with two Grass")
	}
	if s.Inventory.Count(domain.BlockGrass) != 0 || s.Inventory.Count(domain.BlockWood) != 1 {
		t.Errorf("after craft: grass=%d wood=%d, want 0 and 1",
			s.Inventory.Count(domain.BlockGrass), s.Inventory.Count(domain.BlockWood))
	}
}

func TestSession_CraftUnknownRecipe(t *testing.T) {
	s := newTestSession(t, domain.ModeCreative, domain.DifficultyNormal, false)
	if _, err := s.Craft("diamond"); err == nil {
		t.Error("expected error for unknown recipe")
	}
}

func TestSession_PlaceReportsToAuditor(t *testing.T) {
	audit := &recordingAuditor{}
	cfg := Config{Seed: 1, Mode: domain.ModeCreative, Difficulty: domain.DifficultyNormal}
	s, err := NewSession("audited", cfg, tuning.Default(), audit)
	if err != nil {
		t.Fatal(err)
	}

	if !s.SelectSlot(domain.BlockStone) {
		t.Fatal("SelectSlot(Stone) returned false")
	}
	res := s.ActivateCell(6, 2)
	if res.Outcome != systems.ActivatePlaced {
		t.Fatalf("outcome = %v, want placed", res.Outcome)
	}
	if got := s.Inventory.Count(domain.BlockStone); got != domain.CreativeStock-1 {
		t.Errorf("count(Stone) = %d, want %d", got, domain.CreativeStock-1)
	}

	// Своя клетка занята игроком
	if res := s.ActivateCell(7, 3); res.Outcome != systems.ActivateOccupied {
		t.Errorf("placing onto the player: outcome = %v, want occupied", res.Outcome)
	}

	// Вне досягаемости
	if res := s.ActivateCell(0, 0); res.Outcome != systems.ActivateIgnored {
		t.Errorf("far cell: outcome = %v, want ignored", res.Outcome)
	}

	if len(audit.changes) != 1 {
		t.Fatalf("audited changes = %d, want 1", len(audit.changes))
	}
	c := audit.changes[0]
	if c.Event != domain.EventBlockPlaced || c.X != 6 || c.Y != 2 || c.To != domain.BlockStone {
		t.Errorf("unexpected audit record %+v", c)
	}
}

func TestSession_SelectSlotRejectsAir(t *testing.T) {
	s := newTestSession(t, domain.ModeCreative, domain.DifficultyNormal, false)
	if s.SelectSlot(domain.BlockAir) {
		t.Error("Air must not be selectable")
	}
	if s.Selected != domain.BlockGrass {
		t.Errorf("selected = %s, want GRASS", s.Selected)
	}
}

func TestSession_MoveAndKeys(t *testing.T) {
	s := newTestSession(t, domain.ModeSurvival, domain.DifficultyNormal, false)

	s.MovePlayer(-1, 0)
	if s.Player.Pos != (domain.Position{X: 6, Y: 3}) {
		t.Fatalf("after MOVE left: %+v", s.Player.Pos)
	}

	if _, ok := s.PressKey("ц", ""); !ok {
		t.Fatal("Cyrillic ц must map to up")
	}
	if s.Player.Pos != (domain.Position{X: 6, Y: 2}) {
		t.Errorf("after key up: %+v", s.Player.Pos)
	}

	if _, ok := s.PressKey("Enter", "Enter"); ok {
		t.Error("Enter is not a movement key")
	}

	// Верхний край: позиция прижимается к сетке
	for range 5 {
		s.PressKey("", "ArrowUp")
	}
	if s.Player.Pos.Y != 0 {
		t.Errorf("player must stop at the top edge, y = %d", s.Player.Pos.Y)
	}
}

func TestSession_HostilePursuit(t *testing.T) {
	s := newTestSession(t, domain.ModeZombie, domain.DifficultyEasy, false)
	s.Player.Pos = domain.Position{X: 5, Y: 2}
	s.Hostiles[0].Pos = domain.Position{X: 1, Y: 2}

	if fired := s.Advance(domain.HostileTickMs - 1); fired != 0 {
		t.Fatalf("hostile fired early: %d", fired)
	}
	s.Advance(1)

	if s.Hostiles[0].Pos != (domain.Position{X: 2, Y: 2}) {
		t.Errorf("hostile at %+v, want (2,2)", s.Hostiles[0].Pos)
	}
	if s.Vitals.Health != domain.MaxVitals {
		t.Errorf("health = %d, no contact expected", s.Vitals.Health)
	}
}

func TestSession_ContactDamage(t *testing.T) {
	tests := []struct {
		name       string
		difficulty domain.Difficulty
		hostiles   []domain.Position
		wantHealth int
	}{
		{
			name:       "single hostile",
			difficulty: domain.DifficultyEasy,
			hostiles:   []domain.Position{{X: 4, Y: 2}},
			wantHealth: 18,
		},
		{
			name:       "three hostiles stack",
			difficulty: domain.DifficultyHard,
			hostiles:   []domain.Position{{X: 4, Y: 2}, {X: 6, Y: 2}, {X: 5, Y: 1}},
			wantHealth: 14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, domain.ModeZombie, tt.difficulty, false)
			s.Player.Pos = domain.Position{X: 5, Y: 2}
			for i, pos := range tt.hostiles {
				s.Hostiles[i].Pos = pos
			}

			s.Advance(domain.HostileTickMs)

			if s.Vitals.Health != tt.wantHealth {
				t.Errorf("health = %d, want %d", s.Vitals.Health, tt.wantHealth)
			}
			if len(s.Logs) != len(tt.hostiles) {
				t.Errorf("combat log lines = %d, want %d", len(s.Logs), len(tt.hostiles))
			}
			for _, l := range s.Logs {
				if l.Type != api.LogCombat {
					t.Errorf("log type = %q, want %q", l.Type, api.LogCombat)
				}
			}
		})
	}
}

func TestSession_DefeatIsTerminal(t *testing.T) {
	s := newTestSession(t, domain.ModeZombie, domain.DifficultyEasy, false)
	s.Player.Pos = domain.Position{X: 5, Y: 2}
	s.Hostiles[0].Pos = domain.Position{X: 4, Y: 2}
	s.Vitals.Health = 3

	s.Advance(domain.HostileTickMs * 2)

	if s.State() != domain.SessionDefeated {
		t.Fatalf("state = %s, want DEFEATED", s.State())
	}
	if s.Vitals.Health != 0 {
		t.Errorf("health = %d, must be floored at 0", s.Vitals.Health)
	}
	if s.Scheduler.Len() != 0 {
		t.Errorf("registrations left after defeat: %d", s.Scheduler.Len())
	}
	if fired := s.Advance(10_000); fired != 0 {
		t.Errorf("steps fired after defeat: %d", fired)
	}

	// Игровые действия игнорируются
	s.MovePlayer(1, 0)
	if s.Player.Pos != (domain.Position{X: 5, Y: 2}) {
		t.Error("player moved after defeat")
	}
	if s.Regenerate(7) {
		t.Error("regenerate must be rejected after defeat")
	}

	s.Exit()
	if s.State() != domain.SessionEnded {
		t.Errorf("state = %s, want ENDED", s.State())
	}
}

func TestSession_Regenerate(t *testing.T) {
	s := newTestSession(t, domain.ModeZombie, domain.DifficultyNormal, true)
	_ = s.Inventory.Add(domain.BlockDirt, 3)

	s.MovePlayer(1, 0)
	s.Advance(2500)
	clock := s.Scheduler.ClockMs()

	if !s.Regenerate(42) {
		t.Fatal("Regenerate returned false")
	}

	if !s.World.Equal(worldgen.Generate(42)) {
		t.Error("world must match Generate(42)")
	}
	if s.Config.Seed != 42 {
		t.Errorf("seed = %d, want 42", s.Config.Seed)
	}

	layout := worldgen.SpawnLayout(len(s.Bots), len(s.Hostiles))
	if s.Player.Pos != layout.Player {
		t.Errorf("player at %+v, want spawn", s.Player.Pos)
	}
	for i, b := range s.Bots {
		if b.Pos != layout.Bots[i] {
			t.Errorf("bot %d at %+v, want %+v", i, b.Pos, layout.Bots[i])
		}
	}
	for i, h := range s.Hostiles {
		if h.Pos != layout.Hostiles[i] {
			t.Errorf("hostile %d at %+v, want %+v", i, h.Pos, layout.Hostiles[i])
		}
	}

	if s.Inventory.Count(domain.BlockDirt) != 3 {
		t.Error("inventory must survive regeneration")
	}

	// Регистрации пересобраны от текущего времени
	for _, v := range s.Scheduler.DebugDump() {
		if v.DueMs != clock+v.PeriodMs {
			t.Errorf("registration %s due at %d, want %d", v.Name, v.DueMs, clock+v.PeriodMs)
		}
	}
}

func TestSession_BotsAreDeterministic(t *testing.T) {
	a := newTestSession(t, domain.ModeSurvival, domain.DifficultyNormal, true)
	b := newTestSession(t, domain.ModeSurvival, domain.DifficultyNormal, true)

	a.Advance(10_000)
	b.Advance(10_000)

	for i := range a.Bots {
		if a.Bots[i].Pos != b.Bots[i].Pos {
			t.Errorf("bot %d diverged: %+v vs %+v", i, a.Bots[i].Pos, b.Bots[i].Pos)
		}
		p := a.Bots[i].Pos
		if !a.World.InBounds(p.X, p.Y) || !a.World.IsPassable(p.X, p.Y) {
			t.Errorf("bot %d left the passable area: %+v", i, p)
		}
	}
}

func TestSession_HungerHook(t *testing.T) {
	tn := tuning.Default()
	level := tn.Difficulty[domain.DifficultyNormal.String()]
	level.HungerPeriodMs = 500
	tn.Difficulty[domain.DifficultyNormal.String()] = level

	s := newTunedSession(t, tn, domain.ModeSurvival, domain.DifficultyNormal, false)
	if !s.Scheduler.Has(regHunger) {
		t.Fatal("hunger registration missing")
	}

	s.Advance(1000)
	if s.Vitals.Hunger != domain.MaxVitals-2 {
		t.Errorf("hunger = %d, want %d", s.Vitals.Hunger, domain.MaxVitals-2)
	}
}

func TestSession_ExitIsIdempotent(t *testing.T) {
	s := newTestSession(t, domain.ModeZombie, domain.DifficultyHard, true)

	s.Exit()
	s.Exit()

	if s.State() != domain.SessionEnded {
		t.Fatalf("state = %s, want ENDED", s.State())
	}
	if s.Scheduler.Len() != 0 {
		t.Error("exit must remove all registrations")
	}
	if s.Advance(5000) != 0 {
		t.Error("ended session must not advance")
	}
	if snap := s.Snapshot(); snap.Type != api.MsgEnded {
		t.Errorf("snapshot type = %s, want ENDED", snap.Type)
	}
}

func TestSession_Snapshot(t *testing.T) {
	s := newTestSession(t, domain.ModeSurvival, domain.DifficultyNormal, true)
	_ = s.Inventory.Add(domain.BlockDirt, 3)
	_ = s.Inventory.Add(domain.BlockGrass, 1)
	s.AddLog("hello", api.LogInfo)

	snap := s.Snapshot()

	if snap.Type != api.MsgUpdate || snap.SessionID != "test-session" || snap.State != "ACTIVE" {
		t.Errorf("header mismatch: %+v", snap)
	}
	if len(snap.Blocks) != domain.WorldWidth*domain.WorldHeight {
		t.Errorf("blocks = %d, want %d", len(snap.Blocks), domain.WorldWidth*domain.WorldHeight)
	}
	if len(snap.Inventory) != 2 || snap.Inventory[0].Kind != "DIRT" || snap.Inventory[1].Kind != "GRASS" {
		t.Errorf("inventory order mismatch: %+v", snap.Inventory)
	}
	if len(snap.Bots) != 2 || len(snap.Hostiles) != 0 {
		t.Errorf("bots=%d hostiles=%d", len(snap.Bots), len(snap.Hostiles))
	}
	if snap.Player == nil || snap.Player.Role != "PLAYER" {
		t.Errorf("player view mismatch: %+v", snap.Player)
	}

	canCraft := map[string]bool{}
	for _, r := range snap.Recipes {
		canCraft[r.ID] = r.CanCraft
	}
	if canCraft["planks"] || !canCraft["stone"] {
		t.Errorf("canCraft = %v, want planks=false stone=true", canCraft)
	}

	if len(snap.Logs) != 1 || snap.Logs[0].Text != "hello" || snap.Logs[0].ID == "" {
		t.Errorf("logs = %+v", snap.Logs)
	}

	// Снимок - копия: изменения сессии его не трогают
	s.ClearLogs()
	_ = s.World.SetKind(0, 0, domain.BlockStone)
	if len(snap.Logs) != 1 || snap.Blocks[0].Kind != "AIR" {
		t.Error("snapshot shares state with the session")
	}
}

// solidsPlusStock - блоки в мире плюс блоки в инвентаре.
// Копание и стройка только перекладывают блоки, поэтому сумма меняется лишь крафтом.
func solidsPlusStock(s *Session) int {
	solids := s.World.Width*s.World.Height - s.World.CountKind(domain.BlockAir)
	return solids + int(s.Inventory.Total())
}

func TestSession_RandomSequenceInvariants(t *testing.T) {
	tests := []struct {
		name        string
		mode        domain.GameMode
		difficulty  domain.Difficulty
		multiplayer bool
		rngSeed     int64
	}{
		{"survival", domain.ModeSurvival, domain.DifficultyNormal, false, 11},
		{"creative with bots", domain.ModeCreative, domain.DifficultyNormal, true, 12},
		{"zombie hard with bots", domain.ModeZombie, domain.DifficultyHard, true, 13},
	}

	recipeIDs := []string{"planks", "stone"}
	kinds := append([]domain.BlockKind{domain.BlockAir}, domain.PlaceableKinds...)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, tt.mode, tt.difficulty, tt.multiplayer)
			rng := rand.New(rand.NewSource(tt.rngSeed))
			total := solidsPlusStock(s)

			for step := 0; step < 2000; step++ {
				op := rng.Intn(6)
				switch op {
				case 0, 1:
					// Цели вокруг игрока, в том числе вне досягаемости и за краем карты
					x := s.Player.Pos.X + rng.Intn(7) - 3
					y := s.Player.Pos.Y + rng.Intn(7) - 3
					s.ActivateCell(x, y)
				case 2:
					dx, dy := systems.RandomCardinal(rng)
					s.MovePlayer(dx, dy)
				case 3:
					s.SelectSlot(kinds[rng.Intn(len(kinds))])
				case 4:
					res, err := s.Craft(recipeIDs[rng.Intn(len(recipeIDs))])
					if err != nil {
						t.Fatalf("step %d: craft: %v", step, err)
					}
					if res.Crafted {
						for _, ing := range res.Recipe.Ingredients {
							total -= int(ing.Count)
						}
						total++
					}
				case 5:
					s.Advance(int64(rng.Intn(1000)))
				}

				if got := solidsPlusStock(s); got != total {
					t.Fatalf("step %d (op %d): solids+stock = %d, want %d", step, op, got, total)
				}
				for _, e := range s.Inventory.Entries() {
					if e.Count == 0 {
						t.Fatalf("step %d: inventory entry %s has count 0", step, e.Kind)
					}
				}
				entities := append(append([]*domain.Entity{s.Player}, s.Bots...), s.Hostiles...)
				for _, e := range entities {
					if !s.World.IsPassable(e.Pos.X, e.Pos.Y) {
						t.Fatalf("step %d: %s stands on a solid cell %+v", step, e.ID, e.Pos)
					}
				}
				if s.Vitals.Health < 0 || s.Vitals.Health > domain.MaxVitals {
					t.Fatalf("step %d: health %d out of range", step, s.Vitals.Health)
				}
			}
		})
	}
}
