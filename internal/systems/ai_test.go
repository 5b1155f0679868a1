package systems

import (
	"math/rand"
	"testing"

	"sandbox-server/internal/domain"
)

func TestPursuitStep(t *testing.T) {
	tests := []struct {
		name     string
		from, to domain.Position
		wantDx   int
		wantDy   int
	}{
		{"x gap larger", domain.Position{X: 1, Y: 2}, domain.Position{X: 5, Y: 2}, 1, 0},
		{"y gap larger", domain.Position{X: 5, Y: 0}, domain.Position{X: 4, Y: 3}, 0, 1},
		{"tie goes to y", domain.Position{X: 3, Y: 3}, domain.Position{X: 1, Y: 1}, 0, -1},
		{"negative x", domain.Position{X: 9, Y: 3}, domain.Position{X: 2, Y: 2}, -1, 0},
		{"same cell", domain.Position{X: 4, Y: 4}, domain.Position{X: 4, Y: 4}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := PursuitStep(tt.from, tt.to)
			if dx != tt.wantDx || dy != tt.wantDy {
				t.Errorf("PursuitStep = (%d,%d), want (%d,%d)", dx, dy, tt.wantDx, tt.wantDy)
			}
		})
	}
}

func TestStepHostile_Scenario(t *testing.T) {
	world := createTestWorld(domain.WorldWidth, domain.WorldHeight)
	hostile := domain.NewEntity(domain.RoleHostile, 0, domain.Position{X: 1, Y: 2})
	player := domain.NewEntity(domain.RolePlayer, 0, domain.Position{X: 5, Y: 2})

	_, contact := StepHostile(hostile, player, world)

	if hostile.Pos != (domain.Position{X: 2, Y: 2}) {
		t.Errorf("hostile at %+v, want (2,2)", hostile.Pos)
	}
	if contact {
		t.Error("no contact expected")
	}
}

func TestStepHostile_Contact(t *testing.T) {
	world := createTestWorld(5, 5)
	hostile := domain.NewEntity(domain.RoleHostile, 0, domain.Position{X: 1, Y: 1})
	player := domain.NewEntity(domain.RolePlayer, 0, domain.Position{X: 2, Y: 1})

	if _, contact := StepHostile(hostile, player, world); !contact {
		t.Fatal("expected contact after stepping onto player")
	}
	// Уже стоя на игроке, враг остается на месте и снова касается
	if _, contact := StepHostile(hostile, player, world); !contact {
		t.Error("expected repeated contact while sharing the cell")
	}
}

func TestStepHostile_BlockedStaysPut(t *testing.T) {
	world := createTestWorld(6, 6)
	_ = world.SetKind(2, 1, domain.BlockStone)
	hostile := domain.NewEntity(domain.RoleHostile, 0, domain.Position{X: 1, Y: 1})
	player := domain.NewEntity(domain.RolePlayer, 0, domain.Position{X: 4, Y: 1})

	res, _ := StepHostile(hostile, player, world)
	if !res.IsWall || hostile.Pos != (domain.Position{X: 1, Y: 1}) {
		t.Errorf("blocked hostile moved to %+v", hostile.Pos)
	}
}

func TestRandomCardinal_Uniformish(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	counts := map[domain.Position]int{}
	for i := 0; i < 4000; i++ {
		dx, dy := RandomCardinal(rng)
		counts[domain.Position{X: dx, Y: dy}]++
	}

	if len(counts) != 4 {
		t.Fatalf("expected 4 directions, got %v", counts)
	}
	for dir, n := range counts {
		if n < 800 || n > 1200 {
			t.Errorf("direction %+v picked %d times out of 4000", dir, n)
		}
	}
}
