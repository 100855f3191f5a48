package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/questdeck/backend/internal/domain"
)

func writeCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "achievements.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

const sampleCatalog = `
achievements:
  - name: "Task Master I"
    description: "Complete 10 quests"
    icon: "trophy"
    exp_reward: 50
    criteria:
      - type: quests_completed
        target: 10
  - name: "Early Bird"
    exp_reward: 5
    repeatable: true
    criteria:
      - type: early_morning_completion
        target: 1
`

func TestLoadCatalog(t *testing.T) {
	file, err := LoadCatalog(writeCatalog(t, sampleCatalog))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(file.Achievements) != 2 {
		t.Fatalf("got %d achievements, want 2", len(file.Achievements))
	}
	first := file.Achievements[0]
	if first.Name != "Task Master I" || first.ExpReward != 50 || first.Repeatable {
		t.Errorf("first entry = %+v", first)
	}
	if first.Criteria[0].Type != domain.KindQuestsCompleted || first.Criteria[0].Target != 10 {
		t.Errorf("first criterion = %+v", first.Criteria[0])
	}
	if !file.Achievements[1].Repeatable {
		t.Error("Early Bird should be repeatable")
	}
}

func TestLoadCatalog_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty name",
			yaml:    "achievements:\n  - exp_reward: 5\n",
			wantErr: "empty name",
		},
		{
			name: "duplicate name",
			yaml: `
achievements:
  - name: "Twin"
    criteria: [{type: quests_completed, target: 1}]
  - name: "Twin"
    criteria: [{type: quests_completed, target: 2}]
`,
			wantErr: "duplicate",
		},
		{
			name: "no criteria",
			yaml: "achievements:\n  - name: \"Hollow\"\n",
			wantErr: "no criteria",
		},
		{
			name: "unknown kind",
			yaml: `
achievements:
  - name: "Mystery"
    criteria: [{type: quests_abandoned, target: 1}]
`,
			wantErr: "unknown criterion type",
		},
		{
			name: "zero target",
			yaml: `
achievements:
  - name: "Freebie"
    criteria: [{type: quests_completed, target: 0}]
`,
			wantErr: "target must be >= 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(writeCatalog(t, tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	file, err := LoadCatalog(writeCatalog(t, sampleCatalog))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	if err := s.SeedCatalog(ctx, file); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := s.SeedCatalog(ctx, file); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	all, err := s.Achievements(ctx)
	if err != nil {
		t.Fatalf("Achievements: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d achievements after double seed, want 2", len(all))
	}
	for _, a := range all {
		if len(a.Criteria) != 1 {
			t.Errorf("achievement %q has %d criteria, want 1", a.Name, len(a.Criteria))
		}
	}
}

func TestSeedCatalog_UpdatesExisting(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	file, err := LoadCatalog(writeCatalog(t, sampleCatalog))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if err := s.SeedCatalog(ctx, file); err != nil {
		t.Fatalf("seed: %v", err)
	}

	file.Achievements[0].ExpReward = 75
	file.Achievements[0].Description = "Complete ten quests"
	if err := s.SeedCatalog(ctx, file); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	all, err := s.Achievements(ctx)
	if err != nil {
		t.Fatalf("Achievements: %v", err)
	}
	for _, a := range all {
		if a.Name == "Task Master I" {
			if a.ExpReward != 75 {
				t.Errorf("exp_reward = %d, want 75", a.ExpReward)
			}
			if a.Description != "Complete ten quests" {
				t.Errorf("description = %q", a.Description)
			}
		}
	}
}

// The catalog shipped with the repository must always load.
func TestShippedCatalog(t *testing.T) {
	file, err := LoadCatalog(filepath.Join("..", "..", "seed", "achievements.yaml"))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(file.Achievements) != 21 {
		t.Errorf("shipped catalog has %d achievements, want 21", len(file.Achievements))
	}
}
