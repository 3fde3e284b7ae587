// services/catalog_test.go
package services

import "testing"

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(Achievements))
	for _, a := range Achievements {
		if seen[a.ID] {
			t.Errorf("duplicate achievement id %q", a.ID)
		}
		seen[a.ID] = true
		if a.XPReward <= 0 {
			t.Errorf("achievement %q has non-positive reward %d", a.ID, a.XPReward)
		}
		if a.Title == "" || a.Description == "" {
			t.Errorf("achievement %q is missing copy", a.ID)
		}
	}
}

func TestAchievementByID(t *testing.T) {
	a, ok := AchievementByID("first-post")
	if !ok {
		t.Fatal("expected first-post in the catalog")
	}
	if a.XPReward != 100 {
		t.Errorf("first-post reward = %d, want 100", a.XPReward)
	}

	if _, ok := AchievementByID("nope"); ok {
		t.Error("did not expect a hit for an unknown id")
	}
}
