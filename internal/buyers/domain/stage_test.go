package domain

import "testing"

func TestEveryStageBelongsToExactlyOneGroup(t *testing.T) {
	seen := map[Stage]StageGroup{}
	total := 0
	for _, g := range AllGroups {
		for _, s := range StagesOf(g) {
			if prev, dup := seen[s]; dup {
				t.Errorf("stage %s appears in both %s and %s", s, prev, g)
			}
			seen[s] = g
			total++
		}
	}
	if total != len(AllStages) {
		t.Errorf("groups cover %d stages, want %d", total, len(AllStages))
	}
	for _, s := range AllStages {
		g, ok := seen[s]
		if !ok {
			t.Errorf("stage %s is not in any group", s)
			continue
		}
		if got := GroupOf(s); got != g {
			t.Errorf("GroupOf(%s) = %s, want %s", s, got, g)
		}
	}
}

func TestGroupOfUnknownStage(t *testing.T) {
	if got := GroupOf(Stage("bogus")); got != GroupUnknown {
		t.Errorf("GroupOf(bogus) = %s, want %s", got, GroupUnknown)
	}
}

func TestTransitionTableIsTotal(t *testing.T) {
	for _, s := range AllStages {
		next := LegalDestinations(s)
		if IsTerminal(s) {
			if len(next) != 0 {
				t.Errorf("terminal stage %s has %d outgoing transitions", s, len(next))
			}
			continue
		}
		if len(next) == 0 {
			t.Errorf("transient stage %s has no outgoing transitions", s)
		}
		for _, dst := range next {
			if !IsKnownStage(dst) {
				t.Errorf("stage %s may transition to unknown stage %s", s, dst)
			}
			if !IsLegalTransition(s, dst) {
				t.Errorf("IsLegalTransition(%s, %s) = false for a listed destination", s, dst)
			}
		}
	}
}

func TestNoTransitionOutOfTerminalStages(t *testing.T) {
	terminals := []Stage{StageClosed, StageDeclined, StagePassed, StageIOIDeclined, StageWithdrawn, StageTerminated}
	for _, from := range terminals {
		for _, to := range AllStages {
			if IsLegalTransition(from, to) {
				t.Errorf("IsLegalTransition(%s, %s) = true, terminal stages must have no exits", from, to)
			}
		}
	}
}

func TestIsLegalTransition(t *testing.T) {
	tests := []struct {
		from Stage
		to   Stage
		want bool
	}{
		{StageIdentified, StageApproved, true},
		{StageIdentified, StageNDAExecuted, false},
		{StageApproved, StageTeaserSent, true},
		{StageTeaserSent, StagePassed, true},
		{StageNDASent, StageNDAExecuted, true},
		{StageNDAExecuted, StageNDASent, false},
		{StageIOIReceived, StageIOIDeclined, true},
		{StageLOIBackup, StageLOISelected, true},
		{StageClosing, StageClosed, true},
		{StageClosing, StageIdentified, false},
		{Stage("bogus"), StageIdentified, false},
		{StageIdentified, Stage("bogus"), false},
	}
	for _, tc := range tests {
		if got := IsLegalTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("IsLegalTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestClassificationPartitionsStages(t *testing.T) {
	for _, s := range AllStages {
		buckets := 0
		if IsActive(s) {
			buckets++
		}
		if IsTerminated(s) {
			buckets++
		}
		if IsCompleted(s) {
			buckets++
		}
		if buckets != 1 {
			t.Errorf("stage %s is in %d classification buckets, want exactly 1", s, buckets)
		}
	}
}

func TestIsTerminalMatchesClassification(t *testing.T) {
	for _, s := range AllStages {
		want := IsTerminated(s) || IsCompleted(s)
		if got := IsTerminal(s); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestEveryTransientStageCanReachATerminalStage(t *testing.T) {
	// BFS over the legality graph from each stage.
	for _, start := range AllStages {
		if IsTerminal(start) {
			continue
		}
		visited := map[Stage]bool{start: true}
		queue := []Stage{start}
		reached := false
		for len(queue) > 0 && !reached {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range LegalDestinations(cur) {
				if IsTerminal(next) {
					reached = true
					break
				}
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		if !reached {
			t.Errorf("stage %s cannot reach any terminal stage", start)
		}
	}
}

func TestMilestoneSetsAreOrdered(t *testing.T) {
	// Each of the first three milestones is a superset of the next for
	// progression stages; the funnel only narrows.
	for _, s := range AllStages {
		if InMilestone(MilestoneInterested, s) && !InMilestone(MilestoneTeaserSent, s) {
			t.Errorf("stage %s reaches interested but not teaser_sent", s)
		}
		if InMilestone(MilestoneNDAExecuted, s) && !InMilestone(MilestoneInterested, s) {
			t.Errorf("stage %s reaches nda_executed but not interested", s)
		}
	}
}

func TestMilestoneMembership(t *testing.T) {
	tests := []struct {
		milestone Milestone
		stage     Stage
		want      bool
	}{
		{MilestoneTeaserSent, StageTeaserSent, true},
		{MilestoneTeaserSent, StageIdentified, false},
		{MilestoneTeaserSent, StageClosed, true},
		{MilestoneInterested, StageTeaserSent, false},
		{MilestoneInterested, StageInterested, true},
		{MilestoneNDAExecuted, StageNDASent, false},
		{MilestoneNDAExecuted, StageNDAExecuted, true},
		{MilestoneIOI, StageIOIReceived, true},
		{MilestoneIOI, StageIOIRequested, false},
		{MilestoneIOI, StageIOIDeclined, false},
		{MilestoneLOI, StageLOIBackup, true},
		{MilestoneLOI, StageLOIRequested, false},
		{MilestoneLOI, StageWithdrawn, false},
	}
	for _, tc := range tests {
		if got := InMilestone(tc.milestone, tc.stage); got != tc.want {
			t.Errorf("InMilestone(%s, %s) = %v, want %v", tc.milestone, tc.stage, got, tc.want)
		}
	}
}

func TestFunnelMilestonesAreNonEmpty(t *testing.T) {
	for _, m := range FunnelMilestones {
		found := false
		for _, s := range AllStages {
			if InMilestone(m, s) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("milestone %s has an empty stage set", m)
		}
	}
}

func TestInitialStageIsActiveAndKnown(t *testing.T) {
	if !IsKnownStage(StageInitial) {
		t.Fatal("initial stage is not a known stage")
	}
	if !IsActive(StageInitial) {
		t.Fatal("initial stage must be active")
	}
}
