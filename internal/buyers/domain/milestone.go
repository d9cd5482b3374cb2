package domain

// Milestone is a named funnel checkpoint defined as a union of stages.
// A buyer has "ever reached" a milestone when its current stage, or any
// destination stage in its history, belongs to the milestone's set. A
// buyer who executed an NDA and later withdrew still counts toward the
// NDA milestone.
type Milestone string

const (
	MilestoneTeaserSent  Milestone = "teaser_sent"
	MilestoneInterested  Milestone = "interested"
	MilestoneNDAExecuted Milestone = "nda_executed"
	MilestoneIOI         Milestone = "ioi"
	MilestoneLOI         Milestone = "loi"
)

// FunnelMilestones lists the milestones in funnel order. Conversion
// rates are computed between adjacent entries.
var FunnelMilestones = []Milestone{
	MilestoneTeaserSent,
	MilestoneInterested,
	MilestoneNDAExecuted,
	MilestoneIOI,
	MilestoneLOI,
}

// progression stages from "interested" onward, shared by the first
// three milestone sets.
var interestedOrLater = []Stage{
	StageInterested,
	StageNDASent,
	StageNDAExecuted,
	StageCIMSent,
	StageDataRoomOpen,
	StageMeetingScheduled,
	StageMeetingHeld,
	StageIOIRequested,
	StageIOIReceived,
	StageIOIAccepted,
	StageLOIRequested,
	StageLOIReceived,
	StageLOISelected,
	StageLOIBackup,
	StageFinalDiligence,
	StagePurchaseAgreement,
	StageClosing,
	StageClosed,
}

var ndaExecutedOrLater = []Stage{
	StageNDAExecuted,
	StageCIMSent,
	StageDataRoomOpen,
	StageMeetingScheduled,
	StageMeetingHeld,
	StageIOIRequested,
	StageIOIReceived,
	StageIOIAccepted,
	StageLOIRequested,
	StageLOIReceived,
	StageLOISelected,
	StageLOIBackup,
	StageFinalDiligence,
	StagePurchaseAgreement,
	StageClosing,
	StageClosed,
}

var milestoneStages = map[Milestone]map[Stage]bool{
	MilestoneTeaserSent:  stageSet(append([]Stage{StageTeaserSent}, interestedOrLater...)),
	MilestoneInterested:  stageSet(interestedOrLater),
	MilestoneNDAExecuted: stageSet(ndaExecutedOrLater),
	MilestoneIOI:         stageSet([]Stage{StageIOIReceived, StageIOIAccepted}),
	MilestoneLOI:         stageSet([]Stage{StageLOIReceived, StageLOISelected, StageLOIBackup}),
}

func stageSet(stages []Stage) map[Stage]bool {
	set := make(map[Stage]bool, len(stages))
	for _, s := range stages {
		set[s] = true
	}
	return set
}

// InMilestone reports whether a single stage belongs to the milestone's
// stage set.
func InMilestone(milestone Milestone, stage Stage) bool {
	return milestoneStages[milestone][stage]
}
