// Package domain provides core business rules for the buyers bounded context.
package domain

import "fmt"

// Stage is one discrete state in the deal pipeline. A buyer always has
// exactly one current stage.
type Stage string

const (
	// Identification
	StageIdentified      Stage = "identified"
	StageSellerReviewing Stage = "seller_reviewing"
	StageApproved        Stage = "approved"
	StageDeclined        Stage = "declined"

	// Marketing
	StageTeaserSent Stage = "teaser_sent"
	StageInterested Stage = "interested"
	StagePassed     Stage = "passed"

	// NDA
	StageNDASent     Stage = "nda_sent"
	StageNDAExecuted Stage = "nda_executed"

	// Diligence
	StageCIMSent      Stage = "cim_sent"
	StageDataRoomOpen Stage = "data_room_open"

	// Management
	StageMeetingScheduled Stage = "mgmt_meeting_scheduled"
	StageMeetingHeld      Stage = "mgmt_meeting_held"

	// IOI
	StageIOIRequested Stage = "ioi_requested"
	StageIOIReceived  Stage = "ioi_received"
	StageIOIAccepted  Stage = "ioi_accepted"
	StageIOIDeclined  Stage = "ioi_declined"

	// LOI
	StageLOIRequested Stage = "loi_requested"
	StageLOIReceived  Stage = "loi_received"
	StageLOISelected  Stage = "loi_selected"
	StageLOIBackup    Stage = "loi_backup"

	// Close
	StageFinalDiligence    Stage = "final_diligence"
	StagePurchaseAgreement Stage = "purchase_agreement"
	StageClosing           Stage = "closing"
	StageClosed            Stage = "closed"

	// Exit
	StageWithdrawn  Stage = "withdrawn"
	StageTerminated Stage = "terminated"
)

// StageInitial is the stage every buyer starts in.
const StageInitial = StageIdentified

// StageGroup is one of the coarse pipeline phases stages roll up into
// for dashboard-level reporting.
type StageGroup string

const (
	GroupIdentification StageGroup = "Identification"
	GroupMarketing      StageGroup = "Marketing"
	GroupNDA            StageGroup = "NDA"
	GroupDiligence      StageGroup = "Diligence"
	GroupManagement     StageGroup = "Management"
	GroupIOI            StageGroup = "IOI"
	GroupLOI            StageGroup = "LOI"
	GroupClose          StageGroup = "Close"
	GroupExit           StageGroup = "Exit"

	// GroupUnknown is returned by GroupOf for a value outside the stage
	// enumeration. It must never appear for a known stage; seeing it in
	// aggregates indicates corrupt input that should have been rejected
	// at the boundary.
	GroupUnknown StageGroup = "Unknown"
)

// AllStages lists every pipeline stage in funnel order.
var AllStages = []Stage{
	StageIdentified,
	StageSellerReviewing,
	StageApproved,
	StageDeclined,
	StageTeaserSent,
	StageInterested,
	StagePassed,
	StageNDASent,
	StageNDAExecuted,
	StageCIMSent,
	StageDataRoomOpen,
	StageMeetingScheduled,
	StageMeetingHeld,
	StageIOIRequested,
	StageIOIReceived,
	StageIOIAccepted,
	StageIOIDeclined,
	StageLOIRequested,
	StageLOIReceived,
	StageLOISelected,
	StageLOIBackup,
	StageFinalDiligence,
	StagePurchaseAgreement,
	StageClosing,
	StageClosed,
	StageWithdrawn,
	StageTerminated,
}

// AllGroups lists the coarse pipeline phases in funnel order.
var AllGroups = []StageGroup{
	GroupIdentification,
	GroupMarketing,
	GroupNDA,
	GroupDiligence,
	GroupManagement,
	GroupIOI,
	GroupLOI,
	GroupClose,
	GroupExit,
}

// groupStages maps each phase to the stages that belong to it. Every
// stage must appear in exactly one phase; init() enforces this.
var groupStages = map[StageGroup][]Stage{
	GroupIdentification: {StageIdentified, StageSellerReviewing, StageApproved, StageDeclined},
	GroupMarketing:      {StageTeaserSent, StageInterested, StagePassed},
	GroupNDA:            {StageNDASent, StageNDAExecuted},
	GroupDiligence:      {StageCIMSent, StageDataRoomOpen},
	GroupManagement:     {StageMeetingScheduled, StageMeetingHeld},
	GroupIOI:            {StageIOIRequested, StageIOIReceived, StageIOIAccepted, StageIOIDeclined},
	GroupLOI:            {StageLOIRequested, StageLOIReceived, StageLOISelected, StageLOIBackup},
	GroupClose:          {StageFinalDiligence, StagePurchaseAgreement, StageClosing, StageClosed},
	GroupExit:           {StageWithdrawn, StageTerminated},
}

// stageTransitions is the closed legality graph: each stage maps to the
// stages it may move to next. Terminal stages map to an empty list.
var stageTransitions = map[Stage][]Stage{
	StageIdentified:      {StageSellerReviewing, StageApproved, StageDeclined, StageWithdrawn},
	StageSellerReviewing: {StageApproved, StageDeclined, StageWithdrawn},
	StageApproved:        {StageTeaserSent, StageWithdrawn, StageTerminated},

	StageTeaserSent: {StageInterested, StagePassed, StageWithdrawn},
	StageInterested: {StageNDASent, StagePassed, StageWithdrawn},

	StageNDASent:     {StageNDAExecuted, StageWithdrawn, StageTerminated},
	StageNDAExecuted: {StageCIMSent, StageWithdrawn, StageTerminated},

	StageCIMSent:      {StageDataRoomOpen, StageIOIRequested, StageWithdrawn, StageTerminated},
	StageDataRoomOpen: {StageMeetingScheduled, StageIOIRequested, StageWithdrawn, StageTerminated},

	StageMeetingScheduled: {StageMeetingHeld, StageWithdrawn, StageTerminated},
	StageMeetingHeld:      {StageIOIRequested, StageWithdrawn, StageTerminated},

	StageIOIRequested: {StageIOIReceived, StageWithdrawn, StageTerminated},
	StageIOIReceived:  {StageIOIAccepted, StageIOIDeclined, StageWithdrawn, StageTerminated},
	StageIOIAccepted:  {StageLOIRequested, StageWithdrawn, StageTerminated},

	StageLOIRequested: {StageLOIReceived, StageWithdrawn, StageTerminated},
	StageLOIReceived:  {StageLOISelected, StageLOIBackup, StageWithdrawn, StageTerminated},
	StageLOISelected:  {StageFinalDiligence, StageWithdrawn, StageTerminated},
	StageLOIBackup:    {StageLOISelected, StageWithdrawn, StageTerminated},

	StageFinalDiligence:    {StagePurchaseAgreement, StageWithdrawn, StageTerminated},
	StagePurchaseAgreement: {StageClosing, StageWithdrawn, StageTerminated},
	StageClosing:           {StageClosed, StageWithdrawn, StageTerminated},

	StageClosed:      {},
	StageDeclined:    {},
	StagePassed:      {},
	StageIOIDeclined: {},
	StageWithdrawn:   {},
	StageTerminated:  {},
}

// terminatedStages are stages where the buyer exited without a deal.
var terminatedStages = map[Stage]bool{
	StageDeclined:    true,
	StagePassed:      true,
	StageIOIDeclined: true,
	StageWithdrawn:   true,
	StageTerminated:  true,
}

// derived lookups built and validated by init()
var (
	knownStages = map[Stage]bool{}
	stageGroup  = map[Stage]StageGroup{}
)

func init() {
	for _, s := range AllStages {
		knownStages[s] = true
	}

	for _, g := range AllGroups {
		for _, s := range groupStages[g] {
			if !knownStages[s] {
				panic(fmt.Sprintf("stage group %s lists unknown stage %s", g, s))
			}
			if prev, dup := stageGroup[s]; dup {
				panic(fmt.Sprintf("stage %s mapped to both %s and %s", s, prev, g))
			}
			stageGroup[s] = g
		}
	}
	if len(stageGroup) != len(AllStages) {
		panic(fmt.Sprintf("stage groups cover %d of %d stages", len(stageGroup), len(AllStages)))
	}

	for _, s := range AllStages {
		next, ok := stageTransitions[s]
		if !ok {
			panic(fmt.Sprintf("transition table missing stage %s", s))
		}
		if IsTerminal(s) && len(next) > 0 {
			panic(fmt.Sprintf("terminal stage %s has outgoing transitions", s))
		}
		if !IsTerminal(s) && len(next) == 0 {
			panic(fmt.Sprintf("transient stage %s has no outgoing transitions", s))
		}
		for _, dst := range next {
			if !knownStages[dst] {
				panic(fmt.Sprintf("stage %s transitions to unknown stage %s", s, dst))
			}
		}
	}
	if len(stageTransitions) != len(AllStages) {
		panic(fmt.Sprintf("transition table has %d entries for %d stages", len(stageTransitions), len(AllStages)))
	}
}

// IsKnownStage reports whether the value belongs to the stage enumeration.
func IsKnownStage(stage Stage) bool {
	return knownStages[stage]
}

// IsLegalTransition reports whether a buyer may move from one stage to
// another. It returns false rather than erroring so UI callers can use
// it directly for input validation.
func IsLegalTransition(from, to Stage) bool {
	for _, dst := range stageTransitions[from] {
		if dst == to {
			return true
		}
	}
	return false
}

// LegalDestinations returns the stages a buyer at the given stage may
// move to. The returned slice must not be mutated.
func LegalDestinations(stage Stage) []Stage {
	return stageTransitions[stage]
}

// GroupOf returns the phase containing the stage, or GroupUnknown for a
// value outside the enumeration.
func GroupOf(stage Stage) StageGroup {
	if g, ok := stageGroup[stage]; ok {
		return g
	}
	return GroupUnknown
}

// StagesOf returns the stages belonging to a phase in funnel order.
func StagesOf(group StageGroup) []Stage {
	return groupStages[group]
}

// IsTerminal reports whether the buyer's journey has ended, successfully
// or not. Terminal stages have no legal outgoing transition.
func IsTerminal(stage Stage) bool {
	return stage == StageClosed || terminatedStages[stage]
}

// IsTerminated reports whether the buyer exited the process without a deal.
func IsTerminated(stage Stage) bool {
	return terminatedStages[stage]
}

// IsCompleted reports whether the buyer closed the transaction.
func IsCompleted(stage Stage) bool {
	return stage == StageClosed
}

// IsActive reports whether the buyer is still in-flight. Every known
// stage is exactly one of active, terminated, or completed.
func IsActive(stage Stage) bool {
	return knownStages[stage] && !terminatedStages[stage] && stage != StageClosed
}
