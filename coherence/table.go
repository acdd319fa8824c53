package coherence

// SnoopOutcome is the result of applying a BusOp to one snooper's line,
// independent of whether that snooper ends up supplying the data (that is
// decided by the priority arbitration in the bus package).
type SnoopOutcome struct {
	NextState State
	Supplies  bool
}

// snoopTable maps (BusOp, snooper's current state) to its outcome. It is
// the literal form of the per-op snoop-transition table in the
// specification: a table mapping (BusOp, current snooper state) to
// (new snooper state, supplies_data?).
//
// Invalid snoopers never match an address, so they have no entry: the
// bus only consults this table for lines where Tag == address and
// State != Invalid.
var snoopTable = map[BusOp]map[State]SnoopOutcome{
	BusRd: {
		Modified:  {NextState: Owned, Supplies: true},
		Owned:     {NextState: Owned, Supplies: true},
		Exclusive: {NextState: Shared, Supplies: true},
		Shared:    {NextState: Shared, Supplies: false},
	},
	BusRdX: {
		Modified:  {NextState: Invalid, Supplies: true},
		Owned:     {NextState: Invalid, Supplies: true},
		Exclusive: {NextState: Invalid, Supplies: true},
		Shared:    {NextState: Invalid, Supplies: false},
	},
	BusUpgr: {
		// A matching Modified snooper here would violate I-1 for any
		// well-formed initiator (BusUpgr is only issued by a core that
		// already holds the line in Shared or Owned). Callers must
		// treat this entry as unreachable and assert if it is hit.
		Modified:  {NextState: Invalid, Supplies: false},
		Owned:     {NextState: Invalid, Supplies: false},
		Exclusive: {NextState: Invalid, Supplies: false},
		Shared:    {NextState: Invalid, Supplies: false},
	},
}

// Snoop looks up the outcome of applying op to a snooper currently in
// state. ok is false for Invalid (no matching snooper) or for BusWB
// (which never touches a snooper).
func Snoop(op BusOp, state State) (SnoopOutcome, bool) {
	byState, ok := snoopTable[op]
	if !ok {
		return SnoopOutcome{}, false
	}
	outcome, ok := byState[state]
	return outcome, ok
}
