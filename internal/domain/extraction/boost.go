package extraction

// labelBoost is added to the next numeric line after a bare label line such as
// "Số tiền:" whose value OCR split onto the following line.
const labelBoost = 15

// BoostState is the lookahead carried between lines of a bank advice.
type BoostState int

const (
	Idle BoostState = iota
	PendingBoost
)

func (s BoostState) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingBoost:
		return "pending_boost"
	default:
		return "unknown"
	}
}

// lineBoost is a two-state machine: Idle, or PendingBoost holding the amount to add to
// the next scored line.
type lineBoost struct {
	state  BoostState
	amount int
}

// arm moves to PendingBoost. Arming again while pending keeps a single boost.
func (b *lineBoost) arm(amount int) {
	b.state = PendingBoost
	b.amount = amount
}

// reset drops any pending boost.
func (b *lineBoost) reset() {
	b.state = Idle
	b.amount = 0
}

// take returns the pending boost, if any, and moves back to Idle.
func (b *lineBoost) take() int {
	if b.state != PendingBoost {
		return 0
	}
	n := b.amount
	b.reset()
	return n
}

func (b *lineBoost) State() BoostState {
	return b.state
}
