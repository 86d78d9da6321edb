package connections

// RedeemOutcome classifies a redemption attempt. The auth-callback path logs
// the outcome and moves on; the interactive path maps it to a {success, error}
// result for the client.
type RedeemOutcome int

const (
	OutcomeAccepted RedeemOutcome = iota
	OutcomeCodeNotFound
	OutcomeSelfRedeem
	OutcomeAlreadyConnected
	OutcomeMissingProfile
	OutcomeStoreError
)

func (o RedeemOutcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeCodeNotFound:
		return "code_not_found"
	case OutcomeSelfRedeem:
		return "self_redeem"
	case OutcomeAlreadyConnected:
		return "already_connected"
	case OutcomeMissingProfile:
		return "missing_profile"
	case OutcomeStoreError:
		return "store_error"
	}
	return "unknown"
}

// OK reports whether the connection was accepted by this attempt.
func (o RedeemOutcome) OK() bool {
	return o == OutcomeAccepted
}

// ClientMessage is the user-facing error for the interactive redemption path.
// Empty for OutcomeAccepted.
func (o RedeemOutcome) ClientMessage() string {
	switch o {
	case OutcomeAccepted:
		return ""
	case OutcomeCodeNotFound:
		return "Invite code not found or already used"
	case OutcomeSelfRedeem:
		return "You cannot redeem your own invite"
	case OutcomeAlreadyConnected:
		return "You are already connected with this person"
	case OutcomeMissingProfile:
		return "Profile information is missing for this invite"
	default:
		return "Something went wrong redeeming the invite"
	}
}
