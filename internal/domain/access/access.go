package access

// Membership is the transport's answer to "is this user in the channel".
// Unknown means the check itself failed.
type Membership int

const (
	MembershipUnknown Membership = iota
	Member
	NotMember
)

func (m Membership) String() string {
	switch m {
	case Member:
		return "member"
	case NotMember:
		return "not_member"
	default:
		return "unknown"
	}
}

type Outcome string

const (
	Allowed              Outcome = "allowed"
	RequiresSubscription Outcome = "requires_subscription"
	RequiresPremium      Outcome = "requires_premium"
)

// Variant selects the flavour of an allowed response.
type Variant string

const (
	VariantStandard Variant = "standard"
	VariantPremium  Variant = "premium"
)

type Operation string

const (
	OpLinkRetrieval Operation = "link"
	OpUpload        Operation = "upload"
)

type (
	Policy struct {
		RequireSubscription bool
		RequirePremium      bool
		// PremiumBypass lets an entitled user skip the subscription check.
		PremiumBypass bool
	}
	Policies map[Operation]Policy

	Decision struct {
		Outcome Outcome
		Variant Variant
		// FailOpen is set when an Unknown membership was treated as Member.
		FailOpen bool
	}
)

// For returns the policy for op; unknown operations get the baseline
// subscription-only policy.
func (p Policies) For(op Operation) Policy {
	if pol, ok := p[op]; ok {
		return pol
	}
	return Policy{RequireSubscription: true}
}
