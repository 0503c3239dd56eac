package entity

// Kind identifies the submission type. All kinds share the same lifecycle;
// kind-specific behavior is confined to fee computation and subject data.
type Kind string

const (
	KindDeathRegistration  Kind = "DEATH_REGISTRATION"
	KindBurialPermit       Kind = "BURIAL_PERMIT"
	KindCremationPermit    Kind = "CREMATION_PERMIT"
	KindExhumationPermit   Kind = "EXHUMATION_PERMIT"
	KindCertificateRequest Kind = "CERTIFICATE_REQUEST"
)

var validKinds = map[Kind]bool{
	KindDeathRegistration:  true,
	KindBurialPermit:       true,
	KindCremationPermit:    true,
	KindExhumationPermit:   true,
	KindCertificateRequest: true,
}

// kindPrefixes are the short codes used in order-of-payment references.
var kindPrefixes = map[Kind]string{
	KindDeathRegistration:  "DR",
	KindBurialPermit:       "BP",
	KindCremationPermit:    "CP",
	KindExhumationPermit:   "EP",
	KindCertificateRequest: "CR",
}

// IsValid returns true if the kind is a known submission kind
func (k Kind) IsValid() bool {
	return validKinds[k]
}

// Prefix returns the two-letter code used in payment references
func (k Kind) Prefix() string {
	return kindPrefixes[k]
}

// String returns the string representation of the kind
func (k Kind) String() string {
	return string(k)
}
