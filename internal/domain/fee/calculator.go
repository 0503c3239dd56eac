// Package fee computes the amount due for a submission from its kind and
// fee-relevant options. Amounts are in centavos. Compute is pure: the same
// input always yields the same amount, and no amount for a well-formed
// input is ever non-positive.
package fee

import (
	"errors"
	"fmt"

	"github.com/jcabrera/civil-registry/internal/domain/entity"
)

// ErrInvalidOption is returned when a required option is missing or not one
// of the accepted values for the submission kind
var ErrInvalidOption = errors.New("invalid fee option")

// Fee schedule in centavos, per the municipal ordinance table.
const (
	deathRegistrationRegular = 5_000   // P50.00
	deathRegistrationDelayed = 15_000  // P150.00, added document burden
	burialPermitBase         = 10_000  // P100.00
	nicheSurchargeChild      = 50_000  // P500.00
	nicheSurchargeAdult      = 150_000 // P1,500.00
	cremationPermitFee       = 20_000  // P200.00
	exhumationPermitFee      = 25_000  // P250.00
	certificateFirstCopy     = 5_000   // P50.00
	certificateExtraCopy     = 5_000   // P50.00 per additional copy
)

// Compute returns the fee in centavos for the given kind and options
func Compute(kind entity.Kind, opts entity.Options) (int64, error) {
	switch kind {
	case entity.KindDeathRegistration:
		return deathRegistrationFee(opts)
	case entity.KindBurialPermit:
		return burialPermitFee(opts)
	case entity.KindCremationPermit:
		return cremationPermitFee, nil
	case entity.KindExhumationPermit:
		return exhumationPermitFee, nil
	case entity.KindCertificateRequest:
		return certificateRequestFee(opts)
	default:
		return 0, fmt.Errorf("%w: unknown submission kind %q", ErrInvalidOption, kind)
	}
}

func deathRegistrationFee(opts entity.Options) (int64, error) {
	switch opts.RegistrationType {
	case entity.RegistrationRegular:
		return deathRegistrationRegular, nil
	case entity.RegistrationDelayed:
		return deathRegistrationDelayed, nil
	default:
		return 0, fmt.Errorf("%w: registration type %q", ErrInvalidOption, opts.RegistrationType)
	}
}

func burialPermitFee(opts entity.Options) (int64, error) {
	switch opts.BurialType {
	case entity.BurialGround:
		return burialPermitBase, nil
	case entity.BurialNiche:
		switch opts.NicheType {
		case entity.NicheChild:
			return burialPermitBase + nicheSurchargeChild, nil
		case entity.NicheAdult:
			return burialPermitBase + nicheSurchargeAdult, nil
		default:
			return 0, fmt.Errorf("%w: niche type %q", ErrInvalidOption, opts.NicheType)
		}
	default:
		return 0, fmt.Errorf("%w: burial type %q", ErrInvalidOption, opts.BurialType)
	}
}

func certificateRequestFee(opts entity.Options) (int64, error) {
	if opts.NumberOfCopies < 1 {
		return 0, fmt.Errorf("%w: number of copies must be at least 1, got %d", ErrInvalidOption, opts.NumberOfCopies)
	}
	return certificateFirstCopy + certificateExtraCopy*int64(opts.NumberOfCopies-1), nil
}
