package bitcoin

import (
	"github.com/btcsuite/btcd/txscript"

	"github.com/onionoriginals/sdk-go/pkg/errs"
)

// RequireTaproot rejects any output script that is not a witness v1
// (Taproot) pay-to-taproot script. Inscriptions and did:btco anchors MUST
// live on Taproot outputs (§4.13): earlier witness versions don't carry the
// annex/script-path structure ordinal envelopes depend on.
func RequireTaproot(pkScript []byte) error {
	class := txscript.GetScriptClass(pkScript)
	if class != txscript.WitnessV1TaprootTy {
		return errs.New(errs.KindValidationFailed, "output script class "+class.String()+" is not taproot").
			WithDetail("cause", ErrNotTaproot.Error())
	}
	return nil
}
