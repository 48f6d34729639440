package checkout

import (
	"slices"

	"github.com/bsv-blockchain/go-samplepay/pkg/intent"
	"github.com/bsv-blockchain/go-samplepay/pkg/model"
)

// View is the read model of a checkout session, as rendered to the payer.
type View struct {
	ID                        string                 `json:"id"`
	State                     State                  `json:"state"`
	CallingPackage            string                 `json:"callingPackage"`
	MerchantName              string                 `json:"merchantName"`
	MerchantOrigin            string                 `json:"merchantOrigin"`
	Total                     *model.PaymentAmount   `json:"total,omitempty"`
	PaymentOptions            model.PaymentOptions   `json:"paymentOptions"`
	ShippingOptions           []model.ShippingOption `json:"shippingOptions,omitempty"`
	SelectedShippingOptionID  string                 `json:"selectedShippingOptionId,omitempty"`
	ShippingAddresses         []model.PaymentAddress `json:"shippingAddresses,omitempty"`
	SelectedShippingAddressID string                 `json:"selectedShippingAddressId,omitempty"`
	PromotionCode             string                 `json:"promotionCode,omitempty"`
	ErrorText                 string                 `json:"errorText,omitempty"`
	PromotionCodeErrorText    string                 `json:"promotionCodeErrorText,omitempty"`
	PayEnabled                bool                   `json:"payEnabled"`
	UpdatePending             bool                   `json:"updatePending"`
	UpdateServiceConnected    bool                   `json:"updateServiceConnected"`
	Failure                   string                 `json:"failure,omitempty"`
	Result                    *intent.Result         `json:"result,omitempty"`
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, connected := s.responder.BoundIdentity()
	view := View{
		ID:                        s.id,
		State:                     s.state,
		CallingPackage:            s.caller.Identity.PackageName,
		MerchantName:              s.params.MerchantName,
		MerchantOrigin:            s.params.TopLevelOrigin,
		Total:                     s.total,
		PaymentOptions:            s.params.PaymentOptions,
		ShippingOptions:           slices.Clone(s.shippingOptions),
		SelectedShippingOptionID:  s.selectedShippingOption,
		SelectedShippingAddressID: s.selectedAddress,
		PromotionCode:             s.promotionCode,
		ErrorText:                 s.errorTextLocked(),
		PromotionCodeErrorText:    s.promotionCodeErrorText,
		PayEnabled:                s.state == StateStarted && s.caller.Authorized && s.pendingUpdates == 0,
		UpdatePending:             s.pendingUpdates > 0,
		UpdateServiceConnected:    connected,
		Result:                    s.result,
	}
	if s.params.PaymentOptions.RequestShipping {
		view.ShippingAddresses = slices.Clone(s.addresses)
	}
	if s.failure != nil {
		view.Failure = s.failure.Error()
	}
	return view
}

// the authorization error stays visible whatever the browser pushes
func (s *Session) errorTextLocked() string {
	switch {
	case s.caller.Authorized:
		return s.errorText
	case s.errorText == "":
		return ErrCallerNotAuthorized.Error()
	default:
		return ErrCallerNotAuthorized.Error() + "\n" + s.errorText
	}
}
