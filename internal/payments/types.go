package payments

// AuthorizationRequest is the wire payload posted to the card gateway.
// CardNumber carries digits only; Amount is in currency units.
type AuthorizationRequest struct {
	CardNumber  string  `json:"cardNumber"`
	CVV         string  `json:"cvv"`
	Amount      float64 `json:"amount"`
	MCCCode     string  `json:"mccCode"`
	ExpiryMonth string  `json:"expiryMonth"`
	ExpiryYear  string  `json:"expiryYear"`
}

// StatusApproved is the one status value treated as a successful charge.
// Anything else in the status field is a decline.
const StatusApproved = "APPROVED"

type AuthorizationResponse struct {
	Status          string `json:"status"`
	ResponseMessage string `json:"responseMessage"`
}

func (r AuthorizationResponse) Approved() bool {
	return r.Status == StatusApproved
}

// Reason is the decline text shown to the user: the gateway message when
// present, otherwise the raw status.
func (r AuthorizationResponse) Reason() string {
	if r.ResponseMessage != "" {
		return r.ResponseMessage
	}
	return r.Status
}
