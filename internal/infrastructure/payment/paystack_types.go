package payment

// paystackInitializeRequest is the body for POST /transaction/initialize
type paystackInitializeRequest struct {
	Reference   string            `json:"reference"`
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency,omitempty"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// paystackInitializeResponse is the response from initializing a transaction
type paystackInitializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// paystackTransactionData is the transaction object in verify responses
// and webhook payloads
type paystackTransactionData struct {
	Reference       string `json:"reference"`
	Status          string `json:"status"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Channel         string `json:"channel"`
	GatewayResponse string `json:"gateway_response"`
	PaidAt          string `json:"paid_at"`
}

// paystackVerifyResponse is the response from GET /transaction/verify/:ref
type paystackVerifyResponse struct {
	Status  bool                    `json:"status"`
	Message string                  `json:"message"`
	Data    paystackTransactionData `json:"data"`
}

// paystackWebhookPayload is the body Paystack posts to the webhook URL
type paystackWebhookPayload struct {
	Event string                  `json:"event"`
	Data  paystackTransactionData `json:"data"`
}

// paystackErrorResponse is an error body from the Paystack API
type paystackErrorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}
