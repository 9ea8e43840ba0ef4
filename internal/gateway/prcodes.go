package gateway

// PRCodeSuccess is the primary result code of a successful payment.
const PRCodeSuccess = "0"

// knownErrorPRCodes are the gateway-level failures GP webpay documents.
// Any other non-zero PRCODE is reported as an unrecognized failure rather
// than causing a crash.
var knownErrorPRCodes = map[string]string{
	"11":   "Unknown merchant",
	"14":   "Duplicate order number",
	"15":   "Object not found",
	"17":   "Amount to deposit exceeds approved amount",
	"18":   "Total sum of credited amounts exceeded deposited amount",
	"25":   "Operation not allowed for user",
	"26":   "Technical problem in connection to authorization centre",
	"28":   "Declined in 3D",
	"30":   "Declined in AC",
	"35":   "Session expired",
	"50":   "The cardholder cancelled the payment",
	"1000": "Technical problem",
}

// PRCodeCategory returns the human-readable category of a known gateway
// error code. Unknown codes return ok=false.
func PRCodeCategory(prcode string) (string, bool) {
	category, ok := knownErrorPRCodes[prcode]
	return category, ok
}
